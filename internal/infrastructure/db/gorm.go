package db

import (
	"fmt"
	"log"
	"time"

	"loanpro-backend/internal/domain/customer"
	"loanpro-backend/internal/domain/payment"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dialector picks the gorm driver for a DB_DRIVER value.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported db driver %q", driver)
}

// LogLevel keeps SQL logging verbose in dev and quiet elsewhere.
func LogLevel(env string) logger.LogLevel {
	switch env {
	case "dev", "development", "local":
		return logger.Info
	case "test":
		return logger.Silent
	}
	return logger.Warn
}

func OpenGorm(driver, dsn, env string) (*gorm.DB, error) {
	dial, err := Dialector(driver, dsn)
	if err != nil {
		return nil, err
	}
	return OpenGormWithDialector(dial, LogLevel(env))
}

func OpenGormWithDialector(dial gorm.Dialector, level ...logger.LogLevel) (*gorm.DB, error) {
	lvl := logger.Warn
	if len(level) > 0 {
		lvl = level[0]
	}
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(lvl),
		TranslateError: true,
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	log.Printf("gorm: connected (%s)", dial.Name())
	return db, nil
}

// Migrate creates or updates the loan tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&customer.Customer{}, &payment.Payment{})
}

// Ping is used by the health endpoint.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
