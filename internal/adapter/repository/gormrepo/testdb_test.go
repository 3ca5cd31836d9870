package gormrepo

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"loanpro-backend/internal/domain/customer"
	"loanpro-backend/internal/domain/payment"
	"loanpro-backend/pkg/date"
	"loanpro-backend/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB creates a private in-memory sqlite DB per test. A named shared-cache
// DSN keeps every pooled connection on the same database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&customer.Customer{}, &payment.Payment{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func makeCustomer(name, phone string) *customer.Customer {
	return &customer.Customer{
		CustomerID:      id.NewID32(),
		Name:            name,
		Phone:           phone,
		Address:         "12 Market Road",
		LoanStartDate:   date.MustParse("2025-06-01"),
		TotalLoanAmount: decimal.NewFromInt(10000),
		DailyPayment:    decimal.NewFromInt(100),
		Status:          customer.StatusActive,
	}
}

func makePayment(customerNumericID uint64, d string, amount int64) *payment.Payment {
	return &payment.Payment{
		PaymentID:  id.NewID32(),
		CustomerID: customerNumericID,
		Date:       date.MustParse(d),
		Amount:     decimal.NewFromInt(amount),
		CreatedAt:  time.Now().UTC(),
	}
}
