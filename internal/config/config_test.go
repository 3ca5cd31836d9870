package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "DB_DRIVER", "REDIS_DB", "IDEMPOTENCY_TTL_SECONDS", "ANALYTICS_CACHE_TTL_SECONDS", "TIMEZONE"} {
		t.Setenv(k, "")
	}
	c := Load()

	if c.AppPort != "8080" || c.DBDriver != DriverMySQL {
		t.Fatalf("port=%q driver=%q", c.AppPort, c.DBDriver)
	}
	if c.IdempotencyTTL() != 5*time.Minute || c.AnalyticsTTL() != time.Minute {
		t.Fatalf("ttls=%v/%v", c.IdempotencyTTL(), c.AnalyticsTTL())
	}
	if c.Location() != time.UTC {
		t.Fatalf("loc=%v", c.Location())
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "host=db dbname=x")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("IDEMPOTENCY_TTL_SECONDS", "60")
	t.Setenv("ANALYTICS_CACHE_TTL_SECONDS", "not-a-number")
	t.Setenv("TIMEZONE", "Asia/Kolkata")

	c := Load()
	if c.AppPort != "9090" || c.RedisDB != 3 || c.IdempTTLSecs != 60 {
		t.Fatalf("cfg=%+v", c)
	}
	if c.AnalyticsTTLSecs != 60 {
		t.Fatalf("bad int should keep default, got %d", c.AnalyticsTTLSecs)
	}
	if c.DSN() != "host=db dbname=x" {
		t.Fatalf("dsn=%q", c.DSN())
	}
	if c.Location().String() != "Asia/Kolkata" {
		t.Fatalf("loc=%v", c.Location())
	}
}

func TestMySQLDSN(t *testing.T) {
	c := &Config{MySQLHost: "db", MySQLPort: "3307", MySQLDB: "loans", MySQLUser: "u", MySQLPass: "p", DBDriver: DriverMySQL}
	got := c.DSN()
	if !strings.HasPrefix(got, "u:p@tcp(db:3307)/loans?") || !strings.Contains(got, "parseTime=true") {
		t.Fatalf("dsn=%q", got)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			AppPort: "8080", DBDriver: DriverMySQL,
			MySQLHost: "h", MySQLPort: "3306", MySQLDB: "d", MySQLUser: "u",
			SQLitePath: "x.db", PostgresDSN: "dsn",
			IdempTTLSecs: 300, Timezone: "UTC",
		}
	}
	cases := []struct {
		name    string
		mut     func(*Config)
		wantErr string
	}{
		{"ok mysql", func(c *Config) {}, ""},
		{"ok sqlite", func(c *Config) { c.DBDriver = DriverSQLite }, ""},
		{"ok postgres", func(c *Config) { c.DBDriver = DriverPostgres }, ""},
		{"missing port", func(c *Config) { c.AppPort = "" }, "APP_PORT"},
		{"unknown driver", func(c *Config) { c.DBDriver = "oracle" }, "DB_DRIVER"},
		{"missing mysql host", func(c *Config) { c.MySQLHost = "" }, "MySQL"},
		{"bad mysql port", func(c *Config) { c.MySQLPort = "not-a-port" }, "MYSQL_PORT"},
		{"missing postgres dsn", func(c *Config) { c.DBDriver = DriverPostgres; c.PostgresDSN = "" }, "POSTGRES_DSN"},
		{"missing sqlite path", func(c *Config) { c.DBDriver = DriverSQLite; c.SQLitePath = "" }, "SQLITE_PATH"},
		{"zero idempotency ttl", func(c *Config) { c.IdempTTLSecs = 0 }, "IDEMPOTENCY_TTL_SECONDS"},
		{"negative analytics ttl", func(c *Config) { c.AnalyticsTTLSecs = -1 }, "ANALYTICS_CACHE_TTL_SECONDS"},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "TIMEZONE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base()
			tc.mut(c)
			err := c.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected err: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("err=%v, want mention of %s", err, tc.wantErr)
			}
		})
	}
}
