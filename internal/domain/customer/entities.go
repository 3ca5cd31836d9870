package customer

import (
	"errors"
	"time"

	"loanpro-backend/internal/domain/payment"
	"loanpro-backend/pkg/date"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = errors.New("customer not found")
	ErrPhoneTaken       = errors.New("phone number already exists")
	ErrLoanNotCompleted = errors.New("loan is not completed")
)

// Status is a denormalized hint kept for filtering. It is written forward only
// (active -> deactivated) and never consulted to decide a loan's state.
type Status string

const (
	StatusActive      Status = "active"
	StatusDeactivated Status = "deactivated"
)

const (
	defaultDailyRate     = "0.01"
	fallbackDailyPayment = 100
)

type Customer struct {
	ID              uint64            `gorm:"primaryKey;column:id" json:"-"`
	CustomerID      string            `gorm:"size:32;uniqueIndex:ux_customers_customer_id" json:"customer_id"`
	Name            string            `gorm:"size:128;not null" json:"name"`
	Phone           string            `gorm:"size:32;not null;uniqueIndex:ux_customers_phone" json:"phone"`
	Address         string            `gorm:"type:text;not null" json:"address"`
	ProfilePicture  string            `gorm:"type:text" json:"profile_picture"`
	LoanStartDate   date.Date         `gorm:"column:loan_start_date;type:date;not null" json:"loan_start_date"`
	TotalLoanAmount decimal.Decimal   `gorm:"type:decimal(18,2);not null" json:"total_loan_amount"`
	DailyPayment    decimal.Decimal   `gorm:"type:decimal(18,2);not null" json:"daily_payment"`
	Status          Status            `gorm:"size:16;not null;default:'active';index:idx_customers_status" json:"status"`
	Payments        []payment.Payment `gorm:"foreignKey:CustomerID;references:ID;constraint:OnDelete:CASCADE" json:"payments"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

// DefaultDailyPayment is 1% of the principal rounded to a whole unit, or 100
// when that rounds to zero.
func DefaultDailyPayment(total decimal.Decimal) decimal.Decimal {
	d := total.Mul(decimal.RequireFromString(defaultDailyRate)).Round(0)
	if d.IsZero() {
		return decimal.NewFromInt(fallbackDailyPayment)
	}
	return d
}

// EffectiveDailyPayment returns the stored installment or the computed default.
func (c Customer) EffectiveDailyPayment() decimal.Decimal {
	if c.DailyPayment.IsPositive() {
		return c.DailyPayment
	}
	return DefaultDailyPayment(c.TotalLoanAmount)
}
