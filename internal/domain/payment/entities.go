package payment

import (
	"errors"
	"time"

	"loanpro-backend/pkg/date"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("payment not found")
)

// Payment is one installment recorded against a customer's loan.
// Rows are append-only; the numeric ID preserves insertion order.
type Payment struct {
	ID         uint64              `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	PaymentID  string              `gorm:"column:payment_id;size:32;uniqueIndex:ux_payments_payment_id" json:"payment_id"`
	CustomerID uint64              `gorm:"column:customer_id;not null;index:idx_payments_customer_date" json:"-"`
	Date       date.Date           `gorm:"column:date;type:date;not null;index:idx_payments_customer_date" json:"date"`
	Amount     decimal.Decimal     `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Principal  decimal.NullDecimal `gorm:"column:principal;type:decimal(18,2)" json:"principal"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Payment) TableName() string { return "payments" }

// PrincipalOrAmount is the principal portion, falling back to the full amount.
func (p Payment) PrincipalOrAmount() decimal.Decimal {
	if p.Principal.Valid {
		return p.Principal.Decimal
	}
	return p.Amount
}

// Interest is amount minus principal. It can be zero or negative.
func (p Payment) Interest() decimal.Decimal {
	return p.Amount.Sub(p.PrincipalOrAmount())
}
