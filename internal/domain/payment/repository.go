package payment

import (
	"context"

	"loanpro-backend/pkg/date"
)

type Repository interface {
	// Append a payment to a customer's ledger
	Create(ctx context.Context, p *Payment) error

	// All payments of one customer in insertion order
	ListByCustomerID(ctx context.Context, customerNumericID uint64) ([]Payment, error)

	// Remove every entry on the given date; returns how many rows went away
	DeleteByDate(ctx context.Context, customerNumericID uint64, d date.Date) (int64, error)
}
