package paymentmock

import (
	"context"

	domain "loanpro-backend/internal/domain/payment"
	"loanpro-backend/pkg/date"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn           func(ctx context.Context, p *domain.Payment) error
	ListByCustomerIDFn func(ctx context.Context, customerNumericID uint64) ([]domain.Payment, error)
	DeleteByDateFn     func(ctx context.Context, customerNumericID uint64, d date.Date) (int64, error)
}

func (m *Repo) Create(ctx context.Context, p *domain.Payment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) ListByCustomerID(ctx context.Context, customerNumericID uint64) ([]domain.Payment, error) {
	if m.ListByCustomerIDFn != nil {
		return m.ListByCustomerIDFn(ctx, customerNumericID)
	}
	return nil, context.Canceled
}

func (m *Repo) DeleteByDate(ctx context.Context, customerNumericID uint64, d date.Date) (int64, error) {
	if m.DeleteByDateFn != nil {
		return m.DeleteByDateFn(ctx, customerNumericID, d)
	}
	return 0, context.Canceled
}
