package customermock

import (
	"context"

	domain "loanpro-backend/internal/domain/customer"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups return context.Canceled; unset writes are no-ops.
type Repo struct {
	CreateFn                   func(ctx context.Context, c *domain.Customer) error
	SaveFn                     func(ctx context.Context, c *domain.Customer) error
	DeleteFn                   func(ctx context.Context, c *domain.Customer) error
	GetByCustomerIDFn          func(ctx context.Context, customerID string) (*domain.Customer, error)
	GetByCustomerIDForUpdateFn func(ctx context.Context, customerID string) (*domain.Customer, error)
	GetByPhoneFn               func(ctx context.Context, phone string) (*domain.Customer, error)
	ListFn                     func(ctx context.Context) ([]domain.Customer, error)
	MarkDeactivatedFn          func(ctx context.Context, ids ...uint64) error
}

func (m *Repo) Create(ctx context.Context, c *domain.Customer) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, c *domain.Customer) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, c)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, c *domain.Customer) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, c)
	}
	return nil
}

func (m *Repo) GetByCustomerID(ctx context.Context, customerID string) (*domain.Customer, error) {
	if m.GetByCustomerIDFn != nil {
		return m.GetByCustomerIDFn(ctx, customerID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByCustomerIDForUpdate(ctx context.Context, customerID string) (*domain.Customer, error) {
	if m.GetByCustomerIDForUpdateFn != nil {
		return m.GetByCustomerIDForUpdateFn(ctx, customerID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	if m.GetByPhoneFn != nil {
		return m.GetByPhoneFn(ctx, phone)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context) ([]domain.Customer, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) MarkDeactivated(ctx context.Context, ids ...uint64) error {
	if m.MarkDeactivatedFn != nil {
		return m.MarkDeactivatedFn(ctx, ids...)
	}
	return nil
}
