package uowmock

import (
	"context"
	"errors"

	"loanpro-backend/internal/domain/customer"
	"loanpro-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn         func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinCustomerTxFn func(ctx context.Context, customerID string, fn func(r uow.Repos, c *customer.Customer) error) error
}

// Convenience fluent setters
func New() *UoW { return &UoW{} }
func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinCustomerTx(fn func(context.Context, string, func(uow.Repos, *customer.Customer) error) error) *UoW {
	m.WithinCustomerTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

// Passthrough runs bodies directly against repos, resolving the locked
// customer through repos.Customers like the gorm implementation does.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(r uow.Repos) error) error {
			return fn(repos)
		},
		WithinCustomerTxFn: func(ctx context.Context, customerID string, fn func(r uow.Repos, c *customer.Customer) error) error {
			c, err := repos.Customers.GetByCustomerIDForUpdate(ctx, customerID)
			if err != nil {
				return err
			}
			return fn(repos, c)
		},
	}
}

// Methods implementing UnitOfWork
func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinCustomerTx(ctx context.Context, customerID string, fn func(r uow.Repos, c *customer.Customer) error) error {
	if m.WithinCustomerTxFn != nil {
		return m.WithinCustomerTxFn(ctx, customerID, fn)
	}
	return errUnimplemented
}
