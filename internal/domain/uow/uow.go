package uow

import (
	"context"

	"loanpro-backend/internal/domain/customer"
	"loanpro-backend/internal/domain/payment"
)

// domain/uow/uow.go
type Repos struct {
	Customers customer.Repository
	Payments  payment.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the customer row first, then pass it in with payments loaded
	WithinCustomerTx(ctx context.Context, customerID string, fn func(r Repos, c *customer.Customer) error) error
}
