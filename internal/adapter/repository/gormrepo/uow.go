package gormrepo

import (
	"context"

	"loanpro-backend/internal/domain/customer"
	"loanpro-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinCustomerTx(ctx context.Context, customerID string, fn func(r uow.Repos, c *customer.Customer) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the customer row up-front so concurrent payments serialize
		c, err := r.Customers.GetByCustomerIDForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		return fn(r, c)
	})
}

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Customers: &CustomerRepository{db: tx},
		Payments:  &PaymentRepository{db: tx},
	}
}
