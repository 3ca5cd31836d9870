// Package memstore is an in-memory customer and payment store for tests that
// need repository behavior without a database.
package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"loanpro-backend/internal/domain/customer"
	"loanpro-backend/internal/domain/payment"
	"loanpro-backend/internal/domain/uow"
	"loanpro-backend/internal/testutil/customermock"
	"loanpro-backend/internal/testutil/paymentmock"
	"loanpro-backend/internal/testutil/uowmock"
	"loanpro-backend/pkg/date"
)

type Store struct {
	mu        sync.Mutex
	customers []*customer.Customer // insertion order
	nextCID   uint64
	nextPID   uint64
	clock     time.Time
}

func New() *Store { return &Store{clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)} }

// Seed inserts records as-is, assigning numeric ids and creation times.
func (s *Store) Seed(cs ...customer.Customer) {
	for i := range cs {
		c := cs[i]
		_ = s.create(&c)
	}
}

func (s *Store) Repos() uow.Repos {
	return uow.Repos{Customers: s.CustomerRepo(), Payments: s.PaymentRepo()}
}

func (s *Store) UoW() *uowmock.UoW { return uowmock.Passthrough(s.Repos()) }

func (s *Store) CustomerRepo() *customermock.Repo {
	return &customermock.Repo{
		CreateFn: func(ctx context.Context, c *customer.Customer) error { return s.create(c) },
		SaveFn: func(ctx context.Context, c *customer.Customer) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, cur := range s.customers {
				if cur.ID != c.ID && cur.Phone == c.Phone {
					return customer.ErrPhoneTaken
				}
				if cur.ID == c.ID {
					cp := *c
					cp.Payments = cur.Payments
					s.customers[i] = &cp
				}
			}
			return nil
		},
		DeleteFn: func(ctx context.Context, c *customer.Customer) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.customers = slices.DeleteFunc(s.customers, func(cur *customer.Customer) bool { return cur.ID == c.ID })
			return nil
		},
		GetByCustomerIDFn: func(ctx context.Context, id string) (*customer.Customer, error) {
			return s.find(func(c *customer.Customer) bool { return c.CustomerID == id })
		},
		GetByCustomerIDForUpdateFn: func(ctx context.Context, id string) (*customer.Customer, error) {
			return s.find(func(c *customer.Customer) bool { return c.CustomerID == id })
		},
		GetByPhoneFn: func(ctx context.Context, phone string) (*customer.Customer, error) {
			return s.find(func(c *customer.Customer) bool { return c.Phone == phone })
		},
		ListFn: func(ctx context.Context) ([]customer.Customer, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			out := make([]customer.Customer, 0, len(s.customers))
			for i := len(s.customers) - 1; i >= 0; i-- {
				out = append(out, clone(s.customers[i]))
			}
			return out, nil
		},
		MarkDeactivatedFn: func(ctx context.Context, ids ...uint64) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			for _, c := range s.customers {
				if slices.Contains(ids, c.ID) && c.Status == customer.StatusActive {
					c.Status = customer.StatusDeactivated
				}
			}
			return nil
		},
	}
}

func (s *Store) PaymentRepo() *paymentmock.Repo {
	return &paymentmock.Repo{
		CreateFn: func(ctx context.Context, p *payment.Payment) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			for _, c := range s.customers {
				if c.ID == p.CustomerID {
					s.nextPID++
					p.ID = s.nextPID
					p.CreatedAt = s.clock
					c.Payments = append(c.Payments, *p)
					return nil
				}
			}
			return customer.ErrNotFound
		},
		ListByCustomerIDFn: func(ctx context.Context, id uint64) ([]payment.Payment, error) {
			c, err := s.find(func(c *customer.Customer) bool { return c.ID == id })
			if err != nil {
				return nil, err
			}
			return c.Payments, nil
		},
		DeleteByDateFn: func(ctx context.Context, id uint64, d date.Date) (int64, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			for _, c := range s.customers {
				if c.ID != id {
					continue
				}
				before := len(c.Payments)
				c.Payments = slices.DeleteFunc(c.Payments, func(p payment.Payment) bool { return p.Date == d })
				return int64(before - len(c.Payments)), nil
			}
			return 0, nil
		},
	}
}

// Get returns a snapshot of the stored record.
func (s *Store) Get(customerID string) (customer.Customer, bool) {
	c, err := s.find(func(c *customer.Customer) bool { return c.CustomerID == customerID })
	if err != nil {
		return customer.Customer{}, false
	}
	return *c, true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.customers)
}

func (s *Store) create(c *customer.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.customers {
		if cur.Phone == c.Phone {
			return customer.ErrPhoneTaken
		}
	}
	s.nextCID++
	s.clock = s.clock.Add(time.Second)
	c.ID = s.nextCID
	c.CreatedAt = s.clock
	for i := range c.Payments {
		s.nextPID++
		c.Payments[i].ID = s.nextPID
		c.Payments[i].CustomerID = c.ID
	}
	cp := clone(c)
	s.customers = append(s.customers, &cp)
	return nil
}

func (s *Store) find(match func(*customer.Customer) bool) (*customer.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if match(c) {
			cp := clone(c)
			return &cp, nil
		}
	}
	return nil, customer.ErrNotFound
}

func clone(c *customer.Customer) customer.Customer {
	cp := *c
	cp.Payments = append([]payment.Payment{}, c.Payments...)
	return cp
}
