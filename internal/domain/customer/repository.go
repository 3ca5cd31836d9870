package customer

import "context"

type Repository interface {
	Create(ctx context.Context, c *Customer) error
	Save(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, c *Customer) error

	// Lookups preload payments in insertion order
	GetByCustomerID(ctx context.Context, customerID string) (*Customer, error)
	GetByCustomerIDForUpdate(ctx context.Context, customerID string) (*Customer, error)
	GetByPhone(ctx context.Context, phone string) (*Customer, error)

	// Newest first, payments preloaded
	List(ctx context.Context) ([]Customer, error)

	// Forward-only write of the cached status flag
	MarkDeactivated(ctx context.Context, ids ...uint64) error
}
