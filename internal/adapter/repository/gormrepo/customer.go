package gormrepo

import (
	"context"
	"errors"

	customerDomain "loanpro-backend/internal/domain/customer"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerRepository struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) *CustomerRepository { return &CustomerRepository{db: db} }

func (r *CustomerRepository) Create(ctx context.Context, c *customerDomain.Customer) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

// Save writes the customer columns only; payments are appended through PaymentRepository.
func (r *CustomerRepository) Save(ctx context.Context, c *customerDomain.Customer) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(c).Error)
}

func (r *CustomerRepository) Delete(ctx context.Context, c *customerDomain.Customer) error {
	return r.db.WithContext(ctx).Select("Payments").Delete(c).Error
}

func (r *CustomerRepository) GetByCustomerID(ctx context.Context, customerID string) (*customerDomain.Customer, error) {
	return r.first(r.db.WithContext(ctx), "customer_id = ?", customerID)
}

func (r *CustomerRepository) GetByCustomerIDForUpdate(ctx context.Context, customerID string) (*customerDomain.Customer, error) {
	q := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.first(q, "customer_id = ?", customerID)
}

func (r *CustomerRepository) GetByPhone(ctx context.Context, phone string) (*customerDomain.Customer, error) {
	return r.first(r.db.WithContext(ctx), "phone = ?", phone)
}

func (r *CustomerRepository) List(ctx context.Context) ([]customerDomain.Customer, error) {
	var out []customerDomain.Customer
	err := r.db.WithContext(ctx).
		Preload("Payments", orderByInsertion).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *CustomerRepository) MarkDeactivated(ctx context.Context, ids ...uint64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&customerDomain.Customer{}).
		Where("id IN ? AND status = ?", ids, customerDomain.StatusActive).
		Update("status", customerDomain.StatusDeactivated).Error
}

func (r *CustomerRepository) first(q *gorm.DB, where string, arg any) (*customerDomain.Customer, error) {
	var out customerDomain.Customer
	err := q.Preload("Payments", orderByInsertion).Where(where, arg).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, customerDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func orderByInsertion(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }

// translate maps unique-index violations on phone to the domain error.
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return customerDomain.ErrPhoneTaken
	}
	return err
}
