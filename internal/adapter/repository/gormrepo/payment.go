package gormrepo

import (
	"context"

	paymentDomain "loanpro-backend/internal/domain/payment"
	"loanpro-backend/pkg/date"

	"gorm.io/gorm"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, p *paymentDomain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) ListByCustomerID(ctx context.Context, customerNumericID uint64) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerNumericID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// DeleteByDate removes every payment on d, matching the date exactly.
func (r *PaymentRepository) DeleteByDate(ctx context.Context, customerNumericID uint64, d date.Date) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("customer_id = ? AND date = ?", customerNumericID, d).
		Delete(&paymentDomain.Payment{})
	return res.RowsAffected, res.Error
}
