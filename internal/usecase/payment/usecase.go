package payment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"loanpro-backend/internal/domain/customer"
	"loanpro-backend/internal/domain/loan"
	"loanpro-backend/internal/domain/payment"
	"loanpro-backend/internal/domain/uow"
	ucCustomer "loanpro-backend/internal/usecase/customer"
	"loanpro-backend/pkg/date"
	"loanpro-backend/pkg/id"
	"loanpro-backend/pkg/metrics"

	"github.com/shopspring/decimal"
)

var ErrInvalidInput = errors.New("invalid input")

type Usecase struct {
	uow     uow.UnitOfWork
	now     func() time.Time
	log     *slog.Logger
	metrics *metrics.MetricsCollector
	cache   ucCustomer.Invalidator
}

type Option func(*Usecase)

func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }

func WithLogger(l *slog.Logger) Option { return func(u *Usecase) { u.log = l } }

func WithMetrics(m *metrics.MetricsCollector) Option { return func(u *Usecase) { u.metrics = m } }

func WithInvalidator(c ucCustomer.Invalidator) Option { return func(u *Usecase) { u.cache = c } }

func NewUsecase(u uow.UnitOfWork, opts ...Option) *Usecase {
	uc := &Usecase{uow: u, now: time.Now, log: slog.Default()}
	for _, o := range opts {
		o(uc)
	}
	return uc
}

// Add appends a payment under the customer's row lock and returns the
// re-derived loan view. Completing the loan forward-writes the deactivated hint.
func (u *Usecase) Add(ctx context.Context, customerID string, in AddPaymentInput) (*ucCustomer.CustomerDTO, error) {
	if in.Date.IsZero() || in.Amount.IsNegative() || (in.Principal != nil && in.Principal.IsNegative()) {
		return nil, ErrInvalidInput
	}

	var (
		dto       *ucCustomer.CustomerDTO
		completed bool
	)
	err := u.uow.WithinCustomerTx(ctx, customerID, func(r uow.Repos, c *customer.Customer) error {
		before, err := loan.DeriveCustomer(*c, u.now())
		if err != nil {
			return err
		}

		principal := in.Amount
		if in.Principal != nil {
			principal = *in.Principal
		}
		p := &payment.Payment{
			PaymentID:  id.NewID32(),
			CustomerID: c.ID,
			Date:       in.Date,
			Amount:     in.Amount,
			Principal:  decimal.NewNullDecimal(principal),
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			return err
		}
		c.Payments = append(c.Payments, *p)

		after, err := loan.DeriveCustomer(*c, u.now())
		if err != nil {
			return err
		}
		if after.State == loan.StateCompleted && c.Status != customer.StatusDeactivated {
			if err := r.Customers.MarkDeactivated(ctx, c.ID); err != nil {
				return err
			}
			c.Status = customer.StatusDeactivated
		}
		completed = before.State != loan.StateCompleted && after.State == loan.StateCompleted

		dto = ucCustomer.ToDTO(c, after)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.metrics.PaymentRecorded(in.Amount.InexactFloat64(), completed)
	u.invalidate(ctx)
	u.log.Info("payment recorded",
		slog.String("customer_id", customerID),
		slog.String("date", in.Date.String()),
		slog.String("amount", in.Amount.String()),
		slog.String("state", string(dto.State)),
	)
	return dto, nil
}

// DeleteByDate removes every payment the customer made on d.
// The deactivated hint is left as is.
func (u *Usecase) DeleteByDate(ctx context.Context, customerID string, d date.Date) error {
	if d.IsZero() {
		return ErrInvalidInput
	}

	var removed int64
	err := u.uow.WithinCustomerTx(ctx, customerID, func(r uow.Repos, c *customer.Customer) error {
		n, err := r.Payments.DeleteByDate(ctx, c.ID, d)
		if err != nil {
			return err
		}
		if n == 0 {
			return payment.ErrNotFound
		}
		removed = n
		return nil
	})
	if err != nil {
		return err
	}

	u.invalidate(ctx)
	u.log.Info("payments deleted",
		slog.String("customer_id", customerID),
		slog.String("date", d.String()),
		slog.Int64("count", removed),
	)
	return nil
}

func (u *Usecase) invalidate(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Invalidate(ctx); err != nil {
		u.log.Warn("analytics cache invalidation failed", slog.Any("err", err))
	}
}
