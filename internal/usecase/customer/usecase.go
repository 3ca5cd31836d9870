package customer

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"loanpro-backend/internal/domain/customer"
	"loanpro-backend/internal/domain/loan"
	"loanpro-backend/internal/domain/payment"
	"loanpro-backend/pkg/id"
	"loanpro-backend/pkg/metrics"
)

var ErrInvalidInput = errors.New("invalid input")

// Invalidator drops any cached portfolio view after a write.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type Usecase struct {
	repo    customer.Repository
	now     func() time.Time
	log     *slog.Logger
	metrics *metrics.MetricsCollector
	cache   Invalidator
}

type Option func(*Usecase)

func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }

func WithLogger(l *slog.Logger) Option { return func(u *Usecase) { u.log = l } }

func WithMetrics(m *metrics.MetricsCollector) Option { return func(u *Usecase) { u.metrics = m } }

func WithInvalidator(c Invalidator) Option { return func(u *Usecase) { u.cache = c } }

func NewUsecase(r customer.Repository, opts ...Option) *Usecase {
	u := &Usecase{repo: r, now: time.Now, log: slog.Default()}
	for _, o := range opts {
		o(u)
	}
	return u
}

func (u *Usecase) Create(ctx context.Context, in CustomerInput) (*CustomerDTO, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}

	switch _, err := u.repo.GetByPhone(ctx, in.Phone); {
	case err == nil:
		return nil, customer.ErrPhoneTaken
	case !errors.Is(err, customer.ErrNotFound):
		return nil, err
	}

	c := &customer.Customer{
		CustomerID: id.NewID32(),
		Status:     customer.StatusActive,
		Payments:   []payment.Payment{},
	}
	apply(c, in)

	if err := u.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	u.metrics.CustomerCreated()
	u.invalidate(ctx)
	u.log.Info("customer created", slog.String("customer_id", c.CustomerID))

	return u.view(ctx, c)
}

func (u *Usecase) Get(ctx context.Context, customerID string) (*CustomerDTO, error) {
	c, err := u.repo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return u.view(ctx, c)
}

// Lookup finds a record by the borrower's phone number.
func (u *Usecase) Lookup(ctx context.Context, phone string) (*CustomerDTO, error) {
	if strings.TrimSpace(phone) == "" {
		return nil, ErrInvalidInput
	}
	c, err := u.repo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	return u.view(ctx, c)
}

func (u *Usecase) List(ctx context.Context, f ListFilter) ([]CustomerDTO, error) {
	all, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := u.now()
	out := make([]CustomerDTO, 0, len(all))
	var stale []uint64
	for i := range all {
		c := &all[i]
		d, err := loan.DeriveCustomer(*c, now)
		if err != nil {
			// one unreadable record must not take the whole list down
			u.log.Warn("customer skipped from list", slog.String("customer_id", c.CustomerID), slog.Any("err", err))
			continue
		}
		if needsDeactivation(c, d) {
			stale = append(stale, c.ID)
			c.Status = customer.StatusDeactivated
		}
		if !matches(c, d, f) {
			continue
		}
		out = append(out, *ToDTO(c, d))
	}

	if len(stale) > 0 {
		if err := u.repo.MarkDeactivated(ctx, stale...); err != nil {
			u.log.Warn("status write-back failed", slog.Int("count", len(stale)), slog.Any("err", err))
		}
	}

	sortDTOs(out, f.Sort)
	return out, nil
}

func (u *Usecase) Update(ctx context.Context, customerID string, in CustomerInput) (*CustomerDTO, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}

	c, err := u.repo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if in.Phone != c.Phone {
		switch other, err := u.repo.GetByPhone(ctx, in.Phone); {
		case err == nil && other.ID != c.ID:
			return nil, customer.ErrPhoneTaken
		case err != nil && !errors.Is(err, customer.ErrNotFound):
			return nil, err
		}
	}

	apply(c, in)
	if err := u.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	u.invalidate(ctx)

	return u.view(ctx, c)
}

// Delete removes a record and its payments. Unless force is set, only loans
// that are currently completed may be removed.
func (u *Usecase) Delete(ctx context.Context, customerID string, force bool) error {
	c, err := u.repo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return err
	}

	if !force {
		d, err := loan.DeriveCustomer(*c, u.now())
		if err != nil {
			return err
		}
		if d.State != loan.StateCompleted {
			return customer.ErrLoanNotCompleted
		}
	}

	if err := u.repo.Delete(ctx, c); err != nil {
		return err
	}
	u.invalidate(ctx)
	u.log.Info("customer deleted", slog.String("customer_id", customerID), slog.Bool("force", force))
	return nil
}

// view derives the record against the clock and forward-writes the
// deactivated hint when the loan has completed.
func (u *Usecase) view(ctx context.Context, c *customer.Customer) (*CustomerDTO, error) {
	d, err := loan.DeriveCustomer(*c, u.now())
	if err != nil {
		return nil, err
	}
	if needsDeactivation(c, d) {
		if err := u.repo.MarkDeactivated(ctx, c.ID); err != nil {
			u.log.Warn("status write-back failed", slog.String("customer_id", c.CustomerID), slog.Any("err", err))
		} else {
			c.Status = customer.StatusDeactivated
		}
	}
	return ToDTO(c, d), nil
}

func (u *Usecase) invalidate(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Invalidate(ctx); err != nil {
		u.log.Warn("analytics cache invalidation failed", slog.Any("err", err))
	}
}

func needsDeactivation(c *customer.Customer, d loan.Derivation) bool {
	return d.State == loan.StateCompleted && c.Status != customer.StatusDeactivated
}

func checkInput(in CustomerInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "",
		strings.TrimSpace(in.Phone) == "",
		strings.TrimSpace(in.Address) == "",
		in.LoanStartDate.IsZero(),
		!in.TotalLoanAmount.IsPositive(),
		in.DailyPayment.IsNegative():
		return ErrInvalidInput
	}
	return nil
}

func apply(c *customer.Customer, in CustomerInput) {
	c.Name = strings.TrimSpace(in.Name)
	c.Phone = strings.TrimSpace(in.Phone)
	c.Address = strings.TrimSpace(in.Address)
	c.ProfilePicture = in.ProfilePicture
	c.LoanStartDate = in.LoanStartDate
	c.TotalLoanAmount = in.TotalLoanAmount
	c.DailyPayment = in.DailyPayment
	if !c.DailyPayment.IsPositive() {
		c.DailyPayment = customer.DefaultDailyPayment(in.TotalLoanAmount)
	}
}

func matches(c *customer.Customer, d loan.Derivation, f ListFilter) bool {
	if f.State != "" && d.State != f.State {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(c.Phone, q)
}

// sortDTOs orders in place. Ties keep repository order (newest first).
func sortDTOs(out []CustomerDTO, key string) {
	var less func(a, b CustomerDTO) bool
	switch key {
	case SortNameDesc:
		less = func(a, b CustomerDTO) bool { return strings.ToLower(a.Name) > strings.ToLower(b.Name) }
	case SortAmount:
		less = func(a, b CustomerDTO) bool { return a.TotalLoanAmount.GreaterThan(b.TotalLoanAmount) }
	case SortAmountAsc:
		less = func(a, b CustomerDTO) bool { return a.TotalLoanAmount.LessThan(b.TotalLoanAmount) }
	case SortDate:
		less = func(a, b CustomerDTO) bool { return a.LoanStartDate.After(b.LoanStartDate) }
	case SortDateOld:
		less = func(a, b CustomerDTO) bool { return a.LoanStartDate.Before(b.LoanStartDate) }
	default:
		less = func(a, b CustomerDTO) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
}
