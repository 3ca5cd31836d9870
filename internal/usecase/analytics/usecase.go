package analytics

import (
	"context"
	"log/slog"
	"time"

	"loanpro-backend/internal/domain/customer"
	"loanpro-backend/internal/domain/loan"
	"loanpro-backend/pkg/date"
	"loanpro-backend/pkg/metrics"
)

// SummaryCache stores one portfolio per calendar day. Get returns a nil
// portfolio on a miss, plus the write generation that Set stamps on the entry.
type SummaryCache interface {
	Get(ctx context.Context, day date.Date) (*loan.Portfolio, int64, error)
	Set(ctx context.Context, day date.Date, gen int64, p loan.Portfolio) error
}

type SummaryDTO struct {
	loan.Portfolio
	AsOf   date.Date `json:"as_of"`
	Cached bool      `json:"cached"`
}

type Usecase struct {
	repo    customer.Repository
	cache   SummaryCache
	now     func() time.Time
	log     *slog.Logger
	metrics *metrics.MetricsCollector
}

type Option func(*Usecase)

func WithCache(c SummaryCache) Option { return func(u *Usecase) { u.cache = c } }

func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }

func WithLogger(l *slog.Logger) Option { return func(u *Usecase) { u.log = l } }

func WithMetrics(m *metrics.MetricsCollector) Option { return func(u *Usecase) { u.metrics = m } }

func NewUsecase(r customer.Repository, opts ...Option) *Usecase {
	u := &Usecase{repo: r, now: time.Now, log: slog.Default()}
	for _, o := range opts {
		o(u)
	}
	return u
}

// Summary aggregates the whole book as of today. Cache failures fall through
// to a fresh aggregation that is not written back.
func (u *Usecase) Summary(ctx context.Context) (*SummaryDTO, error) {
	now := u.now()
	day := date.Of(now)

	var gen int64
	store := u.cache != nil
	if store {
		p, g, err := u.cache.Get(ctx, day)
		switch {
		case err != nil:
			u.log.Warn("analytics cache read failed", slog.Any("err", err))
			store = false
		case p != nil:
			return &SummaryDTO{Portfolio: *p, AsOf: day, Cached: true}, nil
		}
		gen = g
	}

	records, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	p := loan.Aggregate(records, now)

	u.metrics.ObservePortfolio(
		p.ActiveLoans, p.OverdueLoans, p.CompletedLoans,
		p.TotalLoanAmount.InexactFloat64(), p.AmountReceived.InexactFloat64(),
	)

	if store {
		if err := u.cache.Set(ctx, day, gen, p); err != nil {
			u.log.Warn("analytics cache write failed", slog.Any("err", err))
		}
	}
	return &SummaryDTO{Portfolio: p, AsOf: day}, nil
}
