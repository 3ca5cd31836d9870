package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Portfolio state label values.
const (
	LabelActive    = "active"
	LabelOverdue   = "overdue"
	LabelCompleted = "completed"
)

// MetricsCollector owns a private registry. All methods are safe on a nil
// receiver so callers can run without metrics.
type MetricsCollector struct {
	registry         *prometheus.Registry
	customersCreated prometheus.Counter
	paymentsRecorded prometheus.Counter
	paymentAmount    prometheus.Histogram
	loansCompleted   prometheus.Counter
	loansByState     *prometheus.GaugeVec
	portfolioAmount  *prometheus.GaugeVec
	logger           *slog.Logger
}

func NewMetricsCollector(logger *slog.Logger) *MetricsCollector {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &MetricsCollector{
		registry: registry,
		customersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "customers_created_total",
			Help: "Total number of loan records created",
		}),
		paymentsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "payments_recorded_total",
			Help: "Total number of payment entries appended",
		}),
		paymentAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "payment_amount",
			Help:    "Distribution of recorded payment amounts",
			Buckets: []float64{0, 50, 100, 250, 500, 1000, 5000, 10000},
		}),
		loansCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "loans_completed_total",
			Help: "Loans that reached completed on a payment",
		}),
		loansByState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "portfolio_loans",
			Help: "Loans per derived state at the last analytics run",
		}, []string{"state"}),
		portfolioAmount: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "portfolio_amount",
			Help: "Portfolio money totals at the last analytics run",
		}, []string{"kind"}),
		logger: logger,
	}
}

func (m *MetricsCollector) CustomerCreated() {
	if m == nil {
		return
	}
	m.customersCreated.Inc()
}

func (m *MetricsCollector) PaymentRecorded(amount float64, completed bool) {
	if m == nil {
		return
	}
	m.paymentsRecorded.Inc()
	m.paymentAmount.Observe(amount)
	if completed {
		m.loansCompleted.Inc()
		m.logger.Debug("loan completed on payment")
	}
}

// ObservePortfolio replaces the portfolio gauges.
func (m *MetricsCollector) ObservePortfolio(active, overdue, completed int, totalAmount, received float64) {
	if m == nil {
		return
	}
	m.loansByState.WithLabelValues(LabelActive).Set(float64(active))
	m.loansByState.WithLabelValues(LabelOverdue).Set(float64(overdue))
	m.loansByState.WithLabelValues(LabelCompleted).Set(float64(completed))
	m.portfolioAmount.WithLabelValues("total_loan").Set(totalAmount)
	m.portfolioAmount.WithLabelValues("received").Set(received)
}

func (m *MetricsCollector) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *MetricsCollector) GetHandler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
