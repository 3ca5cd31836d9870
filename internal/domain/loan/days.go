package loan

import (
	"errors"
	"time"

	"loanpro-backend/internal/domain/payment"
	"loanpro-backend/pkg/date"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidTerms = errors.New("loan terms are invalid")
)

var hundred = decimal.NewFromInt(100)

// DaysStatus pairs a state tag with its day count: days remaining while
// active, days past the term while overdue, zero once completed.
type DaysStatus struct {
	Tag  State `json:"status"`
	Days int   `json:"days"`
}

// Days turns a classified state into its day count. state must come from
// Classify with the same daysSinceStart.
func Days(state State, daysSinceStart int) DaysStatus {
	switch state {
	case StateCompleted:
		return DaysStatus{Tag: StateCompleted, Days: 0}
	case StateOverdue:
		return DaysStatus{Tag: StateOverdue, Days: daysSinceStart - NominalTermDays}
	default:
		return DaysStatus{Tag: StateActive, Days: max(0, NominalTermDays-daysSinceStart)}
	}
}

// Terms are the parts of a loan record the engine reads.
type Terms struct {
	TotalLoanAmount decimal.Decimal
	LoanStartDate   date.Date
}

// Derivation is everything computed for one record at one instant.
type Derivation struct {
	State          State           `json:"state"`
	DaysSinceStart int             `json:"days_since_start"`
	DaysStatus     DaysStatus      `json:"days_status"`
	Totals         Totals          `json:"totals"`
	Remaining      decimal.Decimal `json:"remaining"`
	ProgressPct    decimal.Decimal `json:"progress_pct"`
	DueDate        date.Date       `json:"due_date"`
}

// Derive runs the accumulator, classifier and days calculator off a single
// daysSinceStart so the state and its day count always agree.
func Derive(terms Terms, payments []payment.Payment, now time.Time) (Derivation, error) {
	if terms.LoanStartDate.IsZero() {
		return Derivation{}, ErrInvalidTerms
	}
	return derive(terms, payments, now), nil
}

func derive(terms Terms, payments []payment.Payment, now time.Time) Derivation {
	totals := Accumulate(payments)
	days := 0
	if !terms.LoanStartDate.IsZero() {
		days = DaysSinceStart(terms.LoanStartDate, now)
	}
	state := Classify(terms.TotalLoanAmount, totals.Paid, days)

	remaining := terms.TotalLoanAmount.Sub(totals.Paid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	progress := decimal.Zero
	if terms.TotalLoanAmount.IsPositive() {
		progress = decimal.Min(hundred, totals.Paid.Div(terms.TotalLoanAmount).Mul(hundred)).Round(1)
	}

	var due date.Date
	if !terms.LoanStartDate.IsZero() {
		due = terms.LoanStartDate.AddDays(NominalTermDays)
	}

	return Derivation{
		State:          state,
		DaysSinceStart: days,
		DaysStatus:     Days(state, days),
		Totals:         totals,
		Remaining:      remaining,
		ProgressPct:    progress,
		DueDate:        due,
	}
}
