package loan

import (
	"time"

	"loanpro-backend/pkg/date"

	"github.com/shopspring/decimal"
)

// NominalTermDays is the reference period after which an unpaid loan is overdue.
const NominalTermDays = 100

type State string

const (
	StateActive    State = "active"
	StateOverdue   State = "overdue"
	StateCompleted State = "completed"
)

// ParseState accepts the current names and the legacy ones
// ("pending" for overdue, "deactivated" for completed).
func ParseState(s string) (State, bool) {
	switch s {
	case "active":
		return StateActive, true
	case "overdue", "pending":
		return StateOverdue, true
	case "completed", "deactivated":
		return StateCompleted, true
	}
	return "", false
}

// DaysSinceStart is the number of calendar days between start and the
// calendar date of now, taken in now's location. Future starts are negative.
func DaysSinceStart(start date.Date, now time.Time) int {
	return date.DaysBetween(start, date.Of(now))
}

// Classify derives the lifecycle state. Being paid in full wins over any
// time-based rule, so a zero total is always completed.
func Classify(total, paid decimal.Decimal, daysSinceStart int) State {
	switch {
	case paid.GreaterThanOrEqual(total):
		return StateCompleted
	case daysSinceStart > NominalTermDays:
		return StateOverdue
	default:
		return StateActive
	}
}
