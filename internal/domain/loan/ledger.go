package loan

import (
	"loanpro-backend/internal/domain/payment"

	"github.com/shopspring/decimal"
)

// Totals is the fold of a payment list.
type Totals struct {
	Paid      decimal.Decimal `json:"paid"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Count     int             `json:"count"`
}

// Accumulate sums a payment list in whatever order it is given. Entries are
// never dropped or deduplicated, and a missing amount counts as zero.
func Accumulate(payments []payment.Payment) Totals {
	t := Totals{Paid: decimal.Zero, Principal: decimal.Zero, Interest: decimal.Zero}
	for _, p := range payments {
		t.Paid = t.Paid.Add(p.Amount)
		t.Principal = t.Principal.Add(p.PrincipalOrAmount())
		t.Interest = t.Interest.Add(p.Interest())
		t.Count++
	}
	return t
}
