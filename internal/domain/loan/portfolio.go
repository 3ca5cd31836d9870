package loan

import (
	"time"

	"loanpro-backend/internal/domain/customer"

	"github.com/shopspring/decimal"
)

// TermsOf extracts the engine inputs from a stored record.
func TermsOf(c customer.Customer) Terms {
	return Terms{TotalLoanAmount: c.TotalLoanAmount, LoanStartDate: c.LoanStartDate}
}

// DeriveCustomer is Derive over a stored record.
func DeriveCustomer(c customer.Customer, now time.Time) (Derivation, error) {
	return Derive(TermsOf(c), c.Payments, now)
}

// Portfolio is the fleet-wide view over many customer records.
type Portfolio struct {
	TotalCustomers      int             `json:"total_customers"`
	ActiveLoans         int             `json:"active_loans"`
	OverdueLoans        int             `json:"overdue_loans"`
	CompletedLoans      int             `json:"completed_loans"`
	TotalLoanAmount     decimal.Decimal `json:"total_loan_amount"`
	AmountReceived      decimal.Decimal `json:"amount_received"`
	ActiveLoansReceived decimal.Decimal `json:"active_loans_received"`
}

// Aggregate classifies every record against now and sums the results.
// Malformed records degrade instead of failing: missing payments add nothing
// and an unset start date counts as day zero.
func Aggregate(records []customer.Customer, now time.Time) Portfolio {
	p := Portfolio{
		TotalLoanAmount:     decimal.Zero,
		AmountReceived:      decimal.Zero,
		ActiveLoansReceived: decimal.Zero,
	}
	for _, c := range records {
		d := derive(TermsOf(c), c.Payments, now)

		p.TotalCustomers++
		p.TotalLoanAmount = p.TotalLoanAmount.Add(c.TotalLoanAmount)
		p.AmountReceived = p.AmountReceived.Add(d.Totals.Paid)

		switch d.State {
		case StateActive:
			p.ActiveLoans++
			p.ActiveLoansReceived = p.ActiveLoansReceived.Add(d.Totals.Paid)
		case StateOverdue:
			p.OverdueLoans++
		case StateCompleted:
			p.CompletedLoans++
		}
	}
	return p
}
