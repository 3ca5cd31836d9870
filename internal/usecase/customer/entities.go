package customer

import (
	"time"

	domainCustomer "loanpro-backend/internal/domain/customer"
	"loanpro-backend/internal/domain/loan"
	"loanpro-backend/internal/domain/payment"
	"loanpro-backend/pkg/date"

	"github.com/shopspring/decimal"
)

// CustomerInput carries the editable loan record fields for create and update.
type CustomerInput struct {
	Name            string
	Phone           string
	Address         string
	ProfilePicture  string
	LoanStartDate   date.Date
	TotalLoanAmount decimal.Decimal
	DailyPayment    decimal.Decimal // zero means "use the default"
}

// Sort keys accepted by List.
const (
	SortName      = "name"
	SortNameDesc  = "name-desc"
	SortAmount    = "amount"
	SortAmountAsc = "amount-asc"
	SortDate      = "date"
	SortDateOld   = "date-old"
)

type ListFilter struct {
	Search string     // name (case-insensitive) or phone substring
	State  loan.State // empty means all
	Sort   string
}

type PaymentDTO struct {
	PaymentID string          `json:"payment_id"`
	Date      date.Date       `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
}

type CustomerDTO struct {
	CustomerID      string                `json:"customer_id"`
	Name            string                `json:"name"`
	Phone           string                `json:"phone"`
	Address         string                `json:"address"`
	ProfilePicture  string                `json:"profile_picture,omitempty"`
	LoanStartDate   date.Date             `json:"loan_start_date"`
	DueDate         date.Date             `json:"due_date"`
	TotalLoanAmount decimal.Decimal       `json:"total_loan_amount"`
	DailyPayment    decimal.Decimal       `json:"daily_payment"`
	Status          domainCustomer.Status `json:"status"`
	State           loan.State            `json:"state"`
	DaysSinceStart  int                   `json:"days_since_start"`
	DaysStatus      loan.DaysStatus       `json:"days_status"`
	TotalPaid       decimal.Decimal       `json:"total_paid"`
	TotalPrincipal  decimal.Decimal       `json:"total_principal"`
	TotalInterest   decimal.Decimal       `json:"total_interest"`
	Remaining       decimal.Decimal       `json:"remaining"`
	ProgressPct     decimal.Decimal       `json:"progress_pct"`
	Payments        []PaymentDTO          `json:"payments"`
	CreatedAt       time.Time             `json:"created_at"`
}

// ToDTO flattens a stored record and its derivation into the read model.
func ToDTO(c *domainCustomer.Customer, d loan.Derivation) *CustomerDTO {
	ps := make([]PaymentDTO, 0, len(c.Payments))
	for _, p := range c.Payments {
		ps = append(ps, toPaymentDTO(p))
	}
	return &CustomerDTO{
		CustomerID:      c.CustomerID,
		Name:            c.Name,
		Phone:           c.Phone,
		Address:         c.Address,
		ProfilePicture:  c.ProfilePicture,
		LoanStartDate:   c.LoanStartDate,
		DueDate:         d.DueDate,
		TotalLoanAmount: c.TotalLoanAmount,
		DailyPayment:    c.EffectiveDailyPayment(),
		Status:          c.Status,
		State:           d.State,
		DaysSinceStart:  d.DaysSinceStart,
		DaysStatus:      d.DaysStatus,
		TotalPaid:       d.Totals.Paid,
		TotalPrincipal:  d.Totals.Principal,
		TotalInterest:   d.Totals.Interest,
		Remaining:       d.Remaining,
		ProgressPct:     d.ProgressPct,
		Payments:        ps,
		CreatedAt:       c.CreatedAt,
	}
}

func toPaymentDTO(p payment.Payment) PaymentDTO {
	return PaymentDTO{
		PaymentID: p.PaymentID,
		Date:      p.Date,
		Amount:    p.Amount,
		Principal: p.PrincipalOrAmount(),
		Interest:  p.Interest(),
	}
}
