package http

import (
	"bytes"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	domainCustomer "loanpro-backend/internal/domain/customer"
	"loanpro-backend/internal/domain/loan"
	"loanpro-backend/internal/domain/payment"
	"loanpro-backend/internal/testutil/memstore"
	ucAnalytics "loanpro-backend/internal/usecase/analytics"
	ucCustomer "loanpro-backend/internal/usecase/customer"
	ucPayment "loanpro-backend/internal/usecase/payment"
	"loanpro-backend/pkg/date"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2025, 9, 6, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func daysAgo(n int) date.Date { return date.Of(fixedNow).AddDays(-n) }

const (
	activeID    = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	overdueID   = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	completedID = "cccccccccccccccccccccccccccccccc"
	missingID   = "dddddddddddddddddddddddddddddddd"
)

type customerBody struct {
	CustomerID   string          `json:"customer_id"`
	Name         string          `json:"name"`
	Phone        string          `json:"phone"`
	Status       string          `json:"status"`
	State        string          `json:"state"`
	DaysLabel    string          `json:"days_label"`
	DailyPayment decimal.Decimal `json:"daily_payment"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	Remaining    decimal.Decimal `json:"remaining"`
	DaysStatus   struct {
		Status string `json:"status"`
		Days   int    `json:"days"`
	} `json:"days_status"`
	Payments []struct {
		Date      string          `json:"date"`
		Amount    decimal.Decimal `json:"amount"`
		Principal decimal.Decimal `json:"principal"`
	} `json:"payments"`
}

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func seed(s *memstore.Store) {
	pay := func(daysAgo int, amount string) payment.Payment {
		return payment.Payment{Date: date.Of(fixedNow).AddDays(-daysAgo), Amount: decimal.RequireFromString(amount)}
	}
	s.Seed(
		domainCustomer.Customer{
			CustomerID: overdueID, Name: "Bala", Phone: "9000000002", Address: "2 Lane",
			LoanStartDate: daysAgo(130), TotalLoanAmount: decimal.NewFromInt(5000),
			Status: domainCustomer.StatusActive, Payments: []payment.Payment{pay(120, "1000")},
		},
		domainCustomer.Customer{
			CustomerID: completedID, Name: "Chitra", Phone: "9000000003", Address: "3 Lane",
			LoanStartDate: daysAgo(40), TotalLoanAmount: decimal.NewFromInt(1000),
			Status: domainCustomer.StatusActive, Payments: []payment.Payment{pay(30, "600"), pay(5, "400")},
		},
		domainCustomer.Customer{
			CustomerID: activeID, Name: "Anil", Phone: "9000000001", Address: "1 Lane",
			LoanStartDate: daysAgo(10), TotalLoanAmount: decimal.NewFromInt(10000),
			Status: domainCustomer.StatusActive, Payments: []payment.Payment{pay(2, "500")},
		},
	)
}

func newAPI(t *testing.T) (*echo.Echo, *memstore.Store) {
	t.Helper()
	s := memstore.New()
	seed(s)

	custUC := ucCustomer.NewUsecase(s.CustomerRepo(), ucCustomer.WithClock(clock))
	payUC := ucPayment.NewUsecase(s.UoW(), ucPayment.WithClock(clock))
	anUC := ucAnalytics.NewUsecase(s.CustomerRepo(), ucAnalytics.WithClock(clock))

	e := newEchoWithValidator()
	Register(e, Handlers{
		Health:    NewHandler(nil),
		Customers: NewCustomerHandler(custUC, nil),
		Payments:  NewPaymentHandler(payUC, nil),
		Analytics: NewAnalyticsHandler(anUC, nil),
	})
	return e, s
}

func call(e *echo.Echo, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("bad json: %v; raw=%s", err, rec.Body.String())
	}
	return v
}

func TestGetCustomer_DerivedView(t *testing.T) {
	e, _ := newAPI(t)

	cases := []struct {
		id, state, label string
		days             int
	}{
		{activeID, "active", "90 days remaining", 90},
		{overdueID, "overdue", "Overdue: 30 days", 30},
		{completedID, "completed", "Loan Completed", 0},
	}
	for _, tc := range cases {
		t.Run(tc.state, func(t *testing.T) {
			rec := call(e, stdhttp.MethodGet, "/api/customers/"+tc.id, nil)
			if rec.Code != stdhttp.StatusOK {
				t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
			}
			got := decode[customerBody](t, rec)
			if got.State != tc.state || got.DaysStatus.Status != tc.state || got.DaysStatus.Days != tc.days {
				t.Fatalf("got %s/%s/%d", got.State, got.DaysStatus.Status, got.DaysStatus.Days)
			}
			if got.DaysLabel != tc.label {
				t.Fatalf("label=%q, want %q", got.DaysLabel, tc.label)
			}
		})
	}
}

func TestGetCustomer_Errors(t *testing.T) {
	e, _ := newAPI(t)

	if rec := call(e, stdhttp.MethodGet, "/api/customers/not-hex", nil); rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("bad id => want 400, got %d", rec.Code)
	}
	rec := call(e, stdhttp.MethodGet, "/api/customers/"+missingID, nil)
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("missing => want 404, got %d", rec.Code)
	}
	if got := decode[ErrorResponse](t, rec); got.Error != domainCustomer.ErrNotFound.Error() {
		t.Fatalf("error=%q", got.Error)
	}
}

func TestCreateCustomer(t *testing.T) {
	e, s := newAPI(t)

	body := map[string]any{
		"name":              "Deepa",
		"phone":             "+919000000004",
		"address":           "4 Lane",
		"loan_start_date":   date.Of(fixedNow).String(),
		"total_loan_amount": 25000,
	}
	rec := call(e, stdhttp.MethodPost, "/api/customers", mustJSON(body))
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	got := decode[customerBody](t, rec)
	if len(got.CustomerID) != 32 || got.State != "active" || got.DaysLabel != "100 days remaining" {
		t.Fatalf("got=%+v", got)
	}
	if !got.DailyPayment.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("daily=%s, want 250", got.DailyPayment)
	}
	if s.Len() != 4 {
		t.Fatalf("store size=%d", s.Len())
	}

	// same phone again
	rec = call(e, stdhttp.MethodPost, "/api/customers", mustJSON(body))
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("duplicate phone => want 409, got %d", rec.Code)
	}
}

func TestCreateCustomer_Validation(t *testing.T) {
	e, _ := newAPI(t)

	rec := call(e, stdhttp.MethodPost, "/api/customers", strings.NewReader(`{"name":`))
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("malformed => want 400, got %d", rec.Code)
	}

	rec = call(e, stdhttp.MethodPost, "/api/customers", mustJSON(map[string]any{
		"name":              "",
		"phone":             "12-34",
		"address":           "x",
		"loan_start_date":   "06/09/2025",
		"total_loan_amount": 0,
		"daily_payment":     10.555,
	}))
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("invalid => want 422, got %d", rec.Code)
	}
	got := decode[ErrorResponse](t, rec)
	for _, field := range []string{"name", "phone", "loan_start_date", "total_loan_amount", "daily_payment"} {
		found := false
		for _, d := range got.Details {
			if d.Field == field {
				found = true
			}
		}
		if !found {
			t.Fatalf("missing detail for %s: %+v", field, got.Details)
		}
	}
}

func TestListCustomers(t *testing.T) {
	e, _ := newAPI(t)

	cases := []struct {
		query string
		want  []string
	}{
		{"", []string{"Anil", "Bala", "Chitra"}},
		{"?sort=name-desc", []string{"Chitra", "Bala", "Anil"}},
		{"?sort=amount", []string{"Anil", "Bala", "Chitra"}},
		{"?status=overdue", []string{"Bala"}},
		{"?status=pending", []string{"Bala"}},
		{"?status=completed", []string{"Chitra"}},
		{"?status=all&q=an", []string{"Anil"}},
		{"?q=0003", []string{"Chitra"}},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			rec := call(e, stdhttp.MethodGet, "/api/customers"+tc.query, nil)
			if rec.Code != stdhttp.StatusOK {
				t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
			}
			var got []string
			for _, c := range decode[[]customerBody](t, rec) {
				got = append(got, c.Name)
			}
			if strings.Join(got, ",") != strings.Join(tc.want, ",") {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}

	if rec := call(e, stdhttp.MethodGet, "/api/customers?sort=random", nil); rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("bad sort => want 422, got %d", rec.Code)
	}
	if rec := call(e, stdhttp.MethodGet, "/api/customers?status=closed", nil); rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("bad status => want 422, got %d", rec.Code)
	}
}

func TestUpdateCustomer(t *testing.T) {
	e, s := newAPI(t)

	body := map[string]any{
		"name":              "Anil Kumar",
		"phone":             "9000000001",
		"address":           "1 New Lane",
		"loan_start_date":   daysAgo(10).String(),
		"total_loan_amount": "500.00",
		"daily_payment":     "50",
	}
	rec := call(e, stdhttp.MethodPut, "/api/customers/"+activeID, mustJSON(body))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	// lowering the principal below what was paid completes the loan
	got := decode[customerBody](t, rec)
	if got.State != "completed" || got.Name != "Anil Kumar" {
		t.Fatalf("got=%+v", got)
	}
	if stored, _ := s.Get(activeID); stored.Address != "1 New Lane" {
		t.Fatalf("stored=%+v", stored)
	}

	body["phone"] = "9000000002"
	if rec := call(e, stdhttp.MethodPut, "/api/customers/"+activeID, mustJSON(body)); rec.Code != stdhttp.StatusConflict {
		t.Fatalf("phone clash => want 409, got %d", rec.Code)
	}
}

func TestDeleteCustomer(t *testing.T) {
	e, s := newAPI(t)

	rec := call(e, stdhttp.MethodDelete, "/api/customers/"+activeID, nil)
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("active loan => want 409, got %d", rec.Code)
	}
	if rec := call(e, stdhttp.MethodDelete, "/api/customers/"+completedID, nil); rec.Code != stdhttp.StatusNoContent {
		t.Fatalf("completed loan => want 204, got %d", rec.Code)
	}
	if rec := call(e, stdhttp.MethodDelete, "/api/customers/"+activeID+"?force=true", nil); rec.Code != stdhttp.StatusNoContent {
		t.Fatalf("forced => want 204, got %d", rec.Code)
	}
	if s.Len() != 1 {
		t.Fatalf("store size=%d, want 1", s.Len())
	}
}

func TestAddPayment(t *testing.T) {
	e, s := newAPI(t)

	rec := call(e, stdhttp.MethodPost, "/api/customers/"+overdueID+"/payments", mustJSON(map[string]any{
		"date":   date.Of(fixedNow).String(),
		"amount": 4000,
	}))
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	got := decode[customerBody](t, rec)
	if got.State != "completed" || got.DaysLabel != "Loan Completed" || got.Status != "deactivated" {
		t.Fatalf("got=%+v", got)
	}
	if !got.TotalPaid.Equal(decimal.NewFromInt(5000)) || !got.Remaining.IsZero() {
		t.Fatalf("paid=%s remaining=%s", got.TotalPaid, got.Remaining)
	}
	last := got.Payments[len(got.Payments)-1]
	if !last.Principal.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("principal=%s, want amount", last.Principal)
	}
	if stored, _ := s.Get(overdueID); stored.Status != domainCustomer.StatusDeactivated {
		t.Fatalf("stored status=%s", stored.Status)
	}
}

func TestAddPayment_Validation(t *testing.T) {
	e, _ := newAPI(t)

	cases := []struct {
		name string
		id   string
		body any
		want int
	}{
		{"missing amount", activeID, map[string]any{"date": "2025-09-06"}, stdhttp.StatusUnprocessableEntity},
		{"negative amount", activeID, map[string]any{"date": "2025-09-06", "amount": -1}, stdhttp.StatusUnprocessableEntity},
		{"bad date", activeID, map[string]any{"date": "yesterday", "amount": 10}, stdhttp.StatusUnprocessableEntity},
		{"unknown customer", missingID, map[string]any{"date": "2025-09-06", "amount": 10}, stdhttp.StatusNotFound},
		{"bad customer id", "XYZ", map[string]any{"date": "2025-09-06", "amount": 10}, stdhttp.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := call(e, stdhttp.MethodPost, "/api/customers/"+tc.id+"/payments", mustJSON(tc.body))
			if rec.Code != tc.want {
				t.Fatalf("status=%d, want %d body=%s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestDeletePayment(t *testing.T) {
	e, s := newAPI(t)
	d := daysAgo(30).String()

	rec := call(e, stdhttp.MethodDelete, "/api/customers/"+completedID+"/payments/"+d, nil)
	if rec.Code != stdhttp.StatusNoContent {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	stored, _ := s.Get(completedID)
	if len(stored.Payments) != 1 {
		t.Fatalf("payments=%d, want 1", len(stored.Payments))
	}

	// the loan is active again once the payment is gone
	got := decode[customerBody](t, call(e, stdhttp.MethodGet, "/api/customers/"+completedID, nil))
	if got.State != "active" {
		t.Fatalf("state=%s", got.State)
	}

	if rec := call(e, stdhttp.MethodDelete, "/api/customers/"+completedID+"/payments/"+d, nil); rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("second delete => want 404, got %d", rec.Code)
	}
	if rec := call(e, stdhttp.MethodDelete, "/api/customers/"+completedID+"/payments/06-09-2025", nil); rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("bad date => want 400, got %d", rec.Code)
	}
}

func TestLookup(t *testing.T) {
	e, _ := newAPI(t)

	rec := call(e, stdhttp.MethodPost, "/api/customer/lookup", mustJSON(map[string]string{"phone": "9000000002"}))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if got := decode[customerBody](t, rec); got.CustomerID != overdueID {
		t.Fatalf("got=%+v", got)
	}

	if rec := call(e, stdhttp.MethodPost, "/api/customer/lookup", mustJSON(map[string]string{"phone": "9999999999"})); rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("unknown phone => want 404, got %d", rec.Code)
	}
	if rec := call(e, stdhttp.MethodPost, "/api/customer/lookup", mustJSON(map[string]string{})); rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("no phone => want 422, got %d", rec.Code)
	}
}

func TestAnalytics(t *testing.T) {
	e, _ := newAPI(t)

	rec := call(e, stdhttp.MethodGet, "/api/analytics", nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	got := decode[struct {
		TotalCustomers  int             `json:"total_customers"`
		ActiveLoans     int             `json:"active_loans"`
		OverdueLoans    int             `json:"overdue_loans"`
		CompletedLoans  int             `json:"completed_loans"`
		TotalLoanAmount decimal.Decimal `json:"total_loan_amount"`
		AmountReceived  decimal.Decimal `json:"amount_received"`
		AsOf            string          `json:"as_of"`
	}](t, rec)

	if got.TotalCustomers != 3 || got.ActiveLoans != 1 || got.OverdueLoans != 1 || got.CompletedLoans != 1 {
		t.Fatalf("counts=%+v", got)
	}
	if !got.TotalLoanAmount.Equal(decimal.NewFromInt(16000)) || !got.AmountReceived.Equal(decimal.NewFromInt(2500)) {
		t.Fatalf("amounts total=%s received=%s", got.TotalLoanAmount, got.AmountReceived)
	}
	if got.AsOf != "2025-09-06" {
		t.Fatalf("as_of=%s", got.AsOf)
	}
}

func TestDaysLabel(t *testing.T) {
	cases := []struct {
		in   loan.DaysStatus
		want string
	}{
		{loan.DaysStatus{Tag: loan.StateCompleted}, "Loan Completed"},
		{loan.DaysStatus{Tag: loan.StateOverdue, Days: 1}, "Overdue: 1 days"},
		{loan.DaysStatus{Tag: loan.StateActive, Days: 100}, "100 days remaining"},
		{loan.DaysStatus{Tag: loan.StateActive, Days: 0}, "0 days remaining"},
	}
	for _, tc := range cases {
		if got := DaysLabel(tc.in); got != tc.want {
			t.Fatalf("DaysLabel(%+v)=%q, want %q", tc.in, got, tc.want)
		}
	}
}
