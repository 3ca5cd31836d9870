package http

import (
	"log/slog"
	"net/http"
	"strings"

	"loanpro-backend/internal/domain/loan"
	ucCustomer "loanpro-backend/internal/usecase/customer"
	"loanpro-backend/pkg/date"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type CustomerHandler struct {
	uc  *ucCustomer.Usecase
	log *slog.Logger
}

func NewCustomerHandler(uc *ucCustomer.Usecase, log *slog.Logger) *CustomerHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CustomerHandler{uc: uc, log: log}
}

type customerReq struct {
	Name            string          `json:"name"              validate:"required,max=128"`
	Phone           string          `json:"phone"             validate:"required,phone"`
	Address         string          `json:"address"           validate:"required,max=512"`
	ProfilePicture  string          `json:"profile_picture"`
	LoanStartDate   string          `json:"loan_start_date"   validate:"required,datetime=2006-01-02"`
	TotalLoanAmount decimal.Decimal `json:"total_loan_amount" validate:"gt=0,dec2"`
	DailyPayment    decimal.Decimal `json:"daily_payment"     validate:"gte=0,dec2"`
}

func (r customerReq) input() ucCustomer.CustomerInput {
	// datetime tag already checked the layout
	start, _ := date.Parse(r.LoanStartDate)
	return ucCustomer.CustomerInput{
		Name:            r.Name,
		Phone:           r.Phone,
		Address:         r.Address,
		ProfilePicture:  r.ProfilePicture,
		LoanStartDate:   start,
		TotalLoanAmount: r.TotalLoanAmount,
		DailyPayment:    r.DailyPayment,
	}
}

type listQuery struct {
	Q      string `query:"q"      validate:"max=128"`
	Status string `query:"status" validate:"omitempty,oneof=all active overdue completed pending deactivated"`
	Sort   string `query:"sort"   validate:"omitempty,oneof=name name-desc amount amount-asc date date-old"`
}

type lookupReq struct {
	Phone string `json:"phone" validate:"required,phone"`
}

func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	var req customerReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), req.input())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, present(dto))
}

func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	id, ok := pathCustomerID(c)
	if !ok {
		return badCustomerID(c)
	}
	dto, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, present(dto))
}

func (h *CustomerHandler) ListCustomers(c echo.Context) error {
	var q listQuery
	if ok, err := bindAndValidate(c, &q); !ok {
		return err
	}

	f := ucCustomer.ListFilter{Search: q.Q, Sort: q.Sort}
	if q.Status != "" && q.Status != "all" {
		f.State, _ = loan.ParseState(q.Status)
	}

	list, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]customerResponse, 0, len(list))
	for i := range list {
		out = append(out, present(&list[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) UpdateCustomer(c echo.Context) error {
	id, ok := pathCustomerID(c)
	if !ok {
		return badCustomerID(c)
	}
	var req customerReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, present(dto))
}

func (h *CustomerHandler) DeleteCustomer(c echo.Context) error {
	id, ok := pathCustomerID(c)
	if !ok {
		return badCustomerID(c)
	}
	force := strings.EqualFold(c.QueryParam("force"), "true")
	if err := h.uc.Delete(c.Request().Context(), id, force); err != nil {
		return writeError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Lookup serves the borrower self-service page: the phone number is the only key.
func (h *CustomerHandler) Lookup(c echo.Context) error {
	var req lookupReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Lookup(c.Request().Context(), req.Phone)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, present(dto))
}
