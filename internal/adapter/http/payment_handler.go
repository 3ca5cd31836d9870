package http

import (
	"log/slog"
	"net/http"

	ucPayment "loanpro-backend/internal/usecase/payment"
	"loanpro-backend/pkg/date"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct {
	uc  *ucPayment.Usecase
	log *slog.Logger
}

func NewPaymentHandler(uc *ucPayment.Usecase, log *slog.Logger) *PaymentHandler {
	if log == nil {
		log = slog.Default()
	}
	return &PaymentHandler{uc: uc, log: log}
}

type addPaymentReq struct {
	Date      string           `json:"date"      validate:"required,datetime=2006-01-02"`
	Amount    *decimal.Decimal `json:"amount"    validate:"required,gte=0,dec2"`
	Principal *decimal.Decimal `json:"principal" validate:"omitempty,gte=0,dec2"`
}

func (h *PaymentHandler) AddPayment(c echo.Context) error {
	id, ok := pathCustomerID(c)
	if !ok {
		return badCustomerID(c)
	}
	var req addPaymentReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	d, _ := date.Parse(req.Date)

	dto, err := h.uc.Add(c.Request().Context(), id, ucPayment.AddPaymentInput{
		Date:      d,
		Amount:    *req.Amount,
		Principal: req.Principal,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, present(dto))
}

func (h *PaymentHandler) DeletePayment(c echo.Context) error {
	id, ok := pathCustomerID(c)
	if !ok {
		return badCustomerID(c)
	}
	d, err := date.Parse(c.Param("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date path param, want YYYY-MM-DD"})
	}
	if err := h.uc.DeleteByDate(c.Request().Context(), id, d); err != nil {
		return writeError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
