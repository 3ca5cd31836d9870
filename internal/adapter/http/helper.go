package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"loanpro-backend/internal/domain/customer"
	"loanpro-backend/internal/domain/loan"
	"loanpro-backend/internal/domain/payment"
	ucCustomer "loanpro-backend/internal/usecase/customer"
	ucPayment "loanpro-backend/internal/usecase/payment"

	"github.com/labstack/echo/v4"
)

// DaysLabel is the human-readable counterpart of a days status.
func DaysLabel(ds loan.DaysStatus) string {
	switch ds.Tag {
	case loan.StateCompleted:
		return "Loan Completed"
	case loan.StateOverdue:
		return fmt.Sprintf("Overdue: %d days", ds.Days)
	}
	return fmt.Sprintf("%d days remaining", ds.Days)
}

type customerResponse struct {
	*ucCustomer.CustomerDTO
	DaysLabel string `json:"days_label"`
}

func present(dto *ucCustomer.CustomerDTO) customerResponse {
	return customerResponse{CustomerDTO: dto, DaysLabel: DaysLabel(dto.DaysStatus)}
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, customer.ErrNotFound), errors.Is(err, payment.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, customer.ErrPhoneTaken), errors.Is(err, customer.ErrLoanNotCompleted):
		return http.StatusConflict, err.Error()
	case errors.Is(err, ucCustomer.ErrInvalidInput),
		errors.Is(err, ucPayment.ErrInvalidInput),
		errors.Is(err, loan.ErrInvalidTerms):
		return http.StatusUnprocessableEntity, err.Error()
	}
	return http.StatusInternalServerError, "internal error"
}

// writeError maps domain errors onto HTTP codes. Unmapped errors are logged
// and hidden from the client.
func writeError(c echo.Context, log *slog.Logger, err error) error {
	code, msg := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Error("request failed",
			slog.String("method", c.Request().Method),
			slog.String("path", c.Path()),
			slog.Any("err", err),
		)
	}
	return c.JSON(code, ErrorResponse{Error: msg})
}

// bindAndValidate writes the 400/422 response itself and reports ok=false
// when the handler must stop.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

func pathCustomerID(c echo.Context) (string, bool) {
	id := c.Param("customer_id")
	return id, reHex32.MatchString(id)
}

func badCustomerID(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid customer_id path param"})
}
