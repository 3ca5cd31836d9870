package payment

import (
	"loanpro-backend/pkg/date"

	"github.com/shopspring/decimal"
)

type AddPaymentInput struct {
	Date      date.Date
	Amount    decimal.Decimal
	Principal *decimal.Decimal // nil means the whole amount is principal
}
