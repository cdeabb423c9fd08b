package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod medio de pago de un abono.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCheque       PaymentMethod = "cheque"
	PaymentMethodOnline       PaymentMethod = "online"
	PaymentMethodOther        PaymentMethod = "other"
)

// ParsePaymentMethod valida el medio de pago; vacío es válido (no informado).
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch pm := PaymentMethod(s); pm {
	case "", PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheque, PaymentMethodOnline, PaymentMethodOther:
		return pm, nil
	}
	return "", fmt.Errorf("payment_method %q is not valid", s)
}

// ClosingPayment abono parcial contra el total de un cierre (tabla smd_closing_payments).
type ClosingPayment struct {
	ID          string
	ClosingID   string
	Amount      decimal.Decimal
	Method      PaymentMethod
	ReferenceNo string
	Notes       string
	RecordedBy  string
	CreatedAt   time.Time
}
