package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePayoutRequest liquidación mensual. El cierre se identifica por smd_closing_id
// o por el par (smd_id, customer_id), nunca por ambos.
type CreatePayoutRequest struct {
	SMDClosingID string          `json:"smd_closing_id,omitempty"`
	SMDID        string          `json:"smd_id,omitempty"`
	CustomerID   string          `json:"customer_id,omitempty"`
	PayoutMonth  string          `json:"payout_month"`
	Amount       decimal.Decimal `json:"amount"`
}

// CreatePayoutResponse liquidación creada.
type CreatePayoutResponse struct {
	PayoutID     string `json:"payout_id"`
	SMDClosingID string `json:"smd_closing_id"`
	PayoutMonth  string `json:"payout_month"`
}

// ListPayoutsRequest filtros del listado de liquidaciones.
type ListPayoutsRequest struct {
	PageRequest
	Status       string `query:"status"`
	SMDClosingID string `query:"smd_closing_id"`
	CustomerID   string `query:"customer_id"`
	SMDID        string `query:"smd_id"`
	PayoutMonth  string `query:"payout_month"`
}

// PayoutResponse liquidación con cliente, SMD y quien pagó.
type PayoutResponse struct {
	PayoutID     string          `json:"payout_id"`
	SMDClosingID string          `json:"smd_closing_id"`
	PayoutMonth  string          `json:"payout_month"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	PaidAt       time.Time       `json:"paid_at"`
	CreatedAt    time.Time       `json:"created_at"`
	PaidBy       string          `json:"paid_by"`
	PaidByName   string          `json:"paid_by_name,omitempty"`

	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`

	SMDID    string `json:"smd_id"`
	SMDCode  string `json:"smd_code"`
	SMDTitle string `json:"smd_title"`
}

// CustomerSMDResponse un cierre del cliente con su historial de liquidaciones.
type CustomerSMDResponse struct {
	ClosingResponse
	Payouts []PayoutResponse `json:"payouts"`
}

// CustomerSMDsRequest paginación y búsqueda de los SMDs de un cliente.
type CustomerSMDsRequest struct {
	PageRequest
	Search string `query:"search"`
	Status string `query:"status"`
}
