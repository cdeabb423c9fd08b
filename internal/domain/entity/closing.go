package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ClosingStatus estado del contrato SMD→cliente.
type ClosingStatus string

const (
	ClosingStatusActive    ClosingStatus = "active"
	ClosingStatusClosed    ClosingStatus = "closed"
	ClosingStatusCancelled ClosingStatus = "cancelled"
)

// ParseClosingStatus valida un estado recibido por la API.
func ParseClosingStatus(s string) (ClosingStatus, error) {
	switch st := ClosingStatus(s); st {
	case ClosingStatusActive, ClosingStatusClosed, ClosingStatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("closing status %q is not valid", s)
}

// CanTransitionTo: solo un cierre activo puede pasar a closed o cancelled; los terminales no cambian.
func (s ClosingStatus) CanTransitionTo(next ClosingStatus) bool {
	if s != ClosingStatusActive {
		return false
	}
	return next == ClosingStatusClosed || next == ClosingStatusCancelled
}

// Closing asigna un porcentaje de propiedad de un SMD a un cliente (tabla smd_closings).
// RemainingBalance no se persiste: se deriva de TotalAmountDue − AmountPaid.
type Closing struct {
	ID              string
	DeviceID        string
	CustomerID      string
	MarketerID      *string
	SellPrice       decimal.Decimal
	MonthlyRent     decimal.Decimal
	SharePercentage decimal.Decimal
	TotalAmountDue  decimal.Decimal
	AmountPaid      decimal.Decimal
	Status          ClosingStatus
	Notes           string
	ClosedBy        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ClosedAt        *time.Time
}

// RemainingBalance saldo pendiente del contrato.
func (c *Closing) RemainingBalance() decimal.Decimal {
	return c.TotalAmountDue.Sub(c.AmountPaid)
}
