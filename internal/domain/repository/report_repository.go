package repository

import (
	"context"

	"github.com/jhoicas/smd-api/internal/domain/entity"
)

// ClosingFilter filtros del listado de cierres. Vacío = sin filtro.
type ClosingFilter struct {
	DeviceID   string
	CustomerID string
	MarketerID string
	Status     entity.ClosingStatus
	Search     string // smd_code, nombre del cliente o del referidor (ILIKE)
	Limit      int
	Offset     int
}

// ClosingRow cierre con la identidad de las partes unidas (lectura).
type ClosingRow struct {
	Closing       entity.Closing
	DeviceCode    string
	DeviceTitle   string
	DeviceCity    string
	DeviceArea    string
	CustomerName  string
	CustomerEmail string
	ContactNumber string
	MarketerName  string
	MarketerEmail string
	ClosedByName  string
}

// PayoutFilter filtros del listado de liquidaciones.
type PayoutFilter struct {
	Status     entity.PayoutStatus
	ClosingID  string
	CustomerID string
	DeviceID   string
	Month      *entity.PayoutMonth
	Limit      int
	Offset     int
}

// PayoutRow liquidación con cliente, SMD y quien pagó.
type PayoutRow struct {
	Payout        entity.RentPayout
	CustomerID    string
	CustomerName  string
	CustomerEmail string
	DeviceID      string
	DeviceCode    string
	DeviceTitle   string
	PaidByName    string
}

// ReportRepository consultas de solo lectura para listados, detalle y estado de cuenta.
// Las implementaciones nunca modifican datos ni las usan las rutas de escritura.
type ReportRepository interface {
	// ListClosings devuelve la página pedida y el total sin paginar. Orden: created_at DESC.
	ListClosings(ctx context.Context, f ClosingFilter) ([]ClosingRow, int, error)
	// GetClosing devuelve nil, nil si no existe.
	GetClosing(ctx context.Context, id string) (*ClosingRow, error)
	// ListPayments abonos del cierre, más reciente primero.
	ListPayments(ctx context.Context, closingID string) ([]*entity.ClosingPayment, error)
	// ListPayouts devuelve la página pedida y el total. Orden: payout_month DESC.
	ListPayouts(ctx context.Context, f PayoutFilter) ([]PayoutRow, int, error)
	// ListPayoutsByClosings historial de liquidaciones de varios cierres, payout_month DESC.
	ListPayoutsByClosings(ctx context.Context, closingIDs []string) ([]PayoutRow, error)
}
