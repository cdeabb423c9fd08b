package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/smd-api/internal/domain/entity"
)

// ClosingPatch cambios parciales sobre un cierre. Campo nil = sin cambio.
// MarketerID apuntando a "" quita el referidor.
type ClosingPatch struct {
	MonthlyRent *decimal.Decimal
	MarketerID  *string
	Notes       *string
	Status      *entity.ClosingStatus
	ClosedAt    *time.Time
}

// Empty indica si el patch no modifica nada.
func (p ClosingPatch) Empty() bool {
	return p.MonthlyRent == nil && p.MarketerID == nil && p.Notes == nil && p.Status == nil && p.ClosedAt == nil
}

// ClosingRepository define el puerto de persistencia de cierres. Usado dentro de transacciones.
type ClosingRepository interface {
	Create(ctx context.Context, closing *entity.Closing) error
	GetByID(ctx context.Context, id string) (*entity.Closing, error)
	// GetForUpdate bloquea la fila del cierre (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Closing, error)
	// SumActiveShare suma share_percentage de los cierres activos del SMD.
	SumActiveShare(ctx context.Context, deviceID string) (decimal.Decimal, error)
	// FindActiveByDeviceAndCustomer devuelve los cierres activos del par (SMD, cliente).
	FindActiveByDeviceAndCustomer(ctx context.Context, deviceID, customerID string) ([]*entity.Closing, error)
	// AddPayment incrementa amount_paid en el propio motor (amount_paid = amount_paid + $1)
	// solo si el cierre está activo. false = ninguna fila afectada.
	AddPayment(ctx context.Context, id string, amount decimal.Decimal) (bool, error)
	Update(ctx context.Context, id string, patch ClosingPatch) error
}

// PayoutRepository define el puerto de escritura de liquidaciones mensuales.
type PayoutRepository interface {
	// Create devuelve domain.ErrDuplicatePayout si ya existe el mes para el cierre.
	Create(ctx context.Context, payout *entity.RentPayout) error
}

// ClosingPaymentRepository define el puerto de escritura de abonos.
type ClosingPaymentRepository interface {
	Create(ctx context.Context, payment *entity.ClosingPayment) error
}
