package payout

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/smd-api/internal/domain/entity"
	"github.com/jhoicas/smd-api/internal/domain/repository"
)

// TxRunner ejecuta el registro de una liquidación dentro de una transacción.
type TxRunner interface {
	RunPayout(ctx context.Context, fn func(
		closings repository.ClosingRepository,
		customers repository.CustomerRepository,
		payouts repository.PayoutRepository,
	) error) error
}

// Notice datos del aviso de pago que se envía al cliente tras el commit.
type Notice struct {
	PayoutID      string
	ClosingID     string
	DeviceID      string
	CustomerName  string
	CustomerEmail string
	Month         entity.PayoutMonth
	Amount        decimal.Decimal
	PaidAt        time.Time
}

// Notifier envía avisos de pago. Best-effort: su error nunca afecta la liquidación ya registrada.
type Notifier interface {
	PayoutRecorded(ctx context.Context, n Notice) error
}

// NopNotifier no envía nada (SMTP sin configurar).
type NopNotifier struct{}

// PayoutRecorded no hace nada.
func (NopNotifier) PayoutRecorded(context.Context, Notice) error { return nil }
