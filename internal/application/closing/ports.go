package closing

import (
	"context"

	"github.com/jhoicas/smd-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error no queda nada persistido.
type TxRunner interface {
	RunClosing(ctx context.Context, fn func(
		devices repository.DeviceRepository,
		customers repository.CustomerRepository,
		marketers repository.MarketerRepository,
		closings repository.ClosingRepository,
		payments repository.ClosingPaymentRepository,
	) error) error
}
