package repository

import (
	"context"

	"github.com/jhoicas/smd-api/internal/domain/entity"
)

// DeviceRepository define el puerto de lectura de SMDs. El CRUD de dispositivos vive fuera de esta API.
type DeviceRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Device, error)
	// GetForUpdate bloquea la fila del SMD hasta el fin de la transacción (SELECT FOR UPDATE).
	// Serializa a los escritores que compiten por la participación del mismo SMD.
	GetForUpdate(ctx context.Context, id string) (*entity.Device, error)
}
