package repository

import (
	"context"

	"github.com/jhoicas/smd-api/internal/domain/entity"
)

// CustomerRepository define el puerto de lectura de clientes (perfil + estado de la cuenta de usuario).
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
}

// MarketerRepository define el puerto de lectura de referidores.
type MarketerRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Marketer, error)
}
