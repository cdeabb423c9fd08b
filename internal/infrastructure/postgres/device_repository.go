package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/smd-api/internal/domain/entity"
	"github.com/jhoicas/smd-api/internal/domain/repository"
)

var _ repository.DeviceRepository = (*DeviceRepo)(nil)

// DeviceRepo implementación de DeviceRepository sobre PostgreSQL (usable con pool o tx).
type DeviceRepo struct {
	q Querier
}

// NewDeviceRepository construye el adaptador de SMDs. Pasar pool o tx (Querier).
func NewDeviceRepository(q Querier) *DeviceRepo {
	return &DeviceRepo{q: q}
}

const deviceColumns = `
	smd_id, smd_code, title, COALESCE(city, ''), COALESCE(area, ''), COALESCE(address, ''),
	purchase_price, sell_price, monthly_payout, is_active, status,
	COALESCE(owner_user_id::text, ''), COALESCE(added_by::text, ''), created_at, updated_at`

func scanDevice(row pgx.Row) (*entity.Device, error) {
	var d entity.Device
	err := row.Scan(
		&d.ID, &d.Code, &d.Title, &d.City, &d.Area, &d.Address,
		&d.PurchasePrice, &d.SellPrice, &d.MonthlyPayout, &d.IsActive, &d.Status,
		&d.OwnerUserID, &d.AddedBy, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetByID obtiene un SMD por ID. Devuelve nil, nil si no existe.
func (r *DeviceRepo) GetByID(ctx context.Context, id string) (*entity.Device, error) {
	d, err := scanDevice(r.q.QueryRow(ctx, `SELECT `+deviceColumns+` FROM smds WHERE smd_id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get smd: %w", err)
	}
	return d, nil
}

// GetForUpdate obtiene el SMD y bloquea la fila (SELECT FOR UPDATE). Solo tiene efecto dentro de una tx.
func (r *DeviceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Device, error) {
	d, err := scanDevice(r.q.QueryRow(ctx, `SELECT `+deviceColumns+` FROM smds WHERE smd_id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get smd for update: %w", err)
	}
	return d, nil
}
