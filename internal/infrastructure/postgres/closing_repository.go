package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/smd-api/internal/domain"
	"github.com/jhoicas/smd-api/internal/domain/entity"
	"github.com/jhoicas/smd-api/internal/domain/repository"
)

var _ repository.ClosingRepository = (*ClosingRepo)(nil)

// ClosingRepo implementación de ClosingRepository sobre PostgreSQL (usable con pool o tx).
type ClosingRepo struct {
	q Querier
}

// NewClosingRepository construye el adaptador de cierres. Pasar pool o tx (Querier).
func NewClosingRepository(q Querier) *ClosingRepo {
	return &ClosingRepo{q: q}
}

const closingColumns = `
	sc.smd_closing_id, sc.smd_id, sc.customer_id, sc.marketer_id::text,
	sc.sell_price, sc.monthly_rent, sc.share_percentage, sc.total_amount_due, sc.amount_paid,
	sc.status, COALESCE(sc.notes, ''), COALESCE(sc.closed_by::text, ''),
	sc.created_at, sc.updated_at, sc.closed_at`

func closingScanTargets(c *entity.Closing) []any {
	return []any{
		&c.ID, &c.DeviceID, &c.CustomerID, &c.MarketerID,
		&c.SellPrice, &c.MonthlyRent, &c.SharePercentage, &c.TotalAmountDue, &c.AmountPaid,
		&c.Status, &c.Notes, &c.ClosedBy,
		&c.CreatedAt, &c.UpdatedAt, &c.ClosedAt,
	}
}

// Create persiste un cierre nuevo.
func (r *ClosingRepo) Create(ctx context.Context, c *entity.Closing) error {
	query := `
		INSERT INTO smd_closings (
			smd_closing_id, smd_id, customer_id, marketer_id,
			sell_price, monthly_rent, share_percentage, total_amount_due, amount_paid,
			status, notes, closed_by, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), NULLIF($12, '')::uuid, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.DeviceID, c.CustomerID, c.MarketerID,
		c.SellPrice, c.MonthlyRent, c.SharePercentage, c.TotalAmountDue, c.AmountPaid,
		c.Status, c.Notes, c.ClosedBy, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert smd closing: %w", err)
	}
	return nil
}

// GetByID obtiene un cierre por ID. Devuelve nil, nil si no existe.
func (r *ClosingRepo) GetByID(ctx context.Context, id string) (*entity.Closing, error) {
	return r.get(ctx, `SELECT `+closingColumns+` FROM smd_closings sc WHERE sc.smd_closing_id = $1`, id)
}

// GetForUpdate obtiene el cierre y bloquea la fila (SELECT FOR UPDATE).
func (r *ClosingRepo) GetForUpdate(ctx context.Context, id string) (*entity.Closing, error) {
	return r.get(ctx, `SELECT `+closingColumns+` FROM smd_closings sc WHERE sc.smd_closing_id = $1 FOR UPDATE`, id)
}

func (r *ClosingRepo) get(ctx context.Context, query, id string) (*entity.Closing, error) {
	var c entity.Closing
	if err := r.q.QueryRow(ctx, query, id).Scan(closingScanTargets(&c)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get smd closing: %w", err)
	}
	return &c, nil
}

// SumActiveShare suma la participación de los cierres activos del SMD.
// Debe llamarse con la fila del SMD ya bloqueada para que el resultado siga vigente al insertar.
func (r *ClosingRepo) SumActiveShare(ctx context.Context, deviceID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(share_percentage), 0)
		FROM smd_closings
		WHERE smd_id = $1 AND status = 'active'`, deviceID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum active share: %w", err)
	}
	return total, nil
}

// FindActiveByDeviceAndCustomer devuelve los cierres activos del par (SMD, cliente), más antiguo primero.
func (r *ClosingRepo) FindActiveByDeviceAndCustomer(ctx context.Context, deviceID, customerID string) ([]*entity.Closing, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+closingColumns+`
		FROM smd_closings sc
		WHERE sc.smd_id = $1 AND sc.customer_id = $2 AND sc.status = 'active'
		ORDER BY sc.created_at`, deviceID, customerID)
	if err != nil {
		return nil, fmt.Errorf("find active closings: %w", err)
	}
	defer rows.Close()
	var list []*entity.Closing
	for rows.Next() {
		var c entity.Closing
		if err := rows.Scan(closingScanTargets(&c)...); err != nil {
			return nil, fmt.Errorf("scan smd closing: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// AddPayment suma amount a amount_paid en el motor. El UPDATE toma el lock de la fila,
// así que dos abonos concurrentes se aplican uno detrás del otro sin perder ninguno.
func (r *ClosingRepo) AddPayment(ctx context.Context, id string, amount decimal.Decimal) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE smd_closings
		SET amount_paid = amount_paid + $1, updated_at = now()
		WHERE smd_closing_id = $2 AND status = 'active'`, amount, id)
	if err != nil {
		if isNumericOverflow(err) {
			return false, domain.Invalid("amount_paid would exceed %s", domain.MaxAmount)
		}
		return false, fmt.Errorf("add closing payment: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Update aplica solo los campos presentes en el patch.
func (r *ClosingRepo) Update(ctx context.Context, id string, patch repository.ClosingPatch) error {
	if patch.Empty() {
		return nil
	}
	u := newUpdate("smd_closings")
	if patch.MonthlyRent != nil {
		u.set("monthly_rent", *patch.MonthlyRent)
	}
	if patch.MarketerID != nil {
		if *patch.MarketerID == "" {
			u.set("marketer_id", nil)
		} else {
			u.set("marketer_id", *patch.MarketerID)
		}
	}
	if patch.Notes != nil {
		u.set("notes", *patch.Notes)
	}
	if patch.Status != nil {
		u.set("status", string(*patch.Status))
	}
	if patch.ClosedAt != nil {
		u.set("closed_at", *patch.ClosedAt)
	}
	u.setRaw("updated_at", "now()")
	sql, args := u.build("smd_closing_id", id)

	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidMarketer
		}
		return fmt.Errorf("update smd closing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
