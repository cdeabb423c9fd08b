package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/smd-api/internal/domain"
	"github.com/jhoicas/smd-api/internal/domain/entity"
	"github.com/jhoicas/smd-api/internal/domain/repository"
)

var (
	_ repository.PayoutRepository         = (*PayoutRepo)(nil)
	_ repository.ClosingPaymentRepository = (*ClosingPaymentRepo)(nil)
)

// PayoutRepo implementación de PayoutRepository (usable con pool o tx).
type PayoutRepo struct {
	q Querier
}

// NewPayoutRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPayoutRepository(q Querier) *PayoutRepo {
	return &PayoutRepo{q: q}
}

// Create inserta la liquidación. El UNIQUE (smd_closing_id, payout_month) resuelve la carrera
// entre dos registros del mismo mes: el segundo recibe ErrDuplicatePayout.
func (r *PayoutRepo) Create(ctx context.Context, p *entity.RentPayout) error {
	query := `
		INSERT INTO smd_rent_payouts (payout_id, smd_closing_id, payout_month, amount, status, paid_by, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::uuid, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ClosingID, p.Month.Date(), p.Amount, p.Status, p.PaidBy, p.PaidAt, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			if c := violatedConstraint(err); c == "" || c == constraintPayoutMonth {
				return domain.ErrDuplicatePayout
			}
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert rent payout: %w", err)
	}
	return nil
}

// ClosingPaymentRepo implementación de ClosingPaymentRepository.
type ClosingPaymentRepo struct {
	q Querier
}

// NewClosingPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClosingPaymentRepository(q Querier) *ClosingPaymentRepo {
	return &ClosingPaymentRepo{q: q}
}

// Create inserta un abono.
func (r *ClosingPaymentRepo) Create(ctx context.Context, p *entity.ClosingPayment) error {
	query := `
		INSERT INTO smd_closing_payments (payment_id, smd_closing_id, amount, payment_method, reference_no, notes, recorded_by, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, '')::uuid, $8)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ClosingID, p.Amount, string(p.Method), p.ReferenceNo, p.Notes, p.RecordedBy, p.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert closing payment: %w", err)
	}
	return nil
}
