package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/smd-api/internal/domain/entity"
	"github.com/jhoicas/smd-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura (listados, detalle, estado de cuenta). Se usa con el pool.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de lectura.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

const closingJoins = `
	FROM smd_closings sc
	JOIN smds s ON s.smd_id = sc.smd_id
	JOIN customers c ON c.customer_id = sc.customer_id
	JOIN users u ON u.user_id = c.user_id
	LEFT JOIN marketers m ON m.marketer_id = sc.marketer_id
	LEFT JOIN users mu ON mu.user_id = m.user_id
	LEFT JOIN users cu ON cu.user_id = sc.closed_by`

const closingRowColumns = closingColumns + `,
	s.smd_code, s.title, COALESCE(s.city, ''), COALESCE(s.area, ''),
	u.full_name, u.email, COALESCE(c.contact_number, ''),
	COALESCE(mu.full_name, ''), COALESCE(mu.email, ''), COALESCE(cu.full_name, '')`

func scanClosingRow(row pgx.Row) (repository.ClosingRow, error) {
	var r repository.ClosingRow
	targets := append(closingScanTargets(&r.Closing),
		&r.DeviceCode, &r.DeviceTitle, &r.DeviceCity, &r.DeviceArea,
		&r.CustomerName, &r.CustomerEmail, &r.ContactNumber,
		&r.MarketerName, &r.MarketerEmail, &r.ClosedByName,
	)
	err := row.Scan(targets...)
	return r, err
}

// ListClosings listado filtrado y paginado de cierres, más reciente primero.
func (r *ReportRepo) ListClosings(ctx context.Context, f repository.ClosingFilter) ([]repository.ClosingRow, int, error) {
	var args queryArgs
	w := newWhere(&args)
	w.eq("sc.smd_id", f.DeviceID)
	w.eq("sc.customer_id", f.CustomerID)
	w.eq("sc.marketer_id", f.MarketerID)
	w.eq("sc.status", string(f.Status))
	if f.Search != "" {
		p := likePattern(f.Search)
		w.raw("(s.smd_code ILIKE ? OR u.full_name ILIKE ? OR mu.full_name ILIKE ?)", p, p, p)
	}
	where := w.String()

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)::int `+closingJoins+` `+where, args.values...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count smd closings: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY sc.created_at DESC LIMIT %s OFFSET %s`,
		closingRowColumns, closingJoins, where, args.add(f.Limit), args.add(f.Offset))
	rows, err := r.q.Query(ctx, query, args.values...)
	if err != nil {
		return nil, 0, fmt.Errorf("list smd closings: %w", err)
	}
	defer rows.Close()

	list := make([]repository.ClosingRow, 0, f.Limit)
	for rows.Next() {
		cr, err := scanClosingRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan smd closing row: %w", err)
		}
		list = append(list, cr)
	}
	return list, total, rows.Err()
}

// GetClosing detalle de un cierre. Devuelve nil, nil si no existe.
func (r *ReportRepo) GetClosing(ctx context.Context, id string) (*repository.ClosingRow, error) {
	cr, err := scanClosingRow(r.q.QueryRow(ctx,
		`SELECT `+closingRowColumns+` `+closingJoins+` WHERE sc.smd_closing_id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get smd closing detail: %w", err)
	}
	return &cr, nil
}

// ListPayments abonos de un cierre, más reciente primero.
func (r *ReportRepo) ListPayments(ctx context.Context, closingID string) ([]*entity.ClosingPayment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT payment_id, smd_closing_id, amount, COALESCE(payment_method, ''), COALESCE(reference_no, ''),
		       COALESCE(notes, ''), COALESCE(recorded_by::text, ''), created_at
		FROM smd_closing_payments
		WHERE smd_closing_id = $1
		ORDER BY created_at DESC`, closingID)
	if err != nil {
		return nil, fmt.Errorf("list closing payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.ClosingPayment
	for rows.Next() {
		var p entity.ClosingPayment
		if err := rows.Scan(&p.ID, &p.ClosingID, &p.Amount, &p.Method, &p.ReferenceNo, &p.Notes, &p.RecordedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan closing payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

const payoutJoins = `
	FROM smd_rent_payouts rp
	JOIN smd_closings sc ON sc.smd_closing_id = rp.smd_closing_id
	JOIN customers c ON c.customer_id = sc.customer_id
	JOIN users u ON u.user_id = c.user_id
	JOIN smds s ON s.smd_id = sc.smd_id
	LEFT JOIN users pu ON pu.user_id = rp.paid_by`

const payoutRowColumns = `
	rp.payout_id, rp.smd_closing_id, rp.payout_month, rp.amount, rp.status,
	COALESCE(rp.paid_by::text, ''), rp.paid_at, rp.created_at,
	c.customer_id, u.full_name, u.email, s.smd_id, s.smd_code, s.title, COALESCE(pu.full_name, '')`

func scanPayoutRow(row pgx.Row) (repository.PayoutRow, error) {
	var (
		pr    repository.PayoutRow
		month time.Time
	)
	err := row.Scan(
		&pr.Payout.ID, &pr.Payout.ClosingID, &month, &pr.Payout.Amount, &pr.Payout.Status,
		&pr.Payout.PaidBy, &pr.Payout.PaidAt, &pr.Payout.CreatedAt,
		&pr.CustomerID, &pr.CustomerName, &pr.CustomerEmail,
		&pr.DeviceID, &pr.DeviceCode, &pr.DeviceTitle, &pr.PaidByName,
	)
	pr.Payout.Month = entity.PayoutMonthOf(month)
	return pr, err
}

// ListPayouts listado filtrado y paginado de liquidaciones, mes más reciente primero.
func (r *ReportRepo) ListPayouts(ctx context.Context, f repository.PayoutFilter) ([]repository.PayoutRow, int, error) {
	var args queryArgs
	w := newWhere(&args)
	w.eq("rp.status", string(f.Status))
	w.eq("rp.smd_closing_id", f.ClosingID)
	w.eq("sc.customer_id", f.CustomerID)
	w.eq("sc.smd_id", f.DeviceID)
	if f.Month != nil {
		w.raw("rp.payout_month = ?", f.Month.Date())
	}
	where := w.String()

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)::int `+payoutJoins+` `+where, args.values...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count rent payouts: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY rp.payout_month DESC, rp.created_at DESC LIMIT %s OFFSET %s`,
		payoutRowColumns, payoutJoins, where, args.add(f.Limit), args.add(f.Offset))
	rows, err := r.q.Query(ctx, query, args.values...)
	if err != nil {
		return nil, 0, fmt.Errorf("list rent payouts: %w", err)
	}
	defer rows.Close()

	list := make([]repository.PayoutRow, 0, f.Limit)
	for rows.Next() {
		pr, err := scanPayoutRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan rent payout row: %w", err)
		}
		list = append(list, pr)
	}
	return list, total, rows.Err()
}

// ListPayoutsByClosings historial de liquidaciones de los cierres indicados.
func (r *ReportRepo) ListPayoutsByClosings(ctx context.Context, closingIDs []string) ([]repository.PayoutRow, error) {
	if len(closingIDs) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+payoutRowColumns+` `+payoutJoins+`
		WHERE rp.smd_closing_id::text = ANY($1)
		ORDER BY rp.payout_month DESC`, closingIDs)
	if err != nil {
		return nil, fmt.Errorf("list payouts by closings: %w", err)
	}
	defer rows.Close()
	var list []repository.PayoutRow
	for rows.Next() {
		pr, err := scanPayoutRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rent payout row: %w", err)
		}
		list = append(list, pr)
	}
	return list, rows.Err()
}
