package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/smd-api/internal/application/closing"
	"github.com/jhoicas/smd-api/internal/application/payout"
	"github.com/jhoicas/smd-api/internal/domain/repository"
)

// Ensure TxRunner implements closing.TxRunner and payout.TxRunner.
var (
	_ closing.TxRunner = (*TxRunner)(nil)
	_ payout.TxRunner  = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner con el pool. lockTimeout acota la espera por filas bloqueadas (0 = sin límite).
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// run inicia la transacción, ejecuta fn y hace Commit, o Rollback ante cualquier error.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("set lock_timeout: %w", err)
		}
	}

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunClosing transacción con los repos del libro de cierres y abonos.
func (r *TxRunner) RunClosing(ctx context.Context, fn func(
	devices repository.DeviceRepository,
	customers repository.CustomerRepository,
	marketers repository.MarketerRepository,
	closings repository.ClosingRepository,
	payments repository.ClosingPaymentRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(
			NewDeviceRepository(tx),
			NewCustomerRepository(tx),
			NewMarketerRepository(tx),
			NewClosingRepository(tx),
			NewClosingPaymentRepository(tx),
		)
	})
}

// RunPayout transacción con los repos necesarios para registrar una liquidación mensual.
func (r *TxRunner) RunPayout(ctx context.Context, fn func(
	closings repository.ClosingRepository,
	customers repository.CustomerRepository,
	payouts repository.PayoutRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(
			NewClosingRepository(tx),
			NewCustomerRepository(tx),
			NewPayoutRepository(tx),
		)
	})
}
