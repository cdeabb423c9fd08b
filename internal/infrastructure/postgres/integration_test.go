package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smd-api/internal/application/closing"
	"github.com/jhoicas/smd-api/internal/application/dto"
	"github.com/jhoicas/smd-api/internal/application/payout"
	"github.com/jhoicas/smd-api/internal/application/reporting"
	"github.com/jhoicas/smd-api/internal/domain"
	"github.com/jhoicas/smd-api/internal/domain/entity"
	"github.com/jhoicas/smd-api/internal/infrastructure/postgres"
	"github.com/jhoicas/smd-api/migrations"
	"github.com/jhoicas/smd-api/pkg/config"
	"github.com/jhoicas/smd-api/pkg/logger"
	"github.com/jhoicas/smd-api/pkg/metrics"
)

// testPool conecta a TEST_DATABASE_URL y aplica las migraciones. Sin la variable el test se omite.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 20})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.NewMigrator(pool, migrations.FS, logger.Nop()).Run(ctx))
	return pool
}

func seedUser(t *testing.T, pool *pgxpool.Pool, role string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (full_name, email, role) VALUES ($1, $2, $3) RETURNING user_id::text`,
		"Usuario "+role, uuid.New().String()+"@example.com", role,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedCustomer(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(),
		`INSERT INTO customers (user_id) VALUES ($1) RETURNING customer_id::text`, seedUser(t, pool, "customer"),
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedDevice(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(),
		`INSERT INTO smds (smd_code, title, city) VALUES ($1, 'Billboard', 'Lahore') RETURNING smd_id::text`,
		fmt.Sprintf("IT-%s", uuid.New().String()[:8]),
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestIntegration_CierresConcurrentesNoSuperan100(t *testing.T) {
	pool := testPool(t)
	tx := postgres.NewTxRunner(pool, 5*time.Second)
	uc := closing.NewCreateClosingUseCase(tx, logger.Nop(), metrics.NewNop())
	admin := entity.Actor{UserID: seedUser(t, pool, "admin"), Role: entity.RoleAdmin}
	device := seedDevice(t, pool)

	const workers = 6
	customers := make([]string, workers)
	for i := range customers {
		customers[i] = seedCustomer(t, pool)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for _, c := range customers {
		wg.Add(1)
		go func(customerID string) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), admin, dto.CreateClosingRequest{
				CustomerID: customerID,
				SMDs: []dto.ClosingItemRequest{{
					SMDID: device, SellPrice: decimal.NewFromInt(1000),
					MonthlyRent: decimal.NewFromInt(100), SharePercentage: decimal.NewFromInt(40),
				}},
			})
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrShareExceeded)
		}(c)
	}
	wg.Wait()

	assert.Equal(t, 2, created)
	var total decimal.Decimal
	require.NoError(t, pool.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(share_percentage), 0) FROM smd_closings WHERE smd_id = $1 AND status = 'active'`, device,
	).Scan(&total))
	assert.True(t, total.LessThanOrEqual(decimal.NewFromInt(100)), "total = %s", total)
}

func TestIntegration_PagoYLiquidacion(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	tx := postgres.NewTxRunner(pool, 5*time.Second)
	staff := entity.Actor{UserID: seedUser(t, pool, "staff"), Role: entity.RoleStaff}
	customer := seedCustomer(t, pool)
	device := seedDevice(t, pool)

	res, err := closing.NewCreateClosingUseCase(tx, logger.Nop(), metrics.NewNop()).Execute(ctx, staff, dto.CreateClosingRequest{
		CustomerID: customer,
		SMDs: []dto.ClosingItemRequest{{
			SMDID: device, SellPrice: decimal.NewFromInt(5000),
			MonthlyRent: decimal.NewFromInt(250), SharePercentage: decimal.NewFromInt(100),
		}},
	})
	require.NoError(t, err)
	id := res.SMDClosingIDs[0]

	pay := closing.NewRecordPaymentUseCase(tx, logger.Nop(), metrics.NewNop())
	require.NoError(t, pay.Execute(ctx, staff, id, dto.RecordPaymentRequest{Amount: decimal.NewFromInt(1200), PaymentMethod: "bank_transfer"}))

	rec := payout.NewRecordPayoutUseCase(tx, nil, logger.Nop(), metrics.NewNop()).WithSyncNotify()
	req := dto.CreatePayoutRequest{SMDID: device, CustomerID: customer, PayoutMonth: "2025-06", Amount: decimal.NewFromInt(250)}
	_, err = rec.Execute(ctx, staff, req)
	require.NoError(t, err)
	_, err = rec.Execute(ctx, staff, req)
	assert.ErrorIs(t, err, domain.ErrDuplicatePayout)

	detail, err := reporting.NewReportingUseCase(postgres.NewReportRepository(pool), postgres.NewCustomerRepository(pool)).GetClosing(ctx, id)
	require.NoError(t, err)
	assert.True(t, detail.AmountPaid.Equal(decimal.NewFromInt(1200)))
	assert.True(t, detail.RemainingBalance.Equal(decimal.NewFromInt(3800)))
	assert.Len(t, detail.Payments, 1)
	require.Len(t, detail.Payouts, 1)
	assert.Equal(t, "2025-06", detail.Payouts[0].PayoutMonth)
}

func TestIntegration_LiquidacionPorParEsperaCancelacion(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	tx := postgres.NewTxRunner(pool, 5*time.Second)
	staff := entity.Actor{UserID: seedUser(t, pool, "staff"), Role: entity.RoleStaff}
	customer := seedCustomer(t, pool)
	device := seedDevice(t, pool)

	res, err := closing.NewCreateClosingUseCase(tx, logger.Nop(), metrics.NewNop()).Execute(ctx, staff, dto.CreateClosingRequest{
		CustomerID: customer,
		SMDs: []dto.ClosingItemRequest{{
			SMDID: device, SellPrice: decimal.NewFromInt(5000),
			MonthlyRent: decimal.NewFromInt(250), SharePercentage: decimal.NewFromInt(50),
		}},
	})
	require.NoError(t, err)

	// Cancelación abierta: la fila queda bloqueada hasta el commit.
	cancelTx, err := pool.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = cancelTx.Rollback(ctx) }()
	_, err = cancelTx.Exec(ctx, `UPDATE smd_closings SET status = 'cancelled' WHERE smd_closing_id = $1`, res.SMDClosingIDs[0])
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := payout.NewRecordPayoutUseCase(tx, nil, logger.Nop(), metrics.NewNop()).WithSyncNotify().
			Execute(ctx, staff, dto.CreatePayoutRequest{SMDID: device, CustomerID: customer, PayoutMonth: "2025-07", Amount: decimal.NewFromInt(250)})
		done <- err
	}()

	time.Sleep(300 * time.Millisecond)
	require.NoError(t, cancelTx.Commit(ctx))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, domain.ErrNotFound)
	case <-time.After(10 * time.Second):
		t.Fatal("la liquidación no terminó")
	}

	var n int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM smd_rent_payouts WHERE smd_closing_id = $1`, res.SMDClosingIDs[0]).Scan(&n))
	assert.Zero(t, n)
}

func TestIntegration_AbonosConcurrentes(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	tx := postgres.NewTxRunner(pool, 5*time.Second)
	staff := entity.Actor{UserID: seedUser(t, pool, "staff"), Role: entity.RoleStaff}

	res, err := closing.NewCreateClosingUseCase(tx, logger.Nop(), metrics.NewNop()).Execute(ctx, staff, dto.CreateClosingRequest{
		CustomerID: seedCustomer(t, pool),
		SMDs: []dto.ClosingItemRequest{{
			SMDID: seedDevice(t, pool), SellPrice: decimal.NewFromInt(5000),
			MonthlyRent: decimal.NewFromInt(250), SharePercentage: decimal.NewFromInt(10),
		}},
	})
	require.NoError(t, err)
	id := res.SMDClosingIDs[0]

	pay := closing.NewRecordPaymentUseCase(tx, logger.Nop(), metrics.NewNop())
	var wg sync.WaitGroup
	for range 15 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, pay.Execute(ctx, staff, id, dto.RecordPaymentRequest{Amount: decimal.NewFromInt(100)}))
		}()
	}
	wg.Wait()

	var paid decimal.Decimal
	require.NoError(t, pool.QueryRow(ctx, `SELECT amount_paid FROM smd_closings WHERE smd_closing_id = $1`, id).Scan(&paid))
	assert.True(t, paid.Equal(decimal.NewFromInt(1500)), "amount_paid = %s", paid)
}
