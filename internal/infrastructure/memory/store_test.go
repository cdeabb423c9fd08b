package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smd-api/internal/domain"
	"github.com/jhoicas/smd-api/internal/domain/entity"
	"github.com/jhoicas/smd-api/internal/domain/repository"
)

func newClosing(deviceID, customerID string, sharePct int64, created time.Time) *entity.Closing {
	return &entity.Closing{
		ID:              uuid.New().String(),
		DeviceID:        deviceID,
		CustomerID:      customerID,
		SellPrice:       decimal.NewFromInt(100000),
		MonthlyRent:     decimal.NewFromInt(5000),
		SharePercentage: decimal.NewFromInt(sharePct),
		TotalAmountDue:  decimal.NewFromInt(100000),
		Status:          entity.ClosingStatusActive,
		CreatedAt:       created,
		UpdatedAt:       created,
	}
}

func createClosing(t *testing.T, s *Store, c *entity.Closing) {
	t.Helper()
	err := s.RunClosing(context.Background(), func(
		_ repository.DeviceRepository,
		_ repository.CustomerRepository,
		_ repository.MarketerRepository,
		closings repository.ClosingRepository,
		_ repository.ClosingPaymentRepository,
	) error {
		return closings.Create(context.Background(), c)
	})
	require.NoError(t, err)
}

func TestRunClosing_RollbackOnError(t *testing.T) {
	s := NewStore()
	dev := s.SeedDevice("SMD-1")
	cust := s.SeedCustomer("Ayesha", "ayesha@example.com")
	boom := errors.New("boom")

	err := s.RunClosing(context.Background(), func(
		_ repository.DeviceRepository,
		_ repository.CustomerRepository,
		_ repository.MarketerRepository,
		closings repository.ClosingRepository,
		_ repository.ClosingPaymentRepository,
	) error {
		require.NoError(t, closings.Create(context.Background(), newClosing(dev, cust, 40, time.Now())))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	n, _, _ := s.Counts()
	assert.Equal(t, 0, n)
}

func TestClosingRepo_SumActiveShareYAddPayment(t *testing.T) {
	s := NewStore()
	dev := s.SeedDevice("SMD-1")
	a := s.SeedCustomer("Ayesha", "a@example.com")
	b := s.SeedCustomer("Bilal", "b@example.com")
	now := time.Now().UTC()
	c1 := newClosing(dev, a, 60, now)
	c2 := newClosing(dev, b, 30, now)
	c2.Status = entity.ClosingStatusCancelled
	createClosing(t, s, c1)
	createClosing(t, s, c2)

	err := s.RunClosing(context.Background(), func(
		_ repository.DeviceRepository,
		_ repository.CustomerRepository,
		_ repository.MarketerRepository,
		closings repository.ClosingRepository,
		_ repository.ClosingPaymentRepository,
	) error {
		ctx := context.Background()
		sum, err := closings.SumActiveShare(ctx, dev)
		require.NoError(t, err)
		assert.True(t, sum.Equal(decimal.NewFromInt(60)), "sum = %s", sum)

		ok, err := closings.AddPayment(ctx, c1.ID, decimal.NewFromInt(2500))
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = closings.AddPayment(ctx, c2.ID, decimal.NewFromInt(2500))
		require.NoError(t, err)
		assert.False(t, ok, "un cierre cancelado no acepta abonos")

		_, err = closings.AddPayment(ctx, c1.ID, domain.MaxAmount.Sub(decimal.NewFromInt(100)))
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "amount_paid no puede salir de NUMERIC(14,2)")
		return nil
	})
	require.NoError(t, err)

	got, ok := s.Closing(c1.ID)
	require.True(t, ok)
	assert.True(t, got.AmountPaid.Equal(decimal.NewFromInt(2500)))
}

func TestPayoutRepo_DuplicateMonth(t *testing.T) {
	s := NewStore()
	dev := s.SeedDevice("SMD-1")
	cust := s.SeedCustomer("Ayesha", "a@example.com")
	c := newClosing(dev, cust, 50, time.Now())
	createClosing(t, s, c)

	month := entity.PayoutMonth{Year: 2025, Month: time.March}
	record := func() error {
		return s.RunPayout(context.Background(), func(
			_ repository.ClosingRepository,
			_ repository.CustomerRepository,
			payouts repository.PayoutRepository,
		) error {
			return payouts.Create(context.Background(), &entity.RentPayout{
				ID: uuid.New().String(), ClosingID: c.ID, Month: month,
				Amount: decimal.NewFromInt(5000), Status: entity.PayoutStatusPaid,
			})
		})
	}

	require.NoError(t, record())
	assert.ErrorIs(t, record(), domain.ErrDuplicatePayout)
	_, _, payouts := s.Counts()
	assert.Equal(t, 1, payouts)
}

func TestReports_ListClosings_FiltrosYPaginacion(t *testing.T) {
	s := NewStore()
	d1 := s.SeedDevice("LHR-001")
	d2 := s.SeedDevice("KHI-002")
	a := s.SeedCustomer("Ayesha Khan", "a@example.com")
	b := s.SeedCustomer("Bilal Ahmed", "b@example.com")
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	createClosing(t, s, newClosing(d1, a, 10, base))
	createClosing(t, s, newClosing(d2, a, 10, base.Add(time.Hour)))
	createClosing(t, s, newClosing(d1, b, 10, base.Add(2*time.Hour)))

	ctx := context.Background()
	rows, total, err := s.Reports().ListClosings(ctx, repository.ClosingFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "Bilal Ahmed", rows[0].CustomerName, "más reciente primero")

	rows, total, err = s.Reports().ListClosings(ctx, repository.ClosingFilter{Search: "khi", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "KHI-002", rows[0].DeviceCode)

	rows, total, err = s.Reports().ListClosings(ctx, repository.ClosingFilter{CustomerID: a, Limit: 10, Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Empty(t, rows)
}

func TestPage_OffsetFueraDeRango(t *testing.T) {
	rows := []int{1, 2, 3}
	assert.Equal(t, []int{}, page(rows, 10, -5))
	assert.Equal(t, []int{}, page(rows, 10, 3))
	assert.Equal(t, []int{2}, page(rows, 1, 1))
}
