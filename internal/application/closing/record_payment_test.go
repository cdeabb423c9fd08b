package closing_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smd-api/internal/application/closing"
	"github.com/jhoicas/smd-api/internal/application/dto"
	"github.com/jhoicas/smd-api/internal/domain"
	"github.com/jhoicas/smd-api/pkg/logger"
	"github.com/jhoicas/smd-api/pkg/metrics"
)

func TestRecordPayment_IncrementaAmountPaid(t *testing.T) {
	f := newFixture()
	id := f.closeDeal(t, f.customer, item(f.device, "50"))[0]
	uc := closing.NewRecordPaymentUseCase(f.store, logger.Nop(), metrics.NewNop())

	require.NoError(t, uc.Execute(context.Background(), f.admin, id, dto.RecordPaymentRequest{Amount: dec("1000"), PaymentMethod: "cash"}))
	require.NoError(t, uc.Execute(context.Background(), f.admin, id, dto.RecordPaymentRequest{Amount: dec("500.50")}))

	c, _ := f.store.Closing(id)
	assert.True(t, c.AmountPaid.Equal(dec("1500.50")), "amount_paid = %s", c.AmountPaid)
	assert.True(t, c.RemainingBalance().Equal(dec("248499.50")))
	_, payments, _ := f.store.Counts()
	assert.Equal(t, 2, payments)
}

// Con memory.Store las transacciones no se solapan; el incremento atómico en el motor
// se prueba en postgres/integration_test.go.
func TestRecordPayment_ConcurrentesSumanTodo(t *testing.T) {
	f := newFixture()
	id := f.closeDeal(t, f.customer, item(f.device, "50"))[0]
	uc := closing.NewRecordPaymentUseCase(f.store, logger.Nop(), metrics.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, uc.Execute(context.Background(), f.admin, id, dto.RecordPaymentRequest{Amount: dec("100")}))
		}()
	}
	wg.Wait()

	c, _ := f.store.Closing(id)
	assert.True(t, c.AmountPaid.Equal(dec("2000")), "amount_paid = %s", c.AmountPaid)
}

func TestRecordPayment_Rechazos(t *testing.T) {
	f := newFixture()
	id := f.closeDeal(t, f.customer, item(f.device, "50"))[0]
	cancel := "cancelled"
	require.NoError(t, closing.NewUpdateClosingUseCase(f.store, logger.Nop()).
		Execute(context.Background(), f.admin, id, dto.UpdateClosingRequest{Status: &cancel}))
	uc := closing.NewRecordPaymentUseCase(f.store, logger.Nop(), metrics.NewNop())

	tests := []struct {
		name string
		id   string
		req  dto.RecordPaymentRequest
		want error
	}{
		{"cierre no activo", id, dto.RecordPaymentRequest{Amount: dec("10")}, domain.ErrClosingNotActive},
		{"cierre inexistente", uuid.New().String(), dto.RecordPaymentRequest{Amount: dec("10")}, domain.ErrNotFound},
		{"id mal formado", "abc", dto.RecordPaymentRequest{Amount: dec("10")}, domain.ErrNotFound},
		{"monto cero", id, dto.RecordPaymentRequest{Amount: dec("0")}, domain.ErrInvalidInput},
		{"monto con 3 decimales", id, dto.RecordPaymentRequest{Amount: dec("0.004")}, domain.ErrInvalidInput},
		{"monto fuera de rango", id, dto.RecordPaymentRequest{Amount: dec("1000000000000")}, domain.ErrInvalidInput},
		{"medio de pago inválido", id, dto.RecordPaymentRequest{Amount: dec("10"), PaymentMethod: "crypto"}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, uc.Execute(context.Background(), f.admin, tt.id, tt.req), tt.want)
		})
	}
}
