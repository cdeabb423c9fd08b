package closing_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smd-api/internal/application/closing"
	"github.com/jhoicas/smd-api/internal/application/dto"
	"github.com/jhoicas/smd-api/internal/domain"
	"github.com/jhoicas/smd-api/internal/domain/entity"
	"github.com/jhoicas/smd-api/internal/infrastructure/memory"
	"github.com/jhoicas/smd-api/pkg/logger"
	"github.com/jhoicas/smd-api/pkg/metrics"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(smdID, sharePct string) dto.ClosingItemRequest {
	return dto.ClosingItemRequest{
		SMDID:           smdID,
		SellPrice:       dec("250000"),
		MonthlyRent:     dec("12000"),
		SharePercentage: dec(sharePct),
	}
}

type fixture struct {
	store    *memory.Store
	admin    entity.Actor
	customer string
	other    string
	device   string
	device2  string
	create   *closing.CreateClosingUseCase
}

func newFixture() *fixture {
	s := memory.NewStore()
	f := &fixture{
		store:    s,
		admin:    entity.Actor{UserID: s.SeedUser("Admin"), Role: entity.RoleAdmin},
		customer: s.SeedCustomer("Ayesha Khan", "ayesha@example.com"),
		other:    s.SeedCustomer("Bilal Ahmed", "bilal@example.com"),
		device:   s.SeedDevice("LHR-001"),
		device2:  s.SeedDevice("LHR-002"),
	}
	f.create = closing.NewCreateClosingUseCase(s, logger.Nop(), metrics.NewNop())
	return f
}

func (f *fixture) closeDeal(t *testing.T, customerID string, items ...dto.ClosingItemRequest) []string {
	t.Helper()
	res, err := f.create.Execute(context.Background(), f.admin, dto.CreateClosingRequest{CustomerID: customerID, SMDs: items})
	require.NoError(t, err)
	return res.SMDClosingIDs
}

func TestCreateClosing_Lote(t *testing.T) {
	f := newFixture()
	ids := f.closeDeal(t, f.customer, item(f.device2, "25"), item(f.device, "40"))

	require.Len(t, ids, 2)
	c, ok := f.store.Closing(ids[0])
	require.True(t, ok)
	assert.Equal(t, f.device2, c.DeviceID, "ids en el orden del request")
	assert.Equal(t, entity.ClosingStatusActive, c.Status)
	assert.True(t, c.TotalAmountDue.Equal(dec("250000")))
	assert.True(t, c.AmountPaid.IsZero())
	assert.Equal(t, f.admin.UserID, c.ClosedBy)
}

func TestCreateClosing_FormaSimple(t *testing.T) {
	f := newFixture()
	sell, rent, pct := dec("100000"), dec("5000"), dec("100")
	res, err := f.create.Execute(context.Background(), f.admin, dto.CreateClosingRequest{
		CustomerID:      f.customer,
		DeviceID:        f.device,
		SellPrice:       &sell,
		MonthlyRent:     &rent,
		SharePercentage: &pct,
	})
	require.NoError(t, err)
	require.Len(t, res.SMDClosingIDs, 1)
}

func TestCreateClosing_ShareExceeded(t *testing.T) {
	f := newFixture()
	f.closeDeal(t, f.customer, item(f.device, "60"))

	_, err := f.create.Execute(context.Background(), f.admin, dto.CreateClosingRequest{
		CustomerID: f.other,
		SMDs:       []dto.ClosingItemRequest{item(f.device, "50")},
	})

	require.ErrorIs(t, err, domain.ErrShareExceeded)
	var exceeded *domain.ShareExceededError
	require.True(t, errors.As(err, &exceeded))
	assert.Equal(t, f.device, exceeded.DeviceID)
	assert.True(t, exceeded.Remaining.Equal(dec("40")), "remaining = %s", exceeded.Remaining)

	// Completar exactamente el 100% sí se permite.
	f.closeDeal(t, f.other, item(f.device, "40"))
}

func TestCreateClosing_TodoONada(t *testing.T) {
	f := newFixture()
	f.closeDeal(t, f.other, item(f.device2, "90"))
	before, _, _ := f.store.Counts()

	_, err := f.create.Execute(context.Background(), f.admin, dto.CreateClosingRequest{
		CustomerID: f.customer,
		SMDs:       []dto.ClosingItemRequest{item(f.device, "30"), item(f.device2, "20")},
	})

	require.ErrorIs(t, err, domain.ErrShareExceeded)
	after, _, _ := f.store.Counts()
	assert.Equal(t, before, after, "ninguna línea del lote debe persistirse")
}

// memory.Store serializa todas las transacciones: este test cubre la regla de negocio bajo
// concurrencia, no el SELECT FOR UPDATE. El lock real se prueba en postgres/integration_test.go.
func TestCreateClosing_ConcurrentesNuncaSuperan100(t *testing.T) {
	f := newFixture()
	customers := make([]string, 8)
	for i := range customers {
		customers[i] = f.store.SeedCustomer("Cliente", "c@example.com")
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for _, c := range customers {
		wg.Add(1)
		go func(customerID string) {
			defer wg.Done()
			_, err := f.create.Execute(context.Background(), f.admin, dto.CreateClosingRequest{
				CustomerID: customerID,
				SMDs:       []dto.ClosingItemRequest{item(f.device, "30")},
			})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrShareExceeded)
		}(c)
	}
	wg.Wait()

	assert.Equal(t, 3, ok, "solo caben tres cierres de 30%")
}

func TestCreateClosing_Rechazos(t *testing.T) {
	f := newFixture()
	f.closeDeal(t, f.customer, item(f.device, "10"))

	inactive := entity.Customer{
		ID: uuid.New().String(), FullName: "Suspendido",
		Status: entity.CustomerStatusActive, UserStatus: entity.UserStatusSuspended,
	}
	f.store.AddCustomer(inactive)
	retired := entity.Marketer{ID: uuid.New().String(), Status: entity.MarketerStatusInactive, UserStatus: entity.UserStatusActive}
	f.store.AddMarketer(retired)

	tests := []struct {
		name  string
		actor entity.Actor
		req   dto.CreateClosingRequest
		want  error
	}{
		{
			name:  "rol sin permiso",
			actor: entity.Actor{UserID: uuid.New().String(), Role: entity.RoleUser},
			req:   dto.CreateClosingRequest{CustomerID: f.other, SMDs: []dto.ClosingItemRequest{item(f.device2, "10")}},
			want:  domain.ErrForbidden,
		},
		{
			name:  "cliente no elegible",
			actor: f.admin,
			req:   dto.CreateClosingRequest{CustomerID: inactive.ID, SMDs: []dto.ClosingItemRequest{item(f.device2, "10")}},
			want:  domain.ErrIneligible,
		},
		{
			name:  "cliente inexistente",
			actor: f.admin,
			req:   dto.CreateClosingRequest{CustomerID: uuid.New().String(), SMDs: []dto.ClosingItemRequest{item(f.device2, "10")}},
			want:  domain.ErrNotFound,
		},
		{
			name:  "referidor inactivo",
			actor: f.admin,
			req:   dto.CreateClosingRequest{CustomerID: f.other, MarketerID: retired.ID, SMDs: []dto.ClosingItemRequest{item(f.device2, "10")}},
			want:  domain.ErrInvalidMarketer,
		},
		{
			name:  "ya tiene cierre activo en el SMD",
			actor: f.admin,
			req:   dto.CreateClosingRequest{CustomerID: f.customer, SMDs: []dto.ClosingItemRequest{item(f.device, "10")}},
			want:  domain.ErrAlreadyContracted,
		},
		{
			name:  "SMD inexistente",
			actor: f.admin,
			req:   dto.CreateClosingRequest{CustomerID: f.other, SMDs: []dto.ClosingItemRequest{item(uuid.New().String(), "10")}},
			want:  domain.ErrNotFound,
		},
		{
			name:  "participación con 3 decimales",
			actor: f.admin,
			req:   dto.CreateClosingRequest{CustomerID: f.other, SMDs: []dto.ClosingItemRequest{item(f.device2, "0.001")}},
			want:  domain.ErrInvalidInput,
		},
		{
			name:  "precio fuera de rango",
			actor: f.admin,
			req: dto.CreateClosingRequest{CustomerID: f.other, SMDs: []dto.ClosingItemRequest{{
				SMDID: f.device2, SellPrice: dec("1000000000000"), MonthlyRent: dec("10"), SharePercentage: dec("10"),
			}}},
			want: domain.ErrInvalidInput,
		},
		{
			name:  "SMD repetido en el lote",
			actor: f.admin,
			req:   dto.CreateClosingRequest{CustomerID: f.other, SMDs: []dto.ClosingItemRequest{item(f.device2, "10"), item(f.device2, "5")}},
			want:  domain.ErrInvalidInput,
		},
		{
			name:  "porcentaje mayor a 100",
			actor: f.admin,
			req:   dto.CreateClosingRequest{CustomerID: f.other, SMDs: []dto.ClosingItemRequest{item(f.device2, "100.01")}},
			want:  domain.ErrInvalidInput,
		},
		{
			name:  "porcentaje cero",
			actor: f.admin,
			req:   dto.CreateClosingRequest{CustomerID: f.other, SMDs: []dto.ClosingItemRequest{item(f.device2, "0")}},
			want:  domain.ErrInvalidInput,
		},
		{
			name:  "formas mezcladas",
			actor: f.admin,
			req:   dto.CreateClosingRequest{CustomerID: f.other, SMDID: f.device, SMDs: []dto.ClosingItemRequest{item(f.device2, "10")}},
			want:  domain.ErrInvalidInput,
		},
		{
			name:  "lote vacío",
			actor: f.admin,
			req:   dto.CreateClosingRequest{CustomerID: f.other},
			want:  domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.create.Execute(context.Background(), tt.actor, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
