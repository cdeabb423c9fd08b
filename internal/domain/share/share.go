package share

import (
	"github.com/jhoicas/smd-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Max participación total de un SMD repartida entre cierres activos.
var Max = decimal.NewFromInt(100)

// ValidRequested: un cierre debe pedir más de 0 y como mucho 100, con 2 decimales a lo sumo (NUMERIC(5,2)).
func ValidRequested(requested decimal.Decimal) bool {
	return requested.GreaterThan(decimal.Zero) && requested.LessThanOrEqual(Max) &&
		requested.Equal(requested.Round(2))
}

// Remaining margen libre dado el total ya asignado (servicio de dominio).
// Remaining = 100 − Current
func Remaining(current decimal.Decimal) decimal.Decimal {
	return Max.Sub(current)
}

// Check verifica que current + requested no supere 100.
// Devuelve *domain.ShareExceededError con el margen disponible si se excede.
func Check(deviceID string, current, requested decimal.Decimal) error {
	if current.Add(requested).GreaterThan(Max) {
		return &domain.ShareExceededError{
			DeviceID:  deviceID,
			Current:   current,
			Requested: requested,
			Remaining: Remaining(current),
		}
	}
	return nil
}
