package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Errores de dominio.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrDuplicate    = errors.New("duplicate resource")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("access denied")
	ErrConflict     = errors.New("conflict with current state")

	// Cierres
	ErrIneligible        = errors.New("customer is not eligible")
	ErrInvalidMarketer   = errors.New("marketer is missing or not active")
	ErrShareExceeded     = errors.New("share exceeds 100%")
	ErrAlreadyContracted = errors.New("customer already holds an active closing on this SMD")
	ErrClosingNotActive  = errors.New("closing is not active")

	// Liquidaciones mensuales
	ErrAmbiguousContract = errors.New("more than one active closing matches")
	ErrDuplicatePayout   = errors.New("payout for this month already exists")
)

// Invalid envuelve ErrInvalidInput con un detalle legible para el cliente.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// ValidID indica si s es un UUID; los ids de todas las tablas lo son.
func ValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// ShareExceededError rechazo de un cierre que llevaría el SMD por encima del 100%.
// Remaining es el margen disponible antes de la solicitud (100 − Current).
type ShareExceededError struct {
	DeviceID  string
	Current   decimal.Decimal
	Requested decimal.Decimal
	Remaining decimal.Decimal
}

func (e *ShareExceededError) Error() string {
	return fmt.Sprintf("share exceeds 100%% for SMD %s: requested %s, remaining %s",
		e.DeviceID, e.Requested.String(), e.Remaining.String())
}

// Is permite errors.Is(err, ErrShareExceeded).
func (e *ShareExceededError) Is(target error) bool {
	return target == ErrShareExceeded
}
