package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PayoutStatus estado de una liquidación mensual.
type PayoutStatus string

const PayoutStatusPaid PayoutStatus = "paid"

// ParsePayoutStatus valida el filtro de estado.
func ParsePayoutStatus(s string) (PayoutStatus, error) {
	if PayoutStatus(s) == PayoutStatusPaid {
		return PayoutStatusPaid, nil
	}
	return "", fmt.Errorf("payout status %q is not valid", s)
}

// PayoutMonth período calendario (año-mes) de una liquidación. Se persiste como DATE del día 1.
type PayoutMonth struct {
	Year  int
	Month time.Month
}

// ParsePayoutMonth acepta "2006-01" o "2006-01-02" (el día se descarta).
func ParsePayoutMonth(s string) (PayoutMonth, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return PayoutMonthOf(t), nil
		}
	}
	return PayoutMonth{}, fmt.Errorf("payout_month %q must be YYYY-MM", s)
}

// PayoutMonthOf período que contiene t.
func PayoutMonthOf(t time.Time) PayoutMonth {
	return PayoutMonth{Year: t.Year(), Month: t.Month()}
}

// IsZero indica si el período no fue informado.
func (m PayoutMonth) IsZero() bool { return m.Year == 0 }

// Date primer día del mes (UTC), valor que se guarda en payout_month.
func (m PayoutMonth) Date() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (m PayoutMonth) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MarshalText serializa como "YYYY-MM".
func (m PayoutMonth) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parsea "YYYY-MM" o "YYYY-MM-DD".
func (m *PayoutMonth) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*m = PayoutMonth{}
		return nil
	}
	pm, err := ParsePayoutMonth(string(b))
	if err != nil {
		return err
	}
	*m = pm
	return nil
}

// RentPayout liquidación de renta de un mes para un cierre (tabla smd_rent_payouts).
// Único por (ClosingID, Month).
type RentPayout struct {
	ID        string
	ClosingID string
	Month     PayoutMonth
	Amount    decimal.Decimal
	Status    PayoutStatus
	PaidBy    string
	PaidAt    time.Time
	CreatedAt time.Time
}
