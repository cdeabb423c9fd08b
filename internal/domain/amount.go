package domain

import "github.com/shopspring/decimal"

// MaxAmount límite exclusivo de las columnas NUMERIC(14,2).
var MaxAmount = decimal.New(1, 12)

// ValidAmount: positivo, como mucho 2 decimales y por debajo de MaxAmount.
func ValidAmount(d decimal.Decimal) bool {
	return d.IsPositive() && d.Equal(d.Round(2)) && d.LessThan(MaxAmount)
}
