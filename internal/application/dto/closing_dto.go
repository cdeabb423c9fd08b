package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/smd-api/internal/domain"
)

// ClosingItemRequest una línea del lote: un SMD con sus condiciones.
type ClosingItemRequest struct {
	SMDID           string          `json:"smd_id"`
	SellPrice       decimal.Decimal `json:"sell_price"`
	MonthlyRent     decimal.Decimal `json:"monthly_rent"`
	SharePercentage decimal.Decimal `json:"share_percentage"`
}

// CreateClosingRequest cierre por lote (smds) o de un único SMD (smd_id / device_id en el nivel superior).
type CreateClosingRequest struct {
	CustomerID string               `json:"customer_id"`
	MarketerID string               `json:"marketer_id,omitempty"`
	Notes      string               `json:"notes,omitempty"`
	SMDs       []ClosingItemRequest `json:"smds,omitempty"`

	// Forma simple (un solo SMD).
	SMDID           string           `json:"smd_id,omitempty"`
	DeviceID        string           `json:"device_id,omitempty"`
	SellPrice       *decimal.Decimal `json:"sell_price,omitempty"`
	MonthlyRent     *decimal.Decimal `json:"monthly_rent,omitempty"`
	SharePercentage *decimal.Decimal `json:"share_percentage,omitempty"`
}

// Items devuelve las líneas a cerrar: el lote tal cual o la forma simple como lote de uno.
// Mezclar ambas formas es un error de validación.
func (r CreateClosingRequest) Items() ([]ClosingItemRequest, error) {
	single := strings.TrimSpace(r.SMDID)
	if dev := strings.TrimSpace(r.DeviceID); dev != "" {
		if single != "" && single != dev {
			return nil, domain.Invalid("smd_id and device_id refer to different SMDs")
		}
		single = dev
	}
	hasSingleFields := r.SellPrice != nil || r.MonthlyRent != nil || r.SharePercentage != nil

	if len(r.SMDs) > 0 {
		if single != "" || hasSingleFields {
			return nil, domain.Invalid("send either smds or a single smd_id, not both")
		}
		return r.SMDs, nil
	}
	if single == "" {
		return nil, domain.Invalid("smds must contain at least one SMD")
	}
	if r.SellPrice == nil || r.MonthlyRent == nil || r.SharePercentage == nil {
		return nil, domain.Invalid("sell_price, monthly_rent and share_percentage are required")
	}
	return []ClosingItemRequest{{
		SMDID:           single,
		SellPrice:       *r.SellPrice,
		MonthlyRent:     *r.MonthlyRent,
		SharePercentage: *r.SharePercentage,
	}}, nil
}

// CreateClosingResponse ids creados, en el orden del request.
type CreateClosingResponse struct {
	SMDClosingIDs []string `json:"smd_closing_ids"`
}

// RecordPaymentRequest abono contra un cierre.
type RecordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	ReferenceNo   string          `json:"reference_no,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// UpdateClosingRequest cambios parciales. Campo ausente = sin cambio; marketer_id "" quita el referidor.
type UpdateClosingRequest struct {
	MonthlyRent *decimal.Decimal `json:"monthly_rent,omitempty"`
	MarketerID  *string          `json:"marketer_id,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
	Status      *string          `json:"status,omitempty"`
}

// ListClosingsRequest filtros del listado de cierres.
type ListClosingsRequest struct {
	PageRequest
	Search     string `query:"search"`
	SMDID      string `query:"smd_id"`
	CustomerID string `query:"customer_id"`
	MarketerID string `query:"marketer_id"`
	Status     string `query:"status"`
}

// ClosingResponse cierre con la identidad de las partes.
type ClosingResponse struct {
	SMDClosingID     string          `json:"smd_closing_id"`
	Status           string          `json:"status"`
	SellPrice        decimal.Decimal `json:"sell_price"`
	MonthlyRent      decimal.Decimal `json:"monthly_rent"`
	SharePercentage  decimal.Decimal `json:"share_percentage"`
	TotalAmountDue   decimal.Decimal `json:"total_amount_due"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Notes            string          `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	ClosedAt         *time.Time      `json:"closed_at"`

	SMDID    string `json:"smd_id"`
	SMDCode  string `json:"smd_code"`
	SMDTitle string `json:"smd_title"`
	City     string `json:"city"`
	Area     string `json:"area"`

	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	ContactNumber string `json:"contact_number,omitempty"`

	MarketerID    *string `json:"marketer_id"`
	MarketerName  string  `json:"marketer_name,omitempty"`
	MarketerEmail string  `json:"marketer_email,omitempty"`

	ClosedBy     string `json:"closed_by"`
	ClosedByName string `json:"closed_by_name,omitempty"`
}

// ClosingPaymentResponse abono registrado.
type ClosingPaymentResponse struct {
	PaymentID     string          `json:"payment_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	ReferenceNo   string          `json:"reference_no,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	RecordedBy    string          `json:"recorded_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ClosingDetailResponse detalle de un cierre con abonos y liquidaciones.
type ClosingDetailResponse struct {
	ClosingResponse
	Payments []ClosingPaymentResponse `json:"payments"`
	Payouts  []PayoutResponse         `json:"payouts"`
}
