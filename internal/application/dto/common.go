package dto

import (
	"math"

	"github.com/shopspring/decimal"
)

// Límites de paginación de los listados.
const (
	FirstPage    = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage cota de page para que (page-1)*limit no desborde int.
	MaxPage = math.MaxInt / MaxLimit
)

// PageRequest paginación por número de página.
type PageRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// DefaultPage aplica valores por defecto: page en [1, MaxPage], limit en [1, 100] (10 si no viene).
func (p *PageRequest) DefaultPage() {
	if p.Page < 1 {
		p.Page = FirstPage
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

// Offset filas a saltar para la página pedida.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageMeta metadatos de página en respuestas.
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NewPageMeta calcula totalPages = ceil(total / limit).
func NewPageMeta(total int, p PageRequest) PageMeta {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return PageMeta{Total: total, Page: p.Page, Limit: p.Limit, TotalPages: pages}
}

// ListResponse respuesta estándar de listados.
type ListResponse[T any] struct {
	Message string   `json:"message"`
	Meta    PageMeta `json:"meta"`
	Data    []T      `json:"data"`
}

// MessageResponse respuesta con mensaje y datos opcionales.
type MessageResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse cuerpo de error HTTP. Remaining y SMDID solo acompañan a SHARE_EXCEEDED.
type ErrorResponse struct {
	Code      string           `json:"code"`
	Message   string           `json:"message"`
	Remaining *decimal.Decimal `json:"remaining,omitempty"`
	SMDID     string           `json:"smd_id,omitempty"`
}
