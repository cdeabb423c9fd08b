package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/smd-api/internal/application/dto"
	"github.com/jhoicas/smd-api/internal/application/payout"
	"github.com/jhoicas/smd-api/internal/application/reporting"
	"github.com/jhoicas/smd-api/pkg/logger"
)

// PayoutHandler maneja las liquidaciones mensuales de renta.
type PayoutHandler struct {
	record  *payout.RecordPayoutUseCase
	reports *reporting.ReportingUseCase
	log     *logger.Logger
}

// NewPayoutHandler construye el handler.
func NewPayoutHandler(record *payout.RecordPayoutUseCase, reports *reporting.ReportingUseCase, log *logger.Logger) *PayoutHandler {
	return &PayoutHandler{record: record, reports: reports, log: log.Named("http")}
}

// Create godoc
// @Summary      Registrar la liquidación de renta de un mes
// @Description  El cierre se identifica por smd_closing_id o por smd_id + customer_id. Un mes ya pagado devuelve 409.
// @Tags         monthly-payout
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePayoutRequest  true  "Cierre, payout_month (YYYY-MM) y amount"
// @Success      201  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/monthly-payout [post]
func (h *PayoutHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePayoutRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.record.Execute(c.Context(), actorFrom(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "Monthly payout recorded successfully", Data: res})
}

// List godoc
// @Summary      Listar liquidaciones mensuales
// @Tags         monthly-payout
// @Security     Bearer
// @Produce      json
// @Param        status          query  string  false  "paid"
// @Param        smd_closing_id  query  string  false  "Cierre"
// @Param        customer_id     query  string  false  "Cliente"
// @Param        smd_id          query  string  false  "SMD"
// @Param        payout_month    query  string  false  "YYYY-MM"
// @Param        page            query  int     false  "Página (default 1)"
// @Param        limit           query  int     false  "Tamaño de página (default 10, max 100)"
// @Success      200  {object}  dto.ListResponse[dto.PayoutResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/monthly-payout [get]
func (h *PayoutHandler) List(c *fiber.Ctx) error {
	req := dto.ListPayoutsRequest{
		PageRequest:  pageFromQuery(c),
		Status:       c.Query("status"),
		SMDClosingID: c.Query("smd_closing_id"),
		CustomerID:   c.Query("customer_id"),
		SMDID:        c.Query("smd_id"),
		PayoutMonth:  c.Query("payout_month"),
	}
	res, err := h.reports.ListPayouts(c.Context(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(res)
}
