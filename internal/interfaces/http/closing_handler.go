package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/smd-api/internal/application/closing"
	"github.com/jhoicas/smd-api/internal/application/dto"
	"github.com/jhoicas/smd-api/internal/application/reporting"
	"github.com/jhoicas/smd-api/pkg/logger"
)

// ClosingHandler maneja cierres SMD, sus abonos y su estado de cuenta.
type ClosingHandler struct {
	create    *closing.CreateClosingUseCase
	update    *closing.UpdateClosingUseCase
	payment   *closing.RecordPaymentUseCase
	reports   *reporting.ReportingUseCase
	statement *reporting.StatementUseCase
	log       *logger.Logger
}

// NewClosingHandler construye el handler.
func NewClosingHandler(
	create *closing.CreateClosingUseCase,
	update *closing.UpdateClosingUseCase,
	payment *closing.RecordPaymentUseCase,
	reports *reporting.ReportingUseCase,
	statement *reporting.StatementUseCase,
	log *logger.Logger,
) *ClosingHandler {
	return &ClosingHandler{
		create:    create,
		update:    update,
		payment:   payment,
		reports:   reports,
		statement: statement,
		log:       log.Named("http"),
	}
}

// Create godoc
// @Summary      Cerrar uno o varios SMDs con un cliente
// @Description  Lote (smds) o forma simple (smd_id). Todo o nada: si un SMD supera el 100% de participación no se crea ninguno.
// @Tags         smd-closings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateClosingRequest  true  "customer_id, marketer_id opcional y SMDs"
// @Success      201  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/smd-closings [post]
func (h *ClosingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateClosingRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.create.Execute(c.Context(), actorFrom(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "SMD deals closed successfully", Data: res})
}

// List godoc
// @Summary      Listar cierres
// @Tags         smd-closings
// @Security     Bearer
// @Produce      json
// @Param        search       query  string  false  "smd_code, nombre del cliente o del referidor"
// @Param        smd_id       query  string  false  "SMD"
// @Param        customer_id  query  string  false  "Cliente"
// @Param        marketer_id  query  string  false  "Referidor"
// @Param        status       query  string  false  "active | closed | cancelled"
// @Param        page         query  int     false  "Página (default 1)"
// @Param        limit        query  int     false  "Tamaño de página (default 10, max 100)"
// @Success      200  {object}  dto.ListResponse[dto.ClosingResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/smd-closings [get]
func (h *ClosingHandler) List(c *fiber.Ctx) error {
	req := dto.ListClosingsRequest{
		PageRequest: pageFromQuery(c),
		Search:      c.Query("search"),
		SMDID:       c.Query("smd_id"),
		CustomerID:  c.Query("customer_id"),
		MarketerID:  c.Query("marketer_id"),
		Status:      c.Query("status"),
	}
	res, err := h.reports.ListClosings(c.Context(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(res)
}

// Get godoc
// @Summary      Detalle de un cierre con abonos y liquidaciones
// @Tags         smd-closings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cierre"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/smd-closings/{id} [get]
func (h *ClosingHandler) Get(c *fiber.Ctx) error {
	res, err := h.reports.GetClosing(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Message: "SMD closing fetched successfully", Data: res})
}

// Update godoc
// @Summary      Modificar un cierre activo
// @Description  monthly_rent, marketer_id ("" lo quita), notes y status (closed | cancelled).
// @Tags         smd-closings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del cierre"
// @Param        body  body  dto.UpdateClosingRequest  true  "Campos a cambiar"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/smd-closings/{id} [patch]
func (h *ClosingHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateClosingRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.update.Execute(c.Context(), actorFrom(c), c.Params("id"), in); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Message: "SMD closing updated successfully"})
}

// RecordPayment godoc
// @Summary      Registrar un abono contra el total del cierre
// @Tags         smd-closings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del cierre"
// @Param        body  body  dto.RecordPaymentRequest  true  "amount, payment_method, reference_no, notes"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/smd-closings/{id}/smd-payment [post]
func (h *ClosingHandler) RecordPayment(c *fiber.Ctx) error {
	var in dto.RecordPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.payment.Execute(c.Context(), actorFrom(c), c.Params("id"), in); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Payment recorded successfully"})
}

// Statement godoc
// @Summary      Estado de cuenta del cierre en PDF
// @Tags         smd-closings
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del cierre"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/smd-closings/{id}/statement [get]
func (h *ClosingHandler) Statement(c *fiber.Ctx) error {
	pdf, filename, err := h.statement.DownloadStatement(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

// pageFromQuery lee page y limit; los valores no numéricos toman el default.
func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{
		Page:  c.QueryInt("page", dto.FirstPage),
		Limit: c.QueryInt("limit", dto.DefaultLimit),
	}
}
