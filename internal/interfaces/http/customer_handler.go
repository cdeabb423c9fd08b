package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/smd-api/internal/application/dto"
	"github.com/jhoicas/smd-api/internal/application/reporting"
	"github.com/jhoicas/smd-api/pkg/logger"
)

// CustomerHandler vistas por cliente.
type CustomerHandler struct {
	reports *reporting.ReportingUseCase
	log     *logger.Logger
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(reports *reporting.ReportingUseCase, log *logger.Logger) *CustomerHandler {
	return &CustomerHandler{reports: reports, log: log.Named("http")}
}

// SMDs godoc
// @Summary      SMDs del cliente con su historial de liquidaciones
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        customerId  path   string  true   "ID del cliente"
// @Param        search      query  string  false  "smd_code"
// @Param        status      query  string  false  "active | closed | cancelled"
// @Param        page        query  int     false  "Página (default 1)"
// @Param        limit       query  int     false  "Tamaño de página (default 10, max 100)"
// @Success      200  {object}  dto.ListResponse[dto.CustomerSMDResponse]
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{customerId}/smds [get]
func (h *CustomerHandler) SMDs(c *fiber.Ctx) error {
	req := dto.CustomerSMDsRequest{
		PageRequest: pageFromQuery(c),
		Search:      c.Query("search"),
		Status:      c.Query("status"),
	}
	res, err := h.reports.CustomerSMDs(c.Context(), c.Params("customerId"), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(res)
}
