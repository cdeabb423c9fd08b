package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/smd-api/internal/application/closing"
	"github.com/jhoicas/smd-api/internal/application/payout"
	"github.com/jhoicas/smd-api/internal/application/reporting"
	"github.com/jhoicas/smd-api/internal/domain/entity"
	"github.com/jhoicas/smd-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CreateClosing *closing.CreateClosingUseCase
	UpdateClosing *closing.UpdateClosingUseCase
	RecordPayment *closing.RecordPaymentUseCase
	RecordPayout  *payout.RecordPayoutUseCase
	Reports       *reporting.ReportingUseCase
	Statement     *reporting.StatementUseCase
	Logger        *logger.Logger
	JWTSecret     string
}

// Router registra las rutas de la API. Todas requieren Bearer Token y rol admin o staff.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdmin, entity.RoleStaff))

	closingHandler := NewClosingHandler(deps.CreateClosing, deps.UpdateClosing, deps.RecordPayment, deps.Reports, deps.Statement, deps.Logger)
	closings := api.Group("/smd-closings")
	closings.Post("/", closingHandler.Create)
	closings.Get("/", closingHandler.List)
	closings.Get("/:id", closingHandler.Get)
	closings.Patch("/:id", closingHandler.Update)
	closings.Get("/:id/statement", closingHandler.Statement)
	closings.Post("/:id/smd-payment", closingHandler.RecordPayment)

	payoutHandler := NewPayoutHandler(deps.RecordPayout, deps.Reports, deps.Logger)
	payouts := api.Group("/monthly-payout")
	payouts.Post("/", payoutHandler.Create)
	payouts.Get("/", payoutHandler.List)

	customerHandler := NewCustomerHandler(deps.Reports, deps.Logger)
	api.Get("/customers/:customerId/smds", customerHandler.SMDs)
}
