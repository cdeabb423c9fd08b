package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/smd-api/docs"
	"github.com/jhoicas/smd-api/internal/application/closing"
	"github.com/jhoicas/smd-api/internal/application/payout"
	"github.com/jhoicas/smd-api/internal/application/reporting"
	"github.com/jhoicas/smd-api/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/smd-api/internal/infrastructure/pdf"
	"github.com/jhoicas/smd-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/smd-api/internal/interfaces/http"
	"github.com/jhoicas/smd-api/migrations"
	"github.com/jhoicas/smd-api/pkg/config"
	"github.com/jhoicas/smd-api/pkg/logger"
	"github.com/jhoicas/smd-api/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.NewMigrator(pool, migrations.FS, log).Run(ctx); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	m := metrics.New(cfg.Metrics.Namespace)
	txRunner := postgres.NewTxRunner(pool, cfg.DB.LockTimeout)
	reportRepo := postgres.NewReportRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)

	notifier := mail.NewPayoutNotifier(cfg.SMTP)
	if !cfg.SMTP.Enabled() {
		log.Warn().Msg("SMTP_HOST vacío: avisos de liquidación deshabilitados")
	}

	createClosingUC := closing.NewCreateClosingUseCase(txRunner, log, m)
	updateClosingUC := closing.NewUpdateClosingUseCase(txRunner, log)
	recordPaymentUC := closing.NewRecordPaymentUseCase(txRunner, log, m)
	recordPayoutUC := payout.NewRecordPayoutUseCase(txRunner, notifier, log, m)
	reportingUC := reporting.NewReportingUseCase(reportRepo, customerRepo)
	// PDF: estado de cuenta del cierre
	statementUC := reporting.NewStatementUseCase(reportRepo, infrapdf.NewMarotoStatementGenerator())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.ReplaceAll(cfg.HTTP.AllowOrigins, " ", ""),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH,OPTIONS",
	}))
	app.Use(httpRouter.Metrics(m))
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI: http://localhost:<port>/docs. Si existe SWAGGER_FILE se sirve ese archivo.
	swaggerCfg := swagger.Config{
		BasePath: "/",
		Path:     "docs",
		Title:    "SMD API",
	}
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		swaggerCfg.FilePath = cfg.HTTP.SwaggerFile
	} else {
		swaggerCfg.FileContent = []byte(docs.SwaggerInfo.ReadDoc())
	}
	app.Use(swagger.New(swaggerCfg))

	app.Get("/health", func(c *fiber.Ctx) error {
		pingCtx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db_unavailable", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	httpRouter.Router(app, httpRouter.RouterDeps{
		CreateClosing: createClosingUC,
		UpdateClosing: updateClosingUC,
		RecordPayment: recordPaymentUC,
		RecordPayout:  recordPayoutUC,
		Reports:       reportingUC,
		Statement:     statementUC,
		Logger:        log,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := recordPayoutUC.Wait(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("avisos de liquidación pendientes sin enviar")
	}

	log.Info().Msg("aplicación detenida")
}
