package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tu-usuario/fefo-stock/internal/application/analytics"
	"github.com/tu-usuario/fefo-stock/internal/application/auth"
	"github.com/tu-usuario/fefo-stock/internal/application/catalog"
	appsettings "github.com/tu-usuario/fefo-stock/internal/application/settings"
	"github.com/tu-usuario/fefo-stock/internal/application/stock"
	infrapdf "github.com/tu-usuario/fefo-stock/internal/infrastructure/pdf"
	"github.com/tu-usuario/fefo-stock/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/fefo-stock/internal/interfaces/http"
	"github.com/tu-usuario/fefo-stock/pkg/config"
	"github.com/tu-usuario/fefo-stock/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	productRepo := postgres.NewProductRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	lotRepo := postgres.NewLotRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	saleUC := stock.NewSaleUseCase(txRunner, productRepo, lotRepo, settingsRepo)
	adjustmentUC := stock.NewAdjustmentUseCase(txRunner)
	productionUC := stock.NewProductionUseCase(txRunner)
	queryUC := stock.NewQueryUseCase(productRepo, batchRepo, lotRepo, movementRepo, settingsRepo)
	catalogUC := catalog.NewUseCase(productRepo)
	settingsUC := appsettings.NewUseCase(settingsRepo)
	analyticsUC := analytics.NewUseCase(analyticsRepo, productRepo, lotRepo, settingsRepo)
	authUC := auth.NewUseCase(
		auth.Credentials{
			Username:     cfg.Auth.AdminUsername,
			PasswordHash: cfg.Auth.AdminPasswordHash,
		},
		auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
	)
	pdfGenerator := infrapdf.NewInventoryReportGenerator()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		CatalogUC:    catalogUC,
		SaleUC:       saleUC,
		AdjustmentUC: adjustmentUC,
		ProductionUC: productionUC,
		QueryUC:      queryUC,
		SettingsUC:   settingsUC,
		AnalyticsUC:  analyticsUC,
		SettingsRepo: settingsRepo,
		PDFGenerator: pdfGenerator,
		JWTSecret:    cfg.JWT.Secret,
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

	log.Info().Msg("aplicación detenida")
}
