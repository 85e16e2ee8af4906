package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/fefo-stock/internal/application/analytics"
	"github.com/tu-usuario/fefo-stock/internal/application/auth"
	"github.com/tu-usuario/fefo-stock/internal/application/catalog"
	"github.com/tu-usuario/fefo-stock/internal/application/settings"
	"github.com/tu-usuario/fefo-stock/internal/application/stock"
	"github.com/tu-usuario/fefo-stock/internal/domain/repository"
	"github.com/tu-usuario/fefo-stock/internal/infrastructure/pdf"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.UseCase
	CatalogUC    *catalog.UseCase
	SaleUC       *stock.SaleUseCase
	AdjustmentUC *stock.AdjustmentUseCase
	ProductionUC *stock.ProductionUseCase
	QueryUC      *stock.QueryUseCase
	SettingsUC   *settings.UseCase
	AnalyticsUC  *analytics.UseCase
	SettingsRepo repository.SettingsRepository
	PDFGenerator *pdf.InventoryReportGenerator
	JWTSecret    string
}

// Router registra las rutas de la API. Las lecturas y el preview de venta son
// públicos; toda mutación del libro y del catálogo exige Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC)
	productHandler := NewProductHandler(deps.CatalogUC)
	saleHandler := NewSaleHandler(deps.SaleUC)
	stockHandler := NewStockHandler(deps.AdjustmentUC, deps.ProductionUC, deps.QueryUC)
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsUC)
	reportHandler := NewReportHandler(deps.QueryUC, deps.SettingsRepo, deps.PDFGenerator)

	// Auth (público)
	api.Post("/auth/login", authHandler.Login)

	// Lecturas (público)
	api.Get("/products", productHandler.List)
	api.Get("/products/:id", productHandler.GetByID)
	api.Get("/batches/check", stockHandler.CheckBatch)
	api.Get("/stock/product/:id", stockHandler.ProductStock)
	api.Get("/stock/lot/:id", stockHandler.LotStock)
	api.Get("/lots/fefo", stockHandler.FefoLots)
	api.Get("/inventory", stockHandler.Overview)
	api.Get("/movements", stockHandler.Movements)
	api.Get("/settings", settingsHandler.Get)
	api.Get("/analytics/summary", analyticsHandler.Summary)
	api.Get("/analytics/top-products", analyticsHandler.TopProducts)
	api.Get("/analytics/expiries", analyticsHandler.Expiries)
	api.Get("/analytics/forecast", analyticsHandler.Forecast)
	api.Get("/reports/inventory.pdf", reportHandler.InventoryPDF)

	// El preview no tiene efectos: calcula el plan sin tocar el libro.
	api.Post("/sales/preview", saleHandler.Preview)

	// Mutaciones (requieren Bearer Token con rol admin)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireRole(auth.RoleAdmin))
	protected.Post("/products", productHandler.Create)
	protected.Put("/products/:id", productHandler.Update)
	protected.Delete("/products/:id", productHandler.Archive)
	protected.Post("/products/:id/restore", productHandler.Restore)
	protected.Post("/sales/commit", saleHandler.Commit)
	protected.Post("/adjustments", stockHandler.Adjust)
	protected.Post("/production", stockHandler.RecordProduction)
	protected.Put("/settings", settingsHandler.Update)
}
