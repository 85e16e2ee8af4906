package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/fefo-stock/internal/application/stock"
	"github.com/tu-usuario/fefo-stock/internal/domain/repository"
	"github.com/tu-usuario/fefo-stock/internal/infrastructure/pdf"
)

// ReportHandler informes imprimibles del inventario.
type ReportHandler struct {
	queryUseCase *stock.QueryUseCase
	settingsRepo repository.SettingsRepository
	generator    *pdf.InventoryReportGenerator
}

// NewReportHandler construye el handler de informes.
func NewReportHandler(
	queryUseCase *stock.QueryUseCase,
	settingsRepo repository.SettingsRepository,
	generator *pdf.InventoryReportGenerator,
) *ReportHandler {
	return &ReportHandler{
		queryUseCase: queryUseCase,
		settingsRepo: settingsRepo,
		generator:    generator,
	}
}

// InventoryPDF godoc
// @Summary      Informe de inventario en PDF
// @Description  Tabla de lotes por producto en orden FEFO con el stock derivado del libro; caducados y próximos a caducar resaltados
// @Tags         reports
// @Produce      application/pdf
// @Success      200 {file} binary
// @Router       /api/reports/inventory.pdf [get]
func (h *ReportHandler) InventoryPDF(c *fiber.Ctx) error {
	overview, err := h.queryUseCase.Overview(c.Context(), 0)
	if err != nil {
		return respondError(c, err)
	}
	settings, err := h.settingsRepo.Get()
	if err != nil {
		return respondError(c, err)
	}

	now := time.Now()
	doc, err := h.generator.Generate(overview.Products, overview.Lots, settings.ExpiryAlertDays, now)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="inventario_%s.pdf"`, now.Format("20060102_1504")))
	return c.Send(doc)
}
