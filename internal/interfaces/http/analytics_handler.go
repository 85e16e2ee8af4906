package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/fefo-stock/internal/application/analytics"
)

// AnalyticsHandler consultas agregadas sobre el libro de movimientos.
type AnalyticsHandler struct {
	analyticsUseCase *analytics.UseCase
}

// NewAnalyticsHandler construye el handler de analítica.
func NewAnalyticsHandler(analyticsUseCase *analytics.UseCase) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsUseCase: analyticsUseCase}
}

// Summary godoc
// @Summary      Resumen de movimientos
// @Description  Vendido, producido, mermas y balance neto del período. Con unit=trays las cantidades se expresan en bandejas (fraccionarias).
// @Tags         analytics
// @Produce      json
// @Param        start_date query string false "YYYY-MM-DD (defecto: primer día del mes)"
// @Param        end_date   query string false "YYYY-MM-DD (defecto: hoy)"
// @Param        fish_type  query string false "Filtro por tipo de pescado"
// @Param        product_id query string false "Filtro por producto"
// @Param        unit       query string false "units | trays (defecto units)"
// @Success      200 {object} analytics.Summary
// @Failure      400 {object} dto.ErrorResponse
// @Router       /api/analytics/summary [get]
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.analyticsUseCase.Summary(c.Context(), h.summaryInput(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// TopProducts godoc
// @Summary      Productos más vendidos
// @Tags         analytics
// @Produce      json
// @Param        start_date query string false "YYYY-MM-DD (defecto: primer día del mes)"
// @Param        end_date   query string false "YYYY-MM-DD (defecto: hoy)"
// @Param        fish_type  query string false "Filtro por tipo de pescado"
// @Param        limit      query int    false "Máximo de productos (defecto 10, tope 100)"
// @Success      200 {array} repository.TopProductResult
// @Failure      400 {object} dto.ErrorResponse
// @Router       /api/analytics/top-products [get]
func (h *AnalyticsHandler) TopProducts(c *fiber.Ctx) error {
	results, err := h.analyticsUseCase.TopProducts(c.Context(), h.summaryInput(c), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(results)
}

// Expiries godoc
// @Summary      Lotes por urgencia de caducidad
// @Description  Clasifica los lotes en caducados, 7 días, 14 días y ventana de alerta. La ventana exterior la fija expiry_alert_days de la configuración.
// @Tags         analytics
// @Produce      json
// @Param        as_of query string false "Fecha de referencia YYYY-MM-DD (defecto hoy)"
// @Success      200 {object} analytics.ExpiryReport
// @Failure      400 {object} dto.ErrorResponse
// @Router       /api/analytics/expiries [get]
func (h *AnalyticsHandler) Expiries(c *fiber.Ctx) error {
	asOf, err := parseDateQuery(c.Query("as_of"))
	if err != nil {
		return badRequest(c, "as_of debe ser YYYY-MM-DD")
	}
	report, err := h.analyticsUseCase.Expiries(c.Context(), asOf)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// Forecast godoc
// @Summary      Pronóstico de rotura de stock
// @Description  Días hasta rotura por producto con stock, al ritmo medio de venta de los últimos 30 días
// @Tags         analytics
// @Produce      json
// @Success      200 {array} analytics.ForecastRow
// @Router       /api/analytics/forecast [get]
func (h *AnalyticsHandler) Forecast(c *fiber.Ctx) error {
	rows, err := h.analyticsUseCase.Forecast(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

func (h *AnalyticsHandler) summaryInput(c *fiber.Ctx) analytics.SummaryInput {
	return analytics.SummaryInput{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		FishType:  c.Query("fish_type"),
		ProductID: c.Query("product_id"),
		Unit:      c.Query("unit"),
	}
}
