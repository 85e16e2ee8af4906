package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/fefo-stock/internal/application/settings"
	"github.com/tu-usuario/fefo-stock/internal/domain/entity"
)

// SettingsHandler lectura y escritura de la configuración global.
type SettingsHandler struct {
	settingsUseCase *settings.UseCase
}

// NewSettingsHandler construye el handler de configuración.
func NewSettingsHandler(settingsUseCase *settings.UseCase) *SettingsHandler {
	return &SettingsHandler{settingsUseCase: settingsUseCase}
}

// Get godoc
// @Summary      Configuración actual
// @Tags         settings
// @Produce      json
// @Success      200 {object} entity.Settings
// @Router       /api/settings [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	current, err := h.settingsUseCase.Get(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(current)
}

// Update godoc
// @Summary      Actualizar configuración
// @Description  Sustituye la configuración completa. Los valores fuera de rango se acotan y se devuelve la versión normalizada.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body entity.Settings true "Configuración"
// @Success      200 {object} entity.Settings
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/settings [put]
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var req entity.Settings
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo JSON inválido")
	}
	updated, err := h.settingsUseCase.Update(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}
