package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/fefo-stock/internal/application/auth"
	"github.com/tu-usuario/fefo-stock/internal/application/dto"
)

// AuthHandler expone el login del operador.
type AuthHandler struct {
	authUseCase *auth.UseCase
}

// NewAuthHandler construye el handler de autenticación.
func NewAuthHandler(authUseCase *auth.UseCase) *AuthHandler {
	return &AuthHandler{authUseCase: authUseCase}
}

// Login godoc
// @Summary      Login del operador
// @Description  Valida las credenciales del operador único y emite un JWT
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "Credenciales"
// @Success      200 {object} dto.LoginResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo JSON inválido")
	}
	if req.Username == "" || req.Password == "" {
		return badRequest(c, "username y password son obligatorios")
	}
	resp, err := h.authUseCase.Login(req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
