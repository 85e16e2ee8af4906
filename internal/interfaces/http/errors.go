package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/fefo-stock/internal/application/dto"
	"github.com/tu-usuario/fefo-stock/internal/domain"
)

// respondError traduce errores de dominio a HTTP. Los conflictos de stock van
// como 409 con código estable y los números de reintento (requested, available,
// suggested_lots): el cliente puede rearmar el plan sin otra ronda de consultas.
func respondError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:          insufficient.Code(),
			Message:       insufficient.Error(),
			Requested:     insufficient.Requested,
			Available:     insufficient.Available,
			SuggestedLots: dto.ToSuggestedLots(insufficient.Suggested),
		})
	}
	var lotInsufficient *domain.InsufficientLotStockError
	if errors.As(err, &lotInsufficient) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:          lotInsufficient.Code(),
			Message:       lotInsufficient.Error(),
			LotID:         lotInsufficient.LotID,
			Requested:     lotInsufficient.Requested,
			Available:     lotInsufficient.Available,
			SuggestedLots: dto.ToSuggestedLots(lotInsufficient.Suggested),
		})
	}
	var sumMismatch *domain.ManualSumMismatchError
	if errors.As(err, &sumMismatch) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:          sumMismatch.Code(),
			Message:       sumMismatch.Error(),
			Requested:     sumMismatch.Requested,
			Available:     sumMismatch.Sum,
			SuggestedLots: dto.ToSuggestedLots(sumMismatch.Suggested),
		})
	}
	var fishMismatch *domain.FishTypeMismatchError
	if errors.As(err, &fishMismatch) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    fishMismatch.Code(),
			Message: fishMismatch.Error(),
		})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: domain.CodeInvalidInput, Message: "datos inválidos",
		})
	case errors.Is(err, domain.ErrLotNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Code: domain.CodeLotNotFound, Message: "lote no encontrado",
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Code: "NOT_FOUND", Message: "recurso no encontrado",
		})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "DUPLICATE", Message: "el recurso ya existe",
		})
	case errors.Is(err, domain.ErrProductArchived):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "PRODUCT_ARCHIVED", Message: "el producto está archivado",
		})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Code: "UNAUTHORIZED", Message: "credenciales inválidas",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "INTERNAL", Message: err.Error(),
		})
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code: domain.CodeInvalidInput, Message: message,
	})
}
