package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/fefo-stock/internal/application/dto"
	"github.com/tu-usuario/fefo-stock/internal/application/stock"
)

// SaleHandler venta en dos fases: preview sin efectos y commit transaccional.
type SaleHandler struct {
	saleUseCase *stock.SaleUseCase
}

// NewSaleHandler construye el handler de ventas.
func NewSaleHandler(saleUseCase *stock.SaleUseCase) *SaleHandler {
	return &SaleHandler{saleUseCase: saleUseCase}
}

// Preview godoc
// @Summary      Previsualizar venta
// @Description  Calcula el plan de asignación FEFO (o valida el manual) sin tocar el libro. Mismos argumentos y mismo libro producen siempre el mismo plan.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        request body dto.SaleRequest true "Venta a previsualizar"
// @Success      200 {object} dto.SalePreviewResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse "Stock insuficiente; incluye requested, available y suggested_lots"
// @Router       /api/sales/preview [post]
func (h *SaleHandler) Preview(c *fiber.Ctx) error {
	input, err := h.parseSaleInput(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	result, err := h.saleUseCase.Preview(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToSalePreviewResponse(result))
}

// Commit godoc
// @Summary      Confirmar venta
// @Description  Re-deriva el plan dentro de una transacción con las filas de lote bloqueadas y escribe los movimientos SALE. Recibe los mismos argumentos que el preview, nunca un plan previsualizado.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        request body dto.SaleRequest true "Venta a confirmar"
// @Success      201 {object} dto.SaleCommitResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse "El stock cambió desde el preview; reintentar con los datos devueltos"
// @Security     BearerAuth
// @Router       /api/sales/commit [post]
func (h *SaleHandler) Commit(c *fiber.Ctx) error {
	input, err := h.parseSaleInput(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	result, err := h.saleUseCase.Commit(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToSaleCommitResponse(result))
}

// parseSaleInput body compartido de preview y commit.
func (h *SaleHandler) parseSaleInput(c *fiber.Ctx) (stock.SaleInput, error) {
	var req dto.SaleRequest
	if err := c.BodyParser(&req); err != nil {
		return stock.SaleInput{}, fiber.NewError(fiber.StatusBadRequest, "cuerpo JSON inválido")
	}
	asOf, err := parseDateQuery(req.AsOf)
	if err != nil {
		return stock.SaleInput{}, fiber.NewError(fiber.StatusBadRequest, "as_of debe ser YYYY-MM-DD")
	}
	lots := make([]stock.ManualLine, 0, len(req.Lots))
	for _, l := range req.Lots {
		lots = append(lots, stock.ManualLine{LotID: l.LotID, Quantity: l.Quantity})
	}
	return stock.SaleInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Mode:      req.Mode,
		Lots:      lots,
		AsOf:      asOf,
	}, nil
}

// parseDateQuery fecha YYYY-MM-DD opcional; vacía devuelve el cero de time.Time.
func parseDateQuery(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}
