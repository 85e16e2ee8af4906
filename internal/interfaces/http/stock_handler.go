package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/fefo-stock/internal/application/dto"
	"github.com/tu-usuario/fefo-stock/internal/application/stock"
	"github.com/tu-usuario/fefo-stock/internal/domain/repository"
)

// StockHandler rectificaciones, producción y lecturas del libro de movimientos.
type StockHandler struct {
	adjustmentUseCase *stock.AdjustmentUseCase
	productionUseCase *stock.ProductionUseCase
	queryUseCase      *stock.QueryUseCase
}

// NewStockHandler construye el handler de stock.
func NewStockHandler(
	adjustmentUseCase *stock.AdjustmentUseCase,
	productionUseCase *stock.ProductionUseCase,
	queryUseCase *stock.QueryUseCase,
) *StockHandler {
	return &StockHandler{
		adjustmentUseCase: adjustmentUseCase,
		productionUseCase: productionUseCase,
		queryUseCase:      queryUseCase,
	}
}

// Adjust godoc
// @Summary      Rectificar stock de un lote
// @Description  Añade un movimiento ADJUSTMENT con el signo que marca direction. Una salida mayor que el stock actual se rechaza y el libro no se toca.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request body dto.AdjustmentRequest true "Rectificación"
// @Success      201 {object} dto.AdjustmentResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/adjustments [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var req dto.AdjustmentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo JSON inválido")
	}
	result, err := h.adjustmentUseCase.Adjust(c.Context(), stock.AdjustmentInput{
		LotID:     req.LotID,
		Direction: req.Direction,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
		Note:      req.Note,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AdjustmentResponse{
		LotID:          result.LotID,
		ProductID:      result.ProductID,
		Direction:      result.Direction,
		Reason:         result.Reason,
		SignedQuantity: result.SignedQuantity,
		StockBefore:    result.StockBefore,
		StockAfter:     result.StockAfter,
	})
}

// RecordProduction godoc
// @Summary      Registrar producción
// @Description  Alta de unidades producidas. Si el lot_number no existe crea batch y lote implícitamente; la caducidad solo es obligatoria para batches nuevos.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request body dto.ProductionRequest true "Producción"
// @Success      201 {object} dto.ProductionResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse "El lot_number pertenece a otro fish_type"
// @Security     BearerAuth
// @Router       /api/production [post]
func (h *StockHandler) RecordProduction(c *fiber.Ctx) error {
	var req dto.ProductionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo JSON inválido")
	}
	var expiration *time.Time
	if req.ExpirationDate != "" {
		t, err := time.Parse("2006-01-02", req.ExpirationDate)
		if err != nil {
			return badRequest(c, "expiration_date debe ser YYYY-MM-DD")
		}
		expiration = &t
	}
	result, err := h.productionUseCase.Record(c.Context(), stock.ProductionInput{
		ProductID:      req.ProductID,
		LotNumber:      req.LotNumber,
		ExpirationDate: expiration,
		Quantity:       req.Quantity,
		QuantityType:   req.QuantityType,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ProductionResponse{
		LotID:       result.LotID,
		LotNumber:   result.LotNumber,
		Quantity:    result.Quantity,
		BatchReused: result.BatchReused,
	})
}

// CheckBatch godoc
// @Summary      Consultar batch por lot_number
// @Description  Ayuda del formulario de producción: si el lot_number ya existe devuelve su fish_type y fechas. Un batch inexistente no es un error.
// @Tags         stock
// @Produce      json
// @Param        lot_number query string true "Número de lote"
// @Success      200 {object} dto.BatchCheckResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /api/batches/check [get]
func (h *StockHandler) CheckBatch(c *fiber.Ctx) error {
	batch, err := h.queryUseCase.CheckBatch(c.Context(), c.Query("lot_number"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToBatchCheckResponse(batch))
}

// Overview godoc
// @Summary      Vista de inventario
// @Description  Agregados por producto, lotes con stock en orden FEFO y movimientos recientes. days filtra lotes que caducan en esa ventana.
// @Tags         stock
// @Produce      json
// @Param        days query int false "Ventana de caducidad en días"
// @Success      200 {object} dto.InventoryOverviewResponse
// @Router       /api/inventory [get]
func (h *StockHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.queryUseCase.Overview(c.Context(), c.QueryInt("days", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToInventoryOverviewResponse(overview.Products, overview.Lots, overview.RecentMovements))
}

// FefoLots godoc
// @Summary      Candidatos FEFO de un producto
// @Description  Lotes con stock positivo en orden de urgencia, con la misma política de caducados que la asignación: lo que enseña esta lista es lo que un commit podría consumir.
// @Tags         stock
// @Produce      json
// @Param        product_id query string true  "ID del producto"
// @Param        as_of      query string false "Corte de caducidad YYYY-MM-DD (defecto hoy)"
// @Success      200 {array} dto.LotStockResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/lots/fefo [get]
func (h *StockHandler) FefoLots(c *fiber.Ctx) error {
	asOf, err := parseDateQuery(c.Query("as_of"))
	if err != nil {
		return badRequest(c, "as_of debe ser YYYY-MM-DD")
	}
	lots, err := h.queryUseCase.FefoLots(c.Context(), c.Query("product_id"), asOf)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.LotStockResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, dto.ToLotStockResponse(l))
	}
	return c.JSON(out)
}

// ProductStock godoc
// @Summary      Stock actual de un producto
// @Description  Suma de todos sus lotes, caducados incluidos
// @Tags         stock
// @Produce      json
// @Param        id path string true "ID del producto"
// @Success      200 {object} dto.StockValueResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/stock/product/{id} [get]
func (h *StockHandler) ProductStock(c *fiber.Ctx) error {
	total, err := h.queryUseCase.ProductStock(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StockValueResponse{Stock: total})
}

// LotStock godoc
// @Summary      Stock actual de un lote
// @Description  Cero si el lote no tiene movimientos; no es un error
// @Tags         stock
// @Produce      json
// @Param        id path string true "ID del lote"
// @Success      200 {object} dto.StockValueResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/stock/lot/{id} [get]
func (h *StockHandler) LotStock(c *fiber.Ctx) error {
	total, err := h.queryUseCase.LotStock(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StockValueResponse{Stock: total})
}

// Movements godoc
// @Summary      Listar movimientos
// @Description  Libro de movimientos en orden cronológico descendente
// @Tags         stock
// @Produce      json
// @Param        product_id query string false "Filtro por producto"
// @Param        lot_id     query string false "Filtro por lote"
// @Param        limit      query int    false "Máximo de filas (defecto 50, tope 200)"
// @Param        offset     query int    false "Desplazamiento"
// @Success      200 {array} dto.MovementResponse
// @Router       /api/movements [get]
func (h *StockHandler) Movements(c *fiber.Ctx) error {
	movements, err := h.queryUseCase.Movements(c.Context(), repository.MovementFilter{
		ProductID: c.Query("product_id"),
		LotID:     c.Query("lot_id"),
		Limit:     c.QueryInt("limit", 0),
		Offset:    c.QueryInt("offset", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.ToMovementResponse(m))
	}
	return c.JSON(out)
}
