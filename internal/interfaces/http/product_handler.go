package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/fefo-stock/internal/application/catalog"
	"github.com/tu-usuario/fefo-stock/internal/application/dto"
)

// ProductHandler CRUD del catálogo de productos.
type ProductHandler struct {
	catalogUseCase *catalog.UseCase
}

// NewProductHandler construye el handler del catálogo.
func NewProductHandler(catalogUseCase *catalog.UseCase) *ProductHandler {
	return &ProductHandler{catalogUseCase: catalogUseCase}
}

// Create godoc
// @Summary      Crear producto
// @Description  Alta de producto en el catálogo; el fish_type queda fijo tras la creación
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateProductRequest true "Producto"
// @Success      201 {object} dto.ProductResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo JSON inválido")
	}
	product, err := h.catalogUseCase.Create(c.Context(), catalog.CreateInput{
		Name:         req.Name,
		Format:       req.Format,
		EAN:          req.EAN,
		FishType:     req.FishType,
		UnitsPerTray: req.UnitsPerTray,
		ImagePath:    req.ImagePath,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToProductResponse(product))
}

// Update godoc
// @Summary      Actualizar producto
// @Description  Edita los campos de presentación; el fish_type no es editable
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "ID del producto"
// @Param        request body dto.UpdateProductRequest true "Campos editables"
// @Success      200 {object} dto.ProductResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "cuerpo JSON inválido")
	}
	product, err := h.catalogUseCase.Update(c.Context(), c.Params("id"), catalog.UpdateInput{
		Name:         req.Name,
		Format:       req.Format,
		EAN:          req.EAN,
		UnitsPerTray: req.UnitsPerTray,
		ImagePath:    req.ImagePath,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToProductResponse(product))
}

// GetByID godoc
// @Summary      Detalle de producto
// @Tags         products
// @Produce      json
// @Param        id path string true "ID del producto"
// @Success      200 {object} dto.ProductResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	product, err := h.catalogUseCase.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToProductResponse(product))
}

// List godoc
// @Summary      Listar productos con stock
// @Description  Catálogo con stock derivado y lote FEFO más urgente por producto. La búsqueda ignora mayúsculas y acentos.
// @Tags         products
// @Produce      json
// @Param        q                query string false "Búsqueda por nombre o EAN"
// @Param        fish_type        query string false "Filtro por tipo de pescado"
// @Param        include_archived query bool   false "Incluir productos archivados"
// @Success      200 {array} dto.ProductStockResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.catalogUseCase.List(
		c.Context(),
		c.Query("q"),
		c.Query("fish_type"),
		c.QueryBool("include_archived", false),
	)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ProductStockResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.ToProductStockResponse(p))
	}
	return c.JSON(out)
}

// Archive godoc
// @Summary      Archivar producto
// @Description  Oculta el producto de listados y ventas; su historial de movimientos se conserva
// @Tags         products
// @Produce      json
// @Param        id path string true "ID del producto"
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Archive(c *fiber.Ctx) error {
	if err := h.catalogUseCase.Archive(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Restore godoc
// @Summary      Restaurar producto archivado
// @Tags         products
// @Produce      json
// @Param        id path string true "ID del producto"
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/products/{id}/restore [post]
func (h *ProductHandler) Restore(c *fiber.Ctx) error {
	if err := h.catalogUseCase.Restore(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
