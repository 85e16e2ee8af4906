package dto

import (
	"time"

	"github.com/tu-usuario/fefo-stock/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	Format       string `json:"format" validate:"required"`
	EAN          string `json:"ean" validate:"required"`
	FishType     string `json:"fish_type" validate:"required"`
	UnitsPerTray int    `json:"units_per_tray" validate:"required,min=1"`
	ImagePath    string `json:"image_path"`
}

// UpdateProductRequest entrada para actualizar un producto (fish_type excluido:
// es invariante tras la creación).
type UpdateProductRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	Format       string `json:"format"`
	EAN          string `json:"ean"`
	UnitsPerTray int    `json:"units_per_tray" validate:"required,min=1"`
	ImagePath    string `json:"image_path"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Format       string    `json:"format"`
	EAN          string    `json:"ean"`
	FishType     string    `json:"fish_type"`
	UnitsPerTray int       `json:"units_per_tray"`
	ImagePath    string    `json:"image_path,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductStockResponse producto con stock derivado y su lote FEFO más urgente.
type ProductStockResponse struct {
	ProductResponse
	StockTotal         int64   `json:"stock_total"`
	LotsCount          int     `json:"lots_count"`
	FefoLotID          string  `json:"fefo_lot_id,omitempty"`
	FefoLotNumber      string  `json:"fefo_lot_number,omitempty"`
	FefoExpirationDate *string `json:"fefo_expiration_date,omitempty"`
}

// ToProductResponse mapea la entidad al DTO.
func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Format:       p.Format,
		EAN:          p.EAN,
		FishType:     p.FishType,
		UnitsPerTray: p.UnitsPerTray,
		ImagePath:    p.ImagePath,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ToProductStockResponse mapea la vista de inventario al DTO.
func ToProductStockResponse(p *entity.ProductStock) ProductStockResponse {
	return ProductStockResponse{
		ProductResponse:    ToProductResponse(&p.Product),
		StockTotal:         p.StockTotal,
		LotsCount:          p.LotsCount,
		FefoLotID:          p.FefoLotID,
		FefoLotNumber:      p.FefoLotNumber,
		FefoExpirationDate: FormatDate(p.FefoExpirationDate),
	}
}

// FormatDate fecha como YYYY-MM-DD; nil se queda en nil.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
