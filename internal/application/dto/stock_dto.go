package dto

import (
	"time"

	"github.com/tu-usuario/fefo-stock/internal/application/stock"
	"github.com/tu-usuario/fefo-stock/internal/domain/entity"
)

// SaleRequest body compartido de preview y commit: el commit re-deriva el plan
// desde estos mismos argumentos, nunca recibe un plan previsualizado.
type SaleRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int64           `json:"quantity" validate:"required,min=1"`
	Mode      string          `json:"mode"` // auto | manual; vacío = defecto de settings
	Lots      []ManualLineDTO `json:"lots,omitempty"`
	AsOf      string          `json:"as_of,omitempty"` // YYYY-MM-DD; vacío = hoy
}

// ManualLineDTO línea (lote, cantidad) de un plan manual.
type ManualLineDTO struct {
	LotID    string `json:"lot_id" validate:"required"`
	Quantity int64  `json:"quantity" validate:"required,min=1"`
}

// PlanLineDTO línea de un plan de asignación propuesto.
type PlanLineDTO struct {
	LotID          string  `json:"lot_id"`
	LotNumber      string  `json:"lot_number"`
	Quantity       int64   `json:"quantity"`
	ExpirationDate *string `json:"expiration_date"`
	ProductionDate string  `json:"production_date"`
}

// SalePreviewResponse plan propuesto más los candidatos FEFO para la UI.
type SalePreviewResponse struct {
	Mode           string            `json:"mode"`
	ProductID      string            `json:"product_id"`
	Quantity       int64             `json:"quantity"`
	TotalAvailable int64             `json:"total_available"`
	Plan           []PlanLineDTO     `json:"plan"`
	SuggestedLots  []SuggestedLotDTO `json:"suggested_lots"`
}

// SaleCommitResponse asignación realizada y stock restante.
type SaleCommitResponse struct {
	TransactionID         string        `json:"transaction_id"`
	Mode                  string        `json:"mode"`
	SoldQuantity          int64         `json:"sold_quantity"`
	Consumed              []PlanLineDTO `json:"consumed"`
	RemainingProductStock int64         `json:"remaining_product_stock"`
}

// AdjustmentRequest rectificación manual de stock de un lote.
type AdjustmentRequest struct {
	LotID     string `json:"lot_id" validate:"required"`
	Direction string `json:"direction" validate:"required"` // IN | OUT
	Quantity  int64  `json:"quantity" validate:"required,min=1"`
	Reason    string `json:"reason" validate:"required"`
	Note      string `json:"note"`
}

// AdjustmentResponse resultado de una rectificación aplicada.
type AdjustmentResponse struct {
	LotID          string `json:"lot_id"`
	ProductID      string `json:"product_id"`
	Direction      string `json:"direction"`
	Reason         string `json:"reason"`
	SignedQuantity int64  `json:"signed_quantity"`
	StockBefore    int64  `json:"stock_before"`
	StockAfter     int64  `json:"stock_after"`
}

// ProductionRequest alta de producción: crea batch y lote si no existen.
type ProductionRequest struct {
	ProductID      string `json:"product_id" validate:"required"`
	LotNumber      string `json:"lot_number" validate:"required"`
	ExpirationDate string `json:"expiration_date,omitempty"` // YYYY-MM-DD; obligatoria si el batch es nuevo
	Quantity       int64  `json:"quantity" validate:"required,min=1"`
	QuantityType   string `json:"quantity_type"` // units | trays; vacío = units
}

// ProductionResponse resultado del alta de producción.
type ProductionResponse struct {
	LotID       string `json:"lot_id"`
	LotNumber   string `json:"lot_number"`
	Quantity    int64  `json:"quantity"` // siempre en unidades
	BatchReused bool   `json:"batch_reused"`
}

// LotStockResponse lote con stock derivado del libro.
type LotStockResponse struct {
	LotID          string  `json:"lot_id"`
	ProductID      string  `json:"product_id"`
	LotNumber      string  `json:"lot_number"`
	ExpirationDate *string `json:"expiration_date"`
	ProductionDate string  `json:"production_date"`
	Stock          int64   `json:"stock"`
}

// BatchCheckResponse ayuda del formulario de producción: si el lot_number ya
// existe devuelve su fish_type y fechas para rellenar (y validar) el alta.
type BatchCheckResponse struct {
	Exists         bool    `json:"exists"`
	LotNumber      string  `json:"lot_number,omitempty"`
	FishType       string  `json:"fish_type,omitempty"`
	ProductionDate string  `json:"production_date,omitempty"`
	ExpirationDate *string `json:"expiration_date,omitempty"`
}

// StockValueResponse stock derivado de un producto o lote.
type StockValueResponse struct {
	Stock int64 `json:"stock"`
}

// InventoryOverviewResponse vista combinada del panel principal.
type InventoryOverviewResponse struct {
	Products        []ProductStockResponse `json:"products"`
	Lots            []LotStockResponse     `json:"lots"`
	RecentMovements []MovementResponse     `json:"recent_movements"`
}

// MovementResponse asiento del libro de movimientos.
type MovementResponse struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transaction_id,omitempty"`
	ProductID     string    `json:"product_id"`
	LotID         string    `json:"lot_id"`
	Quantity      int64     `json:"quantity"` // con signo: SALE y salidas en negativo
	Type          string    `json:"type"`
	Reason        string    `json:"reason,omitempty"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToSalePreviewResponse mapea el resultado del preview.
func ToSalePreviewResponse(r *stock.PreviewResult) SalePreviewResponse {
	plan := make([]PlanLineDTO, 0, len(r.Plan))
	for _, line := range r.Plan {
		plan = append(plan, PlanLineDTO{
			LotID:          line.LotID,
			LotNumber:      line.LotNumber,
			Quantity:       line.Quantity,
			ExpirationDate: FormatDate(line.ExpirationDate),
			ProductionDate: line.ProductionDate.Format("2006-01-02"),
		})
	}
	return SalePreviewResponse{
		Mode:           r.Mode,
		ProductID:      r.ProductID,
		Quantity:       r.Quantity,
		TotalAvailable: r.TotalAvailable,
		Plan:           plan,
		SuggestedLots:  ToSuggestedLots(r.Suggested),
	}
}

// ToSaleCommitResponse mapea el resultado del commit.
func ToSaleCommitResponse(r *stock.CommitResult) SaleCommitResponse {
	consumed := make([]PlanLineDTO, 0, len(r.Consumed))
	for _, c := range r.Consumed {
		consumed = append(consumed, PlanLineDTO{
			LotID:          c.LotID,
			LotNumber:      c.LotNumber,
			Quantity:       c.Quantity,
			ExpirationDate: FormatDate(c.ExpirationDate),
			ProductionDate: c.ProductionDate.Format("2006-01-02"),
		})
	}
	return SaleCommitResponse{
		TransactionID:         r.TransactionID,
		Mode:                  r.Mode,
		SoldQuantity:          r.SoldQuantity,
		Consumed:              consumed,
		RemainingProductStock: r.RemainingProductStock,
	}
}

// ToSuggestedLots mapea candidatos FEFO al formato de sugerencia.
func ToSuggestedLots(lots []entity.LotStock) []SuggestedLotDTO {
	out := make([]SuggestedLotDTO, 0, len(lots))
	for _, l := range lots {
		out = append(out, SuggestedLotDTO{
			LotID:          l.LotID,
			LotNumber:      l.LotNumber,
			ExpirationDate: FormatDate(l.ExpirationDate),
			Stock:          l.Stock,
		})
	}
	return out
}

// ToLotStockResponse mapea la vista de un lote con stock.
func ToLotStockResponse(l entity.LotStock) LotStockResponse {
	return LotStockResponse{
		LotID:          l.LotID,
		ProductID:      l.ProductID,
		LotNumber:      l.LotNumber,
		ExpirationDate: FormatDate(l.ExpirationDate),
		ProductionDate: l.ProductionDate.Format("2006-01-02"),
		Stock:          l.Stock,
	}
}

// ToBatchCheckResponse mapea el resultado de la consulta de batch; nil = no existe.
func ToBatchCheckResponse(b *entity.Batch) BatchCheckResponse {
	if b == nil {
		return BatchCheckResponse{Exists: false}
	}
	return BatchCheckResponse{
		Exists:         true,
		LotNumber:      b.LotNumber,
		FishType:       b.FishType,
		ProductionDate: b.ProductionDate.Format("2006-01-02"),
		ExpirationDate: FormatDate(b.ExpirationDate),
	}
}

// ToInventoryOverviewResponse compone la vista de inventario.
func ToInventoryOverviewResponse(
	products []*entity.ProductStock,
	lots []entity.LotStock,
	movements []*entity.Movement,
) InventoryOverviewResponse {
	out := InventoryOverviewResponse{
		Products:        make([]ProductStockResponse, 0, len(products)),
		Lots:            make([]LotStockResponse, 0, len(lots)),
		RecentMovements: make([]MovementResponse, 0, len(movements)),
	}
	for _, p := range products {
		out.Products = append(out.Products, ToProductStockResponse(p))
	}
	for _, l := range lots {
		out.Lots = append(out.Lots, ToLotStockResponse(l))
	}
	for _, m := range movements {
		out.RecentMovements = append(out.RecentMovements, ToMovementResponse(m))
	}
	return out
}

// ToMovementResponse mapea un asiento del libro.
func ToMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		ProductID:     m.ProductID,
		LotID:         m.LotID,
		Quantity:      m.Quantity,
		Type:          m.Type,
		Reason:        m.Reason,
		Note:          m.Note,
		CreatedAt:     m.CreatedAt,
	}
}
