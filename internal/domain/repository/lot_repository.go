package repository

import (
	"time"

	"github.com/tu-usuario/fefo-stock/internal/domain/entity"
)

// LotStockFilter opciones de la vista de lotes con stock derivado.
type LotStockFilter struct {
	ProductID string
	// AsOf día de referencia para el corte de caducidad (cero = hoy).
	AsOf time.Time
	// IncludeExpired admite lotes de batches ya caducados (política de asignación).
	IncludeExpired bool
	// IncludeZeroStock no descarta lotes con stock 0 (vistas de inventario).
	IncludeZeroStock bool
}

// LotRepository puerto de persistencia para Lot y sus vistas derivadas.
// El stock jamás se guarda: las vistas lo calculan plegando movimientos.
type LotRepository interface {
	Create(lot *entity.Lot) error
	GetByID(id string) (*entity.Lot, error)
	// GetForUpdate bloquea la fila del lote (rectificaciones).
	GetForUpdate(id string) (*entity.Lot, error)
	GetByProductAndBatchForUpdate(productID, batchID string) (*entity.Lot, error)
	// LockByProduct bloquea todas las filas de lotes del producto
	// (SELECT id ... FOR UPDATE). Debe invocarse ANTES de derivar stock en un
	// commit: serializa las asignaciones concurrentes del mismo producto.
	LockByProduct(productID string) error
	// ListWithStock devuelve los lotes del producto con stock derivado,
	// ordenados FEFO (caducidad asc con nulls al final, producción asc, id asc).
	ListWithStock(filter LotStockFilter) ([]entity.LotStock, error)
	// ListAllWithStock vista global de inventario (todos los productos).
	ListAllWithStock(includeZeroStock bool) ([]entity.LotStock, error)
}
