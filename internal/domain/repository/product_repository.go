package repository

import "github.com/tu-usuario/fefo-stock/internal/domain/entity"

// ProductFilter filtros del listado del catálogo.
type ProductFilter struct {
	Query           string // búsqueda por nombre/EAN (sin acentos)
	FishType        string
	IncludeArchived bool
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE);
	// producción la usa para leer fish_type/units_per_tray de forma estable.
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	SetActive(id string, active bool) error
	List(filter ProductFilter) ([]*entity.Product, error)
	// ListWithStock agrega stock derivado y lote FEFO por producto (vista inventario).
	ListWithStock(filter ProductFilter) ([]*entity.ProductStock, error)
}
