package repository

import "github.com/tu-usuario/fefo-stock/internal/domain/entity"

// MovementFilter filtros del listado del libro.
type MovementFilter struct {
	ProductID string
	LotID     string
	Limit     int
	Offset    int
}

// MovementRepository puerto del libro de movimientos. Append-only: no existe
// Update ni Delete por diseño; las correcciones son movimientos nuevos.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	// SumByLot pliega las cantidades con signo del lote (proyección de stock).
	SumByLot(lotID string) (int64, error)
	// SumByProduct pliega el stock de todos los lotes del producto.
	SumByProduct(productID string) (int64, error)
	List(filter MovementFilter) ([]*entity.Movement, error)
}
