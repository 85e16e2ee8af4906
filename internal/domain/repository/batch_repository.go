package repository

import "github.com/tu-usuario/fefo-stock/internal/domain/entity"

// BatchRepository puerto de persistencia para Batch. La unicidad de lot_number
// la respalda un índice único; Create debe devolver domain.ErrDuplicate si choca.
type BatchRepository interface {
	Create(batch *entity.Batch) error
	GetByLotNumber(lotNumber string) (*entity.Batch, error)
	// GetByLotNumberForUpdate bloquea la fila del batch para cerrar la carrera
	// de doble creación en producción concurrente.
	GetByLotNumberForUpdate(lotNumber string) (*entity.Batch, error)
}
