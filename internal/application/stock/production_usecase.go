package stock

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/fefo-stock/internal/domain"
	"github.com/tu-usuario/fefo-stock/internal/domain/entity"
	"github.com/tu-usuario/fefo-stock/internal/domain/repository"
)

// Unidades en las que puede expresarse la cantidad producida.
const (
	QuantityUnits = "units"
	QuantityTrays = "trays"
)

// ProductionUseCase registra una producción: resuelve o crea el batch por
// lot_number y el lote (producto, batch) bajo locks de fila, y añade un
// movimiento PRODUCTION. El alta de batch/lote es implícita: ocurre con la
// primera producción de ese par.
type ProductionUseCase struct {
	txRunner TxRunner
}

// NewProductionUseCase construye el caso de uso.
func NewProductionUseCase(txRunner TxRunner) *ProductionUseCase {
	return &ProductionUseCase{txRunner: txRunner}
}

// ProductionInput entrada de una producción. ExpirationDate es obligatoria solo
// si el lot_number es nuevo; QuantityType "trays" convierte con units_per_tray.
type ProductionInput struct {
	ProductID      string
	LotNumber      string
	ExpirationDate *time.Time
	Quantity       int64
	QuantityType   string // units | trays (vacío = units)
}

// ProductionResult cantidad final en unidades y si se reutilizó un batch existente.
type ProductionResult struct {
	LotID       string
	LotNumber   string
	Quantity    int64
	BatchReused bool
}

// Record ejecuta la producción en una transacción: lock del producto (lee
// fish_type y units_per_tray estables), find-or-create del batch con lock por
// lot_number, verificación del invariante de fish_type, find-or-create del
// lote y un movimiento PRODUCTION por la cantidad convertida.
func (uc *ProductionUseCase) Record(ctx context.Context, input ProductionInput) (*ProductionResult, error) {
	lotNumber := strings.TrimSpace(input.LotNumber)
	if input.ProductID == "" || lotNumber == "" || input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	quantityType := input.QuantityType
	if quantityType == "" {
		quantityType = QuantityUnits
	}
	if quantityType != QuantityUnits && quantityType != QuantityTrays {
		return nil, domain.ErrInvalidInput
	}

	result := &ProductionResult{LotNumber: lotNumber}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		lotRepo repository.LotRepository,
		batchRepo repository.BatchRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if !product.Active {
			return domain.ErrProductArchived
		}

		quantity := input.Quantity
		if quantityType == QuantityTrays {
			if product.UnitsPerTray <= 0 {
				return domain.ErrInvalidInput
			}
			quantity = quantity * int64(product.UnitsPerTray)
		}

		now := time.Now()
		batch, err := batchRepo.GetByLotNumberForUpdate(lotNumber)
		if err != nil {
			return err
		}
		if batch != nil {
			if batch.FishType != product.FishType {
				return &domain.FishTypeMismatchError{
					LotNumber:       lotNumber,
					BatchFishType:   batch.FishType,
					ProductFishType: product.FishType,
				}
			}
			result.BatchReused = true
		} else {
			// Batch nuevo: la caducidad es obligatoria y queda fija aquí.
			if input.ExpirationDate == nil {
				return domain.ErrInvalidInput
			}
			batch = &entity.Batch{
				ID:             uuid.New().String(),
				LotNumber:      lotNumber,
				FishType:       product.FishType,
				ProductionDate: now,
				ExpirationDate: input.ExpirationDate,
				CreatedAt:      now,
			}
			if err := batchRepo.Create(batch); err != nil {
				// Carrera de doble alta: el índice único manda; relee bajo lock.
				if err == domain.ErrDuplicate {
					batch, err = batchRepo.GetByLotNumberForUpdate(lotNumber)
					if err != nil {
						return err
					}
					if batch == nil {
						return domain.ErrNotFound
					}
					if batch.FishType != product.FishType {
						return &domain.FishTypeMismatchError{
							LotNumber:       lotNumber,
							BatchFishType:   batch.FishType,
							ProductFishType: product.FishType,
						}
					}
					result.BatchReused = true
				} else {
					return err
				}
			}
		}

		lot, err := lotRepo.GetByProductAndBatchForUpdate(product.ID, batch.ID)
		if err != nil {
			return err
		}
		if lot == nil {
			lot = &entity.Lot{
				ID:        uuid.New().String(),
				ProductID: product.ID,
				BatchID:   batch.ID,
				CreatedAt: now,
			}
			if err := lotRepo.Create(lot); err != nil {
				return err
			}
		}

		mov := &entity.Movement{
			TransactionID: uuid.New().String(),
			ProductID:     product.ID,
			LotID:         lot.ID,
			Quantity:      quantity,
			Type:          entity.MovementTypePRODUCTION,
			CreatedAt:     now,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		result.LotID = lot.ID
		result.Quantity = quantity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
