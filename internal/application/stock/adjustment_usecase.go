package stock

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/tu-usuario/fefo-stock/internal/domain"
	"github.com/tu-usuario/fefo-stock/internal/domain/entity"
	"github.com/tu-usuario/fefo-stock/internal/domain/repository"
)

// Direcciones de una rectificación.
const (
	DirectionIn  = "IN"
	DirectionOut = "OUT"
)

// AdjustmentUseCase registra una rectificación con signo sobre un único lote:
// bloquea la fila, deriva el stock actual y rechaza cualquier salida que lo
// dejaría negativo. El motivo es obligatorio y viene de un enum cerrado.
type AdjustmentUseCase struct {
	txRunner TxRunner
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(txRunner TxRunner) *AdjustmentUseCase {
	return &AdjustmentUseCase{txRunner: txRunner}
}

// AdjustmentInput entrada de una rectificación. Quantity siempre positiva;
// el signo lo decide Direction.
type AdjustmentInput struct {
	LotID     string
	Direction string // IN | OUT
	Quantity  int64
	Reason    string
	Note      string
}

// AdjustmentResult stock antes y después de aplicar la rectificación.
type AdjustmentResult struct {
	LotID          string
	ProductID      string
	Direction      string
	Reason         string
	SignedQuantity int64
	StockBefore    int64
	StockAfter     int64
}

// Adjust valida la entrada, y dentro de una transacción bloquea el lote,
// re-deriva su stock y añade un movimiento ADJUSTMENT. Una salida mayor que el
// stock actual se rechaza con InsufficientStockError y no toca el libro.
func (uc *AdjustmentUseCase) Adjust(ctx context.Context, input AdjustmentInput) (*AdjustmentResult, error) {
	if input.LotID == "" || input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	direction := strings.ToUpper(strings.TrimSpace(input.Direction))
	if direction != DirectionIn && direction != DirectionOut {
		return nil, domain.ErrInvalidInput
	}
	reason := strings.ToUpper(strings.TrimSpace(input.Reason))
	if !entity.ValidAdjustReason(reason) {
		return nil, domain.ErrInvalidInput
	}
	note := strings.TrimSpace(input.Note)
	if utf8.RuneCountInString(note) > entity.MaxNoteLength {
		return nil, domain.ErrInvalidInput
	}

	signed := input.Quantity
	if direction == DirectionOut {
		signed = -signed
	}

	result := &AdjustmentResult{
		LotID:          input.LotID,
		Direction:      direction,
		Reason:         reason,
		SignedQuantity: signed,
	}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		lotRepo repository.LotRepository,
		_ repository.BatchRepository,
		_ repository.ProductRepository,
	) error {
		lot, err := lotRepo.GetForUpdate(input.LotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrLotNotFound
		}
		result.ProductID = lot.ProductID

		current, err := movRepo.SumByLot(lot.ID)
		if err != nil {
			return err
		}
		if signed < 0 && current+signed < 0 {
			return &domain.InsufficientStockError{
				Requested: -signed,
				Available: current,
			}
		}

		mov := &entity.Movement{
			TransactionID: uuid.New().String(),
			ProductID:     lot.ProductID,
			LotID:         lot.ID,
			Quantity:      signed,
			Type:          entity.MovementTypeADJUSTMENT,
			Reason:        reason,
			Note:          note,
			CreatedAt:     time.Now(),
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		result.StockBefore = current
		result.StockAfter = current + signed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
