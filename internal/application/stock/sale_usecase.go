package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/fefo-stock/internal/domain"
	"github.com/tu-usuario/fefo-stock/internal/domain/entity"
	"github.com/tu-usuario/fefo-stock/internal/domain/repository"
)

// SaleUseCase implementa el protocolo de venta en dos fases:
// Preview (solo lectura, sin bloqueos ni estado persistido) y Commit
// (transacción con bloqueo de filas de lotes y revalidación del plan).
// No existe estado "pendiente": un preview no confirmado simplemente no se
// commitea, y el commit siempre re-deriva el stock bajo el lock.
type SaleUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	lotRepo      repository.LotRepository
	settingsRepo repository.SettingsRepository
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	lotRepo repository.LotRepository,
	settingsRepo repository.SettingsRepository,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		lotRepo:      lotRepo,
		settingsRepo: settingsRepo,
	}
}

// SaleInput entrada de preview y commit (el commit re-deriva el plan desde
// estos mismos argumentos, nunca confía en un plan previsualizado).
type SaleInput struct {
	ProductID string
	Quantity  int64
	Mode      string // auto | manual; vacío = modo por defecto de settings
	Lots      []ManualLine
	AsOf      time.Time // corte de caducidad; cero = hoy
}

// PreviewResult plan propuesto más los candidatos FEFO para la UI.
type PreviewResult struct {
	Mode           string
	ProductID      string
	Quantity       int64
	TotalAvailable int64
	Plan           []PlanLine
	Suggested      []entity.LotStock
}

// ConsumedLot línea realizada de una venta comprometida.
type ConsumedLot struct {
	LotID          string
	LotNumber      string
	Quantity       int64
	ExpirationDate *time.Time
	ProductionDate time.Time
}

// CommitResult asignación realizada y stock restante del producto.
type CommitResult struct {
	TransactionID         string
	Mode                  string
	SoldQuantity          int64
	Consumed              []ConsumedLot
	RemainingProductStock int64
}

// Preview calcula el plan de asignación sin efectos: mismos argumentos y mismo
// libro producen siempre el mismo plan. Los conflictos de negocio se devuelven
// como errores tipados con los números para autocorregirse.
func (uc *SaleUseCase) Preview(ctx context.Context, input SaleInput) (*PreviewResult, error) {
	mode, err := uc.resolveMode(input.Mode)
	if err != nil {
		return nil, err
	}
	if err := uc.checkProduct(input.ProductID); err != nil {
		return nil, err
	}
	lots, err := uc.candidateLots(uc.lotRepo, input)
	if err != nil {
		return nil, err
	}

	plan, err := uc.buildPlan(mode, lots, input)
	if err != nil {
		return nil, err
	}
	return &PreviewResult{
		Mode:           mode,
		ProductID:      input.ProductID,
		Quantity:       input.Quantity,
		TotalAvailable: TotalAvailable(lots),
		Plan:           plan,
		Suggested:      SortFefo(lots),
	}, nil
}

// Commit ejecuta la venta en una sola transacción: bloquea las filas de lotes
// del producto, re-deriva el stock del libro bajo el lock, revalida el plan y
// inserta un movimiento SALE por línea. Cualquier fallo deshace todo; jamás
// quedan movimientos parciales.
func (uc *SaleUseCase) Commit(ctx context.Context, input SaleInput) (*CommitResult, error) {
	mode, err := uc.resolveMode(input.Mode)
	if err != nil {
		return nil, err
	}
	if err := uc.checkProduct(input.ProductID); err != nil {
		return nil, err
	}

	txID := uuid.New().String()
	result := &CommitResult{TransactionID: txID, Mode: mode}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		lotRepo repository.LotRepository,
		_ repository.BatchRepository,
		_ repository.ProductRepository,
	) error {
		// El lock de filas va antes de cualquier lectura de stock: cierra la
		// ventana entre preview y commit frente a ventas/rectificaciones concurrentes.
		if err := lotRepo.LockByProduct(input.ProductID); err != nil {
			return err
		}
		lots, err := uc.candidateLots(lotRepo, input)
		if err != nil {
			return err
		}
		plan, err := uc.buildPlan(mode, lots, input)
		if err != nil {
			return err
		}

		now := time.Now()
		for _, line := range plan {
			mov := &entity.Movement{
				TransactionID: txID,
				ProductID:     input.ProductID,
				LotID:         line.LotID,
				Quantity:      -line.Quantity,
				Type:          entity.MovementTypeSALE,
				CreatedAt:     now,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
			result.Consumed = append(result.Consumed, ConsumedLot{
				LotID:          line.LotID,
				LotNumber:      line.LotNumber,
				Quantity:       line.Quantity,
				ExpirationDate: line.ExpirationDate,
				ProductionDate: line.ProductionDate,
			})
			result.SoldQuantity += line.Quantity
		}

		remaining, err := movRepo.SumByProduct(input.ProductID)
		if err != nil {
			return err
		}
		result.RemainingProductStock = remaining
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// resolveMode normaliza el modo; vacío toma el por defecto de settings.
func (uc *SaleUseCase) resolveMode(mode string) (string, error) {
	switch mode {
	case ModeAuto, ModeManual:
		return mode, nil
	case "":
		settings, err := uc.settingsRepo.Get()
		if err != nil {
			return "", err
		}
		if settings.SaleDefaultMode == entity.SaleModeManual {
			return ModeManual, nil
		}
		return ModeAuto, nil
	default:
		return "", domain.ErrInvalidInput
	}
}

func (uc *SaleUseCase) checkProduct(productID string) error {
	if productID == "" {
		return domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if !product.Active {
		return domain.ErrProductArchived
	}
	return nil
}

// candidateLots lee los lotes con stock > 0 del producto aplicando la política
// de caducados de settings (por defecto un batch caducado no es asignable).
func (uc *SaleUseCase) candidateLots(lotRepo repository.LotRepository, input SaleInput) ([]entity.LotStock, error) {
	settings, err := uc.settingsRepo.Get()
	if err != nil {
		return nil, err
	}
	return lotRepo.ListWithStock(repository.LotStockFilter{
		ProductID:      input.ProductID,
		AsOf:           input.AsOf,
		IncludeExpired: settings.IncludeExpiredInAllocation,
	})
}

func (uc *SaleUseCase) buildPlan(mode string, lots []entity.LotStock, input SaleInput) ([]PlanLine, error) {
	if mode == ModeManual {
		return PlanManual(lots, input.Quantity, input.Lots)
	}
	return PlanAuto(lots, input.Quantity)
}
