package stock

import (
	"context"
	"time"

	"github.com/tu-usuario/fefo-stock/internal/domain"
	"github.com/tu-usuario/fefo-stock/internal/domain/entity"
	"github.com/tu-usuario/fefo-stock/internal/domain/repository"
)

// QueryUseCase lecturas del libro: stock derivado, candidatos FEFO, vista de
// inventario y movimientos recientes. Nunca bloquea filas ni abre transacciones.
type QueryUseCase struct {
	productRepo  repository.ProductRepository
	batchRepo    repository.BatchRepository
	lotRepo      repository.LotRepository
	movementRepo repository.MovementRepository
	settingsRepo repository.SettingsRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(
	productRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	lotRepo repository.LotRepository,
	movementRepo repository.MovementRepository,
	settingsRepo repository.SettingsRepository,
) *QueryUseCase {
	return &QueryUseCase{
		productRepo:  productRepo,
		batchRepo:    batchRepo,
		lotRepo:      lotRepo,
		movementRepo: movementRepo,
		settingsRepo: settingsRepo,
	}
}

// CheckBatch busca un batch por lot_number (sin distinguir mayúsculas).
// Devuelve nil si no existe: el formulario de producción usa esta consulta
// para avisar antes de registrar, y un batch inexistente no es un error.
func (uc *QueryUseCase) CheckBatch(ctx context.Context, lotNumber string) (*entity.Batch, error) {
	if lotNumber == "" {
		return nil, nil
	}
	return uc.batchRepo.GetByLotNumber(lotNumber)
}

// LotStock stock actual de un lote (0 si no tiene movimientos; no es error).
func (uc *QueryUseCase) LotStock(ctx context.Context, lotID string) (int64, error) {
	lot, err := uc.lotRepo.GetByID(lotID)
	if err != nil {
		return 0, err
	}
	if lot == nil {
		return 0, domain.ErrLotNotFound
	}
	return uc.movementRepo.SumByLot(lotID)
}

// ProductStock stock actual de un producto (suma de todos sus lotes, caducados incluidos).
func (uc *QueryUseCase) ProductStock(ctx context.Context, productID string) (int64, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, domain.ErrNotFound
	}
	return uc.movementRepo.SumByProduct(productID)
}

// FefoLots candidatos FEFO de un producto (stock > 0, orden de urgencia),
// con la misma política de caducados que usa la asignación: lo que enseña esta
// lista es exactamente lo que un commit podría consumir.
func (uc *QueryUseCase) FefoLots(ctx context.Context, productID string, asOf time.Time) ([]entity.LotStock, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	settings, err := uc.settingsRepo.Get()
	if err != nil {
		return nil, err
	}
	return uc.lotRepo.ListWithStock(repository.LotStockFilter{
		ProductID:      productID,
		AsOf:           asOf,
		IncludeExpired: settings.IncludeExpiredInAllocation,
	})
}

// InventoryOverview vista combinada: agregados por producto, lotes con stock y
// movimientos recientes. days > 0 filtra lotes que caducan en esa ventana.
type InventoryOverview struct {
	Products        []*entity.ProductStock
	Lots            []entity.LotStock
	RecentMovements []*entity.Movement
}

// Overview compone la vista de inventario del panel principal.
func (uc *QueryUseCase) Overview(ctx context.Context, days int) (*InventoryOverview, error) {
	lots, err := uc.lotRepo.ListAllWithStock(false)
	if err != nil {
		return nil, err
	}
	if days > 0 {
		lots = filterExpiringWithin(lots, time.Now(), days)
	}
	products, err := uc.productRepo.ListWithStock(repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	recent, err := uc.movementRepo.List(repository.MovementFilter{Limit: 20})
	if err != nil {
		return nil, err
	}
	return &InventoryOverview{Products: products, Lots: lots, RecentMovements: recent}, nil
}

// Movements listado paginado del libro (orden cronológico descendente).
func (uc *QueryUseCase) Movements(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.movementRepo.List(filter)
}

// filterExpiringWithin conserva los lotes con caducidad dentro de [hoy, hoy+days].
func filterExpiringWithin(lots []entity.LotStock, ref time.Time, days int) []entity.LotStock {
	y, m, d := ref.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, ref.Location())
	limit := today.AddDate(0, 0, days)

	out := make([]entity.LotStock, 0, len(lots))
	for _, l := range lots {
		if l.ExpirationDate == nil {
			continue
		}
		if l.ExpirationDate.Before(today) || l.ExpirationDate.After(limit) {
			continue
		}
		out = append(out, l)
	}
	return out
}
