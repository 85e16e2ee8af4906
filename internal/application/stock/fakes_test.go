package stock_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/fefo-stock/internal/domain"
	"github.com/tu-usuario/fefo-stock/internal/domain/entity"
	"github.com/tu-usuario/fefo-stock/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria: un fakeStore compartido con la misma disciplina que el
// TxRunner real (mutex por transacción = serialización por lock de filas,
// snapshot + restore = rollback). Los repos fuera de transacción toman el
// mutex por llamada.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	batches   map[string]*entity.Batch
	lots      map[string]*entity.Lot
	movements []entity.Movement
	settings  entity.Settings
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: map[string]*entity.Product{},
		batches:  map[string]*entity.Batch{},
		lots:     map[string]*entity.Lot{},
		settings: entity.DefaultSettings(),
	}
}

type storeSnapshot struct {
	batches   map[string]*entity.Batch
	lots      map[string]*entity.Lot
	movements []entity.Movement
}

func (s *fakeStore) snapshot() storeSnapshot {
	snap := storeSnapshot{
		batches:   make(map[string]*entity.Batch, len(s.batches)),
		lots:      make(map[string]*entity.Lot, len(s.lots)),
		movements: append([]entity.Movement(nil), s.movements...),
	}
	for k, v := range s.batches {
		c := *v
		snap.batches[k] = &c
	}
	for k, v := range s.lots {
		c := *v
		snap.lots[k] = &c
	}
	return snap
}

func (s *fakeStore) restore(snap storeSnapshot) {
	s.batches = snap.batches
	s.lots = snap.lots
	s.movements = snap.movements
}

// Helpers de seeding ───────────────────────────────────────────────────────────

func (s *fakeStore) addProduct(name, fishType string, unitsPerTray int) *entity.Product {
	p := &entity.Product{
		ID:           uuid.New().String(),
		Name:         name,
		FishType:     fishType,
		UnitsPerTray: unitsPerTray,
		Active:       true,
	}
	s.products[p.ID] = p
	return p
}

// addLot crea batch+lote y un movimiento PRODUCTION inicial con stock unidades.
func (s *fakeStore) addLot(productID, lotNumber string, expiration *time.Time, production time.Time, stock int64) *entity.Lot {
	b := &entity.Batch{
		ID:             uuid.New().String(),
		LotNumber:      lotNumber,
		FishType:       s.products[productID].FishType,
		ProductionDate: production,
		ExpirationDate: expiration,
	}
	s.batches[b.ID] = b
	l := &entity.Lot{ID: uuid.New().String(), ProductID: productID, BatchID: b.ID}
	s.lots[l.ID] = l
	if stock != 0 {
		s.movements = append(s.movements, entity.Movement{
			ID:        uuid.New().String(),
			ProductID: productID,
			LotID:     l.ID,
			Quantity:  stock,
			Type:      entity.MovementTypePRODUCTION,
			CreatedAt: production,
		})
	}
	return l
}

func (s *fakeStore) lotStockLocked(lotID string) int64 {
	var total int64
	for _, m := range s.movements {
		if m.LotID == lotID {
			total += m.Quantity
		}
	}
	return total
}

func (s *fakeStore) listWithStockLocked(filter repository.LotStockFilter) []entity.LotStock {
	asOf := filter.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}
	var out []entity.LotStock
	for _, l := range s.lots {
		if filter.ProductID != "" && l.ProductID != filter.ProductID {
			continue
		}
		b := s.batches[l.BatchID]
		ls := entity.LotStock{
			LotID:          l.ID,
			ProductID:      l.ProductID,
			LotNumber:      b.LotNumber,
			ExpirationDate: b.ExpirationDate,
			ProductionDate: b.ProductionDate,
			Stock:          s.lotStockLocked(l.ID),
		}
		if !filter.IncludeZeroStock && ls.Stock <= 0 {
			continue
		}
		if !filter.IncludeExpired && ls.ExpiredAt(asOf) {
			continue
		}
		out = append(out, ls)
	}
	sort.SliceStable(out, func(i, j int) bool { return entity.FefoLess(out[i], out[j]) })
	return out
}

// Repos ───────────────────────────────────────────────────────────────────────

// lockPerCall=true: repo usado fuera de transacción (preview/lecturas).
type fakeProductRepo struct {
	store       *fakeStore
	lockPerCall bool
}

func (r *fakeProductRepo) lock() func() {
	if !r.lockPerCall {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	defer r.lock()()
	r.store.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	defer r.lock()()
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) { return r.GetByID(id) }

func (r *fakeProductRepo) Update(p *entity.Product) error {
	defer r.lock()()
	r.store.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) SetActive(id string, active bool) error {
	defer r.lock()()
	if p, ok := r.store.products[id]; ok {
		p.Active = active
		return nil
	}
	return domain.ErrNotFound
}

func (r *fakeProductRepo) List(filter repository.ProductFilter) ([]*entity.Product, error) {
	defer r.lock()()
	var out []*entity.Product
	for _, p := range r.store.products {
		if !filter.IncludeArchived && !p.Active {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) ListWithStock(filter repository.ProductFilter) ([]*entity.ProductStock, error) {
	defer r.lock()()
	var out []*entity.ProductStock
	for _, p := range r.store.products {
		ps := &entity.ProductStock{Product: *p}
		for _, l := range r.store.lots {
			if l.ProductID == p.ID {
				ps.LotsCount++
				ps.StockTotal += r.store.lotStockLocked(l.ID)
			}
		}
		out = append(out, ps)
	}
	return out, nil
}

type fakeBatchRepo struct {
	store       *fakeStore
	lockPerCall bool
}

func (r *fakeBatchRepo) lock() func() {
	if !r.lockPerCall {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *fakeBatchRepo) Create(b *entity.Batch) error {
	defer r.lock()()
	for _, existing := range r.store.batches {
		if strings.EqualFold(existing.LotNumber, b.LotNumber) {
			return domain.ErrDuplicate
		}
	}
	c := *b
	r.store.batches[b.ID] = &c
	return nil
}

func (r *fakeBatchRepo) GetByLotNumber(lotNumber string) (*entity.Batch, error) {
	defer r.lock()()
	for _, b := range r.store.batches {
		if strings.EqualFold(b.LotNumber, lotNumber) {
			c := *b
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeBatchRepo) GetByLotNumberForUpdate(lotNumber string) (*entity.Batch, error) {
	return r.GetByLotNumber(lotNumber)
}

type fakeLotRepo struct {
	store       *fakeStore
	lockPerCall bool
}

func (r *fakeLotRepo) lock() func() {
	if !r.lockPerCall {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *fakeLotRepo) Create(l *entity.Lot) error {
	defer r.lock()()
	c := *l
	r.store.lots[l.ID] = &c
	return nil
}

func (r *fakeLotRepo) GetByID(id string) (*entity.Lot, error) {
	defer r.lock()()
	l, ok := r.store.lots[id]
	if !ok {
		return nil, nil
	}
	c := *l
	return &c, nil
}

func (r *fakeLotRepo) GetForUpdate(id string) (*entity.Lot, error) { return r.GetByID(id) }

func (r *fakeLotRepo) GetByProductAndBatchForUpdate(productID, batchID string) (*entity.Lot, error) {
	defer r.lock()()
	for _, l := range r.store.lots {
		if l.ProductID == productID && l.BatchID == batchID {
			c := *l
			return &c, nil
		}
	}
	return nil, nil
}

// LockByProduct: el mutex del fakeTxRunner ya serializa la transacción entera.
func (r *fakeLotRepo) LockByProduct(productID string) error { return nil }

func (r *fakeLotRepo) ListWithStock(filter repository.LotStockFilter) ([]entity.LotStock, error) {
	defer r.lock()()
	return r.store.listWithStockLocked(filter), nil
}

func (r *fakeLotRepo) ListAllWithStock(includeZeroStock bool) ([]entity.LotStock, error) {
	defer r.lock()()
	return r.store.listWithStockLocked(repository.LotStockFilter{IncludeZeroStock: includeZeroStock, IncludeExpired: true}), nil
}

type fakeMovementRepo struct {
	store       *fakeStore
	lockPerCall bool
}

func (r *fakeMovementRepo) lock() func() {
	if !r.lockPerCall {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *fakeMovementRepo) Create(m *entity.Movement) error {
	defer r.lock()()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	r.store.movements = append(r.store.movements, *m)
	return nil
}

func (r *fakeMovementRepo) SumByLot(lotID string) (int64, error) {
	defer r.lock()()
	return r.store.lotStockLocked(lotID), nil
}

func (r *fakeMovementRepo) SumByProduct(productID string) (int64, error) {
	defer r.lock()()
	var total int64
	for _, m := range r.store.movements {
		if m.ProductID == productID {
			total += m.Quantity
		}
	}
	return total, nil
}

func (r *fakeMovementRepo) List(filter repository.MovementFilter) ([]*entity.Movement, error) {
	defer r.lock()()
	var out []*entity.Movement
	for i := len(r.store.movements) - 1; i >= 0; i-- {
		m := r.store.movements[i]
		if filter.LotID != "" && m.LotID != filter.LotID {
			continue
		}
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			continue
		}
		c := m
		out = append(out, &c)
	}
	if filter.Offset > 0 && filter.Offset < len(out) {
		out = out[filter.Offset:]
	} else if filter.Offset >= len(out) {
		out = nil
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

type fakeSettingsRepo struct {
	store *fakeStore
}

func (r *fakeSettingsRepo) Get() (entity.Settings, error) { return r.store.settings, nil }

func (r *fakeSettingsRepo) Save(s entity.Settings) error {
	r.store.settings = s
	return nil
}

// fakeTxRunner serializa transacciones con el mutex del store y simula el
// rollback restaurando un snapshot si el callback falla.
type fakeTxRunner struct {
	store *fakeStore
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	lotRepo repository.LotRepository,
	batchRepo repository.BatchRepository,
	productRepo repository.ProductRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snap := r.store.snapshot()
	err := fn(
		&fakeMovementRepo{store: r.store},
		&fakeLotRepo{store: r.store},
		&fakeBatchRepo{store: r.store},
		&fakeProductRepo{store: r.store},
	)
	if err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

// fixture con los repos fuera-de-tx listos para construir casos de uso.
type fixture struct {
	store        *fakeStore
	txRunner     *fakeTxRunner
	productRepo  *fakeProductRepo
	lotRepo      *fakeLotRepo
	movementRepo *fakeMovementRepo
	settingsRepo *fakeSettingsRepo
}

func newFixture() *fixture {
	store := newFakeStore()
	return &fixture{
		store:        store,
		txRunner:     &fakeTxRunner{store: store},
		productRepo:  &fakeProductRepo{store: store, lockPerCall: true},
		lotRepo:      &fakeLotRepo{store: store, lockPerCall: true},
		movementRepo: &fakeMovementRepo{store: store, lockPerCall: true},
		settingsRepo: &fakeSettingsRepo{store: store},
	}
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}
