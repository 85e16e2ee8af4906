package stock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/fefo-stock/internal/application/stock"
	"github.com/tu-usuario/fefo-stock/internal/domain"
	"github.com/tu-usuario/fefo-stock/internal/domain/entity"
	"github.com/tu-usuario/fefo-stock/internal/domain/repository"
)

func newSaleUseCase(f *fixture) *stock.SaleUseCase {
	return stock.NewSaleUseCase(f.txRunner, f.productRepo, f.lotRepo, f.settingsRepo)
}

// Escenario de referencia completo: preview propone [{B,5},{A,7}] y el commit
// vende 12 dejando 3 de stock en el producto.
func TestSale_EscenarioPreviewYCommit(t *testing.T) {
	f := newFixture()
	product := f.store.addProduct("Boquerón marinado", "BOQUERON", 8)
	prodDate := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	lotA := f.store.addLot(product.ID, "L-A", datePtr(2024, 2, 1), prodDate, 10)
	lotB := f.store.addLot(product.ID, "L-B", datePtr(2024, 1, 15), prodDate, 5)

	uc := newSaleUseCase(f)
	asOf := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	input := stock.SaleInput{ProductID: product.ID, Quantity: 12, Mode: stock.ModeAuto, AsOf: asOf}

	preview, err := uc.Preview(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, preview.Plan, 2)
	assert.Equal(t, lotB.ID, preview.Plan[0].LotID)
	assert.Equal(t, int64(5), preview.Plan[0].Quantity)
	assert.Equal(t, lotA.ID, preview.Plan[1].LotID)
	assert.Equal(t, int64(7), preview.Plan[1].Quantity)
	assert.Equal(t, int64(15), preview.TotalAvailable)

	result, err := uc.Commit(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, int64(12), result.SoldQuantity)
	assert.Equal(t, int64(3), result.RemainingProductStock)
	require.Len(t, result.Consumed, 2)
	assert.Equal(t, "L-B", result.Consumed[0].LotNumber)

	// Conservación: la suma de líneas consumidas es exactamente lo vendido.
	var sum int64
	for _, c := range result.Consumed {
		sum += c.Quantity
	}
	assert.Equal(t, result.SoldQuantity, sum)

	// Todas las líneas de la venta comparten transaction_id en el libro.
	sales, err := f.movementRepo.List(repository.MovementFilter{ProductID: product.ID})
	require.NoError(t, err)
	saleCount := 0
	for _, m := range sales {
		if m.Type == entity.MovementTypeSALE {
			saleCount++
			assert.Equal(t, result.TransactionID, m.TransactionID)
			assert.Negative(t, m.Quantity, "SALE se registra con cantidad negativa")
		}
	}
	assert.Equal(t, 2, saleCount)
}

// Preview es idempotente: dos llamadas idénticas sin commits intermedios
// devuelven exactamente el mismo plan, y no mutan el libro.
func TestSale_PreviewIdempotenteYSinEfectos(t *testing.T) {
	f := newFixture()
	product := f.store.addProduct("Sardina ahumada", "SARDINA", 10)
	prodDate := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	f.store.addLot(product.ID, "L-1", datePtr(2024, 3, 1), prodDate, 9)

	uc := newSaleUseCase(f)
	input := stock.SaleInput{ProductID: product.ID, Quantity: 4, Mode: stock.ModeAuto}

	before := len(f.store.movements)
	first, err := uc.Preview(context.Background(), input)
	require.NoError(t, err)
	second, err := uc.Preview(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, before, len(f.store.movements), "preview jamás escribe en el libro")
}

// Dos commits concurrentes pidiendo cada uno el 60% del stock total: exactamente
// uno debe comprometerse y el otro fallar con INSUFFICIENT_STOCK. Nunca ambos.
func TestSale_CommitsConcurrentesNoSobrevenden(t *testing.T) {
	f := newFixture()
	product := f.store.addProduct("Pulpo cocido", "PULPO", 4)
	prodDate := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	f.store.addLot(product.ID, "L-1", datePtr(2024, 4, 1), prodDate, 6)
	f.store.addLot(product.ID, "L-2", datePtr(2024, 4, 10), prodDate, 4)

	uc := newSaleUseCase(f)
	input := stock.SaleInput{ProductID: product.ID, Quantity: 6, Mode: stock.ModeAuto} // 60% de 10

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Commit(context.Background(), input)
		}(i)
	}
	wg.Wait()

	okCount, conflictCount := 0, 0
	for _, err := range errs {
		if err == nil {
			okCount++
			continue
		}
		var insufficient *domain.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, int64(4), insufficient.Available, "el perdedor ve el stock ya descontado")
		conflictCount++
	}
	assert.Equal(t, 1, okCount, "exactamente un commit gana")
	assert.Equal(t, 1, conflictCount, "el otro recibe INSUFFICIENT_STOCK")

	remaining, err := f.movementRepo.SumByProduct(product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), remaining)
	assert.GreaterOrEqual(t, remaining, int64(0), "el stock nunca queda negativo")
}

// Un plan manual con suma incorrecta aborta el commit completo sin mutar el libro.
func TestSale_CommitManualConSumaIncorrectaNoMuta(t *testing.T) {
	f := newFixture()
	product := f.store.addProduct("Anchoa en salazón", "ANCHOA", 12)
	prodDate := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	lot := f.store.addLot(product.ID, "L-1", datePtr(2024, 5, 1), prodDate, 10)

	uc := newSaleUseCase(f)
	before := len(f.store.movements)

	_, err := uc.Commit(context.Background(), stock.SaleInput{
		ProductID: product.ID,
		Quantity:  8,
		Mode:      stock.ModeManual,
		Lots:      []stock.ManualLine{{LotID: lot.ID, Quantity: 7}},
	})

	var mismatch *domain.ManualSumMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, int64(8), mismatch.Requested)
	assert.Equal(t, int64(7), mismatch.Sum)
	assert.Equal(t, before, len(f.store.movements), "rollback: ningún movimiento parcial")
}

// La política por defecto excluye lotes caducados de la asignación; el flag de
// settings los readmite sin tocar la proyección de stock.
func TestSale_PoliticaDeCaducados(t *testing.T) {
	f := newFixture()
	product := f.store.addProduct("Mejillón al natural", "MEJILLON", 6)
	prodDate := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	f.store.addLot(product.ID, "L-VIEJO", datePtr(2024, 1, 5), prodDate, 5)
	fresh := f.store.addLot(product.ID, "L-NUEVO", datePtr(2024, 6, 1), prodDate, 5)

	uc := newSaleUseCase(f)
	asOf := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC) // L-VIEJO ya caducó
	input := stock.SaleInput{ProductID: product.ID, Quantity: 6, Mode: stock.ModeAuto, AsOf: asOf}

	// Por defecto el caducado no es candidato: solo hay 5 disponibles.
	_, err := uc.Preview(context.Background(), input)
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(5), insufficient.Available)

	// Con la política activada el lote caducado vuelve a ser asignable, y FEFO
	// lo consume primero por caducidad más antigua.
	settings := f.store.settings
	settings.IncludeExpiredInAllocation = true
	require.NoError(t, f.settingsRepo.Save(settings))

	preview, err := uc.Preview(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, preview.Plan, 2)
	assert.Equal(t, "L-VIEJO", preview.Plan[0].LotNumber)
	assert.Equal(t, fresh.ID, preview.Plan[1].LotID)
}

// El modo vacío toma el por defecto de settings (FEFO -> auto).
func TestSale_ModoPorDefectoDesdeSettings(t *testing.T) {
	f := newFixture()
	product := f.store.addProduct("Bacalao desalado", "BACALAO", 6)
	prodDate := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	f.store.addLot(product.ID, "L-1", datePtr(2024, 6, 1), prodDate, 5)

	uc := newSaleUseCase(f)
	preview, err := uc.Preview(context.Background(), stock.SaleInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, stock.ModeAuto, preview.Mode)

	_, err = uc.Preview(context.Background(), stock.SaleInput{ProductID: product.ID, Quantity: 2, Mode: "fifo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Producto inexistente o archivado: rechazo antes de cualquier plan.
func TestSale_ProductoInvalido(t *testing.T) {
	f := newFixture()
	uc := newSaleUseCase(f)

	_, err := uc.Preview(context.Background(), stock.SaleInput{ProductID: "no-existe", Quantity: 2, Mode: stock.ModeAuto})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	product := f.store.addProduct("Salmonete", "SALMONETE", 6)
	product.Active = false
	_, err = uc.Preview(context.Background(), stock.SaleInput{ProductID: product.ID, Quantity: 2, Mode: stock.ModeAuto})
	assert.ErrorIs(t, err, domain.ErrProductArchived)
}
