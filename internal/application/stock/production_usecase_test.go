package stock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/fefo-stock/internal/application/stock"
	"github.com/tu-usuario/fefo-stock/internal/domain"
)

// Primera producción de un lot_number nuevo: crea batch y lote implícitamente
// y deja el stock derivado en la cantidad producida.
func TestProduction_AltaImplicitaDeBatchYLote(t *testing.T) {
	f := newFixture()
	product := f.store.addProduct("Dorada entera", "DORADA", 4)
	uc := stock.NewProductionUseCase(f.txRunner)

	result, err := uc.Record(context.Background(), stock.ProductionInput{
		ProductID:      product.ID,
		LotNumber:      "L240115",
		ExpirationDate: datePtr(2024, 1, 25),
		Quantity:       30,
	})
	require.NoError(t, err)
	assert.False(t, result.BatchReused)
	assert.Equal(t, int64(30), result.Quantity)
	require.NotEmpty(t, result.LotID)

	current, err := f.movementRepo.SumByLot(result.LotID)
	require.NoError(t, err)
	assert.Equal(t, int64(30), current)
}

// Segunda producción del mismo (producto, lot_number): reutiliza batch y lote,
// sin exigir caducidad, y acumula stock.
func TestProduction_ReutilizaBatchYAcumula(t *testing.T) {
	f := newFixture()
	product := f.store.addProduct("Lubina fileteada", "LUBINA", 6)
	uc := stock.NewProductionUseCase(f.txRunner)
	ctx := context.Background()

	first, err := uc.Record(ctx, stock.ProductionInput{
		ProductID:      product.ID,
		LotNumber:      "L240116",
		ExpirationDate: datePtr(2024, 1, 26),
		Quantity:       10,
	})
	require.NoError(t, err)

	second, err := uc.Record(ctx, stock.ProductionInput{
		ProductID: product.ID,
		LotNumber: "L240116", // sin caducidad: el batch ya existe y la fija él
		Quantity:  5,
	})
	require.NoError(t, err)
	assert.True(t, second.BatchReused)
	assert.Equal(t, first.LotID, second.LotID, "mismo (producto, batch) = mismo lote")

	current, err := f.movementRepo.SumByLot(first.LotID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), current)
}

// Mismo lot_number para productos distintos del mismo fish_type: comparte el
// batch pero cada producto tiene su propio lote.
func TestProduction_BatchCompartidoEntreProductos(t *testing.T) {
	f := newFixture()
	entero := f.store.addProduct("Salmón entero", "SALMON", 2)
	filete := f.store.addProduct("Salmón filete", "SALMON", 8)
	uc := stock.NewProductionUseCase(f.txRunner)
	ctx := context.Background()

	a, err := uc.Record(ctx, stock.ProductionInput{
		ProductID: entero.ID, LotNumber: "L240117", ExpirationDate: datePtr(2024, 1, 27), Quantity: 10,
	})
	require.NoError(t, err)

	b, err := uc.Record(ctx, stock.ProductionInput{
		ProductID: filete.ID, LotNumber: "L240117", Quantity: 20,
	})
	require.NoError(t, err)
	assert.True(t, b.BatchReused)
	assert.NotEqual(t, a.LotID, b.LotID)
}

// Invariante: un lot_number pertenece a un único fish_type.
func TestProduction_FishTypeDistintoSeRechaza(t *testing.T) {
	f := newFixture()
	salmon := f.store.addProduct("Salmón entero", "SALMON", 2)
	bacalao := f.store.addProduct("Bacalao entero", "BACALAO", 2)
	uc := stock.NewProductionUseCase(f.txRunner)
	ctx := context.Background()

	_, err := uc.Record(ctx, stock.ProductionInput{
		ProductID: salmon.ID, LotNumber: "L240118", ExpirationDate: datePtr(2024, 1, 28), Quantity: 10,
	})
	require.NoError(t, err)

	_, err = uc.Record(ctx, stock.ProductionInput{
		ProductID: bacalao.ID, LotNumber: "L240118", Quantity: 5,
	})

	var mismatch *domain.FishTypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "L240118", mismatch.LotNumber)
	assert.Equal(t, "SALMON", mismatch.BatchFishType)
	assert.Equal(t, "BACALAO", mismatch.ProductFishType)
}

// Cantidad en bandejas: se convierte con units_per_tray del producto.
func TestProduction_ConversionBandejas(t *testing.T) {
	f := newFixture()
	product := f.store.addProduct("Gamba pelada", "GAMBA", 12)
	uc := stock.NewProductionUseCase(f.txRunner)

	result, err := uc.Record(context.Background(), stock.ProductionInput{
		ProductID:      product.ID,
		LotNumber:      "L240119",
		ExpirationDate: datePtr(2024, 1, 29),
		Quantity:       3,
		QuantityType:   stock.QuantityTrays,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(36), result.Quantity)
}

// units_per_tray no positivo invalida la conversión a bandejas.
func TestProduction_BandejasSinFactorValido(t *testing.T) {
	f := newFixture()
	product := f.store.addProduct("Caballa", "CABALLA", 0)
	uc := stock.NewProductionUseCase(f.txRunner)

	_, err := uc.Record(context.Background(), stock.ProductionInput{
		ProductID:      product.ID,
		LotNumber:      "L240120",
		ExpirationDate: datePtr(2024, 1, 30),
		Quantity:       2,
		QuantityType:   stock.QuantityTrays,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Batch nuevo exige caducidad; producto inexistente y entradas vacías, rechazo.
func TestProduction_Validaciones(t *testing.T) {
	f := newFixture()
	product := f.store.addProduct("Merluza", "MERLUZA", 5)
	uc := stock.NewProductionUseCase(f.txRunner)
	ctx := context.Background()

	_, err := uc.Record(ctx, stock.ProductionInput{ProductID: product.ID, LotNumber: "L-NUEVO", Quantity: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "batch nuevo sin caducidad")

	_, err = uc.Record(ctx, stock.ProductionInput{ProductID: "no-existe", LotNumber: "L-X", ExpirationDate: datePtr(2024, 2, 1), Quantity: 5})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Record(ctx, stock.ProductionInput{ProductID: product.ID, LotNumber: "  ", ExpirationDate: datePtr(2024, 2, 1), Quantity: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Record(ctx, stock.ProductionInput{ProductID: product.ID, LotNumber: "L-X", ExpirationDate: datePtr(2024, 2, 1), Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Record(ctx, stock.ProductionInput{ProductID: product.ID, LotNumber: "L-X", ExpirationDate: datePtr(2024, 2, 1), Quantity: 5, QuantityType: "cajas"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// El rechazo por fish_type deshace el alta del batch dentro de la transacción.
func TestProduction_RollbackCompleto(t *testing.T) {
	f := newFixture()
	salmon := f.store.addProduct("Salmón entero", "SALMON", 2)
	bacalao := f.store.addProduct("Bacalao entero", "BACALAO", 2)
	uc := stock.NewProductionUseCase(f.txRunner)
	ctx := context.Background()

	_, err := uc.Record(ctx, stock.ProductionInput{
		ProductID: salmon.ID, LotNumber: "L240121", ExpirationDate: datePtr(2024, 1, 31), Quantity: 10,
	})
	require.NoError(t, err)

	batchesBefore := len(f.store.batches)
	lotsBefore := len(f.store.lots)
	movementsBefore := len(f.store.movements)

	_, err = uc.Record(ctx, stock.ProductionInput{ProductID: bacalao.ID, LotNumber: "L240121", Quantity: 5})
	require.Error(t, err)

	assert.Equal(t, batchesBefore, len(f.store.batches))
	assert.Equal(t, lotsBefore, len(f.store.lots))
	assert.Equal(t, movementsBefore, len(f.store.movements))
}
