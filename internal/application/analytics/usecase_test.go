package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/fefo-stock/internal/application/analytics"
	"github.com/tu-usuario/fefo-stock/internal/domain"
	"github.com/tu-usuario/fefo-stock/internal/domain/entity"
	"github.com/tu-usuario/fefo-stock/internal/domain/repository"
)

// ─── Stubs de solo lectura ───────────────────────────────────────────────────

type stubAnalyticsRepo struct {
	summary repository.MovementSummaryResult
	top     []repository.TopProductResult
	rates   []repository.SalesRateResult

	lastFilter repository.AnalyticsFilter
}

func (s *stubAnalyticsRepo) MovementSummary(_ context.Context, f repository.AnalyticsFilter) (repository.MovementSummaryResult, error) {
	s.lastFilter = f
	return s.summary, nil
}

func (s *stubAnalyticsRepo) TopProducts(_ context.Context, f repository.AnalyticsFilter, _ int) ([]repository.TopProductResult, error) {
	s.lastFilter = f
	return s.top, nil
}

func (s *stubAnalyticsRepo) SalesRates(context.Context, int) ([]repository.SalesRateResult, error) {
	return s.rates, nil
}

type stubProductRepo struct {
	products []*entity.Product
}

func (s *stubProductRepo) Create(*entity.Product) error                 { return nil }
func (s *stubProductRepo) GetByID(string) (*entity.Product, error)      { return nil, nil }
func (s *stubProductRepo) GetForUpdate(string) (*entity.Product, error) { return nil, nil }
func (s *stubProductRepo) Update(*entity.Product) error                 { return nil }
func (s *stubProductRepo) SetActive(string, bool) error                 { return nil }
func (s *stubProductRepo) List(repository.ProductFilter) ([]*entity.Product, error) {
	return s.products, nil
}
func (s *stubProductRepo) ListWithStock(repository.ProductFilter) ([]*entity.ProductStock, error) {
	return nil, nil
}

type stubLotRepo struct {
	lots []entity.LotStock
}

func (s *stubLotRepo) Create(*entity.Lot) error                  { return nil }
func (s *stubLotRepo) GetByID(string) (*entity.Lot, error)       { return nil, nil }
func (s *stubLotRepo) GetForUpdate(string) (*entity.Lot, error)  { return nil, nil }
func (s *stubLotRepo) GetByProductAndBatchForUpdate(string, string) (*entity.Lot, error) {
	return nil, nil
}
func (s *stubLotRepo) LockByProduct(string) error { return nil }
func (s *stubLotRepo) ListWithStock(repository.LotStockFilter) ([]entity.LotStock, error) {
	return s.lots, nil
}
func (s *stubLotRepo) ListAllWithStock(bool) ([]entity.LotStock, error) { return s.lots, nil }

type stubSettingsRepo struct {
	settings entity.Settings
}

func (s *stubSettingsRepo) Get() (entity.Settings, error) { return s.settings, nil }
func (s *stubSettingsRepo) Save(entity.Settings) error    { return nil }

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func newUseCase(a *stubAnalyticsRepo, p *stubProductRepo, l *stubLotRepo, s *stubSettingsRepo) *analytics.UseCase {
	if a == nil {
		a = &stubAnalyticsRepo{}
	}
	if p == nil {
		p = &stubProductRepo{}
	}
	if l == nil {
		l = &stubLotRepo{}
	}
	if s == nil {
		s = &stubSettingsRepo{settings: entity.DefaultSettings()}
	}
	return analytics.NewUseCase(a, p, l, s)
}

// ─── Summary ─────────────────────────────────────────────────────────────────

func TestSummary_UnidadPorDefectoYRedondeo(t *testing.T) {
	repo := &stubAnalyticsRepo{summary: repository.MovementSummaryResult{
		TotalSold:     decimal.RequireFromString("12.3456"),
		TotalProduced: decimal.RequireFromString("20"),
		NetBalance:    decimal.RequireFromString("7.6544"),
	}}
	uc := newUseCase(repo, nil, nil, nil)

	summary, err := uc.Summary(context.Background(), analytics.SummaryInput{
		StartDate: "2024-01-01", EndDate: "2024-01-31",
	})
	require.NoError(t, err)
	assert.Equal(t, repository.AnalyticsUnitUnits, summary.Unit)
	assert.Equal(t, repository.AnalyticsUnitUnits, repo.lastFilter.Unit)
	assert.True(t, summary.TotalSold.Equal(decimal.RequireFromString("12.35")))
	assert.Equal(t, "2024-01-01", summary.StartDate)
}

func TestSummary_PeriodoInvalido(t *testing.T) {
	uc := newUseCase(nil, nil, nil, nil)

	_, err := uc.Summary(context.Background(), analytics.SummaryInput{StartDate: "2024-02-01", EndDate: "2024-01-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Summary(context.Background(), analytics.SummaryInput{StartDate: "hace poco"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Summary(context.Background(), analytics.SummaryInput{Unit: "cajas"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─── Expiries ────────────────────────────────────────────────────────────────

// Cada lote cae en un único cubo según los días restantes; la ventana exterior
// la corta expiry_alert_days y los lotes sin caducidad no aparecen.
func TestExpiries_ClasificaPorCubos(t *testing.T) {
	products := &stubProductRepo{products: []*entity.Product{
		{ID: "p1", Name: "Boquerón marinado"},
	}}
	lots := &stubLotRepo{lots: []entity.LotStock{
		{LotID: "l-exp", ProductID: "p1", LotNumber: "L-EXP", ExpirationDate: datePtr(2024, 1, 5), Stock: 3},
		{LotID: "l-7", ProductID: "p1", LotNumber: "L-7", ExpirationDate: datePtr(2024, 1, 16), Stock: 4},
		{LotID: "l-14", ProductID: "p1", LotNumber: "L-14", ExpirationDate: datePtr(2024, 1, 22), Stock: 5},
		{LotID: "l-30", ProductID: "p1", LotNumber: "L-30", ExpirationDate: datePtr(2024, 2, 5), Stock: 6},
		{LotID: "l-lejos", ProductID: "p1", LotNumber: "L-LEJOS", ExpirationDate: datePtr(2024, 9, 1), Stock: 7},
		{LotID: "l-sin", ProductID: "p1", LotNumber: "L-SIN", Stock: 8},
	}}
	uc := newUseCase(nil, products, lots, nil)

	asOf := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	report, err := uc.Expiries(context.Background(), asOf)
	require.NoError(t, err)

	assert.Equal(t, 30, report.AlertDays)
	require.Len(t, report.Expired, 1)
	assert.Equal(t, "L-EXP", report.Expired[0].LotNumber)
	assert.Equal(t, -5, report.Expired[0].DaysLeft)
	require.Len(t, report.Within7Days, 1)
	assert.Equal(t, "L-7", report.Within7Days[0].LotNumber)
	assert.Equal(t, "Boquerón marinado", report.Within7Days[0].ProductName)
	require.Len(t, report.Within14Days, 1)
	assert.Equal(t, "L-14", report.Within14Days[0].LotNumber)
	require.Len(t, report.WithinAlert, 1)
	assert.Equal(t, "L-30", report.WithinAlert[0].LotNumber)
}

// ─── Forecast ────────────────────────────────────────────────────────────────

func TestForecast_DiasHastaRotura(t *testing.T) {
	repo := &stubAnalyticsRepo{rates: []repository.SalesRateResult{
		{ProductID: "p1", ProductName: "Dorada", CurrentStock: 30, AvgDailySold: decimal.RequireFromString("4")},
		{ProductID: "p2", ProductName: "Lubina", CurrentStock: 8, AvgDailySold: decimal.Zero},
	}}
	settings := &stubSettingsRepo{settings: entity.DefaultSettings()} // umbral 10

	uc := newUseCase(repo, nil, nil, settings)
	rows, err := uc.Forecast(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.True(t, rows[0].DaysToStockout.Equal(decimal.RequireFromString("7.5")), "30 / 4 = 7.5 días")
	assert.False(t, rows[0].NoSalesRate)
	assert.False(t, rows[0].LowStock)

	assert.True(t, rows[1].NoSalesRate, "sin ritmo de venta no hay pronóstico")
	assert.True(t, rows[1].LowStock, "8 <= umbral de 10")
}

func TestForecast_AlertaDeStockBajoDesactivada(t *testing.T) {
	repo := &stubAnalyticsRepo{rates: []repository.SalesRateResult{
		{ProductID: "p1", ProductName: "Dorada", CurrentStock: 2, AvgDailySold: decimal.RequireFromString("1")},
	}}
	settings := entity.DefaultSettings()
	settings.LowStockAlertEnabled = false

	uc := newUseCase(repo, nil, nil, &stubSettingsRepo{settings: settings})
	rows, err := uc.Forecast(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].LowStock)
}
