// Package analytics construye los reportes de solo lectura sobre el libro de
// movimientos: resumen de período, caducidades, ranking de ventas y pronóstico
// de rotura de stock. Nada de aquí escribe en el libro.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/fefo-stock/internal/domain"
	"github.com/tu-usuario/fefo-stock/internal/domain/entity"
	"github.com/tu-usuario/fefo-stock/internal/domain/repository"
)

const (
	defaultTopN = 10
	maxTopN     = 100

	// Ventana móvil del pronóstico de ventas.
	forecastWindowDays = 30
)

// UseCase orquesta las consultas de analítica.
type UseCase struct {
	analyticsRepo repository.AnalyticsRepository
	productRepo   repository.ProductRepository
	lotRepo       repository.LotRepository
	settingsRepo  repository.SettingsRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	analyticsRepo repository.AnalyticsRepository,
	productRepo repository.ProductRepository,
	lotRepo repository.LotRepository,
	settingsRepo repository.SettingsRepository,
) *UseCase {
	return &UseCase{
		analyticsRepo: analyticsRepo,
		productRepo:   productRepo,
		lotRepo:       lotRepo,
		settingsRepo:  settingsRepo,
	}
}

// SummaryInput período y filtros del resumen de movimientos.
type SummaryInput struct {
	StartDate string // YYYY-MM-DD; vacío = primer día del mes actual
	EndDate   string // YYYY-MM-DD; vacío = hoy
	FishType  string
	ProductID string
	Unit      string // units | trays; vacío = units
}

// Summary resumen agregado de un período. En bandejas las cantidades son
// fraccionarias, de ahí los decimales.
type Summary struct {
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	Unit           string          `json:"unit"`
	TotalSold      decimal.Decimal `json:"total_sold"`
	TotalProduced  decimal.Decimal `json:"total_produced"`
	TotalAdjustOut decimal.Decimal `json:"total_adjust_out"`
	NetBalance     decimal.Decimal `json:"net_balance"`
}

// Summary agrega ventas, producción y mermas del período pedido.
func (uc *UseCase) Summary(ctx context.Context, input SummaryInput) (*Summary, error) {
	start, end, err := parsePeriod(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	unit, err := normalizeUnit(input.Unit)
	if err != nil {
		return nil, err
	}

	result, err := uc.analyticsRepo.MovementSummary(ctx, repository.AnalyticsFilter{
		Start:     start,
		End:       end,
		FishType:  input.FishType,
		ProductID: input.ProductID,
		Unit:      unit,
	})
	if err != nil {
		return nil, err
	}
	return &Summary{
		StartDate:      start.Format("2006-01-02"),
		EndDate:        end.Format("2006-01-02"),
		Unit:           unit,
		TotalSold:      result.TotalSold.Round(2),
		TotalProduced:  result.TotalProduced.Round(2),
		TotalAdjustOut: result.TotalAdjustOut.Round(2),
		NetBalance:     result.NetBalance.Round(2),
	}, nil
}

// TopProducts ranking de productos por unidades vendidas en el período.
func (uc *UseCase) TopProducts(ctx context.Context, input SummaryInput, topN int) ([]repository.TopProductResult, error) {
	start, end, err := parsePeriod(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = defaultTopN
	}
	if topN > maxTopN {
		topN = maxTopN
	}
	return uc.analyticsRepo.TopProducts(ctx, repository.AnalyticsFilter{
		Start:    start,
		End:      end,
		FishType: input.FishType,
	}, topN)
}

// ExpiryLot lote anotado con los días que le quedan (negativo = ya caducó).
type ExpiryLot struct {
	entity.LotStock
	ProductName string `json:"product_name"`
	DaysLeft    int    `json:"days_left"`
}

// ExpiryReport lotes agrupados por urgencia de caducidad. Los cubos no son
// acumulativos: cada lote aparece en uno solo.
type ExpiryReport struct {
	AlertDays    int         `json:"alert_days"`
	Expired      []ExpiryLot `json:"expired"`
	Within7Days  []ExpiryLot `json:"within_7_days"`
	Within14Days []ExpiryLot `json:"within_14_days"`
	WithinAlert  []ExpiryLot `json:"within_alert"`
}

// Expiries clasifica los lotes por proximidad de caducidad. La ventana exterior
// la fija expiry_alert_days de settings; los lotes sin caducidad no aparecen.
func (uc *UseCase) Expiries(ctx context.Context, asOf time.Time) (*ExpiryReport, error) {
	settings, err := uc.settingsRepo.Get()
	if err != nil {
		return nil, err
	}
	lots, err := uc.lotRepo.ListAllWithStock(settings.ExpiryIncludeZeroStock)
	if err != nil {
		return nil, err
	}
	names, err := uc.productNames()
	if err != nil {
		return nil, err
	}

	if asOf.IsZero() {
		asOf = time.Now()
	}
	report := &ExpiryReport{
		AlertDays:    settings.ExpiryAlertDays,
		Expired:      []ExpiryLot{},
		Within7Days:  []ExpiryLot{},
		Within14Days: []ExpiryLot{},
		WithinAlert:  []ExpiryLot{},
	}
	for _, lot := range lots {
		if lot.ExpirationDate == nil {
			continue
		}
		days := daysUntil(asOf, *lot.ExpirationDate)
		if days > settings.ExpiryAlertDays {
			continue
		}
		annotated := ExpiryLot{LotStock: lot, ProductName: names[lot.ProductID], DaysLeft: days}
		switch {
		case days < 0:
			report.Expired = append(report.Expired, annotated)
		case days <= 7:
			report.Within7Days = append(report.Within7Days, annotated)
		case days <= 14:
			report.Within14Days = append(report.Within14Days, annotated)
		default:
			report.WithinAlert = append(report.WithinAlert, annotated)
		}
	}
	return report, nil
}

// ForecastRow pronóstico de rotura de stock de un producto.
type ForecastRow struct {
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	CurrentStock   int64           `json:"current_stock"`
	AvgDailySold   decimal.Decimal `json:"avg_daily_sold"`
	DaysToStockout decimal.Decimal `json:"days_to_stockout"`
	// NoSalesRate indica media de venta cero: sin ritmo no hay pronóstico.
	NoSalesRate bool `json:"no_sales_rate"`
	LowStock    bool `json:"low_stock"`
}

// Forecast estima, por producto con stock, cuántos días quedan hasta la rotura
// al ritmo medio de venta de los últimos 30 días.
func (uc *UseCase) Forecast(ctx context.Context) ([]ForecastRow, error) {
	settings, err := uc.settingsRepo.Get()
	if err != nil {
		return nil, err
	}
	rates, err := uc.analyticsRepo.SalesRates(ctx, forecastWindowDays)
	if err != nil {
		return nil, err
	}

	rows := make([]ForecastRow, 0, len(rates))
	for _, r := range rates {
		row := ForecastRow{
			ProductID:    r.ProductID,
			ProductName:  r.ProductName,
			CurrentStock: r.CurrentStock,
			AvgDailySold: r.AvgDailySold.Round(2),
		}
		if r.AvgDailySold.IsPositive() {
			stock := decimal.NewFromInt(r.CurrentStock)
			row.DaysToStockout = stock.Div(r.AvgDailySold).Round(1)
		} else {
			row.NoSalesRate = true
		}
		if settings.LowStockAlertEnabled && r.CurrentStock <= int64(settings.LowStockThresholdUnits) {
			row.LowStock = true
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (uc *UseCase) productNames() (map[string]string, error) {
	products, err := uc.productRepo.List(repository.ProductFilter{IncludeArchived: true})
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	return names, nil
}

// daysUntil días completos entre el día de ref y el día de caducidad.
func daysUntil(ref, expiration time.Time) int {
	ry, rm, rd := ref.Date()
	today := time.Date(ry, rm, rd, 0, 0, 0, 0, time.UTC)
	ey, em, ed := expiration.Date()
	expiry := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	return int(expiry.Sub(today).Hours() / 24)
}

func normalizeUnit(unit string) (string, error) {
	switch unit {
	case "", repository.AnalyticsUnitUnits:
		return repository.AnalyticsUnitUnits, nil
	case repository.AnalyticsUnitTrays:
		return repository.AnalyticsUnitTrays, nil
	default:
		return "", domain.ErrInvalidInput
	}
}

// parsePeriod convierte los strings de fecha en time.Time con valores por
// defecto: mes en curso hasta hoy.
func parsePeriod(startStr, endStr string) (start, end time.Time, err error) {
	now := time.Now()

	if endStr == "" {
		end = now
	} else {
		end, err = time.ParseInLocation("2006-01-02", endStr, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("end_date inválido: %w", domain.ErrInvalidInput)
		}
		end = end.Add(23*time.Hour + 59*time.Minute + 59*time.Second) // inclusive hasta fin de día
	}

	if startStr == "" {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	} else {
		start, err = time.ParseInLocation("2006-01-02", startStr, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("start_date inválido: %w", domain.ErrInvalidInput)
		}
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date posterior a end_date: %w", domain.ErrInvalidInput)
	}
	return start, end, nil
}
