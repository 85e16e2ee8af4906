package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de reporte de analítica.
const (
	AnalyticsUnitUnits = "units"
	AnalyticsUnitTrays = "trays"
)

// AnalyticsFilter filtros comunes de las consultas de analítica.
// Unit "trays" divide cada cantidad por units_per_tray del producto.
type AnalyticsFilter struct {
	Start     time.Time
	End       time.Time
	FishType  string
	ProductID string
	Unit      string // units | trays
}

// MovementSummaryResult agregado de movimientos de un período.
// Decimales porque en bandejas las cantidades dejan de ser enteras.
type MovementSummaryResult struct {
	TotalSold      decimal.Decimal
	TotalProduced  decimal.Decimal
	TotalAdjustOut decimal.Decimal
	NetBalance     decimal.Decimal
}

// TopProductResult producto con sus unidades vendidas en el período.
type TopProductResult struct {
	ProductID   string
	ProductName string
	Format      string
	FishType    string
	UnitsSold   int64
}

// SalesRateResult media diaria de venta por producto sobre una ventana móvil.
type SalesRateResult struct {
	ProductID    string
	ProductName  string
	UnitsPerTray int
	CurrentStock int64
	AvgDailySold decimal.Decimal
}

// AnalyticsRepository consultas de solo lectura sobre el libro de movimientos.
// Nunca participa en las transacciones del comprometedor.
type AnalyticsRepository interface {
	MovementSummary(ctx context.Context, filter AnalyticsFilter) (MovementSummaryResult, error)
	TopProducts(ctx context.Context, filter AnalyticsFilter, limit int) ([]TopProductResult, error)
	// SalesRates media de ventas diarias de los últimos windowDays por producto
	// con stock positivo (insumo del pronóstico de rotura de stock).
	SalesRates(ctx context.Context, windowDays int) ([]SalesRateResult, error)
}
