package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tu-usuario/fefo-stock/internal/domain/entity"
	"github.com/tu-usuario/fefo-stock/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura sobre el libro de movimientos.
// Trabaja siempre contra el pool: jamás participa en las transacciones del
// comprometedor.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// MovementSummary agrega el período: vendido, producido, mermas y balance neto.
// En unidad "trays" cada cantidad se divide por units_per_tray del producto,
// de ahí que los agregados sean NUMERIC y no enteros.
func (r *AnalyticsRepo) MovementSummary(ctx context.Context, filter repository.AnalyticsFilter) (repository.MovementSummaryResult, error) {
	qty := `m.quantity::numeric`
	if filter.Unit == repository.AnalyticsUnitTrays {
		qty = `m.quantity::numeric / NULLIF(p.units_per_tray, 0)`
	}

	query := fmt.Sprintf(`
		SELECT
		    COALESCE(SUM(CASE WHEN m.type = '%[2]s' THEN -(%[1]s) ELSE 0 END), 0) AS total_sold,
		    COALESCE(SUM(CASE WHEN m.type = '%[3]s' THEN %[1]s ELSE 0 END), 0)    AS total_produced,
		    COALESCE(SUM(CASE WHEN m.type = '%[4]s' AND m.quantity < 0 THEN -(%[1]s) ELSE 0 END), 0) AS total_adjust_out,
		    COALESCE(SUM(%[1]s), 0)                                               AS net_balance
		FROM movements m
		JOIN products p ON p.id = m.product_id
		WHERE m.created_at BETWEEN $1 AND $2`,
		qty, entity.MovementTypeSALE, entity.MovementTypePRODUCTION, entity.MovementTypeADJUSTMENT)
	args := []any{filter.Start, filter.End}
	if filter.FishType != "" {
		args = append(args, filter.FishType)
		query += fmt.Sprintf(` AND p.fish_type = $%d`, len(args))
	}
	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		query += fmt.Sprintf(` AND m.product_id = $%d`, len(args))
	}

	var result repository.MovementSummaryResult
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&result.TotalSold, &result.TotalProduced, &result.TotalAdjustOut, &result.NetBalance,
	)
	if err != nil {
		return result, fmt.Errorf("analytics.MovementSummary: %w", err)
	}
	return result, nil
}

// TopProducts devuelve los `limit` productos con más unidades vendidas en el período.
func (r *AnalyticsRepo) TopProducts(ctx context.Context, filter repository.AnalyticsFilter, limit int) ([]repository.TopProductResult, error) {
	query := `
		SELECT p.id, p.name, p.format, p.fish_type, COALESCE(SUM(-m.quantity), 0) AS units_sold
		FROM movements m
		JOIN products p ON p.id = m.product_id
		WHERE m.type = $1
		  AND m.created_at BETWEEN $2 AND $3`
	args := []any{entity.MovementTypeSALE, filter.Start, filter.End}
	if filter.FishType != "" {
		args = append(args, filter.FishType)
		query += fmt.Sprintf(` AND p.fish_type = $%d`, len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(`
		GROUP BY p.id, p.name, p.format, p.fish_type
		ORDER BY units_sold DESC
		LIMIT $%d`, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("analytics.TopProducts: %w", err)
	}
	defer rows.Close()

	results := []repository.TopProductResult{}
	for rows.Next() {
		var row repository.TopProductResult
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.Format, &row.FishType, &row.UnitsSold); err != nil {
			return nil, fmt.Errorf("analytics.TopProducts scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// SalesRates media diaria de venta de los últimos windowDays por producto
// activo con stock positivo. Insumo del pronóstico de rotura.
func (r *AnalyticsRepo) SalesRates(ctx context.Context, windowDays int) ([]repository.SalesRateResult, error) {
	const query = `
		WITH stock AS (
		    SELECT product_id, SUM(quantity) AS units
		    FROM movements
		    GROUP BY product_id
		),
		sold AS (
		    SELECT product_id, SUM(-quantity)::numeric / $2 AS avg_daily
		    FROM movements
		    WHERE type = $1
		      AND created_at >= now() - make_interval(days => $2)
		    GROUP BY product_id
		)
		SELECT p.id, p.name, p.units_per_tray,
		       COALESCE(st.units, 0)       AS current_stock,
		       COALESCE(so.avg_daily, 0)   AS avg_daily_sold
		FROM products p
		LEFT JOIN stock st ON st.product_id = p.id
		LEFT JOIN sold  so ON so.product_id = p.id
		WHERE p.active AND COALESCE(st.units, 0) > 0
		ORDER BY avg_daily_sold DESC, p.name ASC`

	rows, err := r.pool.Query(ctx, query, entity.MovementTypeSALE, windowDays)
	if err != nil {
		return nil, fmt.Errorf("analytics.SalesRates: %w", err)
	}
	defer rows.Close()

	results := []repository.SalesRateResult{}
	for rows.Next() {
		var row repository.SalesRateResult
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.UnitsPerTray,
			&row.CurrentStock, &row.AvgDailySold); err != nil {
			return nil, fmt.Errorf("analytics.SalesRates scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
