package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/fefo-stock/internal/domain"
	"github.com/tu-usuario/fefo-stock/internal/domain/entity"
	"github.com/tu-usuario/fefo-stock/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación del puerto LotRepository sobre PostgreSQL (usable con pool o tx).
// El stock nunca se lee de una columna: cada vista lo pliega de movements.
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

// Create persiste un lote nuevo (par producto-batch).
func (r *LotRepo) Create(lot *entity.Lot) error {
	query := `INSERT INTO lots (id, product_id, batch_id, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query, lot.ID, lot.ProductID, lot.BatchID, lot.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID (nil si no existe).
func (r *LotRepo) GetByID(id string) (*entity.Lot, error) {
	return r.get(`SELECT id, product_id, batch_id, created_at FROM lots WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila del lote y la devuelve (rectificaciones).
func (r *LotRepo) GetForUpdate(id string) (*entity.Lot, error) {
	return r.get(`SELECT id, product_id, batch_id, created_at FROM lots WHERE id = $1 FOR UPDATE`, id)
}

// GetByProductAndBatchForUpdate busca el lote del par (producto, batch)
// bloqueando la fila si existe.
func (r *LotRepo) GetByProductAndBatchForUpdate(productID, batchID string) (*entity.Lot, error) {
	query := `
		SELECT id, product_id, batch_id, created_at
		FROM lots WHERE product_id = $1 AND batch_id = $2 FOR UPDATE`
	var l entity.Lot
	err := r.q.QueryRow(context.Background(), query, productID, batchID).Scan(
		&l.ID, &l.ProductID, &l.BatchID, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot by product/batch: %w", err)
	}
	return &l, nil
}

func (r *LotRepo) get(query, id string) (*entity.Lot, error) {
	var l entity.Lot
	err := r.q.QueryRow(context.Background(), query, id).Scan(&l.ID, &l.ProductID, &l.BatchID, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return &l, nil
}

// LockByProduct bloquea todas las filas de lotes del producto. Postgres no
// permite FOR UPDATE sobre un agregado, así que el commit bloquea primero las
// filas base y después pliega el stock: dos ventas concurrentes del mismo
// producto quedan serializadas aquí.
func (r *LotRepo) LockByProduct(productID string) error {
	rows, err := r.q.Query(context.Background(),
		`SELECT id FROM lots WHERE product_id = $1 ORDER BY id FOR UPDATE`, productID)
	if err != nil {
		return fmt.Errorf("lock lots: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("lock lots scan: %w", err)
		}
	}
	return rows.Err()
}

// ListWithStock devuelve los lotes del producto con stock derivado, en orden
// FEFO: caducidad asc con nulls al final, producción asc, id asc.
func (r *LotRepo) ListWithStock(filter repository.LotStockFilter) ([]entity.LotStock, error) {
	asOf := filter.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}
	asOfDay := asOf.Format("2006-01-02")

	query := `
		SELECT l.id, l.product_id, b.lot_number, b.expiration_date, b.production_date,
		       COALESCE(SUM(m.quantity), 0) AS stock
		FROM lots l
		JOIN batches b ON b.id = l.batch_id
		LEFT JOIN movements m ON m.lot_id = l.id
		WHERE l.product_id = $1`
	args := []any{filter.ProductID}
	if !filter.IncludeExpired {
		args = append(args, asOfDay)
		query += fmt.Sprintf(` AND (b.expiration_date IS NULL OR b.expiration_date >= $%d)`, len(args))
	}
	query += `
		GROUP BY l.id, l.product_id, b.lot_number, b.expiration_date, b.production_date`
	if !filter.IncludeZeroStock {
		query += `
		HAVING COALESCE(SUM(m.quantity), 0) > 0`
	}
	query += `
		ORDER BY b.expiration_date ASC NULLS LAST, b.production_date ASC, l.id ASC`

	return r.queryLotStock(query, args...)
}

// ListAllWithStock vista global de inventario: todos los productos, caducados
// incluidos (las vistas no esconden stock, solo la asignación filtra).
func (r *LotRepo) ListAllWithStock(includeZeroStock bool) ([]entity.LotStock, error) {
	query := `
		SELECT l.id, l.product_id, b.lot_number, b.expiration_date, b.production_date,
		       COALESCE(SUM(m.quantity), 0) AS stock
		FROM lots l
		JOIN batches b ON b.id = l.batch_id
		LEFT JOIN movements m ON m.lot_id = l.id
		GROUP BY l.id, l.product_id, b.lot_number, b.expiration_date, b.production_date`
	if !includeZeroStock {
		query += `
		HAVING COALESCE(SUM(m.quantity), 0) > 0`
	}
	query += `
		ORDER BY b.expiration_date ASC NULLS LAST, b.production_date ASC, l.id ASC`

	return r.queryLotStock(query)
}

func (r *LotRepo) queryLotStock(query string, args ...any) ([]entity.LotStock, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lot stock: %w", err)
	}
	defer rows.Close()

	var list []entity.LotStock
	for rows.Next() {
		var ls entity.LotStock
		if err := rows.Scan(&ls.LotID, &ls.ProductID, &ls.LotNumber,
			&ls.ExpirationDate, &ls.ProductionDate, &ls.Stock); err != nil {
			return nil, fmt.Errorf("scan lot stock: %w", err)
		}
		list = append(list, ls)
	}
	return list, rows.Err()
}
