package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/fefo-stock/internal/domain"
	"github.com/tu-usuario/fefo-stock/internal/domain/entity"
	"github.com/tu-usuario/fefo-stock/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, format, ean, fish_type, units_per_tray, image_path, active, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, format, ean, fish_type, units_per_tray, image_path, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Format, product.EAN, product.FishType,
		product.UnitsPerTray, product.ImagePath, product.Active, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID (nil si no existe).
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.get(`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila del producto y la devuelve. Producción la usa
// para leer fish_type y units_per_tray de forma estable durante la transacción.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.get(`SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) get(query, id string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.Name, &p.Format, &p.EAN, &p.FishType,
		&p.UnitsPerTray, &p.ImagePath, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Update actualiza los campos de presentación. fish_type no se toca: es
// invariante desde la creación (los batches dependen de él).
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, format = $3, ean = $4, units_per_tray = $5, image_path = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Format, product.EAN,
		product.UnitsPerTray, product.ImagePath, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// SetActive archiva (false) o restaura (true) el producto. Nunca se borra:
// el libro de movimientos referencia sus lotes para siempre.
func (r *ProductRepo) SetActive(id string, active bool) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE products SET active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set product active: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos aplicando búsqueda sin acentos y filtro de fish_type.
func (r *ProductRepo) List(filter repository.ProductFilter) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE 1=1`
	args := []any{}
	query, args = appendProductFilters(query, args, filter)
	query += ` ORDER BY name ASC`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Format, &p.EAN, &p.FishType,
			&p.UnitsPerTray, &p.ImagePath, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// ListWithStock agrega, por producto, el stock derivado del libro, el número de
// lotes con stock y el lote FEFO más urgente. El lote FEFO se elige con el
// mismo orden que usa la asignación.
func (r *ProductRepo) ListWithStock(filter repository.ProductFilter) ([]*entity.ProductStock, error) {
	query := `
		WITH lot_stock AS (
			SELECT l.id AS lot_id, l.product_id, b.lot_number, b.expiration_date, b.production_date,
			       COALESCE(SUM(m.quantity), 0) AS stock
			FROM lots l
			JOIN batches b ON b.id = l.batch_id
			LEFT JOIN movements m ON m.lot_id = l.id
			GROUP BY l.id, l.product_id, b.lot_number, b.expiration_date, b.production_date
		)
		SELECT p.id, p.name, p.format, p.ean, p.fish_type, p.units_per_tray, p.image_path, p.active, p.created_at, p.updated_at,
		       COALESCE(agg.stock_total, 0), COALESCE(agg.lots_count, 0),
		       fefo.lot_id, fefo.lot_number, fefo.expiration_date
		FROM products p
		LEFT JOIN LATERAL (
			SELECT SUM(ls.stock) AS stock_total, COUNT(*) FILTER (WHERE ls.stock > 0) AS lots_count
			FROM lot_stock ls WHERE ls.product_id = p.id
		) agg ON TRUE
		LEFT JOIN LATERAL (
			SELECT ls.lot_id, ls.lot_number, ls.expiration_date
			FROM lot_stock ls
			WHERE ls.product_id = p.id AND ls.stock > 0
			ORDER BY ls.expiration_date ASC NULLS LAST, ls.production_date ASC, ls.lot_id ASC
			LIMIT 1
		) fefo ON TRUE
		WHERE 1=1`
	args := []any{}
	query, args = appendProductFilters(query, args, filter)
	query += ` ORDER BY p.name ASC`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products with stock: %w", err)
	}
	defer rows.Close()

	var list []*entity.ProductStock
	for rows.Next() {
		var ps entity.ProductStock
		var fefoLotID, fefoLotNumber *string
		if err := rows.Scan(
			&ps.ID, &ps.Name, &ps.Format, &ps.EAN, &ps.FishType, &ps.UnitsPerTray,
			&ps.ImagePath, &ps.Active, &ps.CreatedAt, &ps.UpdatedAt,
			&ps.StockTotal, &ps.LotsCount,
			&fefoLotID, &fefoLotNumber, &ps.FefoExpirationDate,
		); err != nil {
			return nil, fmt.Errorf("scan product with stock: %w", err)
		}
		if fefoLotID != nil {
			ps.FefoLotID = *fefoLotID
		}
		if fefoLotNumber != nil {
			ps.FefoLotNumber = *fefoLotNumber
		}
		list = append(list, &ps)
	}
	return list, rows.Err()
}

// appendProductFilters añade las condiciones comunes de ProductFilter. La
// búsqueda compara sin acentos ni mayúsculas con el término ya normalizado por
// la capa de aplicación; unaccent hace lo propio del lado de la columna.
func appendProductFilters(query string, args []any, filter repository.ProductFilter) (string, []any) {
	if !filter.IncludeArchived {
		query += ` AND p.active`
	}
	if filter.FishType != "" {
		args = append(args, filter.FishType)
		query += fmt.Sprintf(` AND p.fish_type = $%d`, len(args))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		query += fmt.Sprintf(` AND (unaccent(lower(p.name)) LIKE $%d OR p.ean LIKE $%d)`, len(args), len(args))
	}
	return query, args
}
