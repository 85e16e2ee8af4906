package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tu-usuario/fefo-stock/internal/domain/entity"
	"github.com/tu-usuario/fefo-stock/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo adaptador del libro de movimientos. Solo inserta y lee:
// el libro es apéndice puro, sin UPDATE ni DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta un asiento. La cantidad llega ya con signo (SALE y salidas en
// negativo); aquí no se interpreta nada.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (id, transaction_id, product_id, lot_id, quantity, type, reason, note, created_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.TransactionID, movement.ProductID, movement.LotID,
		movement.Quantity, movement.Type, movement.Reason, movement.Note, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// SumByLot stock actual del lote: fold de todas sus cantidades con signo.
func (r *MovementRepo) SumByLot(lotID string) (int64, error) {
	var total int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity), 0) FROM movements WHERE lot_id = $1`, lotID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum by lot: %w", err)
	}
	return total, nil
}

// SumByProduct stock actual del producto (todos sus lotes, caducados incluidos).
func (r *MovementRepo) SumByProduct(productID string) (int64, error) {
	var total int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity), 0) FROM movements WHERE product_id = $1`, productID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum by product: %w", err)
	}
	return total, nil
}

// List asientos en orden cronológico descendente, con filtros y paginación.
func (r *MovementRepo) List(filter repository.MovementFilter) ([]*entity.Movement, error) {
	query := `
		SELECT id, COALESCE(transaction_id, ''), product_id, lot_id, quantity, type,
		       COALESCE(reason, ''), COALESCE(note, ''), created_at
		FROM movements WHERE 1=1`
	args := []any{}
	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		query += fmt.Sprintf(` AND product_id = $%d`, len(args))
	}
	if filter.LotID != "" {
		args = append(args, filter.LotID)
		query += fmt.Sprintf(` AND lot_id = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.ProductID, &m.LotID,
			&m.Quantity, &m.Type, &m.Reason, &m.Note, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
