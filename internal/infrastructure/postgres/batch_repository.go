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

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación del puerto BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create persiste un batch nuevo. El índice único sobre lower(lot_number)
// convierte la carrera entre dos altas simultáneas en domain.ErrDuplicate.
func (r *BatchRepo) Create(batch *entity.Batch) error {
	query := `
		INSERT INTO batches (id, lot_number, fish_type, production_date, expiration_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.LotNumber, batch.FishType,
		batch.ProductionDate, batch.ExpirationDate, batch.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByLotNumber busca un batch por su número (sin distinguir mayúsculas).
func (r *BatchRepo) GetByLotNumber(lotNumber string) (*entity.Batch, error) {
	return r.getByLotNumber(lotNumber, false)
}

// GetByLotNumberForUpdate igual que GetByLotNumber pero bloqueando la fila.
func (r *BatchRepo) GetByLotNumberForUpdate(lotNumber string) (*entity.Batch, error) {
	return r.getByLotNumber(lotNumber, true)
}

func (r *BatchRepo) getByLotNumber(lotNumber string, forUpdate bool) (*entity.Batch, error) {
	query := `
		SELECT id, lot_number, fish_type, production_date, expiration_date, created_at
		FROM batches WHERE lower(lot_number) = lower($1)`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var b entity.Batch
	err := r.q.QueryRow(context.Background(), query, lotNumber).Scan(
		&b.ID, &b.LotNumber, &b.FishType, &b.ProductionDate, &b.ExpirationDate, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return &b, nil
}
