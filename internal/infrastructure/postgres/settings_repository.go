package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/fefo-stock/internal/domain/entity"
	"github.com/tu-usuario/fefo-stock/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo una sola fila JSONB con la configuración global del almacén.
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// Get devuelve la configuración vigente. Sin fila, o con claves que versiones
// anteriores no escribían, los defaults rellenan el hueco: se deserializa
// encima de DefaultSettings.
func (r *SettingsRepo) Get() (entity.Settings, error) {
	settings := entity.DefaultSettings()

	var raw []byte
	err := r.q.QueryRow(context.Background(), `SELECT data FROM settings WHERE id = 1`).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings, nil
		}
		return settings, fmt.Errorf("get settings: %w", err)
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		return settings, fmt.Errorf("decode settings: %w", err)
	}
	settings.Normalize()
	return settings, nil
}

// Save persiste la configuración completa (upsert de la fila única).
func (r *SettingsRepo) Save(settings entity.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	_, err = r.q.Exec(context.Background(), `
		INSERT INTO settings (id, data, updated_at) VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`, raw)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
