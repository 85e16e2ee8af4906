package repository

import "github.com/tu-usuario/fefo-stock/internal/domain/entity"

// SettingsRepository puerto del almacén de configuración global (una fila JSON).
// Get sin fila devuelve los defaults, nunca error.
type SettingsRepository interface {
	Get() (entity.Settings, error)
	Save(settings entity.Settings) error
}
