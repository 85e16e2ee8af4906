// Package settings expone la configuración global del almacén.
package settings

import (
	"context"

	"github.com/tu-usuario/fefo-stock/internal/domain/entity"
	"github.com/tu-usuario/fefo-stock/internal/domain/repository"
)

// UseCase lectura y escritura de la configuración global.
type UseCase struct {
	settingsRepo repository.SettingsRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(settingsRepo repository.SettingsRepository) *UseCase {
	return &UseCase{settingsRepo: settingsRepo}
}

// Get devuelve la configuración vigente (defaults si nunca se guardó).
func (uc *UseCase) Get(ctx context.Context) (entity.Settings, error) {
	return uc.settingsRepo.Get()
}

// Update persiste la configuración completa. Los valores fuera de rango se
// acotan en vez de rechazarse: la configuración nunca queda en estado inválido.
func (uc *UseCase) Update(ctx context.Context, settings entity.Settings) (entity.Settings, error) {
	settings.Normalize()
	if err := uc.settingsRepo.Save(settings); err != nil {
		return entity.Settings{}, err
	}
	return settings, nil
}
