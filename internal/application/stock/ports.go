package stock

import (
	"context"

	"github.com/tu-usuario/fefo-stock/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Todo lo que muta el libro pasa por aquí:
// o se aplican todos los movimientos del plan, o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		lotRepo repository.LotRepository,
		batchRepo repository.BatchRepository,
		productRepo repository.ProductRepository,
	) error) error
}
