package entity

import "time"

// Lot es la unidad de seguimiento de stock: el par (producto, batch).
// Se crea implícitamente con el primer movimiento PRODUCTION de ese par.
type Lot struct {
	ID        string
	ProductID string
	BatchID   string
	CreatedAt time.Time
}

// LotStock es la vista derivada de un lote con su stock actual (fold del libro
// de movimientos) y los datos del batch que el selector FEFO necesita.
type LotStock struct {
	LotID          string
	ProductID      string
	LotNumber      string
	ExpirationDate *time.Time
	ProductionDate time.Time
	Stock          int64
}

// FefoLess define el orden FEFO entre dos lotes con stock:
// caducidad ascendente (sin caducidad al final), luego fecha de producción
// ascendente, luego ID de lote ascendente como desempate determinista.
func FefoLess(a, b LotStock) bool {
	switch {
	case a.ExpirationDate == nil && b.ExpirationDate == nil:
		// sigue con producción
	case a.ExpirationDate == nil:
		return false
	case b.ExpirationDate == nil:
		return true
	case !a.ExpirationDate.Equal(*b.ExpirationDate):
		return a.ExpirationDate.Before(*b.ExpirationDate)
	}
	if !a.ProductionDate.Equal(b.ProductionDate) {
		return a.ProductionDate.Before(b.ProductionDate)
	}
	return a.LotID < b.LotID
}

// ExpiredAt indica si el lote está caducado respecto a ref (día, no hora).
func (ls LotStock) ExpiredAt(ref time.Time) bool {
	if ls.ExpirationDate == nil {
		return false
	}
	return ls.ExpirationDate.Before(truncateToDay(ref))
}
