package entity

import "time"

// Batch representa un evento de producción identificado por su lot_number
// (código humano/externo, único). Varios productos elaborados de la misma
// materia prima comparten el batch. La fecha de caducidad queda fija al crearlo
// y el fish_type es invariante: un lot_number pertenece a un único fish_type.
type Batch struct {
	ID             string
	LotNumber      string
	FishType       string
	ProductionDate time.Time
	ExpirationDate *time.Time // nil = sin caducidad declarada
	CreatedAt      time.Time
}

// Expired indica si el batch ya pasó su fecha de caducidad respecto a ref.
// Un batch sin caducidad nunca expira.
func (b *Batch) Expired(ref time.Time) bool {
	if b.ExpirationDate == nil {
		return false
	}
	return b.ExpirationDate.Before(truncateToDay(ref))
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
