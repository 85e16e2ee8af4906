package entity

import "time"

// Tipos de movimiento del libro (append-only).
const (
	MovementTypePRODUCTION = "PRODUCTION" // entrada por producción
	MovementTypeSALE       = "SALE"       // salida por venta
	MovementTypeADJUSTMENT = "ADJUSTMENT" // rectificación con motivo
)

// Motivos permitidos para ADJUSTMENT (enum cerrado; obligatorio).
const (
	AdjustReasonBreakage         = "BREAKAGE"
	AdjustReasonReturn           = "RETURN"
	AdjustReasonForcedCorrection = "FORCED_CORRECTION"
	AdjustReasonStocktake        = "STOCKTAKE"
	AdjustReasonOther            = "OTHER"
)

// AdjustReasons lista los motivos válidos (para validación y respuestas de error).
var AdjustReasons = []string{
	AdjustReasonBreakage,
	AdjustReasonReturn,
	AdjustReasonForcedCorrection,
	AdjustReasonStocktake,
	AdjustReasonOther,
}

// ValidAdjustReason verifica pertenencia al enum cerrado.
func ValidAdjustReason(reason string) bool {
	for _, r := range AdjustReasons {
		if r == reason {
			return true
		}
	}
	return false
}

// MaxNoteLength longitud máxima de la nota libre de una rectificación.
const MaxNoteLength = 255

// Movement es un evento inmutable del libro de movimientos. Nunca se actualiza
// ni se borra: una corrección es siempre un movimiento nuevo.
// Convención de signo: PRODUCTION y ADJUSTMENT positivo suman stock;
// SALE se guarda con cantidad negativa, igual que ADJUSTMENT de salida.
type Movement struct {
	ID            string
	TransactionID string // agrupa las líneas de una misma venta
	ProductID     string
	LotID         string
	Quantity      int64 // con signo
	Type          string
	Reason        string // solo ADJUSTMENT
	Note          string // opcional, acotada
	CreatedAt     time.Time
}

// FoldStock calcula el stock de un lote sumando las cantidades con signo de sus
// movimientos. Es la proyección pura del libro: un lote sin movimientos vale 0.
func FoldStock(movements []Movement) int64 {
	var total int64
	for _, m := range movements {
		total += m.Quantity
	}
	return total
}
