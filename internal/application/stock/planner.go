// Package stock implementa el motor de asignación FEFO: selector de lotes,
// planificador (preview) y comprometedor transaccional (commit).
package stock

import (
	"sort"
	"time"

	"github.com/tu-usuario/fefo-stock/internal/domain"
	"github.com/tu-usuario/fefo-stock/internal/domain/entity"
)

// Modos de asignación de una venta.
const (
	ModeAuto   = "auto"
	ModeManual = "manual"
)

// PlanLine una línea del plan de asignación: cuánto se toma de qué lote.
type PlanLine struct {
	LotID          string
	LotNumber      string
	Quantity       int64
	ExpirationDate *time.Time
	ProductionDate time.Time
}

// ManualLine selección manual del operador (lote, cantidad).
type ManualLine struct {
	LotID    string
	Quantity int64
}

// SortFefo ordena los lotes por urgencia FEFO (copia; no muta la entrada).
func SortFefo(lots []entity.LotStock) []entity.LotStock {
	out := make([]entity.LotStock, len(lots))
	copy(out, lots)
	sort.SliceStable(out, func(i, j int) bool { return entity.FefoLess(out[i], out[j]) })
	return out
}

// TotalAvailable suma el stock de los lotes candidatos.
func TotalAvailable(lots []entity.LotStock) int64 {
	var total int64
	for _, l := range lots {
		total += l.Stock
	}
	return total
}

// PlanAuto recorre los lotes en orden FEFO tomando min(stock, restante) de cada
// uno hasta cubrir quantity. Es una función pura: mismo input, mismo plan.
// Si el stock total no alcanza devuelve InsufficientStockError con el total
// disponible y los candidatos, para que el cliente reintente o pase a manual.
func PlanAuto(lots []entity.LotStock, quantity int64) ([]PlanLine, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	ordered := SortFefo(lots)

	if total := TotalAvailable(ordered); total < quantity {
		return nil, &domain.InsufficientStockError{
			Requested: quantity,
			Available: total,
			Suggested: ordered,
		}
	}

	plan := make([]PlanLine, 0, len(ordered))
	remaining := quantity
	for _, l := range ordered {
		if remaining <= 0 {
			break
		}
		if l.Stock <= 0 {
			continue
		}
		take := l.Stock
		if remaining < take {
			take = remaining
		}
		plan = append(plan, PlanLine{
			LotID:          l.LotID,
			LotNumber:      l.LotNumber,
			Quantity:       take,
			ExpirationDate: l.ExpirationDate,
			ProductionDate: l.ProductionDate,
		})
		remaining -= take
	}
	return plan, nil
}

// PlanManual valida la selección del operador contra los lotes candidatos:
// la suma de líneas debe ser exactamente quantity (ManualSumMismatchError con
// el delta si no), y cada lote debe tener stock suficiente
// (InsufficientLotStockError con disponibles y candidatos alternativos si no).
// Las líneas repetidas del mismo lote se consolidan antes de validar.
func PlanManual(lots []entity.LotStock, quantity int64, requested []ManualLine) ([]PlanLine, error) {
	if quantity <= 0 || len(requested) == 0 {
		return nil, domain.ErrInvalidInput
	}
	ordered := SortFefo(lots)

	byLot := make(map[string]entity.LotStock, len(ordered))
	for _, l := range ordered {
		byLot[l.LotID] = l
	}

	// Consolidar líneas conservando el orden de la primera aparición.
	merged := make([]ManualLine, 0, len(requested))
	index := make(map[string]int, len(requested))
	var sum int64
	for _, line := range requested {
		if line.LotID == "" || line.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		sum += line.Quantity
		if i, ok := index[line.LotID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.LotID] = len(merged)
		merged = append(merged, line)
	}

	if sum != quantity {
		return nil, &domain.ManualSumMismatchError{
			Requested: quantity,
			Sum:       sum,
			Suggested: ordered,
		}
	}

	for _, line := range merged {
		candidate, ok := byLot[line.LotID]
		if !ok || candidate.Stock < line.Quantity {
			var available int64
			if ok {
				available = candidate.Stock
			}
			return nil, &domain.InsufficientLotStockError{
				LotID:     line.LotID,
				Requested: line.Quantity,
				Available: available,
				Suggested: excludeLots(ordered, index),
			}
		}
	}

	plan := make([]PlanLine, 0, len(merged))
	for _, line := range merged {
		candidate := byLot[line.LotID]
		plan = append(plan, PlanLine{
			LotID:          candidate.LotID,
			LotNumber:      candidate.LotNumber,
			Quantity:       line.Quantity,
			ExpirationDate: candidate.ExpirationDate,
			ProductionDate: candidate.ProductionDate,
		})
	}
	return plan, nil
}

// excludeLots filtra los candidatos ya elegidos (sugerencias para rellenar el hueco).
func excludeLots(lots []entity.LotStock, chosen map[string]int) []entity.LotStock {
	out := make([]entity.LotStock, 0, len(lots))
	for _, l := range lots {
		if _, ok := chosen[l.LotID]; !ok {
			out = append(out, l)
		}
	}
	return out
}
