// Package domain define los errores y códigos estables del núcleo de stock.
package domain

import (
	"errors"
	"fmt"

	"github.com/tu-usuario/fefo-stock/internal/domain/entity"
)

// Errores de dominio simples (sin datos adicionales).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrLotNotFound     = errors.New("lote no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrDuplicate       = errors.New("recurso duplicado")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrProductArchived = errors.New("producto archivado")
)

// Códigos estables para manejo por máquina (no cambiar: los clientes los parsean).
const (
	CodeInsufficientStock    = "INSUFFICIENT_STOCK"
	CodeInsufficientStockLot = "INSUFFICIENT_STOCK_LOT"
	CodeManualSumMismatch    = "MANUAL_SUM_MISMATCH"
	CodeFishTypeMismatch     = "FISH_TYPE_MISMATCH"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeLotNotFound          = "LOT_NOT_FOUND"
)

// InsufficientStockError: el stock total disponible del producto (o del lote,
// en rectificaciones) no alcanza para la cantidad pedida. Lleva los números
// exactos para que el cliente reintente sin otra ronda.
type InsufficientStockError struct {
	Requested int64
	Available int64
	Suggested []entity.LotStock // candidatos FEFO vigentes, puede ir vacío
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", e.Available, e.Requested)
}

// Code devuelve el código estable del error.
func (e *InsufficientStockError) Code() string { return CodeInsufficientStock }

// InsufficientLotStockError: un lote concreto del plan manual no tiene stock
// suficiente. Suggested excluye los lotes ya elegidos para rellenar el hueco.
type InsufficientLotStockError struct {
	LotID     string
	Requested int64
	Available int64
	Suggested []entity.LotStock
}

func (e *InsufficientLotStockError) Error() string {
	return fmt.Sprintf("stock insuficiente en el lote %s: disponible %d, solicitado %d",
		e.LotID, e.Available, e.Requested)
}

// RemainingNeeded cantidad que falta cubrir con otros lotes.
func (e *InsufficientLotStockError) RemainingNeeded() int64 { return e.Requested - e.Available }

// Code devuelve el código estable del error.
func (e *InsufficientLotStockError) Code() string { return CodeInsufficientStockLot }

// ManualSumMismatchError: en modo manual la suma de los lotes debe ser
// exactamente la cantidad solicitada.
type ManualSumMismatchError struct {
	Requested int64
	Sum       int64
	Suggested []entity.LotStock
}

func (e *ManualSumMismatchError) Error() string {
	return fmt.Sprintf("la suma de lotes (%d) no coincide con la cantidad solicitada (%d)", e.Sum, e.Requested)
}

// Delta diferencia entre lo sumado y lo solicitado.
func (e *ManualSumMismatchError) Delta() int64 { return e.Sum - e.Requested }

// Code devuelve el código estable del error.
func (e *ManualSumMismatchError) Code() string { return CodeManualSumMismatch }

// FishTypeMismatchError: el lot_number ya existe para otro fish_type.
// Invariante: un lot_number pertenece a un único fish_type.
type FishTypeMismatchError struct {
	LotNumber       string
	BatchFishType   string
	ProductFishType string
}

func (e *FishTypeMismatchError) Error() string {
	return fmt.Sprintf("el lote %s pertenece a %s, no a %s",
		e.LotNumber, e.BatchFishType, e.ProductFishType)
}

// Code devuelve el código estable del error.
func (e *FishTypeMismatchError) Code() string { return CodeFishTypeMismatch }
