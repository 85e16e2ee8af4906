package entity

import "time"

// Product representa un producto del catálogo (unidad de venta de la pescadería).
// El stock nunca se guarda aquí: siempre se deriva del libro de movimientos.
type Product struct {
	ID           string
	Name         string
	Format       string // etiqueta de presentación, ej. "Vaschetta 200g"
	EAN          string
	FishType     string // clasificación; invariante por lote (ver Batch)
	UnitsPerTray int    // factor de conversión bandeja -> unidades
	ImagePath    string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProductStock agrega el producto con su stock derivado y el lote FEFO más urgente.
type ProductStock struct {
	Product
	StockTotal         int64
	LotsCount          int
	FefoLotID          string
	FefoLotNumber      string
	FefoExpirationDate *time.Time
}
