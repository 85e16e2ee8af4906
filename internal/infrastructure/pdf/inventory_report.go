// Package pdf genera el informe de inventario imprimible: una tabla de lotes
// por producto en orden FEFO, con el stock derivado del libro y las caducidades
// próximas resaltadas.
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/tu-usuario/fefo-stock/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 12, Green: 74, Blue: 110}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 180, Green: 30, Blue: 30}
	colorWarn    = &props.Color{Red: 190, Green: 120, Blue: 0}
)

// InventoryReportGenerator genera el informe de inventario con Maroto v2.
type InventoryReportGenerator struct{}

// NewInventoryReportGenerator construye el generador.
func NewInventoryReportGenerator() *InventoryReportGenerator { return &InventoryReportGenerator{} }

// Generate produce el PDF: cabecera con fecha y totales, y por cada producto
// sus lotes en orden FEFO. Los lotes caducados van en rojo; los que caducan
// dentro de alertDays, en ámbar.
func (g *InventoryReportGenerator) Generate(
	products []*entity.ProductStock,
	lots []entity.LotStock,
	alertDays int,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Inventario por lotes", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(products, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	lotsByProduct := groupLots(lots)
	for _, p := range products {
		productLots := lotsByProduct[p.ID]
		if p.StockTotal == 0 && len(productLots) == 0 {
			continue
		}
		m.AddRows(productRow(p))
		m.AddRows(lotTableHeaderRow())
		for _, l := range productLots {
			m.AddRows(lotRow(l, alertDays, generatedAt))
		}
		m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.2}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título, fecha de corte y totales globales.
func headerRow(products []*entity.ProductStock, generatedAt time.Time) core.Row {
	var totalUnits int64
	var totalLots int
	for _, p := range products {
		totalUnits += p.StockTotal
		totalLots += p.LotsCount
	}
	return row.New(16).Add(
		col.New(7).Add(
			text.New("INVENTARIO POR LOTES", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Stock derivado del libro de movimientos (orden FEFO)", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Fecha: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Align: align.Right, Top: 2,
			}),
			text.New(fmt.Sprintf("%d unidades en %d lotes", totalUnits, totalLots), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 8,
			}),
		),
	)
}

// productRow: nombre, formato y stock total del producto.
func productRow(p *entity.ProductStock) core.Row {
	label := p.Name
	if p.Format != "" {
		label += "  ·  " + p.Format
	}
	if !p.Active {
		label += "  (archivado)"
	}
	return row.New(9).Add(
		col.New(8).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 10, Top: 2}),
		),
		col.New(4).Add(
			text.New(fmt.Sprintf("Total: %d uds", p.StockTotal), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Color: colorPrimary,
			}),
		),
	)
}

func lotTableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7.5, Align: a, Color: colorGray, Top: 1,
		}))
	}
	return row.New(5).Add(
		h("Lote", 4, align.Left),
		h("Producción", 3, align.Center),
		h("Caducidad", 3, align.Center),
		h("Stock", 2, align.Right),
	)
}

func lotRow(l entity.LotStock, alertDays int, ref time.Time) core.Row {
	expiry := "sin caducidad"
	color := (*props.Color)(nil)
	if l.ExpirationDate != nil {
		expiry = l.ExpirationDate.Format("02/01/2006")
		switch {
		case l.ExpiredAt(ref):
			expiry += "  CADUCADO"
			color = colorDanger
		case l.ExpirationDate.Before(ref.AddDate(0, 0, alertDays)):
			color = colorWarn
		}
	}
	cell := func(s string, size int, a align.Type) core.Col {
		p := props.Text{Size: 8, Align: a, Top: 1}
		if color != nil {
			p.Color = color
		}
		return col.New(size).Add(text.New(s, p))
	}
	return row.New(5).Add(
		cell(l.LotNumber, 4, align.Left),
		cell(l.ProductionDate.Format("02/01/2006"), 3, align.Center),
		cell(expiry, 3, align.Center),
		cell(fmt.Sprintf("%d", l.Stock), 2, align.Right),
	)
}

func groupLots(lots []entity.LotStock) map[string][]entity.LotStock {
	out := make(map[string][]entity.LotStock)
	for _, l := range lots {
		out[l.ProductID] = append(out[l.ProductID], l)
	}
	return out
}
