// Package pdf genera el reporte de stock por bodega en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Bodega + código      │  Fecha de generación         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Producto | Und | Entradas | Salidas | Saldo │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES                                                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

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

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/report"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

// StockReportRenderer implementa report.Renderer usando Maroto v2.
type StockReportRenderer struct{}

var _ report.Renderer = (*StockReportRenderer)(nil)

// NewStockReportRenderer construye el renderer.
func NewStockReportRenderer() *StockReportRenderer { return &StockReportRenderer{} }

// ContentType MIME del documento.
func (g *StockReportRenderer) ContentType() string { return "application/pdf" }

// Render genera el PDF y devuelve sus bytes.
func (g *StockReportRenderer) Render(_ context.Context, rep *report.StockReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Stock por bodega - "+rep.WarehouseName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(rep.Rows) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("La bodega no tiene productos con saldo.", props.Text{Size: 8, Top: 2, Color: colorGray, Align: align.Center}),
		)))
	}
	for _, r := range rep.Rows {
		m.AddRows(detailRow(r))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(rep))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(rep *report.StockReport) core.Row {
	responsible := rep.Responsible
	if responsible == "" {
		responsible = "-"
	}
	return row.New(18).Add(
		col.New(8).Add(
			text.New(rep.WarehouseName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Código: "+rep.WarehouseCode+"   |   Responsable: "+responsible, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("REPORTE DE STOCK", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+rep.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Und", 1, align.Center),
		h("Entradas", 1, align.Right),
		h("Salidas", 1, align.Right),
		h("Saldo", 1, align.Right),
		h("Estado", 2, align.Center),
	)
}

func detailRow(r report.Row) core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	status := props.Text{Size: 8, Align: align.Center, Top: 1}
	if r.Status == inventory.StatusOut || r.Status == inventory.StatusLow {
		status.Style = fontstyle.Bold
		status.Color = colorAlert
	}
	return row.New(7).Add(
		cell(r.ProductCode, 2, align.Left),
		cell(r.ProductName, 4, align.Left),
		cell(r.Unit, 1, align.Center),
		cell(formatQty(r.Entradas), 1, align.Right),
		cell(formatQty(r.Salidas), 1, align.Right),
		cell(formatQty(r.Balance), 1, align.Right),
		col.New(2).Add(text.New(string(r.Status), status)),
	)
}

func totalsRow(rep *report.StockReport) core.Row {
	in, out, balance := rep.Totals()
	bold := func(s string, a align.Type) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: a, Top: 2, Right: 1})
	}
	return row.New(10).Add(
		col.New(7).Add(bold(fmt.Sprintf("TOTAL (%d productos)", len(rep.Rows)), align.Right)),
		col.New(1).Add(bold(formatQty(in), align.Right)),
		col.New(1).Add(bold(formatQty(out), align.Right)),
		col.New(1).Add(bold(formatQty(balance), align.Right)),
		col.New(2),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatQty inserta puntos de miles. Ej: 25000 → "25.000", -1200 → "-1.200".
func formatQty(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, len(s)+len(s)/3)
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
