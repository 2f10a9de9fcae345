// Package xlsx genera el reporte de stock por bodega como libro de Excel.
package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/report"
)

const sheetStock = "Stock"

var headers = []string{"Código", "Producto", "Unidad", "Entradas", "Salidas", "Saldo", "Stock mínimo", "Estado"}

// StockReportRenderer implementa report.Renderer usando excelize.
type StockReportRenderer struct{}

var _ report.Renderer = (*StockReportRenderer)(nil)

// NewStockReportRenderer construye el renderer.
func NewStockReportRenderer() *StockReportRenderer { return &StockReportRenderer{} }

// ContentType MIME del libro.
func (g *StockReportRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Render escribe una hoja con título, encabezados filtrables, una fila por producto y totales.
func (g *StockReportRenderer) Render(_ context.Context, rep *report.StockReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetStock); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"00467F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	_ = f.SetCellValue(sheetStock, "A1", fmt.Sprintf("%s (%s)", rep.WarehouseName, rep.WarehouseCode))
	_ = f.SetCellStyle(sheetStock, "A1", "A1", bold)
	_ = f.SetCellValue(sheetStock, "A2", "Generado: "+rep.GeneratedAt.Format("02/01/2006 15:04"))

	const headerRow = 4
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		_ = f.SetCellValue(sheetStock, cell, h)
		_ = f.SetCellStyle(sheetStock, cell, cell, headerStyle)
	}

	rowN := headerRow + 1
	for _, r := range rep.Rows {
		values := []any{r.ProductCode, r.ProductName, r.Unit, r.Entradas, r.Salidas, r.Balance, r.StockMin, string(r.Status)}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, rowN)
			_ = f.SetCellValue(sheetStock, cell, v)
		}
		rowN++
	}

	in, out, balance := rep.Totals()
	totals := []struct {
		col   string
		value any
	}{{"C", "TOTAL"}, {"D", in}, {"E", out}, {"F", balance}}
	for _, t := range totals {
		cell := fmt.Sprintf("%s%d", t.col, rowN)
		_ = f.SetCellValue(sheetStock, cell, t.value)
		_ = f.SetCellStyle(sheetStock, cell, cell, bold)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.SetColWidth(sheetStock, "B", "B", 40)
	_ = f.AutoFilter(sheetStock, fmt.Sprintf("A%d:%s%d", headerRow, lastCol, headerRow), []excelize.AutoFilterOptions{})
	_ = f.SetPanes(sheetStock, &excelize.Panes{Freeze: true, Split: true, YSplit: headerRow, TopLeftCell: fmt.Sprintf("A%d", headerRow+1), ActivePane: "bottomLeft"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}
