// Package report arma el reporte de stock por bodega y lo delega a un renderer (PDF o XLSX).
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/ayuda-humanitaria-api/internal/application/inventory"
	"github.com/jhoicas/ayuda-humanitaria-api/internal/domain"
	domaininv "github.com/jhoicas/ayuda-humanitaria-api/internal/domain/inventory"
)

// Format formato de exportación.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// Row saldo de un producto dentro de la bodega.
type Row struct {
	ProductCode string
	ProductName string
	Unit        string
	Entradas    int64
	Salidas     int64
	Balance     int64
	StockMin    int64
	Status      domaininv.StockStatus
}

// StockReport contenido del reporte, independiente del formato.
type StockReport struct {
	WarehouseCode string
	WarehouseName string
	Responsible   string
	GeneratedAt   time.Time
	Rows          []Row
}

// Totals suma de entradas, salidas y saldo de todas las filas.
func (r *StockReport) Totals() (entradas, salidas, balance int64) {
	for _, row := range r.Rows {
		entradas += row.Entradas
		salidas += row.Salidas
		balance += row.Balance
	}
	return entradas, salidas, balance
}

// Renderer convierte un StockReport en bytes de un formato concreto.
type Renderer interface {
	Render(ctx context.Context, r *StockReport) ([]byte, error)
	ContentType() string
}

// File archivo listo para descargar.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Exporter genera reportes de stock por bodega a partir del libro.
type Exporter struct {
	ledger    *inventory.Ledger
	renderers map[Format]Renderer
	now       func() time.Time
}

// NewExporter construye el exportador con los renderers disponibles.
func NewExporter(ledger *inventory.Ledger, renderers map[Format]Renderer) *Exporter {
	return &Exporter{ledger: ledger, renderers: renderers, now: time.Now}
}

// Build arma el reporte de la bodega sin renderizarlo.
func (e *Exporter) Build(ctx context.Context, warehouseID string) (*StockReport, error) {
	ws, err := e.ledger.StockByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	rep := &StockReport{
		WarehouseCode: ws.Warehouse.Code,
		WarehouseName: ws.Warehouse.Name,
		Responsible:   ws.Warehouse.ResponsibleName,
		GeneratedAt:   e.now(),
		Rows:          make([]Row, 0, len(ws.Rows)),
	}
	for _, r := range ws.Rows {
		row := Row{
			ProductCode: r.Product.Code,
			ProductName: r.Product.Name,
			Entradas:    r.Entradas,
			Salidas:     r.Salidas,
			Balance:     r.Balance(),
			StockMin:    r.Product.StockMin,
			Status:      domaininv.ComputeStockStatus(r.Balance(), r.Product.StockMin),
		}
		if r.Product.Unit != nil {
			row.Unit = r.Product.Unit.Abbreviation
		}
		rep.Rows = append(rep.Rows, row)
	}
	return rep, nil
}

// Export genera el archivo en el formato pedido ("pdf" o "xlsx").
func (e *Exporter) Export(ctx context.Context, warehouseID, format string) (*File, error) {
	f := Format(strings.ToLower(strings.TrimSpace(format)))
	if f == "" {
		f = FormatPDF
	}
	renderer, ok := e.renderers[f]
	if !ok {
		return nil, domain.NewError(domain.ErrInvalidInput, "Formato no soportado: "+format)
	}
	rep, err := e.Build(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	data, err := renderer.Render(ctx, rep)
	if err != nil {
		return nil, fmt.Errorf("report: render %s: %w", f, err)
	}
	return &File{
		Name:        fmt.Sprintf("stock_%s_%s.%s", strings.ToLower(rep.WarehouseCode), rep.GeneratedAt.Format("20060102"), f),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}
