package inventory

import "github.com/shopspring/decimal"

// StockStatus clasificación visual del nivel de stock. No dispara ninguna acción.
type StockStatus string

const (
	StatusOut     StockStatus = "agotado"
	StatusLow     StockStatus = "bajo"
	StatusMedium  StockStatus = "medio"
	StatusOptimal StockStatus = "optimo"
)

var mediumFactor = decimal.NewFromFloat(1.5)

// ComputeStockStatus clasifica (stockActual, stockMinimo):
// 0 -> agotado; <= mínimo -> bajo; <= mínimo*1.5 -> medio; resto -> optimo.
func ComputeStockStatus(actual, minimum int64) StockStatus {
	if actual <= 0 {
		return StatusOut
	}
	if actual <= minimum {
		return StatusLow
	}
	if decimal.NewFromInt(actual).LessThanOrEqual(decimal.NewFromInt(minimum).Mul(mediumFactor)) {
		return StatusMedium
	}
	return StatusOptimal
}
