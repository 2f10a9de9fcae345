package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeStockStatus(t *testing.T) {
	cases := []struct {
		actual, min int64
		want        StockStatus
	}{
		{0, 5, StatusOut},
		{5, 5, StatusLow},
		{7, 5, StatusMedium},
		{10, 5, StatusOptimal},
		{8, 5, StatusOptimal}, // 8 > 7.5
		{3, 2, StatusMedium},  // 3 == 2*1.5
		{1, 0, StatusOptimal}, // sin mínimo definido
		{150, 20, StatusOptimal},
		{10, 20, StatusLow},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ComputeStockStatus(c.actual, c.min), "actual=%d min=%d", c.actual, c.min)
	}
}
