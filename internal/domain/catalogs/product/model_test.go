package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"quitanda/internal/core/types"
)

func TestCurrentStock(t *testing.T) {
	p := NewProduct("Banana Prata", types.NewMoney(5.99), "kg", types.NewQuantityFromFloat64(10))
	p.TotalIn = types.NewQuantityFromFloat64(5)
	p.TotalOut = types.NewQuantityFromFloat64(7.5)

	assert.Equal(t, types.NewQuantityFromFloat64(7.5), p.CurrentStock())
}

func TestIsLowStock(t *testing.T) {
	cases := []struct {
		name  string
		stock float64
		low   bool
	}{
		{"well stocked", 25, false},
		{"exactly at threshold", 10, false},
		{"just below threshold", 9.9999, true},
		{"empty", 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewProduct("Tomate", types.NewMoney(7.50), "kg", types.NewQuantityFromFloat64(tc.stock))
			assert.Equal(t, tc.low, p.IsLowStock())
		})
	}
}

func TestStockValue(t *testing.T) {
	p := NewProduct("Laranja Pera", types.NewMoney(4.20), "kg", types.NewQuantityFromFloat64(2.5))

	assert.Equal(t, "10.50", p.StockValue().StringFixed(2))
}

func TestProductValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		p := NewProduct("Cenoura", types.NewMoney(4.80), "kg", types.NewQuantityFromFloat64(1))
		assert.NoError(t, p.Validate(ctx))
	})

	t.Run("missing name", func(t *testing.T) {
		p := NewProduct("", types.NewMoney(4.80), "kg", types.NewQuantityFromFloat64(1))
		assert.Error(t, p.Validate(ctx))
	})

	t.Run("non-positive price", func(t *testing.T) {
		p := NewProduct("Cenoura", types.ZeroMoney(), "kg", types.NewQuantityFromFloat64(1))
		assert.Error(t, p.Validate(ctx))
	})

	t.Run("negative initial stock", func(t *testing.T) {
		p := NewProduct("Cenoura", types.NewMoney(4.80), "kg", types.NewQuantityFromFloat64(-1))
		assert.Error(t, p.Validate(ctx))
	})
}

func TestNewProduct_DefaultPackaging(t *testing.T) {
	p := NewProduct("Alface", types.NewMoney(3), "", types.NewQuantityFromFloat64(0))
	assert.Equal(t, DefaultPackaging, p.Packaging)
}
