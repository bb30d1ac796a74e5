package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quitanda/internal/core/id"
	"quitanda/internal/core/types"
	"quitanda/internal/domain/documents/sale"
)

func TestFromSale_SubtotalWithoutItems(t *testing.T) {
	// List queries return sales without their items loaded; the subtotal
	// must still come out right from the persisted totals.
	s := sale.NewSale(id.New(), nil)
	s.Number = "VND20260901120000TEST"
	s.Discount = types.NewMoney(2.00)
	s.Total = types.NewMoney(9.98)

	resp := FromSale(s)

	assert.True(t, resp.Subtotal.Equal(types.NewMoney(11.98)),
		"subtotal %s", resp.Subtotal)
	assert.Empty(t, resp.Items)
}

func TestFromSale_SubtotalMatchesItems(t *testing.T) {
	s := sale.NewSale(id.New(), nil)
	s.AddItem(id.New(), "Banana Prata", types.NewMoney(5.99), types.NewQuantityFromFloat64(2))
	require.NoError(t, s.ApplyDiscount(types.NewMoney(1.00)))

	resp := FromSale(s)

	assert.True(t, resp.Subtotal.Equal(s.Subtotal()))
	assert.Len(t, resp.Items, 1)
}
