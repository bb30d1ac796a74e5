package sale

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quitanda/internal/core/apperror"
	"quitanda/internal/core/id"
	"quitanda/internal/core/types"
)

func newTestSale(t *testing.T) *Sale {
	t.Helper()
	s := NewSale(id.New(), nil)
	s.AddItem(id.New(), "Banana Prata", types.NewMoney(5.99), types.NewQuantityFromFloat64(2))
	s.AddItem(id.New(), "Alface Crespa", types.NewMoney(3.00), types.NewQuantityFromFloat64(1))
	return s
}

func TestNewSale(t *testing.T) {
	customerID := id.New()
	s := NewSale(customerID, nil)

	assert.Equal(t, StatusPending, s.Status)
	assert.Equal(t, customerID, s.CustomerID)
	assert.Nil(t, s.AddressID)
	assert.True(t, s.Total.IsZero())
	assert.Empty(t, s.Items)
}

func TestAddItem_SnapshotsPriceAndMirrorsTotal(t *testing.T) {
	s := NewSale(id.New(), nil)
	productID := id.New()

	item := s.AddItem(productID, "Tomate Italiano", types.NewMoney(7.50), types.NewQuantityFromFloat64(1.5))

	assert.Equal(t, productID, item.ProductID)
	assert.Equal(t, "Tomate Italiano", item.ProductName)
	assert.Equal(t, "11.25", item.Subtotal.StringFixed(2))
	// Both columns are stored; total_item must always equal subtotal.
	assert.True(t, item.TotalItem.Equal(item.Subtotal))
	assert.Len(t, s.Items, 1)
}

func TestSubtotal_SumsLines(t *testing.T) {
	s := newTestSale(t)

	// 2 * 5.99 + 1 * 3.00
	assert.Equal(t, "14.98", s.Subtotal().StringFixed(2))
}

func TestApplyDiscount(t *testing.T) {
	t.Run("valid discount", func(t *testing.T) {
		s := newTestSale(t)

		err := s.ApplyDiscount(types.NewMoney(2.00))

		require.NoError(t, err)
		assert.Equal(t, "12.98", s.Total.StringFixed(2))
	})

	t.Run("zero discount keeps total at subtotal", func(t *testing.T) {
		s := newTestSale(t)

		err := s.ApplyDiscount(types.ZeroMoney())

		require.NoError(t, err)
		assert.Equal(t, "14.98", s.Total.StringFixed(2))
	})

	t.Run("negative discount rejected", func(t *testing.T) {
		s := newTestSale(t)

		err := s.ApplyDiscount(types.NewMoney(-1))

		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})

	t.Run("discount above subtotal rejected", func(t *testing.T) {
		s := newTestSale(t)

		err := s.ApplyDiscount(types.NewMoney(100))

		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})

	t.Run("discount equal to subtotal allowed", func(t *testing.T) {
		s := newTestSale(t)

		err := s.ApplyDiscount(types.NewMoney(14.98))

		require.NoError(t, err)
		assert.True(t, s.Total.IsZero())
	})
}

func TestFinalize(t *testing.T) {
	t.Run("pending sale finalizes", func(t *testing.T) {
		s := newTestSale(t)

		err := s.Finalize("cash")

		require.NoError(t, err)
		assert.Equal(t, StatusFinalized, s.Status)
		assert.Equal(t, "cash", s.PaymentMethod)
		require.NotNil(t, s.FinalizedAt)
	})

	t.Run("requires payment method", func(t *testing.T) {
		s := newTestSale(t)

		err := s.Finalize("  ")

		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
		assert.Equal(t, StatusPending, s.Status)
	})

	t.Run("finalized sale cannot finalize again", func(t *testing.T) {
		s := newTestSale(t)
		require.NoError(t, s.Finalize("pix"))

		err := s.Finalize("cash")

		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeInvalidStateTransition, appErr.Code)
	})

	t.Run("cancelled sale cannot finalize", func(t *testing.T) {
		s := newTestSale(t)
		require.NoError(t, s.Cancel())

		err := s.Finalize("pix")

		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeInvalidStateTransition, appErr.Code)
	})
}

func TestCancel(t *testing.T) {
	t.Run("pending sale cancels", func(t *testing.T) {
		s := newTestSale(t)

		err := s.Cancel()

		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, s.Status)
		require.NotNil(t, s.CancelledAt)
	})

	t.Run("terminal states reject cancel", func(t *testing.T) {
		finalized := newTestSale(t)
		require.NoError(t, finalized.Finalize("pix"))

		cancelled := newTestSale(t)
		require.NoError(t, cancelled.Cancel())

		for _, s := range []*Sale{finalized, cancelled} {
			err := s.Cancel()
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeInvalidStateTransition, appErr.Code)
		}
	})
}

func TestStatus(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusFinalized.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, Status("shipped").Valid())

	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusFinalized.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid sale", func(t *testing.T) {
		s := newTestSale(t)
		assert.NoError(t, s.Validate(ctx))
	})

	t.Run("missing customer", func(t *testing.T) {
		s := newTestSale(t)
		s.CustomerID = id.Nil()
		assert.Error(t, s.Validate(ctx))
	})

	t.Run("no items", func(t *testing.T) {
		s := NewSale(id.New(), nil)
		assert.Error(t, s.Validate(ctx))
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		s := newTestSale(t)
		s.Items[0].Quantity = types.NewQuantityFromFloat64(0)
		assert.Error(t, s.Validate(ctx))
	})
}
