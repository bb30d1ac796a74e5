package stock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quitanda/internal/core/id"
	"quitanda/internal/core/types"
)

type fakeRepo struct {
	movements  []*Movement
	lastFilter MovementFilter
}

func (r *fakeRepo) Append(_ context.Context, m *Movement) error {
	r.movements = append(r.movements, m)
	return nil
}

func (r *fakeRepo) ListByProduct(_ context.Context, productID id.ID, filter MovementFilter) ([]*Movement, error) {
	r.lastFilter = filter
	var out []*Movement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func TestRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("appends a valid movement", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo)
		productID := id.New()

		m, err := svc.Record(ctx, productID, KindOut, types.NewQuantityFromFloat64(2))

		require.NoError(t, err)
		assert.Equal(t, productID, m.ProductID)
		assert.Equal(t, KindOut, m.Kind)
		assert.False(t, m.OccurredAt.IsZero())
		assert.Len(t, repo.movements, 1)
	})

	t.Run("rejects invalid kind", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo)

		_, err := svc.Record(ctx, id.New(), Kind("transfer"), types.NewQuantityFromFloat64(1))

		require.Error(t, err)
		assert.Empty(t, repo.movements)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo)

		_, err := svc.Record(ctx, id.New(), KindIn, types.NewQuantityFromFloat64(0))

		require.Error(t, err)
	})

	t.Run("rejects nil product", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo)

		_, err := svc.Record(ctx, id.Nil(), KindIn, types.NewQuantityFromFloat64(1))

		require.Error(t, err)
	})
}

func TestHistory_DefaultsLimit(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	_, err := svc.History(context.Background(), id.New(), MovementFilter{})

	require.NoError(t, err)
	assert.Equal(t, 50, repo.lastFilter.Limit)
}
