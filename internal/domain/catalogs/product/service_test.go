package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quitanda/internal/core/apperror"
	"quitanda/internal/core/id"
	"quitanda/internal/core/types"
	"quitanda/internal/domain/registers/stock"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	products map[id.ID]*Product
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: make(map[id.ID]*Product)}
}

func (r *fakeRepo) Create(_ context.Context, p *Product) error {
	for _, existing := range r.products {
		if existing.Name == p.Name {
			return apperror.NewDuplicate("product", "name", p.Name)
		}
	}
	r.products[p.ID] = p
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, productID id.ID) (*Product, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID)
	}
	return p, nil
}

func (r *fakeRepo) Update(_ context.Context, p *Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return apperror.NewNotFound("product", p.ID)
	}
	r.products[p.ID] = p
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, productID id.ID) error {
	if _, ok := r.products[productID]; !ok {
		return apperror.NewNotFound("product", productID)
	}
	delete(r.products, productID)
	return nil
}

func (r *fakeRepo) List(_ context.Context, filter ListFilter) ([]*Product, int64, error) {
	var out []*Product
	for _, p := range r.products {
		if filter.LowStockOnly && !p.IsLowStock() {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) AddStockIn(_ context.Context, productID id.ID, qty types.Quantity) error {
	p, ok := r.products[productID]
	if !ok {
		return apperror.NewNotFound("product", productID)
	}
	p.TotalIn += qty
	return nil
}

func (r *fakeRepo) IssueStock(_ context.Context, productID id.ID, qty types.Quantity) (bool, error) {
	p, ok := r.products[productID]
	if !ok {
		return false, apperror.NewNotFound("product", productID)
	}
	if p.CurrentStock() < qty {
		return false, nil
	}
	p.TotalOut += qty
	return true, nil
}

func (r *fakeRepo) RestoreStock(_ context.Context, productID id.ID, qty types.Quantity) error {
	p, ok := r.products[productID]
	if !ok {
		return apperror.NewNotFound("product", productID)
	}
	p.TotalOut -= qty
	return nil
}

func (r *fakeRepo) Stats(_ context.Context) (*Stats, error) {
	return &Stats{}, nil
}

type fakeStockRepo struct {
	movements []*stock.Movement
}

func (r *fakeStockRepo) Append(_ context.Context, m *stock.Movement) error {
	r.movements = append(r.movements, m)
	return nil
}

func (r *fakeStockRepo) ListByProduct(_ context.Context, productID id.ID, _ stock.MovementFilter) ([]*stock.Movement, error) {
	var out []*stock.Movement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func newProductService(t *testing.T) (*Service, *fakeRepo, *fakeStockRepo) {
	t.Helper()
	repo := newFakeRepo()
	stockRepo := &fakeStockRepo{}
	svc := NewService(repo, stock.NewService(stockRepo), fakeTxManager{})
	return svc, repo, stockRepo
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("positive initial stock writes opening movement", func(t *testing.T) {
		svc, _, stockRepo := newProductService(t)

		p, err := svc.Create(ctx, "Banana Prata", types.NewMoney(5.99), "kg", types.NewQuantityFromFloat64(10))

		require.NoError(t, err)
		assert.Equal(t, types.NewQuantityFromFloat64(10), p.CurrentStock())
		require.Len(t, stockRepo.movements, 1)
		assert.Equal(t, stock.KindInitial, stockRepo.movements[0].Kind)
		assert.Equal(t, p.ID, stockRepo.movements[0].ProductID)
	})

	t.Run("zero initial stock writes no movement", func(t *testing.T) {
		svc, _, stockRepo := newProductService(t)

		_, err := svc.Create(ctx, "Alface", types.NewMoney(3), "unidade", types.NewQuantityFromFloat64(0))

		require.NoError(t, err)
		assert.Empty(t, stockRepo.movements)
	})

	t.Run("invalid product rejected", func(t *testing.T) {
		svc, repo, _ := newProductService(t)

		_, err := svc.Create(ctx, "", types.NewMoney(3), "kg", types.NewQuantityFromFloat64(1))

		require.Error(t, err)
		assert.Empty(t, repo.products)
	})
}

func TestServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("preserves stock counters", func(t *testing.T) {
		svc, _, _ := newProductService(t)
		p, err := svc.Create(ctx, "Banana Prata", types.NewMoney(5.99), "kg", types.NewQuantityFromFloat64(10))
		require.NoError(t, err)

		_, err = svc.RegisterMovement(ctx, p.ID, stock.KindOut, types.NewQuantityFromFloat64(3))
		require.NoError(t, err)

		updated, err := svc.Update(ctx, p.ID, UpdateInput{
			Name:  "Banana Nanica",
			Price: types.NewMoney(6.49),
		})

		require.NoError(t, err)
		assert.Equal(t, "Banana Nanica", updated.Name)
		assert.Equal(t, "6.49", updated.Price.StringFixed(2))
		assert.Equal(t, DefaultPackaging, updated.Packaging)
		assert.Equal(t, types.NewQuantityFromFloat64(7), updated.CurrentStock())
	})

	t.Run("missing product", func(t *testing.T) {
		svc, _, _ := newProductService(t)

		_, err := svc.Update(ctx, id.New(), UpdateInput{Name: "X", Price: types.NewMoney(1)})

		require.Error(t, err)
		assert.True(t, apperror.IsNotFound(err))
	})
}

func TestServiceRegisterMovement(t *testing.T) {
	ctx := context.Background()

	t.Run("inbound bumps counter", func(t *testing.T) {
		svc, _, stockRepo := newProductService(t)
		p, err := svc.Create(ctx, "Tomate", types.NewMoney(7.50), "kg", types.NewQuantityFromFloat64(5))
		require.NoError(t, err)

		m, err := svc.RegisterMovement(ctx, p.ID, stock.KindIn, types.NewQuantityFromFloat64(4))

		require.NoError(t, err)
		assert.Equal(t, stock.KindIn, m.Kind)

		got, err := svc.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, types.NewQuantityFromFloat64(9), got.CurrentStock())
		assert.Len(t, stockRepo.movements, 2) // initial + in
	})

	t.Run("outbound beyond stock fails", func(t *testing.T) {
		svc, _, _ := newProductService(t)
		p, err := svc.Create(ctx, "Tomate", types.NewMoney(7.50), "kg", types.NewQuantityFromFloat64(5))
		require.NoError(t, err)

		_, err = svc.RegisterMovement(ctx, p.ID, stock.KindOut, types.NewQuantityFromFloat64(6))

		require.Error(t, err)
		assert.True(t, apperror.IsInsufficientStock(err))

		got, gerr := svc.GetByID(ctx, p.ID)
		require.NoError(t, gerr)
		assert.Equal(t, types.NewQuantityFromFloat64(5), got.CurrentStock())
	})

	t.Run("initial kind not accepted manually", func(t *testing.T) {
		svc, _, _ := newProductService(t)
		p, err := svc.Create(ctx, "Tomate", types.NewMoney(7.50), "kg", types.NewQuantityFromFloat64(5))
		require.NoError(t, err)

		_, err = svc.RegisterMovement(ctx, p.ID, stock.KindInitial, types.NewQuantityFromFloat64(1))

		require.Error(t, err)
	})

	t.Run("non-positive quantity rejected", func(t *testing.T) {
		svc, _, _ := newProductService(t)
		p, err := svc.Create(ctx, "Tomate", types.NewMoney(7.50), "kg", types.NewQuantityFromFloat64(5))
		require.NoError(t, err)

		_, err = svc.RegisterMovement(ctx, p.ID, stock.KindOut, types.NewQuantityFromFloat64(0))

		require.Error(t, err)
	})
}

func TestServiceListLowStock(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newProductService(t)

	_, err := svc.Create(ctx, "Banana Prata", types.NewMoney(5.99), "kg", types.NewQuantityFromFloat64(40))
	require.NoError(t, err)
	low, err := svc.Create(ctx, "Morango", types.NewMoney(12), "Band. 250g", types.NewQuantityFromFloat64(3))
	require.NoError(t, err)

	products, err := svc.ListLowStock(ctx)

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, low.ID, products[0].ID)
}

func TestServiceMovements(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newProductService(t)

	_, err := svc.Movements(ctx, id.New(), stock.MovementFilter{})

	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
