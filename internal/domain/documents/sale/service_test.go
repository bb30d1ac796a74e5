package sale

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quitanda/internal/core/apperror"
	"quitanda/internal/core/id"
	"quitanda/internal/core/types"
	"quitanda/internal/domain/catalogs/customer"
	"quitanda/internal/domain/catalogs/product"
	"quitanda/internal/domain/registers/stock"
)

// fakeTxManager runs the function directly; the repositories under test are
// in-memory so there is nothing to roll back.
type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSaleRepo struct {
	byID     map[id.ID]*Sale
	byNumber map[string]*Sale
	updates  int
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{
		byID:     make(map[id.ID]*Sale),
		byNumber: make(map[string]*Sale),
	}
}

func (r *fakeSaleRepo) Create(_ context.Context, s *Sale) error {
	if _, exists := r.byNumber[s.Number]; exists {
		return apperror.NewDuplicate("sale", "number", s.Number)
	}
	r.byID[s.ID] = s
	r.byNumber[s.Number] = s
	return nil
}

func (r *fakeSaleRepo) GetByID(_ context.Context, saleID id.ID) (*Sale, error) {
	s, ok := r.byID[saleID]
	if !ok {
		return nil, apperror.NewNotFound("sale", saleID)
	}
	return s, nil
}

func (r *fakeSaleRepo) GetByNumber(_ context.Context, number string) (*Sale, error) {
	s, ok := r.byNumber[number]
	if !ok {
		return nil, apperror.NewNotFound("sale", number)
	}
	return s, nil
}

func (r *fakeSaleRepo) Update(_ context.Context, s *Sale) error {
	if _, ok := r.byID[s.ID]; !ok {
		return apperror.NewNotFound("sale", s.ID)
	}
	r.byID[s.ID] = s
	r.updates++
	return nil
}

func (r *fakeSaleRepo) List(_ context.Context, filter ListFilter) ([]*Sale, int64, error) {
	var out []*Sale
	for _, s := range r.byID {
		if filter.CustomerID != nil && s.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (r *fakeSaleRepo) CountByStatus(_ context.Context) (map[Status]int64, error) {
	counts := make(map[Status]int64)
	for _, s := range r.byID {
		counts[s.Status]++
	}
	return counts, nil
}

func (r *fakeSaleRepo) RevenueByPeriod(_ context.Context, _, _ time.Time) (RevenueStats, error) {
	stats := RevenueStats{Revenue: types.ZeroMoney()}
	for _, s := range r.byID {
		if s.Status == StatusFinalized {
			stats.SalesCount++
			stats.Revenue = stats.Revenue.Add(s.Total)
		}
	}
	return stats, nil
}

type fakeCustomerRepo struct {
	customers map[id.ID]*customer.Customer
	addresses map[id.ID]*customer.Address
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{
		customers: make(map[id.ID]*customer.Customer),
		addresses: make(map[id.ID]*customer.Address),
	}
}

func (r *fakeCustomerRepo) Create(_ context.Context, c *customer.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, customerID id.ID) (*customer.Customer, error) {
	c, ok := r.customers[customerID]
	if !ok {
		return nil, apperror.NewNotFound("customer", customerID)
	}
	return c, nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, c *customer.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, customerID id.ID) error {
	delete(r.customers, customerID)
	return nil
}

func (r *fakeCustomerRepo) List(_ context.Context, _ customer.ListFilter) ([]*customer.Customer, int64, error) {
	return nil, 0, nil
}

func (r *fakeCustomerRepo) AddAddress(_ context.Context, a *customer.Address) error {
	r.addresses[a.ID] = a
	return nil
}

func (r *fakeCustomerRepo) GetAddress(_ context.Context, addressID id.ID) (*customer.Address, error) {
	a, ok := r.addresses[addressID]
	if !ok {
		return nil, apperror.NewNotFound("address", addressID)
	}
	return a, nil
}

func (r *fakeCustomerRepo) ListAddresses(_ context.Context, customerID id.ID) ([]*customer.Address, error) {
	var principal, rest []*customer.Address
	for _, a := range r.addresses {
		if a.CustomerID != customerID {
			continue
		}
		if a.Principal {
			principal = append(principal, a)
		} else {
			rest = append(rest, a)
		}
	}
	return append(principal, rest...), nil
}

func (r *fakeCustomerRepo) ClearPrincipal(_ context.Context, customerID id.ID) error {
	for _, a := range r.addresses {
		if a.CustomerID == customerID {
			a.Principal = false
		}
	}
	return nil
}

func (r *fakeCustomerRepo) SetPrincipal(_ context.Context, addressID id.ID) error {
	a, ok := r.addresses[addressID]
	if !ok {
		return apperror.NewNotFound("address", addressID)
	}
	a.Principal = true
	return nil
}

func (r *fakeCustomerRepo) DeleteAddress(_ context.Context, addressID id.ID) error {
	delete(r.addresses, addressID)
	return nil
}

type fakeProductRepo struct {
	products map[id.ID]*product.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[id.ID]*product.Product)}
}

func (r *fakeProductRepo) Create(_ context.Context, p *product.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, productID id.ID) (*product.Product, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID)
	}
	return p, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *product.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, productID id.ID) error {
	delete(r.products, productID)
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, _ product.ListFilter) ([]*product.Product, int64, error) {
	return nil, 0, nil
}

func (r *fakeProductRepo) AddStockIn(_ context.Context, productID id.ID, qty types.Quantity) error {
	p, ok := r.products[productID]
	if !ok {
		return apperror.NewNotFound("product", productID)
	}
	p.TotalIn += qty
	return nil
}

func (r *fakeProductRepo) IssueStock(_ context.Context, productID id.ID, qty types.Quantity) (bool, error) {
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

func (r *fakeProductRepo) RestoreStock(_ context.Context, productID id.ID, qty types.Quantity) error {
	p, ok := r.products[productID]
	if !ok {
		return apperror.NewNotFound("product", productID)
	}
	p.TotalOut -= qty
	return nil
}

func (r *fakeProductRepo) Stats(_ context.Context) (*product.Stats, error) {
	return &product.Stats{}, nil
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

func (r *fakeStockRepo) kinds(productID id.ID) []stock.Kind {
	var out []stock.Kind
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m.Kind)
		}
	}
	return out
}

// fakeNumbers returns queued numbers in order, repeating the last one.
type fakeNumbers struct {
	queue []string
	calls int
}

func (f *fakeNumbers) Next() (string, error) {
	f.calls++
	if len(f.queue) == 0 {
		return "VND20260901120000TEST", nil
	}
	n := f.queue[0]
	if len(f.queue) > 1 {
		f.queue = f.queue[1:]
	}
	return n, nil
}

type saleFixture struct {
	svc       *Service
	sales     *fakeSaleRepo
	customers *fakeCustomerRepo
	products  *fakeProductRepo
	stockRepo *fakeStockRepo
	numbers   *fakeNumbers

	customerID id.ID
	addressID  id.ID
	productID  id.ID
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()

	sales := newFakeSaleRepo()
	customers := newFakeCustomerRepo()
	products := newFakeProductRepo()
	stockRepo := &fakeStockRepo{}
	numbers := &fakeNumbers{}

	cust := customer.NewCustomer("Dona Maria")
	require.NoError(t, customers.Create(context.Background(), cust))

	addr := customer.NewAddress(cust.ID, "Rua das Flores", "12", "", "Centro", "Campinas", "SP", "", true)
	require.NoError(t, customers.AddAddress(context.Background(), addr))

	p := product.NewProduct("Banana Prata", types.NewMoney(5.99), "kg", types.NewQuantityFromFloat64(10))
	require.NoError(t, products.Create(context.Background(), p))

	svc := NewService(sales, customers, products, stock.NewService(stockRepo), numbers, fakeTxManager{})

	return &saleFixture{
		svc:        svc,
		sales:      sales,
		customers:  customers,
		products:   products,
		stockRepo:  stockRepo,
		numbers:    numbers,
		customerID: cust.ID,
		addressID:  addr.ID,
		productID:  p.ID,
	}
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path decrements stock and snapshots price", func(t *testing.T) {
		fx := newSaleFixture(t)

		doc, err := fx.svc.Create(ctx, CreateInput{
			CustomerID: fx.customerID,
			Items: []ItemInput{
				{ProductID: fx.productID, Quantity: types.NewQuantityFromFloat64(2)},
			},
			Discount: types.ZeroMoney(),
		})

		require.NoError(t, err)
		assert.Equal(t, StatusPending, doc.Status)
		assert.NotEmpty(t, doc.Number)
		require.Len(t, doc.Items, 1)
		assert.Equal(t, "Banana Prata", doc.Items[0].ProductName)
		assert.Equal(t, "11.98", doc.Total.StringFixed(2))

		// Principal address resolved implicitly.
		require.NotNil(t, doc.AddressID)
		assert.Equal(t, fx.addressID, *doc.AddressID)

		p, err := fx.products.GetByID(ctx, fx.productID)
		require.NoError(t, err)
		assert.Equal(t, types.NewQuantityFromFloat64(8), p.CurrentStock())

		assert.Equal(t, []stock.Kind{stock.KindOut}, fx.stockRepo.kinds(fx.productID))
	})

	t.Run("insufficient stock rejects the whole sale", func(t *testing.T) {
		fx := newSaleFixture(t)

		_, err := fx.svc.Create(ctx, CreateInput{
			CustomerID: fx.customerID,
			Items: []ItemInput{
				{ProductID: fx.productID, Quantity: types.NewQuantityFromFloat64(11)},
			},
		})

		require.Error(t, err)
		assert.True(t, apperror.IsInsufficientStock(err))
		assert.Empty(t, fx.sales.byID)
	})

	t.Run("unknown customer", func(t *testing.T) {
		fx := newSaleFixture(t)

		_, err := fx.svc.Create(ctx, CreateInput{
			CustomerID: id.New(),
			Items: []ItemInput{
				{ProductID: fx.productID, Quantity: types.NewQuantityFromFloat64(1)},
			},
		})

		require.Error(t, err)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("address of another customer rejected", func(t *testing.T) {
		fx := newSaleFixture(t)

		other := customer.NewCustomer("Seu João")
		require.NoError(t, fx.customers.Create(ctx, other))
		otherAddr := customer.NewAddress(other.ID, "Av. Brasil", "800", "", "", "Campinas", "SP", "", false)
		require.NoError(t, fx.customers.AddAddress(ctx, otherAddr))

		_, err := fx.svc.Create(ctx, CreateInput{
			CustomerID: fx.customerID,
			AddressID:  &otherAddr.ID,
			Items: []ItemInput{
				{ProductID: fx.productID, Quantity: types.NewQuantityFromFloat64(1)},
			},
		})

		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})

	t.Run("no items rejected before any lookup", func(t *testing.T) {
		fx := newSaleFixture(t)

		_, err := fx.svc.Create(ctx, CreateInput{CustomerID: fx.customerID})

		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})

	t.Run("number collision retries with a fresh number", func(t *testing.T) {
		fx := newSaleFixture(t)
		fx.numbers.queue = []string{"VND-TAKEN", "VND-FREE"}

		taken := NewSale(fx.customerID, nil)
		taken.Number = "VND-TAKEN"
		taken.AddItem(fx.productID, "Banana Prata", types.NewMoney(5.99), types.NewQuantityFromFloat64(1))
		require.NoError(t, fx.sales.Create(ctx, taken))

		doc, err := fx.svc.Create(ctx, CreateInput{
			CustomerID: fx.customerID,
			Items: []ItemInput{
				{ProductID: fx.productID, Quantity: types.NewQuantityFromFloat64(1)},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "VND-FREE", doc.Number)
		assert.Equal(t, 2, fx.numbers.calls)
	})

	t.Run("exhausted retries surface a conflict", func(t *testing.T) {
		fx := newSaleFixture(t)
		fx.numbers.queue = []string{"VND-TAKEN"}

		taken := NewSale(fx.customerID, nil)
		taken.Number = "VND-TAKEN"
		taken.AddItem(fx.productID, "Banana Prata", types.NewMoney(5.99), types.NewQuantityFromFloat64(1))
		require.NoError(t, fx.sales.Create(ctx, taken))

		_, err := fx.svc.Create(ctx, CreateInput{
			CustomerID: fx.customerID,
			Items: []ItemInput{
				{ProductID: fx.productID, Quantity: types.NewQuantityFromFloat64(1)},
			},
		})

		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeConflict, appErr.Code)
		assert.Equal(t, numberAttempts, fx.numbers.calls)
	})
}

func TestServiceFinalize(t *testing.T) {
	ctx := context.Background()

	t.Run("pending sale finalizes with payment method", func(t *testing.T) {
		fx := newSaleFixture(t)
		doc := createSale(t, fx, 2)

		finalized, err := fx.svc.Finalize(ctx, doc.ID, "pix")

		require.NoError(t, err)
		assert.Equal(t, StatusFinalized, finalized.Status)
		assert.Equal(t, "pix", finalized.PaymentMethod)
	})

	t.Run("by number", func(t *testing.T) {
		fx := newSaleFixture(t)
		doc := createSale(t, fx, 2)

		finalized, err := fx.svc.FinalizeByNumber(ctx, doc.Number, "cash")

		require.NoError(t, err)
		assert.Equal(t, StatusFinalized, finalized.Status)
	})

	t.Run("finalized sale keeps stock issued", func(t *testing.T) {
		fx := newSaleFixture(t)
		doc := createSale(t, fx, 2)

		_, err := fx.svc.Finalize(ctx, doc.ID, "pix")
		require.NoError(t, err)

		p, err := fx.products.GetByID(ctx, fx.productID)
		require.NoError(t, err)
		assert.Equal(t, types.NewQuantityFromFloat64(8), p.CurrentStock())
	})

	t.Run("missing sale", func(t *testing.T) {
		fx := newSaleFixture(t)

		_, err := fx.svc.Finalize(ctx, id.New(), "pix")

		require.Error(t, err)
		assert.True(t, apperror.IsNotFound(err))
	})
}

func TestServiceCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel restores stock with compensating movements", func(t *testing.T) {
		fx := newSaleFixture(t)
		doc := createSale(t, fx, 3)

		cancelled, err := fx.svc.Cancel(ctx, doc.ID)

		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, cancelled.Status)

		p, err := fx.products.GetByID(ctx, fx.productID)
		require.NoError(t, err)
		assert.Equal(t, types.NewQuantityFromFloat64(10), p.CurrentStock())

		// The outbound movement stays; a compensating inbound joins it.
		assert.Equal(t, []stock.Kind{stock.KindOut, stock.KindIn}, fx.stockRepo.kinds(fx.productID))
	})

	t.Run("finalized sale cannot be cancelled", func(t *testing.T) {
		fx := newSaleFixture(t)
		doc := createSale(t, fx, 2)
		_, err := fx.svc.Finalize(ctx, doc.ID, "pix")
		require.NoError(t, err)

		_, err = fx.svc.Cancel(ctx, doc.ID)

		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeInvalidStateTransition, appErr.Code)

		p, perr := fx.products.GetByID(ctx, fx.productID)
		require.NoError(t, perr)
		assert.Equal(t, types.NewQuantityFromFloat64(8), p.CurrentStock())
	})
}

func TestServiceListByStatus(t *testing.T) {
	ctx := context.Background()
	fx := newSaleFixture(t)
	createSale(t, fx, 1)

	_, _, err := fx.svc.ListByStatus(ctx, Status("shipped"), DefaultListFilter())
	require.Error(t, err)

	docs, total, err := fx.svc.ListByStatus(ctx, StatusPending, DefaultListFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, docs, 1)
}

func TestServiceRevenueByPeriod(t *testing.T) {
	ctx := context.Background()
	fx := newSaleFixture(t)

	doc := createSale(t, fx, 2)
	_, err := fx.svc.Finalize(ctx, doc.ID, "pix")
	require.NoError(t, err)

	from := time.Now().Add(-time.Hour)
	to := time.Now().Add(time.Hour)

	stats, err := fx.svc.RevenueByPeriod(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.SalesCount)
	assert.Equal(t, "11.98", stats.Revenue.StringFixed(2))

	_, err = fx.svc.RevenueByPeriod(ctx, to, from)
	require.Error(t, err)
}

func createSale(t *testing.T, fx *saleFixture, qty float64) *Sale {
	t.Helper()
	doc, err := fx.svc.Create(context.Background(), CreateInput{
		CustomerID: fx.customerID,
		Items: []ItemInput{
			{ProductID: fx.productID, Quantity: types.NewQuantityFromFloat64(qty)},
		},
	})
	require.NoError(t, err)
	return doc
}
