package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"quitanda/internal/core/apperror"
	"quitanda/internal/core/id"
	"quitanda/internal/core/types"
	"quitanda/internal/domain/catalogs/product"
	"quitanda/internal/infrastructure/storage/postgres"
)

const productsTable = "products"

// currentStockExpr computes the live stock from the cumulative counters.
const currentStockExpr = "(initial_stock + total_in - total_out)"

// ProductRepo implements product.Repository.
type ProductRepo struct {
	baseRepo
	cols []string
}

// NewProductRepo creates a new product repository.
func NewProductRepo(tx *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		baseRepo: baseRepo{tx: tx},
		cols:     postgres.ExtractDBColumns[product.Product](),
	}
}

func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	data := postgres.StructToMap(p)

	q := r.Builder().
		Insert(productsTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("product", "name", p.Name)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	q := r.Builder().
		Select(r.cols...).
		From(productsTable).
		Where(squirrel.Eq{"id": productID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	if err := pgxscan.Get(ctx, r.querier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID.String())
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Update persists name, price and packaging. The stock counters are excluded
// from SET: they only move through AddStockIn, IssueStock and RestoreStock.
func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	q := r.Builder().
		Update(productsTable).
		Set("name", p.Name).
		Set("price", p.Price).
		Set("packaging", p.Packaging).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": p.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", p.ID.String())
	}
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, productID id.ID) error {
	q := r.Builder().
		Delete(productsTable).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewConflict("product is referenced by sales or stock movements").
				WithDetail("id", productID.String()).
				WithCause(err)
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID.String())
	}
	return nil
}

func (r *ProductRepo) List(ctx context.Context, filter product.ListFilter) ([]*product.Product, int64, error) {
	q := r.Builder().
		Select(r.cols...).
		From(productsTable)

	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"name": "%" + filter.Search + "%"})
	}
	if filter.LowStockOnly {
		q = q.Where(squirrel.Expr(currentStockExpr+" < ?", product.LowStockThreshold.Int64Scaled()))
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	querier := r.querier(ctx)
	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	orderBy, err := postgres.ParseOrderBy(filter.OrderBy, "name ASC", map[string]struct{}{
		"name":       {},
		"price":      {},
		"created_at": {},
		"updated_at": {},
	})
	if err != nil {
		return nil, 0, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var products []*product.Product
	if err := pgxscan.Select(ctx, querier, &products, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

func (r *ProductRepo) AddStockIn(ctx context.Context, productID id.ID, qty types.Quantity) error {
	q := r.Builder().
		Update(productsTable).
		Set("total_in", squirrel.Expr("total_in + ?", qty)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("add stock: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID.String())
	}
	return nil
}

// IssueStock decrements stock with the availability check in the same
// statement, so two concurrent sales cannot both take the last units. It
// returns false when the product exists but cannot cover the quantity.
func (r *ProductRepo) IssueStock(ctx context.Context, productID id.ID, qty types.Quantity) (bool, error) {
	q := r.Builder().
		Update(productsTable).
		Set("total_out", squirrel.Expr("total_out + ?", qty)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": productID}).
		Where(squirrel.Expr(currentStockExpr+" >= ?", qty))

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("issue stock: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// RestoreStock reverses a previous issue by decrementing the cumulative-out
// counter. Used when a sale is cancelled; total_in stays pure receipts.
func (r *ProductRepo) RestoreStock(ctx context.Context, productID id.ID, qty types.Quantity) error {
	q := r.Builder().
		Update(productsTable).
		Set("total_out", squirrel.Expr("total_out - ?", qty)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("restore stock: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID.String())
	}
	return nil
}

func (r *ProductRepo) Stats(ctx context.Context) (*product.Stats, error) {
	sql := fmt.Sprintf(`
		SELECT
			COUNT(*) AS total_products,
			COUNT(*) FILTER (WHERE %s < $1) AS low_stock_count,
			COALESCE(SUM(%s::numeric / $2 * price), 0) AS stock_value
		FROM %s
	`, currentStockExpr, currentStockExpr, productsTable)

	var stats product.Stats
	err := pgxscan.Get(ctx, r.querier(ctx), &stats, sql,
		product.LowStockThreshold.Int64Scaled(), types.QuantityScale)
	if err != nil {
		return nil, fmt.Errorf("product stats: %w", err)
	}
	return &stats, nil
}
