// Package document_repo provides PostgreSQL implementations for document repositories.
package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"quitanda/internal/core/apperror"
	"quitanda/internal/core/id"
	"quitanda/internal/domain/documents/sale"
	"quitanda/internal/infrastructure/storage/postgres"
)

const (
	salesTable     = "sales"
	saleItemsTable = "sale_items"
)

// SaleRepo implements sale.Repository.
type SaleRepo struct {
	tx       *postgres.TxManager
	cols     []string
	itemCols []string
}

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(tx *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		tx:       tx,
		cols:     postgres.ExtractDBColumns[sale.Sale](),
		itemCols: postgres.ExtractDBColumns[sale.Item](),
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *SaleRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *SaleRepo) querier(ctx context.Context) postgres.Querier {
	return r.tx.GetQuerier(ctx)
}

// Create inserts the sale header and its items. Callers run it inside a
// transaction so a failed item insert rolls the header back too.
func (r *SaleRepo) Create(ctx context.Context, s *sale.Sale) error {
	data := postgres.StructToMap(s)

	q := r.Builder().
		Insert(salesTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.querier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("sale", "number", s.Number)
		}
		return fmt.Errorf("insert sale: %w", err)
	}

	if len(s.Items) == 0 {
		return nil
	}

	itemQ := r.Builder().
		Insert(saleItemsTable).
		Columns(r.itemCols...)
	for _, item := range s.Items {
		itemQ = itemQ.Values(
			item.ID, item.SaleID, item.ProductID, item.ProductName,
			item.UnitPrice, item.Quantity, item.Subtotal, item.TotalItem,
		)
	}

	itemSQL, itemArgs, err := itemQ.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}
	if _, err := querier.Exec(ctx, itemSQL, itemArgs...); err != nil {
		return fmt.Errorf("insert sale items: %w", err)
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, saleID id.ID) (*sale.Sale, error) {
	return r.getOne(ctx, squirrel.Eq{"id": saleID}, saleID.String())
}

func (r *SaleRepo) GetByNumber(ctx context.Context, number string) (*sale.Sale, error) {
	return r.getOne(ctx, squirrel.Eq{"number": number}, number)
}

func (r *SaleRepo) getOne(ctx context.Context, cond squirrel.Eq, ref string) (*sale.Sale, error) {
	q := r.Builder().
		Select(r.cols...).
		From(salesTable).
		Where(cond).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s sale.Sale
	querier := r.querier(ctx)
	if err := pgxscan.Get(ctx, querier, &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sale", ref)
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	items, err := r.getItems(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return &s, nil
}

func (r *SaleRepo) getItems(ctx context.Context, saleID id.ID) ([]*sale.Item, error) {
	q := r.Builder().
		Select(r.itemCols...).
		From(saleItemsTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		OrderBy("product_name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*sale.Item
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	return items, nil
}

// Update persists header changes. Items are immutable after creation.
func (r *SaleRepo) Update(ctx context.Context, s *sale.Sale) error {
	q := r.Builder().
		Update(salesTable).
		Set("status", s.Status).
		Set("discount", s.Discount).
		Set("total", s.Total).
		Set("payment_method", s.PaymentMethod).
		Set("notes", s.Notes).
		Set("finalized_at", s.FinalizedAt).
		Set("cancelled_at", s.CancelledAt).
		Set("updated_at", s.UpdatedAt).
		Where(squirrel.Eq{"id": s.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("sale", s.ID.String())
	}
	return nil
}

func (r *SaleRepo) List(ctx context.Context, filter sale.ListFilter) ([]*sale.Sale, int64, error) {
	q := r.Builder().
		Select(r.cols...).
		From(salesTable)

	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.Lt{"created_at": *filter.ToDate})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	querier := r.querier(ctx)
	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	orderBy, err := postgres.ParseOrderBy(filter.OrderBy, "created_at DESC", map[string]struct{}{
		"number":     {},
		"status":     {},
		"total":      {},
		"created_at": {},
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

	var sales []*sale.Sale
	if err := pgxscan.Select(ctx, querier, &sales, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	return sales, total, nil
}

func (r *SaleRepo) CountByStatus(ctx context.Context) (map[sale.Status]int64, error) {
	q := r.Builder().
		Select("status", "COUNT(*) AS count").
		From(salesTable).
		GroupBy("status")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.querier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[sale.Status]int64)
	for rows.Next() {
		var status sale.Status
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}
	return counts, nil
}

// RevenueByPeriod sums the totals of finalized sales created in [from, to).
func (r *SaleRepo) RevenueByPeriod(ctx context.Context, from, to time.Time) (sale.RevenueStats, error) {
	q := r.Builder().
		Select(
			"COUNT(*) AS sales_count",
			"COALESCE(SUM(total), 0) AS revenue",
		).
		From(salesTable).
		Where(squirrel.Eq{"status": sale.StatusFinalized}).
		Where(squirrel.GtOrEq{"created_at": from}).
		Where(squirrel.Lt{"created_at": to})

	sql, args, err := q.ToSql()
	if err != nil {
		return sale.RevenueStats{}, fmt.Errorf("build query: %w", err)
	}

	var stats sale.RevenueStats
	if err := pgxscan.Get(ctx, r.querier(ctx), &stats, sql, args...); err != nil {
		return sale.RevenueStats{}, fmt.Errorf("revenue by period: %w", err)
	}
	return stats, nil
}
