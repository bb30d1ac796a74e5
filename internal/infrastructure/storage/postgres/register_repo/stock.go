// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"quitanda/internal/core/id"
	"quitanda/internal/domain/registers/stock"
	"quitanda/internal/infrastructure/storage/postgres"
)

const movementsTable = "stock_movements"

// StockRepo implements stock.Repository. The register is append-only: there
// are no update or delete operations by design of the interface.
type StockRepo struct {
	tx   *postgres.TxManager
	cols []string
}

// NewStockRepo creates a new stock register repository.
func NewStockRepo(tx *postgres.TxManager) *StockRepo {
	return &StockRepo{
		tx:   tx,
		cols: postgres.ExtractDBColumns[stock.Movement](),
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *StockRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *StockRepo) Append(ctx context.Context, m *stock.Movement) error {
	data := postgres.StructToMap(m)

	q := r.Builder().
		Insert(movementsTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.tx.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

func (r *StockRepo) ListByProduct(ctx context.Context, productID id.ID, filter stock.MovementFilter) ([]*stock.Movement, error) {
	q := r.Builder().
		Select(r.cols...).
		From(movementsTable).
		Where(squirrel.Eq{"product_id": productID})

	if filter.Kind != nil {
		q = q.Where(squirrel.Eq{"kind": *filter.Kind})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"occurred_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.Lt{"occurred_at": *filter.ToDate})
	}

	q = q.OrderBy("occurred_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []*stock.Movement
	if err := pgxscan.Select(ctx, r.tx.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return movements, nil
}
