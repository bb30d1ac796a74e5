// Package catalog_repo provides PostgreSQL implementations for catalog repositories.
package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"quitanda/internal/infrastructure/storage/postgres"
)

// baseRepo carries the shared plumbing for catalog repositories. The
// transaction manager is injected, so queries join an ambient transaction
// when one is present in the context and run on the pool otherwise.
type baseRepo struct {
	tx *postgres.TxManager
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *baseRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *baseRepo) querier(ctx context.Context) postgres.Querier {
	return r.tx.GetQuerier(ctx)
}
