package stock

import (
	"context"
	"time"

	"quitanda/internal/core/id"
)

// MovementFilter narrows movement history queries.
type MovementFilter struct {
	Kind     *Kind
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}

// Repository defines operations for the stock movement register.
// The register is append-only: there are no update or delete operations.
type Repository interface {
	// Append inserts a movement row.
	Append(ctx context.Context, m *Movement) error

	// ListByProduct returns movement history for a product, newest first.
	ListByProduct(ctx context.Context, productID id.ID, filter MovementFilter) ([]*Movement, error)
}
