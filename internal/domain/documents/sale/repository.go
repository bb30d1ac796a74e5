package sale

import (
	"context"
	"time"

	"quitanda/internal/core/id"
	"quitanda/internal/core/types"
)

// ListFilter narrows sale listings.
type ListFilter struct {
	CustomerID *id.ID
	Status     *Status
	FromDate   *time.Time
	ToDate     *time.Time
	OrderBy    string
	Limit      int
	Offset     int
}

// DefaultListFilter returns a filter with sane defaults, newest first.
func DefaultListFilter() ListFilter {
	return ListFilter{
		OrderBy: "created_at DESC",
		Limit:   50,
	}
}

// Repository defines persistence for sales and their items.
type Repository interface {
	// Create inserts the sale and its items.
	Create(ctx context.Context, s *Sale) error
	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)
	GetByNumber(ctx context.Context, number string) (*Sale, error)
	// Update persists header changes (status, discount, payment method,
	// timestamps). Items are immutable after creation.
	Update(ctx context.Context, s *Sale) error
	List(ctx context.Context, filter ListFilter) ([]*Sale, int64, error)
	// CountByStatus returns the number of sales per status.
	CountByStatus(ctx context.Context) (map[Status]int64, error)
	// RevenueByPeriod sums the totals of finalized sales in [from, to).
	RevenueByPeriod(ctx context.Context, from, to time.Time) (RevenueStats, error)
}

// RevenueStats aggregates finalized sales over a period.
type RevenueStats struct {
	SalesCount int64       `db:"sales_count"`
	Revenue    types.Money `db:"revenue"`
}
