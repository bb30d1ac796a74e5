package product

import (
	"context"

	"quitanda/internal/core/id"
	"quitanda/internal/core/types"
)

// ListFilter contains filtering options for product listings.
type ListFilter struct {
	// Search matches product names (case-insensitive substring)
	Search string

	// LowStockOnly restricts to products below the restock threshold
	LowStockOnly bool

	// OrderBy specifies sorting (default "name")
	OrderBy string

	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   50,
		OrderBy: "name",
	}
}

// Stats holds catalog-wide aggregates for the dashboard.
type Stats struct {
	TotalProducts int64       `db:"total_products" json:"totalProducts"`
	LowStockCount int64       `db:"low_stock_count" json:"lowStockCount"`
	StockValue    types.Money `db:"stock_value" json:"stockValue"`
}

// Repository defines the interface for Product persistence.
//
// The counter mutators use atomic SQL arithmetic (counter = counter ± q)
// so concurrent movements never lose updates. IssueStock additionally
// guards the decrement with a current-stock check in the same statement,
// which is what prevents overselling under concurrent sales.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, productID id.ID) (*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, productID id.ID) error
	List(ctx context.Context, filter ListFilter) ([]*Product, int64, error)

	// AddStockIn bumps the cumulative-in counter.
	AddStockIn(ctx context.Context, productID id.ID, qty types.Quantity) error

	// IssueStock bumps the cumulative-out counter only if current
	// stock covers qty. Returns false when stock is insufficient.
	IssueStock(ctx context.Context, productID id.ID, qty types.Quantity) (bool, error)

	// RestoreStock reverses a previous issue (counter-out -= qty).
	RestoreStock(ctx context.Context, productID id.ID, qty types.Quantity) error

	// Stats computes catalog aggregates.
	Stats(ctx context.Context) (*Stats, error)
}
