package customer

import (
	"context"

	"quitanda/internal/core/id"
)

// ListFilter narrows customer listings.
type ListFilter struct {
	Search  string
	OrderBy string
	Limit   int
	Offset  int
}

// DefaultListFilter returns a filter with sane defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{
		OrderBy: "name ASC",
		Limit:   50,
	}
}

// Repository defines persistence for customers and their addresses.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, customerID id.ID) (*Customer, error)
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, customerID id.ID) error
	List(ctx context.Context, filter ListFilter) ([]*Customer, int64, error)

	AddAddress(ctx context.Context, a *Address) error
	GetAddress(ctx context.Context, addressID id.ID) (*Address, error)
	// ListAddresses returns the customer's addresses, principal first.
	ListAddresses(ctx context.Context, customerID id.ID) ([]*Address, error)
	// ClearPrincipal unsets the principal flag on all addresses of a customer.
	ClearPrincipal(ctx context.Context, customerID id.ID) error
	// SetPrincipal flags a single address as principal.
	SetPrincipal(ctx context.Context, addressID id.ID) error
	DeleteAddress(ctx context.Context, addressID id.ID) error
}
