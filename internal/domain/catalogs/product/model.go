// Package product provides the Product catalog.
// Stock is derived from cumulative counters, never stored directly:
// current = initial + in - out. The counters move only through stock
// operations so the movement log stays consistent with them.
package product

import (
	"context"
	"time"

	"quitanda/internal/core/apperror"
	"quitanda/internal/core/id"
	"quitanda/internal/core/types"
)

// LowStockThreshold is the quantity below which a product is flagged
// for restocking.
var LowStockThreshold = types.NewQuantityFromFloat64(10)

// DefaultPackaging mirrors the most common tray size sold.
const DefaultPackaging = "Band. 200g"

// Product represents a catalog item with cumulative stock counters.
type Product struct {
	ID        id.ID          `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	Price     types.Money    `db:"price" json:"price"`
	Packaging string         `db:"packaging" json:"packaging,omitempty"`

	InitialStock types.Quantity `db:"initial_stock" json:"initialStock"`
	TotalIn      types.Quantity `db:"total_in" json:"totalIn"`
	TotalOut     types.Quantity `db:"total_out" json:"totalOut"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewProduct creates a new product. The cumulative counters start at zero;
// the opening balance lives in InitialStock.
func NewProduct(name string, price types.Money, packaging string, initialStock types.Quantity) *Product {
	if packaging == "" {
		packaging = DefaultPackaging
	}
	now := time.Now()
	return &Product{
		ID:           id.New(),
		Name:         name,
		Price:        price,
		Packaging:    packaging,
		InitialStock: initialStock,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// CurrentStock returns the derived stock level.
func (p *Product) CurrentStock() types.Quantity {
	return p.InitialStock + p.TotalIn - p.TotalOut
}

// IsLowStock reports whether the product needs restocking.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock() < LowStockThreshold
}

// StockValue returns current stock × unit price.
func (p *Product) StockValue() types.Money {
	return p.CurrentStock().Decimal().Mul(p.Price)
}

// Validate checks required fields and value ranges.
func (p *Product) Validate(ctx context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("product name is required").
			WithDetail("field", "name")
	}
	if !p.Price.IsPositive() {
		return apperror.NewValidation("product price must be positive").
			WithDetail("field", "price")
	}
	if p.InitialStock.IsNegative() {
		return apperror.NewValidation("initial stock cannot be negative").
			WithDetail("field", "initialStock")
	}
	return nil
}
