// Package stock provides the append-only stock movement register.
// Movements are the audit trail behind the product counters; they are
// never updated or deleted.
package stock

import (
	"context"
	"time"

	"quitanda/internal/core/apperror"
	"quitanda/internal/core/id"
	"quitanda/internal/core/types"
)

// Kind classifies a stock movement.
type Kind string

const (
	// KindIn records goods entering stock (purchase, sale cancellation)
	KindIn Kind = "in"

	// KindOut records goods leaving stock (sale, spoilage)
	KindOut Kind = "out"

	// KindInitial records the opening balance when a product is created
	KindInitial Kind = "initial"
)

// Valid reports whether k is a known movement kind.
func (k Kind) Valid() bool {
	switch k {
	case KindIn, KindOut, KindInitial:
		return true
	}
	return false
}

// Movement is one append-only stock register entry.
type Movement struct {
	ID         id.ID          `db:"id" json:"id"`
	ProductID  id.ID          `db:"product_id" json:"productId"`
	Kind       Kind           `db:"kind" json:"kind"`
	Quantity   types.Quantity `db:"quantity" json:"quantity"`
	OccurredAt time.Time      `db:"occurred_at" json:"occurredAt"`
}

// NewMovement creates a movement stamped with the current time.
func NewMovement(productID id.ID, kind Kind, qty types.Quantity) *Movement {
	return &Movement{
		ID:         id.New(),
		ProductID:  productID,
		Kind:       kind,
		Quantity:   qty,
		OccurredAt: time.Now(),
	}
}

// Validate checks the movement invariants.
func (m *Movement) Validate(ctx context.Context) error {
	if id.IsNil(m.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}
	if !m.Kind.Valid() {
		return apperror.NewValidation("invalid movement kind").
			WithDetail("field", "kind").
			WithDetail("value", string(m.Kind))
	}
	if !m.Quantity.IsPositive() {
		return apperror.NewValidation("movement quantity must be positive").
			WithDetail("field", "quantity")
	}
	return nil
}
