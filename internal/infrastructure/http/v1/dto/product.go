package dto

import (
	"time"

	"quitanda/internal/core/types"
	"quitanda/internal/domain/catalogs/product"
	"quitanda/internal/domain/registers/stock"
)

// --- Request DTOs ---

// CreateProductRequest for product creation.
type CreateProductRequest struct {
	Name         string  `json:"name" binding:"required"`
	Price        float64 `json:"price" binding:"required,gt=0"`
	Packaging    string  `json:"packaging,omitempty"`
	InitialStock float64 `json:"initialStock" binding:"gte=0"`
}

// UpdateProductRequest for product updates. Stock counters are not part of
// the payload: stock only changes through movements.
type UpdateProductRequest struct {
	Name      string  `json:"name" binding:"required"`
	Price     float64 `json:"price" binding:"required,gt=0"`
	Packaging string  `json:"packaging,omitempty"`
}

// StockMovementRequest for manual stock adjustments.
type StockMovementRequest struct {
	Kind     string  `json:"kind" binding:"required,oneof=in out"`
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
}

// --- Response DTOs ---

// ProductResponse represents a product in API responses.
type ProductResponse struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Price        types.Money `json:"price"`
	Packaging    string      `json:"packaging"`
	InitialStock float64     `json:"initialStock"`
	TotalIn      float64     `json:"totalIn"`
	TotalOut     float64     `json:"totalOut"`
	CurrentStock float64     `json:"currentStock"`
	LowStock     bool        `json:"lowStock"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// FromProduct creates response from domain product.
func FromProduct(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:           p.ID.String(),
		Name:         p.Name,
		Price:        p.Price,
		Packaging:    p.Packaging,
		InitialStock: p.InitialStock.Float64(),
		TotalIn:      p.TotalIn.Float64(),
		TotalOut:     p.TotalOut.Float64(),
		CurrentStock: p.CurrentStock().Float64(),
		LowStock:     p.IsLowStock(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// FromProducts maps a product slice.
func FromProducts(products []*product.Product) []*ProductResponse {
	out := make([]*ProductResponse, len(products))
	for i, p := range products {
		out[i] = FromProduct(p)
	}
	return out
}

// MovementResponse represents a stock movement in API responses.
type MovementResponse struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"productId"`
	Kind       string    `json:"kind"`
	Quantity   float64   `json:"quantity"`
	OccurredAt time.Time `json:"occurredAt"`
}

// FromMovement creates response from a domain movement.
func FromMovement(m *stock.Movement) *MovementResponse {
	return &MovementResponse{
		ID:         m.ID.String(),
		ProductID:  m.ProductID.String(),
		Kind:       string(m.Kind),
		Quantity:   m.Quantity.Float64(),
		OccurredAt: m.OccurredAt,
	}
}

// FromMovements maps a movement slice.
func FromMovements(movements []*stock.Movement) []*MovementResponse {
	out := make([]*MovementResponse, len(movements))
	for i, m := range movements {
		out[i] = FromMovement(m)
	}
	return out
}
