package sale

import (
	"context"
	"strings"
	"time"

	"quitanda/internal/core/apperror"
	"quitanda/internal/core/id"
	"quitanda/internal/core/types"
)

// Status is the lifecycle state of a sale.
type Status string

const (
	StatusPending   Status = "pending"
	StatusFinalized Status = "finalized"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether the status is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusFinalized, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusFinalized || s == StatusCancelled
}

// Sale is a sales document. It is created pending, holding a snapshot of the
// prices at the time of creation, and moves to exactly one terminal state.
type Sale struct {
	ID            id.ID       `db:"id" json:"id"`
	Number        string      `db:"number" json:"number"`
	CustomerID    id.ID       `db:"customer_id" json:"customerId"`
	AddressID     *id.ID      `db:"address_id" json:"addressId,omitempty"`
	Status        Status      `db:"status" json:"status"`
	Discount      types.Money `db:"discount" json:"discount"`
	Total         types.Money `db:"total" json:"total"`
	PaymentMethod string      `db:"payment_method" json:"paymentMethod,omitempty"`
	Notes         string      `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updatedAt"`
	FinalizedAt   *time.Time  `db:"finalized_at" json:"finalizedAt,omitempty"`
	CancelledAt   *time.Time  `db:"cancelled_at" json:"cancelledAt,omitempty"`

	Items []*Item `db:"-" json:"items,omitempty"`
}

// Item is a sale line. ProductName and UnitPrice are snapshots taken when the
// sale is created; later catalog changes do not affect existing sales.
// TotalItem always mirrors Subtotal, the storage schema requires both.
type Item struct {
	ID          id.ID          `db:"id" json:"id"`
	SaleID      id.ID          `db:"sale_id" json:"saleId"`
	ProductID   id.ID          `db:"product_id" json:"productId"`
	ProductName string         `db:"product_name" json:"productName"`
	UnitPrice   types.Money    `db:"unit_price" json:"unitPrice"`
	Quantity    types.Quantity `db:"quantity" json:"quantity"`
	Subtotal    types.Money    `db:"subtotal" json:"subtotal"`
	TotalItem   types.Money    `db:"total_item" json:"totalItem"`
}

// NewSale creates a pending sale for a customer.
func NewSale(customerID id.ID, addressID *id.ID) *Sale {
	now := time.Now().UTC()
	return &Sale{
		ID:         id.New(),
		CustomerID: customerID,
		AddressID:  addressID,
		Status:     StatusPending,
		Discount:   types.ZeroMoney(),
		Total:      types.ZeroMoney(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// AddItem appends a line, computing its subtotal from the price snapshot.
func (s *Sale) AddItem(productID id.ID, productName string, unitPrice types.Money, qty types.Quantity) *Item {
	subtotal := unitPrice.Mul(qty.Decimal())
	item := &Item{
		ID:          id.New(),
		SaleID:      s.ID,
		ProductID:   productID,
		ProductName: productName,
		UnitPrice:   unitPrice,
		Quantity:    qty,
		Subtotal:    subtotal,
		TotalItem:   subtotal,
	}
	s.Items = append(s.Items, item)
	return item
}

// Subtotal is the sum of the line subtotals before discount.
func (s *Sale) Subtotal() types.Money {
	sum := types.ZeroMoney()
	for _, item := range s.Items {
		sum = sum.Add(item.Subtotal)
	}
	return sum
}

// ApplyDiscount sets the discount and recomputes the total. The discount may
// not be negative nor exceed the subtotal.
func (s *Sale) ApplyDiscount(discount types.Money) error {
	if discount.IsNegative() {
		return apperror.NewValidation("discount cannot be negative")
	}
	subtotal := s.Subtotal()
	if discount.GreaterThan(subtotal) {
		return apperror.NewValidation("discount cannot exceed the sale subtotal")
	}
	s.Discount = discount
	s.Total = subtotal.Sub(discount)
	return nil
}

// RecalculateTotal recomputes the total from the items and current discount.
func (s *Sale) RecalculateTotal() {
	s.Total = s.Subtotal().Sub(s.Discount)
}

// Finalize moves a pending sale to finalized, recording the payment method.
func (s *Sale) Finalize(paymentMethod string) error {
	if s.Status != StatusPending {
		return apperror.NewInvalidStateTransition("only pending sales can be finalized")
	}
	if strings.TrimSpace(paymentMethod) == "" {
		return apperror.NewValidation("payment method is required")
	}
	now := time.Now().UTC()
	s.Status = StatusFinalized
	s.PaymentMethod = paymentMethod
	s.FinalizedAt = &now
	s.UpdatedAt = now
	return nil
}

// Cancel moves a pending sale to cancelled.
func (s *Sale) Cancel() error {
	if s.Status != StatusPending {
		return apperror.NewInvalidStateTransition("only pending sales can be cancelled")
	}
	now := time.Now().UTC()
	s.Status = StatusCancelled
	s.CancelledAt = &now
	s.UpdatedAt = now
	return nil
}

// Validate checks document invariants.
func (s *Sale) Validate(_ context.Context) error {
	if id.IsNil(s.CustomerID) {
		return apperror.NewValidation("sale customer is required")
	}
	if len(s.Items) == 0 {
		return apperror.NewValidation("sale must have at least one item")
	}
	if !s.Status.Valid() {
		return apperror.NewValidation("invalid sale status")
	}
	for _, item := range s.Items {
		if !item.Quantity.IsPositive() {
			return apperror.NewValidation("item quantity must be positive")
		}
	}
	return nil
}
