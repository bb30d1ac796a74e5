package dto

import (
	"time"

	"quitanda/internal/core/apperror"
	"quitanda/internal/core/id"
	"quitanda/internal/core/types"
	"quitanda/internal/domain/documents/sale"
)

// DefaultPaymentMethod is applied at the API edge when a finalize request
// carries no payment method, so the domain always receives an explicit one.
// TODO: revisit this implicit pix default; clients should be required to
// send the method explicitly.
const DefaultPaymentMethod = "pix"

// --- Request DTOs ---

// SaleItemRequest is one requested sale line.
type SaleItemRequest struct {
	ProductID string  `json:"productId" binding:"required,uuid"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
}

// CreateSaleRequest for sale creation.
type CreateSaleRequest struct {
	CustomerID string            `json:"customerId" binding:"required,uuid"`
	AddressID  string            `json:"addressId,omitempty" binding:"omitempty,uuid"`
	Items      []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
	Discount   float64           `json:"discount,omitempty" binding:"gte=0"`
	Notes      string            `json:"notes,omitempty"`
}

// ToInput converts to domain input.
func (r *CreateSaleRequest) ToInput() (sale.CreateInput, error) {
	customerID, err := id.Parse(r.CustomerID)
	if err != nil {
		return sale.CreateInput{}, apperror.NewValidation("invalid customer id")
	}

	input := sale.CreateInput{
		CustomerID: customerID,
		Discount:   types.NewMoney(r.Discount),
		Notes:      r.Notes,
	}

	if r.AddressID != "" {
		addressID, err := id.Parse(r.AddressID)
		if err != nil {
			return sale.CreateInput{}, apperror.NewValidation("invalid address id")
		}
		input.AddressID = &addressID
	}

	for _, item := range r.Items {
		productID, err := id.Parse(item.ProductID)
		if err != nil {
			return sale.CreateInput{}, apperror.NewValidation("invalid product id")
		}
		input.Items = append(input.Items, sale.ItemInput{
			ProductID: productID,
			Quantity:  types.NewQuantityFromFloat64(item.Quantity),
		})
	}

	return input, nil
}

// FinalizeSaleRequest for sale finalization.
type FinalizeSaleRequest struct {
	PaymentMethod string `json:"paymentMethod,omitempty" binding:"omitempty,oneof=pix cash card transfer"`
}

// Method returns the payment method, falling back to the default.
func (r *FinalizeSaleRequest) Method() string {
	if r.PaymentMethod == "" {
		return DefaultPaymentMethod
	}
	return r.PaymentMethod
}

// --- Response DTOs ---

// SaleItemResponse represents a sale line in API responses.
type SaleItemResponse struct {
	ID          string      `json:"id"`
	ProductID   string      `json:"productId"`
	ProductName string      `json:"productName"`
	UnitPrice   types.Money `json:"unitPrice"`
	Quantity    float64     `json:"quantity"`
	Subtotal    types.Money `json:"subtotal"`
}

// SaleResponse represents a sale in API responses.
type SaleResponse struct {
	ID            string              `json:"id"`
	Number        string              `json:"number"`
	CustomerID    string              `json:"customerId"`
	AddressID     string              `json:"addressId,omitempty"`
	Status        string              `json:"status"`
	Items         []*SaleItemResponse `json:"items,omitempty"`
	Subtotal      types.Money         `json:"subtotal"`
	Discount      types.Money         `json:"discount"`
	Total         types.Money         `json:"total"`
	PaymentMethod string              `json:"paymentMethod,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	FinalizedAt   *time.Time          `json:"finalizedAt,omitempty"`
	CancelledAt   *time.Time          `json:"cancelledAt,omitempty"`
}

// FromSale creates response from a domain sale. The subtotal is derived from
// the persisted totals rather than the items, which list queries do not load.
func FromSale(s *sale.Sale) *SaleResponse {
	resp := &SaleResponse{
		ID:            s.ID.String(),
		Number:        s.Number,
		CustomerID:    s.CustomerID.String(),
		Status:        string(s.Status),
		Subtotal:      s.Total.Add(s.Discount),
		Discount:      s.Discount,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt,
		FinalizedAt:   s.FinalizedAt,
		CancelledAt:   s.CancelledAt,
	}
	if s.AddressID != nil {
		resp.AddressID = s.AddressID.String()
	}
	for _, item := range s.Items {
		resp.Items = append(resp.Items, &SaleItemResponse{
			ID:          item.ID.String(),
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity.Float64(),
			Subtotal:    item.Subtotal,
		})
	}
	return resp
}

// FromSales maps a sale slice.
func FromSales(sales []*sale.Sale) []*SaleResponse {
	out := make([]*SaleResponse, len(sales))
	for i, s := range sales {
		out[i] = FromSale(s)
	}
	return out
}

// --- Dashboard ---

// DashboardResponse aggregates catalog and sales statistics.
type DashboardResponse struct {
	TotalProducts int64            `json:"totalProducts"`
	LowStockCount int64            `json:"lowStockCount"`
	StockValue    types.Money      `json:"stockValue"`
	SalesByStatus map[string]int64 `json:"salesByStatus"`
	PeriodRevenue types.Money      `json:"periodRevenue"`
	PeriodSales   int64            `json:"periodSales"`
	PeriodStart   time.Time        `json:"periodStart"`
	PeriodEnd     time.Time        `json:"periodEnd"`
}
