package stock

import (
	"context"
	"fmt"

	"quitanda/internal/core/id"
	"quitanda/internal/core/types"
	"quitanda/pkg/logger"
)

// Service provides operations on the stock movement register.
// Transaction scope is managed by the caller (the sale workflow and
// the product service record movements inside their own transactions).
type Service struct {
	repo Repository
}

// NewService creates a new stock register service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record appends a movement to the register.
func (s *Service) Record(ctx context.Context, productID id.ID, kind Kind, qty types.Quantity) (*Movement, error) {
	m := NewMovement(productID, kind, qty)
	if err := m.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.repo.Append(ctx, m); err != nil {
		return nil, fmt.Errorf("append movement: %w", err)
	}

	logger.Debug(ctx, "stock movement recorded",
		"product_id", productID,
		"kind", kind,
		"quantity", qty,
	)

	return m, nil
}

// History returns the movement log for a product, newest first.
func (s *Service) History(ctx context.Context, productID id.ID, filter MovementFilter) ([]*Movement, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.ListByProduct(ctx, productID, filter)
}
