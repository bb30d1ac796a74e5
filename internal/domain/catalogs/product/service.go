package product

import (
	"context"
	"fmt"

	"quitanda/internal/core/apperror"
	"quitanda/internal/core/id"
	"quitanda/internal/core/tx"
	"quitanda/internal/core/types"
	"quitanda/internal/domain/registers/stock"
	"quitanda/pkg/logger"
)

// UpdateInput carries the mutable product attributes. Stock counters are
// never updated directly; they only move through stock movements.
type UpdateInput struct {
	Name      string
	Price     types.Money
	Packaging string
}

// Service provides product catalog operations.
type Service struct {
	repo      Repository
	movements *stock.Service
	txManager tx.Manager
}

// NewService creates a new product service.
func NewService(repo Repository, movements *stock.Service, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		movements: movements,
		txManager: txManager,
	}
}

// Create registers a new product. When the initial stock is positive an
// "initial" movement is appended so the register reflects the opening balance.
func (s *Service) Create(ctx context.Context, name string, price types.Money, packaging string, initialStock types.Quantity) (*Product, error) {
	p := NewProduct(name, price, packaging, initialStock)
	if err := p.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, p); err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		if initialStock.IsPositive() {
			if _, err := s.movements.Record(ctx, p.ID, stock.KindInitial, initialStock); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "product created", "product_id", p.ID, "name", p.Name)
	return p, nil
}

// GetByID returns a product by its identifier.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// Update changes name, price and packaging. The stock counters of the stored
// product are preserved: updating a product never alters its stock.
func (s *Service) Update(ctx context.Context, productID id.ID, input UpdateInput) (*Product, error) {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	p.Name = input.Name
	p.Price = input.Price
	p.Packaging = input.Packaging
	if p.Packaging == "" {
		p.Packaging = DefaultPackaging
	}

	if err := p.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	logger.Info(ctx, "product updated", "product_id", p.ID)
	return p, nil
}

// Delete removes a product from the catalog.
func (s *Service) Delete(ctx context.Context, productID id.ID) error {
	if err := s.repo.Delete(ctx, productID); err != nil {
		return err
	}
	logger.Info(ctx, "product deleted", "product_id", productID)
	return nil
}

// List returns products matching the filter plus the total count.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Product, int64, error) {
	return s.repo.List(ctx, filter)
}

// ListLowStock returns products whose current stock is below the threshold.
func (s *Service) ListLowStock(ctx context.Context) ([]*Product, error) {
	filter := DefaultListFilter()
	filter.LowStockOnly = true
	filter.Limit = 500
	products, _, err := s.repo.List(ctx, filter)
	return products, err
}

// RegisterMovement applies a manual stock adjustment and appends it to the
// movement register inside a single transaction. Outbound movements fail with
// an insufficient stock error when the product cannot cover the quantity.
func (s *Service) RegisterMovement(ctx context.Context, productID id.ID, kind stock.Kind, qty types.Quantity) (*stock.Movement, error) {
	if !kind.Valid() || kind == stock.KindInitial {
		return nil, apperror.NewValidation("movement kind must be in or out")
	}
	if !qty.IsPositive() {
		return nil, apperror.NewValidation("movement quantity must be positive")
	}

	var movement *stock.Movement
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.repo.GetByID(ctx, productID)
		if err != nil {
			return err
		}

		switch kind {
		case stock.KindIn:
			if err := s.repo.AddStockIn(ctx, productID, qty); err != nil {
				return fmt.Errorf("add stock: %w", err)
			}
		case stock.KindOut:
			ok, err := s.repo.IssueStock(ctx, productID, qty)
			if err != nil {
				return fmt.Errorf("issue stock: %w", err)
			}
			if !ok {
				return apperror.NewInsufficientStock(p.Name, qty, p.CurrentStock())
			}
		}

		movement, err = s.movements.Record(ctx, productID, kind, qty)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "manual stock movement applied",
		"product_id", productID,
		"kind", kind,
		"quantity", qty,
	)
	return movement, nil
}

// Movements returns the movement log for a product.
func (s *Service) Movements(ctx context.Context, productID id.ID, filter stock.MovementFilter) ([]*stock.Movement, error) {
	if _, err := s.repo.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.movements.History(ctx, productID, filter)
}

// Stats returns catalog aggregates for the dashboard.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}
