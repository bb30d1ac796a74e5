package sale

import (
	"context"
	"fmt"
	"time"

	"quitanda/internal/core/apperror"
	"quitanda/internal/core/id"
	"quitanda/internal/core/tx"
	"quitanda/internal/core/types"
	"quitanda/internal/domain/catalogs/customer"
	"quitanda/internal/domain/catalogs/product"
	"quitanda/internal/domain/registers/stock"
	"quitanda/pkg/logger"
)

// numberAttempts bounds the retries when a freshly generated sale number
// collides with an existing one.
const numberAttempts = 3

// NumberGenerator produces sale numbers.
type NumberGenerator interface {
	Next() (string, error)
}

// ItemInput is one requested sale line.
type ItemInput struct {
	ProductID id.ID
	Quantity  types.Quantity
}

// CreateInput carries everything needed to create a sale.
type CreateInput struct {
	CustomerID id.ID
	// AddressID is optional; when empty the customer's principal address
	// is used, and the sale carries no address if the customer has none.
	AddressID *id.ID
	Items     []ItemInput
	Discount  types.Money
	Notes     string
}

// Service implements the sale workflow: creation with stock reservation,
// finalization and cancellation with stock reversal. Every state-changing
// operation runs in a single transaction so the sale, the product counters
// and the movement register never drift apart.
type Service struct {
	sales     Repository
	customers customer.Repository
	products  product.Repository
	movements *stock.Service
	numbers   NumberGenerator
	txManager tx.Manager
}

// NewService creates a new sale service.
func NewService(
	sales Repository,
	customers customer.Repository,
	products product.Repository,
	movements *stock.Service,
	numbers NumberGenerator,
	txManager tx.Manager,
) *Service {
	return &Service{
		sales:     sales,
		customers: customers,
		products:  products,
		movements: movements,
		numbers:   numbers,
		txManager: txManager,
	}
}

// Create builds a pending sale. Inside one transaction it validates the
// customer and address, snapshots product names and prices into the items,
// decrements stock with a same-statement availability check, records an
// outbound movement per item and assigns a unique sale number.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Sale, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewValidation("sale must have at least one item")
	}
	for _, item := range input.Items {
		if !item.Quantity.IsPositive() {
			return nil, apperror.NewValidation("item quantity must be positive")
		}
	}

	var created *Sale
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		cust, err := s.customers.GetByID(ctx, input.CustomerID)
		if err != nil {
			return err
		}

		addressID, err := s.resolveAddress(ctx, cust.ID, input.AddressID)
		if err != nil {
			return err
		}

		doc := NewSale(cust.ID, addressID)
		doc.Notes = input.Notes

		for _, item := range input.Items {
			p, err := s.products.GetByID(ctx, item.ProductID)
			if err != nil {
				return err
			}

			ok, err := s.products.IssueStock(ctx, p.ID, item.Quantity)
			if err != nil {
				return fmt.Errorf("issue stock: %w", err)
			}
			if !ok {
				return apperror.NewInsufficientStock(p.Name, item.Quantity, p.CurrentStock())
			}

			if _, err := s.movements.Record(ctx, p.ID, stock.KindOut, item.Quantity); err != nil {
				return err
			}

			doc.AddItem(p.ID, p.Name, p.Price, item.Quantity)
		}

		if err := doc.ApplyDiscount(input.Discount); err != nil {
			return err
		}
		if err := doc.Validate(ctx); err != nil {
			return err
		}

		doc.Number, err = s.uniqueNumber(ctx)
		if err != nil {
			return err
		}

		if err := s.sales.Create(ctx, doc); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}

		created = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale created",
		"sale_id", created.ID,
		"number", created.Number,
		"customer_id", created.CustomerID,
		"total", created.Total,
	)
	return created, nil
}

// resolveAddress picks the sale's delivery address. An explicit address must
// belong to the customer; otherwise the principal address is used when the
// customer has one.
func (s *Service) resolveAddress(ctx context.Context, customerID id.ID, addressID *id.ID) (*id.ID, error) {
	if addressID != nil {
		a, err := s.customers.GetAddress(ctx, *addressID)
		if err != nil {
			return nil, err
		}
		if a.CustomerID != customerID {
			return nil, apperror.NewValidation("address does not belong to the customer")
		}
		return &a.ID, nil
	}

	addresses, err := s.customers.ListAddresses(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	if len(addresses) == 0 {
		return nil, nil
	}
	principal := addresses[0].ID
	return &principal, nil
}

// uniqueNumber generates a sale number and verifies it is free, retrying a
// bounded number of times. The unique index on the number column remains the
// final guard against a race between concurrent creations.
func (s *Service) uniqueNumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < numberAttempts; attempt++ {
		number, err := s.numbers.Next()
		if err != nil {
			return "", err
		}

		_, err = s.sales.GetByNumber(ctx, number)
		if apperror.IsNotFound(err) {
			return number, nil
		}
		if err != nil {
			return "", err
		}

		logger.Warn(ctx, "sale number collision, regenerating", "number", number)
	}
	return "", apperror.NewConflict("could not generate a unique sale number")
}

// GetByID returns a sale with its items.
func (s *Service) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	return s.sales.GetByID(ctx, saleID)
}

// GetByNumber returns a sale with its items, addressed by its number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*Sale, error) {
	return s.sales.GetByNumber(ctx, number)
}

// Finalize moves a pending sale to finalized, recording the payment method.
func (s *Service) Finalize(ctx context.Context, saleID id.ID, paymentMethod string) (*Sale, error) {
	return s.finalize(ctx, func(ctx context.Context) (*Sale, error) {
		return s.sales.GetByID(ctx, saleID)
	}, paymentMethod)
}

// FinalizeByNumber finalizes a sale addressed by its number.
func (s *Service) FinalizeByNumber(ctx context.Context, number, paymentMethod string) (*Sale, error) {
	return s.finalize(ctx, func(ctx context.Context) (*Sale, error) {
		return s.sales.GetByNumber(ctx, number)
	}, paymentMethod)
}

func (s *Service) finalize(ctx context.Context, load func(context.Context) (*Sale, error), paymentMethod string) (*Sale, error) {
	var doc *Sale
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = load(ctx)
		if err != nil {
			return err
		}
		if err := doc.Finalize(paymentMethod); err != nil {
			return err
		}
		return s.sales.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale finalized",
		"sale_id", doc.ID,
		"number", doc.Number,
		"payment_method", doc.PaymentMethod,
	)
	return doc, nil
}

// Cancel moves a pending sale to cancelled and reverses its stock effect:
// each item gets its quantity restored and a compensating inbound movement.
// The original outbound movements stay in the register untouched.
func (s *Service) Cancel(ctx context.Context, saleID id.ID) (*Sale, error) {
	var doc *Sale
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.sales.GetByID(ctx, saleID)
		if err != nil {
			return err
		}
		if err := doc.Cancel(); err != nil {
			return err
		}

		for _, item := range doc.Items {
			if err := s.products.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("restore stock: %w", err)
			}
			if _, err := s.movements.Record(ctx, item.ProductID, stock.KindIn, item.Quantity); err != nil {
				return err
			}
		}

		return s.sales.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale cancelled", "sale_id", doc.ID, "number", doc.Number)
	return doc, nil
}

// List returns sales matching the filter plus the total count.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Sale, int64, error) {
	return s.sales.List(ctx, filter)
}

// ListByCustomer returns a customer's sales, newest first.
func (s *Service) ListByCustomer(ctx context.Context, customerID id.ID, filter ListFilter) ([]*Sale, int64, error) {
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, 0, err
	}
	filter.CustomerID = &customerID
	return s.sales.List(ctx, filter)
}

// ListByStatus returns sales in a given status, newest first.
func (s *Service) ListByStatus(ctx context.Context, status Status, filter ListFilter) ([]*Sale, int64, error) {
	if !status.Valid() {
		return nil, 0, apperror.NewValidation("invalid sale status")
	}
	filter.Status = &status
	return s.sales.List(ctx, filter)
}

// CountByStatus returns the number of sales per status.
func (s *Service) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	return s.sales.CountByStatus(ctx)
}

// RevenueByPeriod sums the totals of finalized sales inside [from, to).
func (s *Service) RevenueByPeriod(ctx context.Context, from, to time.Time) (RevenueStats, error) {
	if !to.After(from) {
		return RevenueStats{}, apperror.NewValidation("period end must be after period start")
	}
	return s.sales.RevenueByPeriod(ctx, from, to)
}
