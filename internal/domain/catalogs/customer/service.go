package customer

import (
	"context"
	"fmt"
	"strings"

	"quitanda/internal/core/apperror"
	"quitanda/internal/core/id"
	"quitanda/internal/core/tx"
	"quitanda/pkg/logger"
)

// AddressInput carries the fields needed to attach an address to a customer.
type AddressInput struct {
	Street     string
	Number     string
	Complement string
	District   string
	City       string
	State      string
	ZipCode    string
	Principal  bool
}

// CreateInput carries the fields for creating a customer, optionally with an
// initial address.
type CreateInput struct {
	Name string
	Attributes
	Address *AddressInput
}

// UpdateInput carries the mutable customer attributes.
type UpdateInput struct {
	Name string
	Attributes
}

// Service provides customer catalog operations.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new customer service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Create registers a customer. When an address is supplied it is created in
// the same transaction and marked principal, since it is the only one.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Customer, error) {
	c := NewCustomer(input.Name)
	c.SetAttributes(input.Attributes)
	if err := c.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, c); err != nil {
			return fmt.Errorf("create customer: %w", err)
		}
		if input.Address != nil {
			a := newAddressFromInput(c.ID, *input.Address)
			a.Principal = true
			if err := a.Validate(ctx); err != nil {
				return err
			}
			if err := s.repo.AddAddress(ctx, a); err != nil {
				return fmt.Errorf("add address: %w", err)
			}
			c.Addresses = []*Address{a}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "customer created", "customer_id", c.ID, "name", c.Name)
	return c, nil
}

// GetByID returns a customer without addresses.
func (s *Service) GetByID(ctx context.Context, customerID id.ID) (*Customer, error) {
	return s.repo.GetByID(ctx, customerID)
}

// GetWithAddresses returns a customer with addresses loaded, principal first.
func (s *Service) GetWithAddresses(ctx context.Context, customerID id.ID) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	addresses, err := s.repo.ListAddresses(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	c.Addresses = addresses
	return c, nil
}

// Update changes the customer's contact attributes.
func (s *Service) Update(ctx context.Context, customerID id.ID, input UpdateInput) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	c.Name = strings.TrimSpace(input.Name)
	c.SetAttributes(input.Attributes)

	if err := c.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}

	logger.Info(ctx, "customer updated", "customer_id", c.ID)
	return c, nil
}

// Delete removes a customer and, through the schema cascade, its addresses.
func (s *Service) Delete(ctx context.Context, customerID id.ID) error {
	if err := s.repo.Delete(ctx, customerID); err != nil {
		return err
	}
	logger.Info(ctx, "customer deleted", "customer_id", customerID)
	return nil
}

// List returns customers matching the filter plus the total count.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Customer, int64, error) {
	return s.repo.List(ctx, filter)
}

// AddAddress attaches an address to a customer. When the new address is marked
// principal, the flag is cleared from the other addresses in the same
// transaction so at most one principal address remains.
func (s *Service) AddAddress(ctx context.Context, customerID id.ID, input AddressInput) (*Address, error) {
	if _, err := s.repo.GetByID(ctx, customerID); err != nil {
		return nil, err
	}

	a := newAddressFromInput(customerID, input)
	if err := a.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if a.Principal {
			if err := s.repo.ClearPrincipal(ctx, customerID); err != nil {
				return fmt.Errorf("clear principal: %w", err)
			}
		}
		return s.repo.AddAddress(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "address added", "customer_id", customerID, "address_id", a.ID)
	return a, nil
}

// ListAddresses returns a customer's addresses, principal first.
func (s *Service) ListAddresses(ctx context.Context, customerID id.ID) ([]*Address, error) {
	if _, err := s.repo.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repo.ListAddresses(ctx, customerID)
}

// SetPrincipalAddress flags an existing address as the customer's principal
// one. The previous principal is demoted in the same transaction so at most
// one principal address remains.
func (s *Service) SetPrincipalAddress(ctx context.Context, customerID, addressID id.ID) (*Address, error) {
	a, err := s.repo.GetAddress(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if a.CustomerID != customerID {
		return nil, apperror.NewNotFound("address", addressID.String())
	}
	if a.Principal {
		return a, nil
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.ClearPrincipal(ctx, customerID); err != nil {
			return fmt.Errorf("clear principal: %w", err)
		}
		return s.repo.SetPrincipal(ctx, addressID)
	})
	if err != nil {
		return nil, err
	}

	a.Principal = true
	logger.Info(ctx, "principal address changed", "customer_id", customerID, "address_id", addressID)
	return a, nil
}

// DeleteAddress removes an address, verifying it belongs to the customer.
func (s *Service) DeleteAddress(ctx context.Context, customerID, addressID id.ID) error {
	a, err := s.repo.GetAddress(ctx, addressID)
	if err != nil {
		return err
	}
	if a.CustomerID != customerID {
		return apperror.NewNotFound("address", addressID.String())
	}
	return s.repo.DeleteAddress(ctx, addressID)
}

func newAddressFromInput(customerID id.ID, input AddressInput) *Address {
	return NewAddress(
		customerID,
		input.Street,
		input.Number,
		input.Complement,
		input.District,
		input.City,
		input.State,
		input.ZipCode,
		input.Principal,
	)
}
