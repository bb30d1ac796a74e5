package customer

import (
	"context"
	"strings"
	"time"

	"quitanda/internal/core/apperror"
	"quitanda/internal/core/id"
)

// Customer is a buyer in the catalog. Only the name is required; the fiscal
// fields (CPF for individuals, CNPJ plus state registration for companies)
// and the commercial ones are filled in as the business learns them.
type Customer struct {
	ID                id.ID     `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	CPF               string    `db:"cpf" json:"cpf,omitempty"`
	CNPJ              string    `db:"cnpj" json:"cnpj,omitempty"`
	StateRegistration string    `db:"state_registration" json:"stateRegistration,omitempty"`
	Phone             string    `db:"phone" json:"phone,omitempty"`
	State             string    `db:"state" json:"state,omitempty"`
	PaymentTerms      string    `db:"payment_terms" json:"paymentTerms,omitempty"`
	Bank              string    `db:"bank" json:"bank,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`

	// Addresses is loaded on demand, principal first.
	Addresses []*Address `db:"-" json:"addresses,omitempty"`
}

// Address is a delivery address owned by a customer. At most one address per
// customer carries the principal flag.
type Address struct {
	ID         id.ID     `db:"id" json:"id"`
	CustomerID id.ID     `db:"customer_id" json:"customerId"`
	Street     string    `db:"street" json:"street"`
	Number     string    `db:"number" json:"number,omitempty"`
	Complement string    `db:"complement" json:"complement,omitempty"`
	District   string    `db:"district" json:"district,omitempty"`
	City       string    `db:"city" json:"city"`
	State      string    `db:"state" json:"state"`
	ZipCode    string    `db:"zip_code" json:"zipCode,omitempty"`
	Principal  bool      `db:"principal" json:"principal"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// NewCustomer creates a customer with a fresh identifier. The optional
// attributes are set afterwards, see SetAttributes.
func NewCustomer(name string) *Customer {
	now := time.Now().UTC()
	return &Customer{
		ID:        id.New(),
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Attributes groups the editable customer fields besides the name.
type Attributes struct {
	CPF               string
	CNPJ              string
	StateRegistration string
	Phone             string
	State             string
	PaymentTerms      string
	Bank              string
}

// SetAttributes overwrites the optional fields, trimming surrounding
// whitespace.
func (c *Customer) SetAttributes(attrs Attributes) {
	c.CPF = strings.TrimSpace(attrs.CPF)
	c.CNPJ = strings.TrimSpace(attrs.CNPJ)
	c.StateRegistration = strings.TrimSpace(attrs.StateRegistration)
	c.Phone = strings.TrimSpace(attrs.Phone)
	c.State = strings.TrimSpace(attrs.State)
	c.PaymentTerms = strings.TrimSpace(attrs.PaymentTerms)
	c.Bank = strings.TrimSpace(attrs.Bank)
}

// Validate checks customer invariants.
func (c *Customer) Validate(_ context.Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("customer name is required")
	}
	return nil
}

// PrincipalAddress returns the principal address from the loaded set, or the
// first address when none is flagged, or nil when the customer has no
// addresses loaded.
func (c *Customer) PrincipalAddress() *Address {
	for _, a := range c.Addresses {
		if a.Principal {
			return a
		}
	}
	if len(c.Addresses) > 0 {
		return c.Addresses[0]
	}
	return nil
}

// NewAddress creates an address for a customer.
func NewAddress(customerID id.ID, street, number, complement, district, city, state, zipCode string, principal bool) *Address {
	return &Address{
		ID:         id.New(),
		CustomerID: customerID,
		Street:     strings.TrimSpace(street),
		Number:     strings.TrimSpace(number),
		Complement: strings.TrimSpace(complement),
		District:   strings.TrimSpace(district),
		City:       strings.TrimSpace(city),
		State:      strings.TrimSpace(state),
		ZipCode:    strings.TrimSpace(zipCode),
		Principal:  principal,
		CreatedAt:  time.Now().UTC(),
	}
}

// Validate checks address invariants.
func (a *Address) Validate(_ context.Context) error {
	if strings.TrimSpace(a.Street) == "" {
		return apperror.NewValidation("address street is required")
	}
	if strings.TrimSpace(a.City) == "" {
		return apperror.NewValidation("address city is required")
	}
	if strings.TrimSpace(a.State) == "" {
		return apperror.NewValidation("address state is required")
	}
	return nil
}
