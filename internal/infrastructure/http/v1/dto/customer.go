package dto

import (
	"time"

	"quitanda/internal/domain/catalogs/customer"
)

// --- Request DTOs ---

// AddressRequest for attaching an address.
type AddressRequest struct {
	Street     string `json:"street" binding:"required"`
	Number     string `json:"number,omitempty"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district,omitempty"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	ZipCode    string `json:"zipCode,omitempty"`
	Principal  bool   `json:"principal,omitempty"`
}

// ToInput converts to domain input.
func (r *AddressRequest) ToInput() customer.AddressInput {
	return customer.AddressInput{
		Street:     r.Street,
		Number:     r.Number,
		Complement: r.Complement,
		District:   r.District,
		City:       r.City,
		State:      r.State,
		ZipCode:    r.ZipCode,
		Principal:  r.Principal,
	}
}

// CreateCustomerRequest for customer creation, optionally with an address.
type CreateCustomerRequest struct {
	Name              string          `json:"name" binding:"required"`
	Cpf               string          `json:"cpf,omitempty"`
	Cnpj              string          `json:"cnpj,omitempty"`
	StateRegistration string          `json:"stateRegistration,omitempty"`
	Phone             string          `json:"phone,omitempty"`
	State             string          `json:"state,omitempty"`
	PaymentTerms      string          `json:"paymentTerms,omitempty"`
	Bank              string          `json:"bank,omitempty"`
	Address           *AddressRequest `json:"address,omitempty"`
}

// ToInput converts to domain input.
func (r *CreateCustomerRequest) ToInput() customer.CreateInput {
	input := customer.CreateInput{
		Name: r.Name,
		Attributes: customer.Attributes{
			CPF:               r.Cpf,
			CNPJ:              r.Cnpj,
			StateRegistration: r.StateRegistration,
			Phone:             r.Phone,
			State:             r.State,
			PaymentTerms:      r.PaymentTerms,
			Bank:              r.Bank,
		},
	}
	if r.Address != nil {
		addr := r.Address.ToInput()
		input.Address = &addr
	}
	return input
}

// UpdateCustomerRequest for customer updates.
type UpdateCustomerRequest struct {
	Name              string `json:"name" binding:"required"`
	Cpf               string `json:"cpf,omitempty"`
	Cnpj              string `json:"cnpj,omitempty"`
	StateRegistration string `json:"stateRegistration,omitempty"`
	Phone             string `json:"phone,omitempty"`
	State             string `json:"state,omitempty"`
	PaymentTerms      string `json:"paymentTerms,omitempty"`
	Bank              string `json:"bank,omitempty"`
}

// ToInput converts to domain input.
func (r *UpdateCustomerRequest) ToInput() customer.UpdateInput {
	return customer.UpdateInput{
		Name: r.Name,
		Attributes: customer.Attributes{
			CPF:               r.Cpf,
			CNPJ:              r.Cnpj,
			StateRegistration: r.StateRegistration,
			Phone:             r.Phone,
			State:             r.State,
			PaymentTerms:      r.PaymentTerms,
			Bank:              r.Bank,
		},
	}
}

// --- Response DTOs ---

// AddressResponse represents an address in API responses.
type AddressResponse struct {
	ID         string `json:"id"`
	Street     string `json:"street"`
	Number     string `json:"number,omitempty"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zipCode,omitempty"`
	Principal  bool   `json:"principal"`
}

// FromAddress creates response from a domain address.
func FromAddress(a *customer.Address) *AddressResponse {
	return &AddressResponse{
		ID:         a.ID.String(),
		Street:     a.Street,
		Number:     a.Number,
		Complement: a.Complement,
		District:   a.District,
		City:       a.City,
		State:      a.State,
		ZipCode:    a.ZipCode,
		Principal:  a.Principal,
	}
}

// FromAddresses maps an address slice.
func FromAddresses(addresses []*customer.Address) []*AddressResponse {
	out := make([]*AddressResponse, len(addresses))
	for i, a := range addresses {
		out[i] = FromAddress(a)
	}
	return out
}

// CustomerResponse represents a customer in API responses.
type CustomerResponse struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Cpf               string             `json:"cpf,omitempty"`
	Cnpj              string             `json:"cnpj,omitempty"`
	StateRegistration string             `json:"stateRegistration,omitempty"`
	Phone             string             `json:"phone,omitempty"`
	State             string             `json:"state,omitempty"`
	PaymentTerms      string             `json:"paymentTerms,omitempty"`
	Bank              string             `json:"bank,omitempty"`
	Addresses         []*AddressResponse `json:"addresses,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// FromCustomer creates response from a domain customer.
func FromCustomer(c *customer.Customer) *CustomerResponse {
	resp := &CustomerResponse{
		ID:                c.ID.String(),
		Name:              c.Name,
		Cpf:               c.CPF,
		Cnpj:              c.CNPJ,
		StateRegistration: c.StateRegistration,
		Phone:             c.Phone,
		State:             c.State,
		PaymentTerms:      c.PaymentTerms,
		Bank:              c.Bank,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
	if len(c.Addresses) > 0 {
		resp.Addresses = FromAddresses(c.Addresses)
	}
	return resp
}

// FromCustomers maps a customer slice.
func FromCustomers(customers []*customer.Customer) []*CustomerResponse {
	out := make([]*CustomerResponse, len(customers))
	for i, c := range customers {
		out[i] = FromCustomer(c)
	}
	return out
}
