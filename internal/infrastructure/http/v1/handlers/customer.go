package handlers

import (
	"github.com/gin-gonic/gin"

	"quitanda/internal/domain/catalogs/customer"
	"quitanda/internal/infrastructure/http/v1/dto"
)

// CustomerHandler serves customer catalog endpoints.
type CustomerHandler struct {
	*BaseHandler
	service *customer.Service
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(service *customer.Service) *CustomerHandler {
	return &CustomerHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

// Create handles POST /customers.
func (h *CustomerHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	created, err := h.service.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedData(c, dto.FromCustomer(created))
}

// Get handles GET /customers/:id.
func (h *CustomerHandler) Get(c *gin.Context) {
	customerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	cust, err := h.service.GetByID(c.Request.Context(), customerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCustomer(cust))
}

// GetWithAddresses handles GET /customers/:id/full.
func (h *CustomerHandler) GetWithAddresses(c *gin.Context) {
	customerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	cust, err := h.service.GetWithAddresses(c.Request.Context(), customerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCustomer(cust))
}

// Update handles PUT /customers/:id.
func (h *CustomerHandler) Update(c *gin.Context) {
	customerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cust, err := h.service.Update(c.Request.Context(), customerID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCustomer(cust))
}

// Delete handles DELETE /customers/:id.
func (h *CustomerHandler) Delete(c *gin.Context) {
	customerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), customerID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /customers.
func (h *CustomerHandler) List(c *gin.Context) {
	filter := customer.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.OrderBy = c.Query("orderBy")
	filter.Limit = h.ParseIntQuery(c, "limit", filter.Limit)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	customers, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      dto.FromCustomers(customers),
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// AddAddress handles POST /customers/:id/addresses.
func (h *CustomerHandler) AddAddress(c *gin.Context) {
	customerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.AddressRequest
	if !h.BindJSON(c, &req) {
		return
	}

	a, err := h.service.AddAddress(c.Request.Context(), customerID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedData(c, dto.FromAddress(a))
}

// ListAddresses handles GET /customers/:id/addresses.
func (h *CustomerHandler) ListAddresses(c *gin.Context) {
	customerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	addresses, err := h.service.ListAddresses(c.Request.Context(), customerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromAddresses(addresses))
}

// SetPrincipalAddress handles PUT /customers/:id/addresses/:addressId/principal.
func (h *CustomerHandler) SetPrincipalAddress(c *gin.Context) {
	customerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	addressID, ok := h.ParseID(c, "addressId")
	if !ok {
		return
	}

	a, err := h.service.SetPrincipalAddress(c.Request.Context(), customerID, addressID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromAddress(a))
}

// DeleteAddress handles DELETE /customers/:id/addresses/:addressId.
func (h *CustomerHandler) DeleteAddress(c *gin.Context) {
	customerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	addressID, ok := h.ParseID(c, "addressId")
	if !ok {
		return
	}

	if err := h.service.DeleteAddress(c.Request.Context(), customerID, addressID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
