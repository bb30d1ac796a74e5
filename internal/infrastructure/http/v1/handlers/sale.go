package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quitanda/internal/domain/catalogs/customer"
	"quitanda/internal/domain/documents/sale"
	"quitanda/internal/infrastructure/http/v1/dto"
	"quitanda/internal/infrastructure/pdf"
)

// SaleHandler serves sale document endpoints.
type SaleHandler struct {
	*BaseHandler
	sales     *sale.Service
	customers *customer.Service
	receipts  *pdf.ReceiptGenerator
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(sales *sale.Service, customers *customer.Service, receipts *pdf.ReceiptGenerator) *SaleHandler {
	return &SaleHandler{
		BaseHandler: NewBaseHandler(),
		sales:       sales,
		customers:   customers,
		receipts:    receipts,
	}
}

// Create handles POST /sales.
func (h *SaleHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	s, err := h.sales.Create(c.Request.Context(), input)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedData(c, dto.FromSale(s))
}

// Get handles GET /sales/:id.
func (h *SaleHandler) Get(c *gin.Context) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	s, err := h.sales.GetByID(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSale(s))
}

// GetByNumber handles GET /sales/number/:number.
func (h *SaleHandler) GetByNumber(c *gin.Context) {
	s, err := h.sales.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSale(s))
}

// List handles GET /sales.
func (h *SaleHandler) List(c *gin.Context) {
	filter := sale.DefaultListFilter()
	filter.Limit = h.ParseIntQuery(c, "limit", filter.Limit)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	if status := c.Query("status"); status != "" {
		st := sale.Status(status)
		filter.Status = &st
	}

	sales, total, err := h.sales.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      dto.FromSales(sales),
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// ListByCustomer handles GET /sales/customer/:customerId.
func (h *SaleHandler) ListByCustomer(c *gin.Context) {
	customerID, ok := h.ParseID(c, "customerId")
	if !ok {
		return
	}

	filter := sale.DefaultListFilter()
	filter.Limit = h.ParseIntQuery(c, "limit", filter.Limit)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	sales, total, err := h.sales.ListByCustomer(c.Request.Context(), customerID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      dto.FromSales(sales),
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// ListByStatus handles GET /sales/status/:status.
func (h *SaleHandler) ListByStatus(c *gin.Context) {
	filter := sale.DefaultListFilter()
	filter.Limit = h.ParseIntQuery(c, "limit", filter.Limit)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	sales, total, err := h.sales.ListByStatus(c.Request.Context(), sale.Status(c.Param("status")), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      dto.FromSales(sales),
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// Finalize handles POST /sales/:id/finalize.
func (h *SaleHandler) Finalize(c *gin.Context) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	req, ok := h.bindFinalize(c)
	if !ok {
		return
	}

	s, err := h.sales.Finalize(c.Request.Context(), saleID, req.Method())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSale(s))
}

// FinalizeByNumber handles POST /sales/number/:number/finalize.
func (h *SaleHandler) FinalizeByNumber(c *gin.Context) {
	req, ok := h.bindFinalize(c)
	if !ok {
		return
	}

	s, err := h.sales.FinalizeByNumber(c.Request.Context(), c.Param("number"), req.Method())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSale(s))
}

// FinalizeWithReceipt handles POST /sales/:id/finalize/receipt.
// Finalizes the sale and streams the receipt PDF in one round trip.
func (h *SaleHandler) FinalizeWithReceipt(c *gin.Context) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	req, ok := h.bindFinalize(c)
	if !ok {
		return
	}

	s, err := h.sales.Finalize(c.Request.Context(), saleID, req.Method())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.writeReceipt(c, s)
}

// bindFinalize reads the optional finalize payload. An empty body is fine,
// the payment method then falls back to the default.
func (h *SaleHandler) bindFinalize(c *gin.Context) (dto.FinalizeSaleRequest, bool) {
	var req dto.FinalizeSaleRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if !h.BindJSON(c, &req) {
		return req, false
	}
	return req, true
}

// Cancel handles POST /sales/:id/cancel.
func (h *SaleHandler) Cancel(c *gin.Context) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	s, err := h.sales.Cancel(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSale(s))
}

// Receipt handles GET /sales/:id/receipt.
func (h *SaleHandler) Receipt(c *gin.Context) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	s, err := h.sales.GetByID(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.writeReceipt(c, s)
}

func (h *SaleHandler) writeReceipt(c *gin.Context, s *sale.Sale) {
	// Best effort: the receipt renders without a customer name too.
	cust, err := h.customers.GetByID(c.Request.Context(), s.CustomerID)
	if err != nil {
		cust = nil
	}

	data, err := h.receipts.Render(s, cust)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="venda_`+s.Number+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
