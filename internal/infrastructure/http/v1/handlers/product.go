package handlers

import (
	"github.com/gin-gonic/gin"

	"quitanda/internal/core/types"
	"quitanda/internal/domain/catalogs/product"
	"quitanda/internal/domain/registers/stock"
	"quitanda/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves product catalog endpoints.
type ProductHandler struct {
	*BaseHandler
	service *product.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service *product.Service) *ProductHandler {
	return &ProductHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

// Create handles POST /products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Create(
		c.Request.Context(),
		req.Name,
		types.NewMoney(req.Price),
		req.Packaging,
		types.NewQuantityFromFloat64(req.InitialStock),
	)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedData(c, dto.FromProduct(p))
}

// Get handles GET /products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromProduct(p))
}

// Update handles PUT /products/:id.
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Update(c.Request.Context(), productID, product.UpdateInput{
		Name:      req.Name,
		Price:     types.NewMoney(req.Price),
		Packaging: req.Packaging,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromProduct(p))
}

// Delete handles DELETE /products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), productID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /products.
func (h *ProductHandler) List(c *gin.Context) {
	filter := product.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.OrderBy = c.Query("orderBy")
	filter.Limit = h.ParseIntQuery(c, "limit", filter.Limit)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	products, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      dto.FromProducts(products),
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// LowStock handles GET /products/low-stock.
func (h *ProductHandler) LowStock(c *gin.Context) {
	products, err := h.service.ListLowStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromProducts(products))
}

// RegisterMovement handles POST /products/:id/movements.
func (h *ProductHandler) RegisterMovement(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.StockMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m, err := h.service.RegisterMovement(
		c.Request.Context(),
		productID,
		stock.Kind(req.Kind),
		types.NewQuantityFromFloat64(req.Quantity),
	)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedData(c, dto.FromMovement(m))
}

// Movements handles GET /products/:id/movements.
func (h *ProductHandler) Movements(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	filter := stock.MovementFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}
	if kind := c.Query("kind"); kind != "" {
		k := stock.Kind(kind)
		filter.Kind = &k
	}

	movements, err := h.service.Movements(c.Request.Context(), productID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromMovements(movements))
}
