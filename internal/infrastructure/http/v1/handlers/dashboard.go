package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"quitanda/internal/domain/catalogs/product"
	"quitanda/internal/domain/documents/sale"
	"quitanda/internal/infrastructure/http/v1/dto"
)

// DashboardHandler serves aggregated statistics.
type DashboardHandler struct {
	*BaseHandler
	products *product.Service
	sales    *sale.Service
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(products *product.Service, sales *sale.Service) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(),
		products:    products,
		sales:       sales,
	}
}

// Stats handles GET /dashboard. The revenue period defaults to the last 30
// days and can be overridden with ?days=N.
func (h *DashboardHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	days := h.ParseIntQuery(c, "days", 30)
	if days <= 0 {
		days = 30
	}
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -days)

	catalogStats, err := h.products.Stats(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	byStatus, err := h.sales.CountByStatus(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	revenue, err := h.sales.RevenueByPeriod(ctx, from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	salesByStatus := make(map[string]int64, len(byStatus))
	for status, count := range byStatus {
		salesByStatus[string(status)] = count
	}

	h.OK(c, dto.DashboardResponse{
		TotalProducts: catalogStats.TotalProducts,
		LowStockCount: catalogStats.LowStockCount,
		StockValue:    catalogStats.StockValue,
		SalesByStatus: salesByStatus,
		PeriodRevenue: revenue.Revenue,
		PeriodSales:   revenue.SalesCount,
		PeriodStart:   from,
		PeriodEnd:     to,
	})
}
