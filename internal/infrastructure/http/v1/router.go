// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"quitanda/internal/domain/auth"
	"quitanda/internal/domain/catalogs/customer"
	"quitanda/internal/domain/catalogs/product"
	"quitanda/internal/domain/documents/sale"
	"quitanda/internal/infrastructure/http/v1/handlers"
	"quitanda/internal/infrastructure/http/v1/middleware"
	"quitanda/internal/infrastructure/pdf"
	"quitanda/pkg/logger"
)

// RouterConfig holds everything the router needs to serve requests.
type RouterConfig struct {
	// Pool is used by health checks.
	Pool *pgxpool.Pool

	// Logger for request logging.
	Logger *logger.Logger

	// JWTValidator for token validation.
	JWTValidator middleware.JWTValidator

	// CORSOrigins lists allowed origins; empty allows all.
	CORSOrigins []string

	AuthService     *auth.Service
	ProductService  *product.Service
	CustomerService *customer.Service
	SaleService     *sale.Service
	Receipts        *pdf.ReceiptGenerator
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(corsMiddleware(cfg.CORSOrigins))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	authHandler := handlers.NewAuthHandler(cfg.AuthService)
	productHandler := handlers.NewProductHandler(cfg.ProductService)
	customerHandler := handlers.NewCustomerHandler(cfg.CustomerService)
	saleHandler := handlers.NewSaleHandler(cfg.SaleService, cfg.CustomerService, cfg.Receipts)
	dashboardHandler := handlers.NewDashboardHandler(cfg.ProductService, cfg.SaleService)

	v1 := router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)

			authed := authGroup.Group("")
			authed.Use(middleware.Auth(cfg.JWTValidator))
			{
				authed.POST("/register", middleware.RequireRole(auth.RoleAdmin), authHandler.Register)
				authed.POST("/logout", authHandler.Logout)
				authed.GET("/me", authHandler.Me)
			}
		}

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		products := protected.Group("/products")
		{
			products.POST("", productHandler.Create)
			products.GET("", productHandler.List)
			products.GET("/low-stock", productHandler.LowStock)
			products.GET("/:id", productHandler.Get)
			products.PUT("/:id", productHandler.Update)
			products.DELETE("/:id", middleware.RequireRole(auth.RoleAdmin), productHandler.Delete)
			products.POST("/:id/movements", productHandler.RegisterMovement)
			products.GET("/:id/movements", productHandler.Movements)
		}

		customers := protected.Group("/customers")
		{
			customers.POST("", customerHandler.Create)
			customers.GET("", customerHandler.List)
			customers.GET("/:id", customerHandler.Get)
			customers.GET("/:id/full", customerHandler.GetWithAddresses)
			customers.PUT("/:id", customerHandler.Update)
			customers.DELETE("/:id", middleware.RequireRole(auth.RoleAdmin), customerHandler.Delete)
			customers.POST("/:id/addresses", customerHandler.AddAddress)
			customers.GET("/:id/addresses", customerHandler.ListAddresses)
			customers.PUT("/:id/addresses/:addressId/principal", customerHandler.SetPrincipalAddress)
			customers.DELETE("/:id/addresses/:addressId", customerHandler.DeleteAddress)
		}

		sales := protected.Group("/sales")
		{
			sales.POST("", saleHandler.Create)
			sales.GET("", saleHandler.List)
			sales.GET("/:id", saleHandler.Get)
			sales.POST("/:id/finalize", saleHandler.Finalize)
			sales.POST("/:id/finalize/receipt", saleHandler.FinalizeWithReceipt)
			sales.POST("/:id/cancel", saleHandler.Cancel)
			sales.GET("/:id/receipt", saleHandler.Receipt)
			sales.GET("/number/:number", saleHandler.GetByNumber)
			sales.POST("/number/:number/finalize", saleHandler.FinalizeByNumber)
			sales.GET("/customer/:customerId", saleHandler.ListByCustomer)
			sales.GET("/status/:status", saleHandler.ListByStatus)
		}

		protected.GET("/dashboard", dashboardHandler.Stats)
	}

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	if len(origins) > 0 {
		corsCfg.AllowOrigins = origins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders,
		"Authorization", middleware.HeaderRequestID, middleware.HeaderTraceID)
	return cors.New(corsCfg)
}
