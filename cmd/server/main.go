// Package main is the entry point for the quitanda API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"quitanda/internal/domain/auth"
	"quitanda/internal/domain/catalogs/customer"
	"quitanda/internal/domain/catalogs/product"
	"quitanda/internal/domain/documents/sale"
	"quitanda/internal/domain/registers/stock"
	v1 "quitanda/internal/infrastructure/http/v1"
	"quitanda/internal/infrastructure/pdf"
	"quitanda/internal/infrastructure/storage/postgres"
	"quitanda/internal/infrastructure/storage/postgres/auth_repo"
	"quitanda/internal/infrastructure/storage/postgres/catalog_repo"
	"quitanda/internal/infrastructure/storage/postgres/document_repo"
	"quitanda/internal/infrastructure/storage/postgres/register_repo"
	"quitanda/pkg/logger"
	"quitanda/pkg/numerator"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting quitanda server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	productRepo := catalog_repo.NewProductRepo(txManager)
	customerRepo := catalog_repo.NewCustomerRepo(txManager)
	saleRepo := document_repo.NewSaleRepo(txManager)
	stockRepo := register_repo.NewStockRepo(txManager)
	userRepo := auth_repo.NewUserRepo(txManager)
	tokenRepo := auth_repo.NewTokenRepo(txManager)

	// --- Services ---
	jwtSecret := getEnv("JWT_SECRET", "your-secret-key-change-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))
	authService := auth.NewService(userRepo, tokenRepo, jwtService, auth.DefaultServiceConfig())

	stockService := stock.NewService(stockRepo)
	productService := product.NewService(productRepo, stockService, txManager)
	customerService := customer.NewService(customerRepo, txManager)

	numbers := numerator.New(numerator.DefaultConfig(getEnv("SALE_NUMBER_PREFIX", "VND")))
	saleService := sale.NewService(saleRepo, customerRepo, productRepo, stockService, numbers, txManager)

	receipts := pdf.NewReceiptGenerator(getEnv("BUSINESS_NAME", "Quitanda"))

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:            pool.Unwrap(),
		Logger:          log,
		JWTValidator:    jwtService,
		CORSOrigins:     splitEnv("CORS_ORIGINS"),
		AuthService:     authService,
		ProductService:  productService,
		CustomerService: customerService,
		SaleService:     saleService,
		Receipts:        receipts,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func splitEnv(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
