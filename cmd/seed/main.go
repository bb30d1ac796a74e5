// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"quitanda/internal/core/id"
	"quitanda/internal/core/types"
	"quitanda/internal/infrastructure/storage/postgres"
	"quitanda/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := seedAdminUser(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoProducts(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo products", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@quitanda.local"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1`,
		adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existingID)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check admin exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	userID := id.New()
	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, is_active)
		VALUES ($1, 'Administrador', $2, $3, 'admin', true)
	`, userID, adminEmail, string(passwordHash))
	if err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("admin user created",
		"email", adminEmail,
		"user_id", userID,
	)

	return nil
}

func seedDemoProducts(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	log.Info("seeding demo products...")

	type productSeed struct {
		name      string
		price     float64
		packaging string
		stock     float64
	}

	products := []productSeed{
		{"Banana Prata", 5.99, "kg", 40},
		{"Tomate Italiano", 7.50, "kg", 25.5},
		{"Alface Crespa", 3.00, "unidade", 30},
		{"Laranja Pera", 4.20, "kg", 60},
		{"Cenoura", 4.80, "kg", 18},
		{"Ovos Caipira", 15.00, "dúzia", 12},
	}

	now := time.Now()
	for _, p := range products {
		productID := id.New()
		initial := types.NewQuantityFromFloat64(p.stock)

		commandTag, err := pool.Pool.Exec(ctx, `
			INSERT INTO products (id, name, price, packaging, initial_stock)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (name) DO NOTHING
		`, productID, p.name, p.price, p.packaging, initial.Int64Scaled())
		if err != nil {
			return fmt.Errorf("insert product %q: %w", p.name, err)
		}
		if commandTag.RowsAffected() == 0 {
			continue
		}

		if initial.IsPositive() {
			_, err = pool.Pool.Exec(ctx, `
				INSERT INTO stock_movements (id, product_id, kind, quantity, occurred_at)
				VALUES ($1, $2, 'initial', $3, $4)
			`, id.New(), productID, initial.Int64Scaled(), now)
			if err != nil {
				return fmt.Errorf("insert initial movement for %q: %w", p.name, err)
			}
		}
	}

	log.Infow("demo products seeded", "count", len(products))
	return nil
}
