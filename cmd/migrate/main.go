// Package main provides a CLI tool for applying database migrations.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

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

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}

	m, err := migrate.New("file://"+migrationsPath, dbURL)
	if err != nil {
		log.Fatalw("failed to create migrator", "error", err)
	}
	defer m.Close()

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "up":
		err = m.Up()
	case "down":
		// One step down only. Tearing the whole schema down is never
		// what anyone means in production.
		err = m.Steps(-1)
	case "version":
		version, dirty, verr := m.Version()
		if verr != nil {
			log.Fatalw("failed to read migration version", "error", verr)
		}
		log.Infow("migration version", "version", version, "dirty", dirty)
		return
	default:
		log.Fatalw("unknown command", "command", command, "usage", "migrate [up|down|version]")
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("database is up to date")
		return
	}
	if err != nil {
		log.Fatalw("migration failed", "command", command, "error", err)
	}

	log.Infow("migrations applied", "command", command)
}
