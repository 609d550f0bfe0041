package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/database"
)

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	migrationsDir := flag.String("dir", "migrations", "Directory holding the SQL migrations")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.OpenGorm(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if *rollback {
		name, err := database.RollbackLast(db, *migrationsDir)
		if err != nil {
			log.Fatalf("failed to roll back: %v", err)
		}
		fmt.Printf("Successfully rolled back migration: %s\n", name)
		return
	}

	if err := database.RunMigrations(db, *migrationsDir); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}
	fmt.Println("All migrations applied successfully.")
}
