package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pageza/nutriplan/backend/internal/models"
	"gorm.io/gorm"
)

// Models lists every table the service owns, in creation order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.MealTimeSetting{},
		&models.MealPlan{},
		&models.UserFood{},
	}
}

// RunMigrations executes all SQL migration files in the migrations directory.
// SQLite has no vector extension and is migrated with AutoMigrate instead.
func RunMigrations(db *gorm.DB, migrationsDir string) error {
	if db.Dialector.Name() == "sqlite" {
		log.Printf("Using GORM auto-migration for SQLite")
		return db.AutoMigrate(Models()...)
	}

	files, err := migrationFiles(migrationsDir)
	if err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, name := range files {
		var count int64
		if err := db.Table("migrations").Where("name = ?", name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			log.Printf("Skipping migration %s (already applied)", name)
			continue
		}

		content, err := os.ReadFile(filepath.Join(migrationsDir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", name, err)
			}
			if err := tx.Exec("INSERT INTO migrations (name) VALUES (?)", name).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		log.Printf("Applied migration %s", name)
	}

	return nil
}

// RollbackLast reverts the most recently applied migration using its
// "<name>_rollback.sql" companion file.
func RollbackLast(db *gorm.DB, migrationsDir string) (string, error) {
	var last struct{ Name string }
	if err := db.Table("migrations").Select("name").Order("applied_at DESC, id DESC").Limit(1).Scan(&last).Error; err != nil {
		return "", fmt.Errorf("failed to get last migration: %w", err)
	}
	if last.Name == "" {
		return "", fmt.Errorf("no migrations to rollback")
	}

	rollbackPath := filepath.Join(migrationsDir, strings.TrimSuffix(last.Name, ".sql")+"_rollback.sql")
	content, err := os.ReadFile(rollbackPath)
	if err != nil {
		return "", fmt.Errorf("failed to read rollback file %s: %w", rollbackPath, err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(string(content)).Error; err != nil {
			return fmt.Errorf("failed to execute rollback: %w", err)
		}
		return tx.Exec("DELETE FROM migrations WHERE name = ?", last.Name).Error
	})
	if err != nil {
		return "", err
	}
	return last.Name, nil
}

func migrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") || strings.HasSuffix(name, "_rollback.sql") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
