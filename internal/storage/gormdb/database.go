package gormdb

import (
	"fmt"
	"log"

	"github.com/VitaminP8/qupp/internal/config"
	"github.com/VitaminP8/qupp/models"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

var DB *gorm.DB

// GetDB returns the global DB handle.
func GetDB() *gorm.DB {
	return DB
}

// InitDB connects to PostgreSQL and sets the global DB.
func InitDB(cfg config.DBConfig) error {
	db, err := gorm.Open("postgres", cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to the database: %v", err)
	}

	DB = db
	log.Println("Successfully connected to the database.")
	return nil
}

// InitSQLite opens (or creates) a SQLite database file and sets the global DB.
func InitSQLite(path string) error {
	db, err := gorm.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database %s: %v", path, err)
	}
	// one writer keeps sqlite transactions from failing with "database is locked"
	db.DB().SetMaxOpenConns(1)

	DB = db
	log.Printf("Using sqlite database %s.", path)
	return nil
}

// Migrate creates or updates the schema of every table.
func Migrate() error {
	if DB == nil {
		return fmt.Errorf("database is not initialized")
	}
	err := DB.AutoMigrate(&models.User{}, &models.Question{}, &models.Answer{}, &models.Comment{}).Error
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// CloseDB closes the global connection.
func CloseDB() error {
	if DB == nil {
		return nil
	}

	err := DB.Close()
	if err != nil {
		return fmt.Errorf("failed to close the database connection: %v", err)
	}

	log.Println("Database connection closed.")
	return nil
}

// InitDBWithConnection injects an existing connection (tests).
func InitDBWithConnection(db *gorm.DB) {
	DB = db
}
