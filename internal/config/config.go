package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DBConfig holds the PostgreSQL connection settings.
type DBConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

// DSN is the key=value connection string understood by lib/pq.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode,
	)
}

// Config is the server configuration, read from the environment.
type Config struct {
	// Storage is one of memory, postgres or sqlite.
	Storage    string        `env:"STORAGE" envDefault:"memory"`
	HTTPAddr   string        `env:"HTTP_ADDR" envDefault:":8080"`
	JWTSecret  string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"8760h"`
	PageSize   int           `env:"PAGE_SIZE" envDefault:"10"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`
	SQLitePath string        `env:"SQLITE_PATH" envDefault:"qupp.db"`
	DB         DBConfig
}

// LoadEnv loads variables from a .env file in the working directory, if there is one.
func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found")
	}
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	LoadEnv()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.PageSize <= 0 {
		return Config{}, fmt.Errorf("PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}

	return cfg, nil
}
