package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/fjod/go_cart/cart-widget/internal/kv"
)

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPPort        string        `env:"HTTP_PORT" envDefault:"8080"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	CatalogSource  string        `env:"CATALOG_SOURCE" envDefault:"api.json"`
	CatalogTimeout time.Duration `env:"CATALOG_TIMEOUT" envDefault:"5s"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"memory"`
	CartKey        string `env:"CART_KEY" envDefault:"carrito"`
	RedisAddr      string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	MongoURI       string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDBName    string `env:"MONGO_DB_NAME" envDefault:"widgetdb"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"widget.db"`
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Storage() kv.Options {
	return kv.Options{
		Backend:       c.StorageBackend,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		MongoURI:      c.MongoURI,
		MongoDBName:   c.MongoDBName,
		SQLitePath:    c.SQLitePath,
	}
}
