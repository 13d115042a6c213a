package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	PostgresURL     string        `env:"POSTGRES_URL,required"`
	Port            string        `env:"PORT" envDefault:"8080"`
	PriceInterval   time.Duration `env:"PRICE_UPDATE_INTERVAL" envDefault:"4s"`
	MigrationsDir   string        `env:"MIGRATIONS_DIR" envDefault:"migrations"`
	StartingBalance string        `env:"STARTING_BALANCE" envDefault:"10000"`
}

// Load reads configuration from the environment, after loading .env if one
// exists (missing .env is fine in production).
func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	return cfg, env.Parse(&cfg)
}
