package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/vedsatt/scan-dashboard/internal/repository"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	repository.PostgresCfg

	HTTPPort        string        `env:"PORT"             env-default:"8080"`
	StorageDriver   string        `env:"STORAGE_DRIVER"   env-default:"memory"`
	SeedOnStart     bool          `env:"SEED_ON_START"    env-default:"true"`
	SeedPath        string        `env:"SEED_PATH"`
	SimulationTick  time.Duration `env:"SIMULATION_TICK"  env-default:"1s"`
	LogLevel        string        `env:"LOG_LEVEL"        env-default:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// NewConfig loads the optional dotenv file at ENV_PATH, then reads the
// environment. Variables already set win over the file.
func NewConfig() (*Config, error) {
	var cfg Config

	path := os.Getenv("ENV_PATH")
	if path == "" {
		path = "./config/.env"
	}

	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (cfg *Config) validate() error {
	switch cfg.StorageDriver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q, want %s or %s", cfg.StorageDriver, StorageMemory, StoragePostgres)
	}

	if cfg.SimulationTick <= 0 {
		return fmt.Errorf("SIMULATION_TICK must be positive, got %s", cfg.SimulationTick)
	}

	return nil
}
