// Package config assembles runtime settings for walletd, walletctl and the
// shared library.
//
// Sources are applied in order, each overriding the previous one:
//
//  1. built-in defaults
//  2. a JSON or YAML file named by -c / -config
//  3. a .env file in the working directory, if present
//  4. WALLET_* environment variables
//  5. command-line flags
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const envPrefix = "WALLET_"

// Config holds runtime settings.
type Config struct {
	GRPCAddr        string        `env:"GRPC_ADDR"`
	MetricsAddr     string        `env:"METRICS_ADDR"`
	RateLimitRPS    float64       `env:"RATE_LIMIT_RPS"`
	RateLimitBurst  int           `env:"RATE_LIMIT_BURST"`
	LogLevel        string        `env:"LOG_LEVEL"`
	LogFormat       string        `env:"LOG_FORMAT"`
	KeyMethod       string        `env:"KEY_METHOD"`
	RemoteAddr      string        `env:"REMOTE_ADDR"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// LoadDefaults populates c with built-in defaults.
func (c *Config) LoadDefaults() {
	c.GRPCAddr = "127.0.0.1:50061"
	c.MetricsAddr = "127.0.0.1:9464"
	c.RateLimitRPS = 50
	c.RateLimitBurst = 100
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.KeyMethod = "raw"
	c.RemoteAddr = ""
	c.ShutdownTimeout = 5 * time.Second
}

// Load builds a Config from every source, using args (without the program
// name) for the config file and flag stages.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv applies defaults and the environment only. It serves embeddings
// that have no command line of their own.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseEnv(cfg *Config) error {
	// A missing .env file is normal.
	_ = godotenv.Load()

	if err := env.Parse(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}
