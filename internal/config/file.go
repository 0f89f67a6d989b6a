package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/walletbridge/internal/flagx"
	"github.com/dmitrijs2005/walletbridge/internal/timex"
)

// FileConfig is the on-disk shape of Config. Absent fields keep their
// current values.
type FileConfig struct {
	GRPCAddr        *string         `json:"grpc_addr" yaml:"grpc_addr"`
	MetricsAddr     *string         `json:"metrics_addr" yaml:"metrics_addr"`
	RateLimitRPS    *float64        `json:"rate_limit_rps" yaml:"rate_limit_rps"`
	RateLimitBurst  *int            `json:"rate_limit_burst" yaml:"rate_limit_burst"`
	LogLevel        *string         `json:"log_level" yaml:"log_level"`
	LogFormat       *string         `json:"log_format" yaml:"log_format"`
	KeyMethod       *string         `json:"key_method" yaml:"key_method"`
	RemoteAddr      *string         `json:"remote_addr" yaml:"remote_addr"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// parseFile overlays the file named by -c / -config, if any. Files ending in
// .yaml or .yml are YAML; everything else is JSON.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	setIf(&cfg.GRPCAddr, fc.GRPCAddr)
	setIf(&cfg.MetricsAddr, fc.MetricsAddr)
	setIf(&cfg.RateLimitRPS, fc.RateLimitRPS)
	setIf(&cfg.RateLimitBurst, fc.RateLimitBurst)
	setIf(&cfg.LogLevel, fc.LogLevel)
	setIf(&cfg.LogFormat, fc.LogFormat)
	setIf(&cfg.KeyMethod, fc.KeyMethod)
	setIf(&cfg.RemoteAddr, fc.RemoteAddr)
	if fc.ShutdownTimeout != nil {
		cfg.ShutdownTimeout = fc.ShutdownTimeout.Duration
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
