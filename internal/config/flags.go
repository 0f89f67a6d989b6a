package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/walletbridge/internal/flagx"
)

// Flags owns the config flags. Other flags in args are left to their owners.
//
//	-a string                gRPC listen address
//	-m string                metrics listen address ("" disables)
//	-rps float               rate limit, requests per second (0 disables)
//	-burst int               rate limit burst
//	-log-level string        debug | info | warn | error
//	-log-format string       text | json
//	-key-method string       raw | kdf:argon2i | kdf:argon2i:mod | kdf:argon2i:int
//	-shutdown-timeout dur    graceful shutdown limit
var Flags = []string{
	"-a", "-m", "-rps", "-burst", "-log-level", "-log-format", "-key-method", "-shutdown-timeout",
}

func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.GRPCAddr, "a", cfg.GRPCAddr, "gRPC listen address")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address")
	fs.Float64Var(&cfg.RateLimitRPS, "rps", cfg.RateLimitRPS, "rate limit, requests per second")
	fs.IntVar(&cfg.RateLimitBurst, "burst", cfg.RateLimitBurst, "rate limit burst")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format")
	fs.StringVar(&cfg.KeyMethod, "key-method", cfg.KeyMethod, "wallet key method")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown limit")

	if err := fs.Parse(flagx.FilterArgs(args, Flags)); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	return nil
}
