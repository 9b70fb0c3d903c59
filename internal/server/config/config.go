// Package config handles configuration for the directory daemon: the
// client settings it shares with the CLI plus its listeners and log output.
package config

import (
	clientcfg "github.com/dmitrijs2005/staffdir/internal/client/config"
)

// Config holds runtime settings for the daemon.
//
// Fields:
//   - GRPCAddr: bind address of the gRPC directory service.
//   - HTTPAddr: bind address of the HTTP API, health and metrics endpoints.
//   - LogFile: rotated log file; empty logs to stderr.
//   - LogFormat: "json" or "text".
type Config struct {
	clientcfg.Config

	GRPCAddr  string
	HTTPAddr  string
	LogFile   string
	LogFormat string
}

// LoadDefaults populates Config with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Config.LoadDefaults()
	c.GRPCAddr = ":50051"
	c.HTTPAddr = ":8080"
	c.LogFile = ""
	c.LogFormat = "json"
}

// LoadConfig builds a Config by applying defaults, then the shared client
// layers, then the daemon's own JSON keys and flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	clientcfg.Overlay(&cfg.Config)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
