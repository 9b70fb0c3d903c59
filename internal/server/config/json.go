package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/staffdir/internal/flagx"
)

// JsonConfig carries the daemon-only keys; the shared keys of the same file
// are read by the client config.
type JsonConfig struct {
	GRPCAddr  string `json:"grpc_addr"`
	HTTPAddr  string `json:"http_addr"`
	LogFile   string `json:"log_file"`
	LogFormat string `json:"log_format"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.GRPCAddr != "" {
		cfg.GRPCAddr = jc.GRPCAddr
	}
	if jc.HTTPAddr != "" {
		cfg.HTTPAddr = jc.HTTPAddr
	}
	if jc.LogFile != "" {
		cfg.LogFile = jc.LogFile
	}
	if jc.LogFormat != "" {
		cfg.LogFormat = jc.LogFormat
	}
}
