package config

import "os"

// Environment variables holding the remote credentials.
const (
	EnvAirtableKey   = "AIRTABLE_API_KEY"
	EnvAirtableBase  = "AIRTABLE_BASE_ID"
	EnvAirtableTable = "AIRTABLE_TABLE_ID"
	EnvAirtableView  = "AIRTABLE_VIEW_ID"
	EnvPostgresDSN   = "STAFFDIR_POSTGRES_DSN"
)

// parseEnv overlays cfg with the non-empty credential variables.
func parseEnv(cfg *Config) {
	for name, dst := range map[string]*string{
		EnvAirtableKey:   &cfg.AirtableKey,
		EnvAirtableBase:  &cfg.AirtableBase,
		EnvAirtableTable: &cfg.AirtableTable,
		EnvAirtableView:  &cfg.AirtableView,
		EnvPostgresDSN:   &cfg.PostgresDSN,
	} {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
		}
	}
}
