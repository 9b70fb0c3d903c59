package config

import (
	"time"

	"github.com/dmitrijs2005/staffdir/internal/client/client"
	"github.com/dmitrijs2005/staffdir/internal/client/services"
	"github.com/dmitrijs2005/staffdir/internal/client/store"
	"github.com/dmitrijs2005/staffdir/internal/logging"
)

// Config holds runtime settings for the directory client.
type Config struct {
	// DaemonAddr, when set, makes the CLI use a running daemon instead of
	// its own cache.
	DaemonAddr string

	DatabasePath string
	Remote       string
	FieldMapping string
	ActiveStatus string

	AirtableURL   string
	AirtableBase  string
	AirtableTable string
	AirtableView  string
	AirtableKey   string

	PostgresDSN   string
	PostgresTable string

	RequestTimeout       time.Duration
	SyncInterval         time.Duration
	UpdateCheckInterval  time.Duration
	ResultCacheTTL       time.Duration
	ResultCacheRetention time.Duration
	RemoteFallbackAfter  time.Duration

	HotCacheSize int
	BrowseLimit  int
	ResultLimit  int

	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "staffdir.db"
	c.Remote = client.KindAirtable
	c.FieldMapping = "airtable"
	c.ActiveStatus = "Activo"
	c.AirtableURL = client.DefaultAirtableURL
	c.PostgresTable = "colaboradores"
	c.RequestTimeout = 15 * time.Second
	c.SyncInterval = 5 * time.Minute
	c.UpdateCheckInterval = time.Minute
	c.ResultCacheTTL = services.DefaultResultTTL
	c.ResultCacheRetention = store.DefaultRetention
	c.RemoteFallbackAfter = services.DefaultRemoteFallbackAfter
	c.HotCacheSize = services.DefaultHotCacheSize
	c.BrowseLimit = services.DefaultBrowseLimit
	c.ResultLimit = services.DefaultResultLimit
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	Overlay(cfg)
	return cfg
}

// Overlay applies the JSON, environment and flag layers to cfg. Binaries
// that embed Config call it after their own defaults.
func Overlay(cfg *Config) {
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
}

// RemoteOptions returns the options for client.New.
func (c *Config) RemoteOptions(log logging.Logger) client.Options {
	return client.Options{
		Kind:          c.Remote,
		Mapping:       c.FieldMapping,
		ActiveStatus:  c.ActiveStatus,
		Timeout:       c.RequestTimeout,
		AirtableURL:   c.AirtableURL,
		AirtableBase:  c.AirtableBase,
		AirtableTable: c.AirtableTable,
		AirtableView:  c.AirtableView,
		AirtableKey:   c.AirtableKey,
		PostgresDSN:   c.PostgresDSN,
		PostgresTable: c.PostgresTable,
		Logger:        log,
	}
}

func (c *Config) StoreOptions(log logging.Logger) store.Options {
	return store.Options{
		Path:      c.DatabasePath,
		Retention: c.ResultCacheRetention,
		Logger:    log,
	}
}

func (c *Config) DirectoryOptions(log logging.Logger) services.Options {
	return services.Options{
		ResultTTL:           c.ResultCacheTTL,
		BrowseLimit:         c.BrowseLimit,
		ResultLimit:         c.ResultLimit,
		HotCacheSize:        c.HotCacheSize,
		RemoteFallbackAfter: c.RemoteFallbackAfter,
		Logger:              log,
	}
}
