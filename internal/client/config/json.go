package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/flagx"
	"github.com/dmitrijs2005/staffdir/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// leave the corresponding Config field untouched.
type JsonConfig struct {
	DaemonAddr   string `json:"daemon_addr"`
	DatabasePath string `json:"database_path"`
	Remote       string `json:"remote"`
	FieldMapping string `json:"field_mapping"`
	ActiveStatus string `json:"active_status"`

	AirtableURL   string `json:"airtable_url"`
	AirtableBase  string `json:"airtable_base"`
	AirtableTable string `json:"airtable_table"`
	AirtableView  string `json:"airtable_view"`

	PostgresTable string `json:"postgres_table"`

	RequestTimeout       *timex.Duration `json:"request_timeout"`
	SyncInterval         *timex.Duration `json:"sync_interval"`
	UpdateCheckInterval  *timex.Duration `json:"update_check_interval"`
	ResultCacheTTL       *timex.Duration `json:"result_cache_ttl"`
	ResultCacheRetention *timex.Duration `json:"result_cache_retention"`
	RemoteFallbackAfter  *timex.Duration `json:"remote_fallback_after"`

	HotCacheSize int `json:"hot_cache_size"`
	BrowseLimit  int `json:"browse_limit"`
	ResultLimit  int `json:"result_limit"`

	LogLevel string `json:"log_level"`
}

// parseJson overlays cfg with the JSON file named by -c or -config. It
// panics on read or unmarshal errors.
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

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	setString(&cfg.DaemonAddr, jc.DaemonAddr)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.Remote, jc.Remote)
	setString(&cfg.FieldMapping, jc.FieldMapping)
	setString(&cfg.ActiveStatus, jc.ActiveStatus)
	setString(&cfg.AirtableURL, jc.AirtableURL)
	setString(&cfg.AirtableBase, jc.AirtableBase)
	setString(&cfg.AirtableTable, jc.AirtableTable)
	setString(&cfg.AirtableView, jc.AirtableView)
	setString(&cfg.PostgresTable, jc.PostgresTable)
	setString(&cfg.LogLevel, jc.LogLevel)

	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setDuration(&cfg.SyncInterval, jc.SyncInterval)
	setDuration(&cfg.UpdateCheckInterval, jc.UpdateCheckInterval)
	setDuration(&cfg.ResultCacheTTL, jc.ResultCacheTTL)
	setDuration(&cfg.ResultCacheRetention, jc.ResultCacheRetention)
	setDuration(&cfg.RemoteFallbackAfter, jc.RemoteFallbackAfter)

	setInt(&cfg.HotCacheSize, jc.HotCacheSize)
	setInt(&cfg.BrowseLimit, jc.BrowseLimit)
	setInt(&cfg.ResultLimit, jc.ResultLimit)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
