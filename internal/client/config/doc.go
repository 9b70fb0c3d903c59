// Package config loads runtime configuration for the staff directory client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables for the remote credentials.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   address of a running directory daemon (empty: local cache)
//	-d string   path of the local SQLite cache
//	-r string   remote kind: airtable or postgres
//	-m string   field mapping: airtable or legacy
//	-s int      automatic sync interval (seconds, 0 disables)
//	-u int      update check interval (seconds, 0 disables)
//	-t int      memoized search result TTL (seconds)
//
// Environment
//
//	AIRTABLE_API_KEY, AIRTABLE_BASE_ID, AIRTABLE_TABLE_ID, AIRTABLE_VIEW_ID
//	STAFFDIR_POSTGRES_DSN
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "5m" or
// integer nanoseconds:
//
//	{
//	  "database_path": "staffdir.db",
//	  "remote": "airtable",
//	  "field_mapping": "airtable",
//	  "airtable_base": "appXXXX",
//	  "airtable_table": "tblXXXX",
//	  "sync_interval": "5m",
//	  "result_cache_ttl": "5m"
//	}
package config
