package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/flagx"
)

// Flags is the set of command-line flags owned by the client config.
var Flags = []string{"-a", "-d", "-r", "-m", "-s", "-u", "-t"}

// parseFlags populates selected Config fields from command-line flags.
//
// os.Args is filtered down to the flags handled here with flagx.FilterArgs,
// so flags of other components do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], Flags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DaemonAddr, "a", cfg.DaemonAddr, "address of a running directory daemon (empty uses the local cache)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local cache database")
	fs.StringVar(&cfg.Remote, "r", cfg.Remote, "remote kind (airtable or postgres)")
	fs.StringVar(&cfg.FieldMapping, "m", cfg.FieldMapping, "remote field mapping (airtable or legacy)")
	syncInterval := fs.Int("s", int(cfg.SyncInterval.Seconds()), "automatic sync interval (in seconds, 0 disables)")
	updateInterval := fs.Int("u", int(cfg.UpdateCheckInterval.Seconds()), "update check interval (in seconds, 0 disables)")
	resultTTL := fs.Int("t", int(cfg.ResultCacheTTL.Seconds()), "search result cache TTL (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SyncInterval = time.Duration(*syncInterval) * time.Second
	cfg.UpdateCheckInterval = time.Duration(*updateInterval) * time.Second
	cfg.ResultCacheTTL = time.Duration(*resultTTL) * time.Second
}
