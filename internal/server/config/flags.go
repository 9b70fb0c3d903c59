package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/staffdir/internal/flagx"
)

// parseFlags populates the daemon fields from command-line flags.
//
//	-g string   gRPC listen address
//	-h string   HTTP listen address
//	-l string   log file (rotated); empty logs to stderr
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-g", "-h", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.GRPCAddr, "g", cfg.GRPCAddr, "gRPC listen address")
	fs.StringVar(&cfg.HTTPAddr, "h", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "log file path")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
