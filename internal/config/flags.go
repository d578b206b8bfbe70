package config

import (
	"flag"
	"os"

	"github.com/daybook-app/daybook/internal/flagx"
)

// parseFlags overlays cfg with command-line flags. Args are filtered down to
// the flags owned here so -c/-config (handled by the JSON layer) and test
// flags don't trip the parser.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-data", "-demo", "-debug", "-encrypt"})

	fs := flag.NewFlagSet("daybook", flag.ContinueOnError)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "data directory")
	fs.BoolVar(&cfg.Demo, "demo", cfg.Demo, "run with in-memory storage and scripted capture sources")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")
	fs.BoolVar(&cfg.Encrypt, "encrypt", cfg.Encrypt, "encrypt journal content at rest (prompts for a passphrase)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
