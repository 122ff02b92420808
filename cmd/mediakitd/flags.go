package main

import (
	"fmt"

	"github.com/spf13/pflag"
)

// cliFlags holds the parsed command line.
type cliFlags struct {
	config     string
	addr       string
	scratchDir string
	workers    int
	verbose    bool
}

// parseFlags reads the command line. Flags override both the config file
// and the environment.
func parseFlags(args []string) (*cliFlags, error) {
	fs := pflag.NewFlagSet("mediakitd", pflag.ContinueOnError)

	f := &cliFlags{}
	fs.StringVarP(&f.config, "config", "c", "", "path to YAML config file")
	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (overrides config)")
	fs.StringVar(&f.scratchDir, "scratch-dir", "", "artifact scratch directory (overrides config)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "max concurrent browser sessions (0 = auto)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")

	if err := fs.Parse(args[1:]); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}
	return f, nil
}
