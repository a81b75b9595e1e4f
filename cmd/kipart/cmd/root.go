package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath  string
	verbose     bool
	logFormat   string
	metricsFile string
	noExternal  bool
)

var rootCmd = &cobra.Command{
	Use:   "kipart",
	Short: "Resolve KiCad parts and validate pin/net declarations",
	Long: `kipart resolves the parts of a YAML project description to KiCad
symbols and footprints (local cache, LCSC lookup via easyeda2kicad, builtin
role catalog) and checks every declared pin connection against the real
pin table of the resolved symbol.

Examples:
  kipart resolve board.yaml                  # Resolve all parts
  kipart validate board.yaml                 # Resolve, then check nets
  kipart nets board.yaml --json              # Net report as JSON
  kipart cache show C29781                   # Inspect a cached part
  kipart symbol info lib.kicad_sym LM2596    # Show a library symbol`,
	Version:            "0.1.0",
	SilenceUsage:       true,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: teardownApp,
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	// post-run hooks are skipped when a command fails
	if cerr := teardownApp(nil, nil); cerr != nil {
		fmt.Fprintln(os.Stderr, cerr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "kipart.yaml", "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")
	rootCmd.PersistentFlags().BoolVar(&noExternal, "no-external", false, "do not run the LCSC conversion tool")
}
