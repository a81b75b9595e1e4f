package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the part cache",
	Long:  `Commands for inspecting the LCSC part cache.`,
}

var cacheShowCmd = &cobra.Command{
	Use:   "show <lcsc-id>",
	Short: "Show the cached resolution of an LCSC part",
	Args:  cobra.ExactArgs(1),
	RunE:  runCacheShow,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheShowCmd)
}

func runCacheShow(cmd *cobra.Command, args []string) error {
	store, err := current.getStore(cmd.Context())
	if err != nil {
		return err
	}
	e, found, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%s is not cached", args[0])
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Part: %s\n", args[0])
	fmt.Fprintf(out, "  Symbol: %s\n", e.SymbolName)
	fmt.Fprintf(out, "  Value: %s\n", e.Value)
	if e.FootprintLibrary != "" {
		fmt.Fprintf(out, "  Footprint: %s:%s\n", e.FootprintLibrary, e.FootprintName)
	} else {
		fmt.Fprintf(out, "  Footprint: %s\n", e.FootprintName)
	}
	if e.SymbolFile != "" {
		fmt.Fprintf(out, "  Symbol file: %s\n", e.SymbolFile)
	}
	if e.FootprintFile != "" {
		fmt.Fprintf(out, "  Footprint file: %s\n", e.FootprintFile)
	}
	fmt.Fprintf(out, "  Pins (%d):\n", len(e.Pins))
	for _, p := range e.Pins {
		fmt.Fprintf(out, "    %-6s %-16s %s\n", p.Number, p.Name, p.Type)
	}
	return nil
}
