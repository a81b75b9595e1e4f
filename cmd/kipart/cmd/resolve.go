package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/kipart/pkg/parts"
	"github.com/OpenTraceLab/kipart/pkg/resolver"
)

var (
	outputJSON bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <project.yaml>",
	Short: "Resolve every part of a project",
	Long: `Resolve each declared part to a symbol, value and footprint.

Parts with an LCSC number are looked up in the cache and, on a miss, with
the LCSC conversion tool. Parts without one (or whose lookup failed) use
the role catalog; unknown roles fall back to the role name.

Exits non-zero when a required part cannot be resolved.

Examples:
  kipart resolve board.yaml
  kipart resolve board.yaml --json
  kipart resolve board.yaml --no-external`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().BoolVar(&outputJSON, "json", false,
		"output as JSON (for programmatic access)")
}

func runResolve(cmd *cobra.Command, args []string) error {
	proj, resolved, err := current.resolveProject(cmd.Context(), args[0])
	if proj == nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		if jerr := writeJSON(out, resolved); jerr != nil {
			return jerr
		}
	} else {
		printResolved(out, proj.Name, resolved)
	}

	var agg *resolver.AggregateError
	if errors.As(err, &agg) {
		return agg
	}
	return err
}

func printResolved(out io.Writer, name string, resolved []parts.Resolved) {
	if name != "" {
		fmt.Fprintf(out, "Project: %s\n\n", name)
	}
	fmt.Fprintf(out, "%-8s %-20s %-28s %-16s %-10s %s\n", "REF", "ROLE", "SYMBOL", "VALUE", "TIER", "FOOTPRINT")
	degraded := 0
	for _, p := range resolved {
		tier := p.Tier
		if tier == "" {
			tier = "-"
		}
		fp := p.FootprintRef()
		if fp == "" {
			fp = "-"
		}
		fmt.Fprintf(out, "%-8s %-20s %-28s %-16s %-10s %s\n", p.Ref, p.Role, p.SymbolName, p.Value, tier, fp)
		if p.Degraded() {
			degraded++
		}
	}
	fmt.Fprintf(out, "\n%d part(s) resolved", len(resolved))
	if degraded > 0 {
		fmt.Fprintf(out, ", %d using the role name as symbol", degraded)
	}
	fmt.Fprintln(out)
}

func writeJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
