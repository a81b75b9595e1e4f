package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/OpenTraceLab/kipart/pkg/netcheck"
	"github.com/OpenTraceLab/kipart/pkg/netlist"
	"github.com/OpenTraceLab/kipart/pkg/resolver"
)

var netsJSON bool

var netsCmd = &cobra.Command{
	Use:   "nets <project.yaml>",
	Short: "Show the nets declared by a project",
	Long: `Group every declared pin connection by net name.

Pin names are mapped to pin numbers where the symbol is known. Nets that
reach a single pin and nets merged through one physical pin declared
under two names are listed separately.`,
	Args: cobra.ExactArgs(1),
	RunE: runNets,
}

func init() {
	rootCmd.AddCommand(netsCmd)

	netsCmd.Flags().BoolVar(&netsJSON, "json", false, "output as JSON")
}

func runNets(cmd *cobra.Command, args []string) error {
	_, resolved, err := current.resolveProject(cmd.Context(), args[0])
	var agg *resolver.AggregateError
	if errors.As(err, &agg) {
		current.logger.Warn("some parts could not be resolved; their nets are omitted", zap.Strings("refs", agg.Refs()))
	} else if err != nil {
		return err
	}
	cat, err := current.getCatalog()
	if err != nil {
		return err
	}

	nl := netlist.Build(resolved, netcheck.New(cat))

	out := cmd.OutOrStdout()
	if netsJSON {
		data, err := nl.ExportJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintf(out, "Nets (%d total):\n", nl.NetCount())
	for _, n := range nl.Nets {
		pins := make([]string, len(n.Pins))
		for i, p := range n.Pins {
			pins[i] = p.String()
		}
		fmt.Fprintf(out, "  %-16s %s\n", n.Name, strings.Join(pins, " "))
	}

	if single := nl.SingleConnection(); len(single) > 0 {
		fmt.Fprintf(out, "\nSingle-connection nets:\n")
		for _, n := range single {
			fmt.Fprintf(out, "  %s (%s)\n", n.Name, n.Pins[0])
		}
	}
	if shorts := nl.Shorts(); len(shorts) > 0 {
		fmt.Fprintf(out, "\nNets joined through a shared pin:\n")
		for _, n := range shorts {
			fmt.Fprintf(out, "  %s = %s\n", n.Name, strings.Join(n.Aliases, " = "))
		}
	}
	return nil
}
