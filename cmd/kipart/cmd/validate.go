package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/OpenTraceLab/kipart/pkg/netcheck"
	"github.com/OpenTraceLab/kipart/pkg/resolver"
)

var validateCmd = &cobra.Command{
	Use:   "validate <project.yaml>",
	Short: "Resolve a project and check its pin/net declarations",
	Long: `Resolve every part, then check that each pin named in a part's nets
exists on the resolved symbol. Pins match by exact name, then by number,
then by name ignoring case.

Mismatches on required parts are errors; on optional parts, and for parts
without any pin information, they are warnings. Exits non-zero when
resolution or validation reports an error. Parts that failed to resolve
are reported and left out of the check.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	proj, resolved, resolveErr := current.resolveProject(cmd.Context(), args[0])
	var agg *resolver.AggregateError
	if proj == nil || (resolveErr != nil && !errors.As(resolveErr, &agg)) {
		return resolveErr
	}
	cat, err := current.getCatalog()
	if err != nil {
		return err
	}

	res := netcheck.New(cat).Validate(resolved, proj.Optional())
	current.metrics.ObserveValidation(res)
	current.logger.Info("validation finished",
		zap.Int("errors", len(res.Errors)),
		zap.Int("warnings", len(res.Warnings)),
	)

	out := cmd.OutOrStdout()
	for _, msg := range res.Errors {
		fmt.Fprintf(out, "ERROR: %s\n", msg)
	}
	for _, msg := range res.Warnings {
		fmt.Fprintf(out, "WARN:  %s\n", msg)
	}
	fmt.Fprintf(out, "%d part(s) checked: %d error(s), %d warning(s)\n",
		len(resolved), len(res.Errors), len(res.Warnings))

	if agg != nil {
		return agg
	}
	if !res.OK() {
		return fmt.Errorf("validation failed with %d error(s)", len(res.Errors))
	}
	return nil
}
