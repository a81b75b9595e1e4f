package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/kipart/pkg/kicad/symlib"
)

var symbolCmd = &cobra.Command{
	Use:   "symbol",
	Short: "KiCad symbol library operations",
	Long:  `Commands for working with KiCad symbol libraries (.kicad_sym) and the builtin role catalog.`,
}

var symbolInfoCmd = &cobra.Command{
	Use:   "info <library_file> [symbol]",
	Short: "Show symbol library information",
	Long: `Display the symbols of a KiCad symbol library.

Without symbol argument: lists every symbol with its pin count
With symbol argument: shows properties and pins of that symbol`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSymbolInfo,
}

var symbolRolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the role catalog",
	Args:  cobra.NoArgs,
	RunE:  runSymbolRoles,
}

func init() {
	rootCmd.AddCommand(symbolCmd)
	symbolCmd.AddCommand(symbolInfoCmd)
	symbolCmd.AddCommand(symbolRolesCmd)
}

func runSymbolInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]
	syms, err := symlib.LoadLibraryFile(filename)
	if err != nil {
		return fmt.Errorf("error parsing library: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(args) >= 2 {
		for _, s := range syms {
			if s.Name == args[1] {
				return showSymbolDetails(out, s)
			}
		}
		return fmt.Errorf("symbol %q not found in %s", args[1], filename)
	}

	fmt.Fprintf(out, "Library: %s\n", filename)
	fmt.Fprintf(out, "Symbols (%d total):\n", len(syms))
	for _, s := range syms {
		sym, err := s.Extract()
		if err != nil {
			fmt.Fprintf(out, "  %-32s (unreadable: %v)\n", s.Name, err)
			continue
		}
		fmt.Fprintf(out, "  %-32s %d pins\n", s.Name, len(sym.Pins))
	}
	return nil
}

func showSymbolDetails(out io.Writer, s symlib.LibrarySymbol) error {
	sym, err := s.Extract()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Symbol: %s\n", sym.Name)
	for _, key := range []string{"Reference", "Value", "Footprint", "Datasheet", "LCSC"} {
		if v := s.Property(key); v != "" {
			fmt.Fprintf(out, "  %s: %s\n", key, v)
		}
	}
	fmt.Fprintf(out, "\nPins (%d total):\n", len(sym.Pins))
	for _, p := range sym.Pins {
		fmt.Fprintf(out, "  %-6s %-16s %s\n", p.Number, p.Name, p.Type)
	}
	return nil
}

func runSymbolRoles(cmd *cobra.Command, args []string) error {
	cat, err := current.getCatalog()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-20s %-28s %-16s %s\n", "ROLE", "SYMBOL", "VALUE", "FOOTPRINT")
	for _, role := range cat.Roles() {
		e, _ := cat.Lookup(role)
		fp := e.Footprint
		if fp != "" && e.FootprintLibrary != "" {
			fp = e.FootprintLibrary + ":" + fp
		}
		if fp == "" {
			fp = "-"
		}
		fmt.Fprintf(out, "%-20s %-28s %-16s %s\n", role, e.Symbol, e.Value, fp)
	}
	return nil
}
