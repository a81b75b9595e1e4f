package symlib

import (
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/kipart/pkg/kicad/sexp"
	"github.com/OpenTraceLab/kipart/pkg/kicad/sexp/kicadsexp"
)

// LibrarySymbol is one top-level symbol of a .kicad_sym library.
type LibrarySymbol struct {
	Name       string
	Text       string // verbatim definition, "(symbol ...)"
	Properties []sexp.Property
}

// Property returns the value of the named property, or "".
func (s LibrarySymbol) Property(key string) string {
	for _, p := range s.Properties {
		if p.Key == key {
			return p.Value
		}
	}
	return ""
}

// Extract runs pin extraction over the symbol's definition text.
func (s LibrarySymbol) Extract() (Symbol, error) {
	return Extract(s.Text)
}

// LoadLibraryFile reads and splits a KiCad symbol library file.
func LoadLibraryFile(filename string) ([]LibrarySymbol, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	syms, err := ParseLibrary(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return syms, nil
}

// ParseLibrary splits a (kicad_symbol_lib ...) document into its top-level
// symbols, keeping each symbol's source text.
func ParseLibrary(r io.Reader) ([]LibrarySymbol, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read library: %w", err)
	}
	text := string(data)

	sexps, err := kicadsexp.ParseString(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}
	if len(sexps) == 0 {
		return nil, fmt.Errorf("empty file or no valid s-expressions found")
	}

	root := sexps[0]
	rootName, err := sexp.GetNodeName(root)
	if err != nil {
		return nil, fmt.Errorf("failed to get root node name: %w", err)
	}
	if rootName != "kicad_symbol_lib" {
		return nil, fmt.Errorf("not a KiCad symbol library: expected 'kicad_symbol_lib', got '%s'", rootName)
	}

	nodes := sexp.FindAllNodes(root, "symbol")
	symbols := make([]LibrarySymbol, 0, len(nodes))
	for _, node := range nodes {
		name, err := sexp.GetString(node, 1)
		if err != nil {
			return nil, fmt.Errorf("symbol without name: %w", err)
		}
		start, end, ok := sexp.Span(node)
		if !ok {
			return nil, fmt.Errorf("symbol %q: source span unavailable", name)
		}

		sym := LibrarySymbol{Name: name, Text: text[start:end]}
		for _, pn := range sexp.FindAllNodes(node, "property") {
			if prop, err := sexp.GetProperty(pn); err == nil {
				sym.Properties = append(sym.Properties, prop)
			}
		}
		symbols = append(symbols, sym)
	}

	return symbols, nil
}
