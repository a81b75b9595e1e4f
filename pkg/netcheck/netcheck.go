// Package netcheck checks that every pin a project connects to a net
// exists on the part's resolved symbol.
package netcheck

import (
	"fmt"
	"sort"
	"strings"

	"github.com/OpenTraceLab/kipart/pkg/kicad/symlib"
	"github.com/OpenTraceLab/kipart/pkg/parts"
)

// Pin sources, in the order they are tried.
const (
	SourceResolved = "resolved"
	SourceBuiltin  = "builtin"
	SourceNone     = "none"
)

// previewLimit caps the pin list shown in a mismatch message.
const previewLimit = 10

// SymbolSource returns the definition text of a symbol by name.
// *catalog.Catalog satisfies it.
type SymbolSource interface {
	SymbolText(name string) (string, bool)
}

// Result holds the findings of one validation run.
type Result struct {
	Errors   []string
	Warnings []string
}

// OK reports whether the run found no errors.
func (r Result) OK() bool { return len(r.Errors) == 0 }

// Validator checks declared pin connections. It holds no mutable state and
// is safe for concurrent use.
type Validator struct {
	symbols SymbolSource
}

// New returns a validator that falls back to symbols for parts resolved
// without pin data. symbols may be nil.
func New(symbols SymbolSource) *Validator {
	return &Validator{symbols: symbols}
}

// Validate checks every resolved part against its pin table. Mismatches
// on parts marked optional in the index are warnings, all others errors.
func (v *Validator) Validate(resolved []parts.Resolved, optional parts.OptionalIndex) Result {
	var res Result
	for _, p := range resolved {
		if len(p.Nets) == 0 {
			continue
		}

		pins, _ := v.PinsFor(p)
		if len(pins) == 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"pin info unavailable, skipping validation for %s (%s) symbol=%s",
				p.Ref, p.Role, p.SymbolName))
			continue
		}

		keys := make([]string, 0, len(p.Nets))
		for k := range p.Nets {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, key := range keys {
			if MatchPin(pins, key) {
				continue
			}
			msg := fmt.Sprintf("%s (%s) symbol=%s: pin '%s' not found for net %s; available: %s",
				p.Ref, p.Role, p.SymbolName, key, p.Nets[key], Preview(pins))
			if optional.IsOptional(p.Ref) {
				res.Warnings = append(res.Warnings, msg)
			} else {
				res.Errors = append(res.Errors, msg)
			}
		}
	}
	return res
}

// ValidateDeclarations is Validate with the optional index built from decls.
func (v *Validator) ValidateDeclarations(resolved []parts.Resolved, decls []parts.Declaration) Result {
	return v.Validate(resolved, parts.IndexOptional(decls))
}

// PinsFor returns the pin table used for p and where it came from.
func (v *Validator) PinsFor(p parts.Resolved) ([]parts.Pin, string) {
	if len(p.Pins) > 0 {
		return p.Pins, SourceResolved
	}
	if v.symbols != nil && p.SymbolName != "" {
		if text, ok := v.symbols.SymbolText(p.SymbolName); ok {
			if pins := symlib.ExtractPins(text); len(pins) > 0 {
				return pins, SourceBuiltin
			}
		}
	}
	return nil, SourceNone
}

// MatchPin reports whether key names a pin: exact name, then exact
// number, then case-insensitive name.
func MatchPin(pins []parts.Pin, key string) bool {
	_, ok := FindPin(pins, key)
	return ok
}

// FindPin returns the pin key refers to, using the MatchPin rules.
func FindPin(pins []parts.Pin, key string) (parts.Pin, bool) {
	for _, p := range pins {
		if p.Name == key {
			return p, true
		}
	}
	for _, p := range pins {
		if p.Number == key {
			return p, true
		}
	}
	for _, p := range pins {
		if strings.EqualFold(p.Name, key) {
			return p, true
		}
	}
	return parts.Pin{}, false
}

// Preview formats up to ten pins for a diagnostic message.
func Preview(pins []parts.Pin) string {
	n := min(len(pins), previewLimit)
	items := make([]string, 0, n)
	for _, p := range pins[:n] {
		if p.Name == p.Number {
			items = append(items, p.Name)
		} else {
			items = append(items, fmt.Sprintf("%s(%s)", p.Name, p.Number))
		}
	}
	s := strings.Join(items, ", ")
	if extra := len(pins) - n; extra > 0 {
		s += fmt.Sprintf(", +%d more", extra)
	}
	return s
}
