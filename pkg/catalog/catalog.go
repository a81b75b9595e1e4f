// Package catalog maps project roles to default symbols and holds the
// symbol definitions the resolver and validator fall back to when no
// external part data is available.
package catalog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/OpenTraceLab/kipart/pkg/kicad/symlib"
	"github.com/OpenTraceLab/kipart/pkg/parts"
)

// Entry is the default symbol choice for a role.
type Entry struct {
	Symbol           string `yaml:"symbol"`
	Value            string `yaml:"value"`
	Footprint        string `yaml:"footprint"`
	FootprintLibrary string `yaml:"footprint_library"`
}

// Catalog is a role table plus a symbol-name -> definition text table.
// It is populated at start-up and read-only afterwards.
type Catalog struct {
	mu      sync.RWMutex
	roles   map[string]Entry
	symbols map[string]string
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{
		roles:   make(map[string]Entry),
		symbols: make(map[string]string),
	}
}

// Default returns a catalog preloaded with the builtin roles and symbols.
func Default() *Catalog {
	c := New()
	for role, e := range builtinRoles {
		c.roles[role] = e
	}
	for _, text := range builtinSymbols {
		name, ok := symlib.ExtractName(text)
		if !ok {
			panic("catalog: builtin symbol without name")
		}
		c.symbols[name] = text
	}
	return c
}

// Lookup returns the entry registered for role.
func (c *Catalog) Lookup(role string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.roles[role]
	return e, ok
}

// SymbolText returns the definition text of a symbol.
func (c *Catalog) SymbolText(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	text, ok := c.symbols[name]
	return text, ok
}

// Pins extracts the pin table of a known symbol. Unknown symbols yield nil.
func (c *Catalog) Pins(name string) []parts.Pin {
	text, ok := c.SymbolText(name)
	if !ok {
		return nil
	}
	return symlib.ExtractPins(text)
}

// AddRole registers or replaces the entry for role.
func (c *Catalog) AddRole(role string, e Entry) error {
	if role == "" {
		return fmt.Errorf("catalog: empty role")
	}
	if e.Symbol == "" {
		return fmt.Errorf("catalog: role %s has no symbol", role)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roles[role] = e
	return nil
}

// AddSymbol registers a symbol definition under the name found in its
// header and returns that name.
func (c *Catalog) AddSymbol(text string) (string, error) {
	name, ok := symlib.ExtractName(text)
	if !ok {
		return "", fmt.Errorf("catalog: %w", symlib.ErrNoSymbol)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.symbols[name] = text
	return name, nil
}

// LoadLibrary merges every symbol of a .kicad_sym file into the catalog and
// returns how many were added. Later libraries override earlier ones.
func (c *Catalog) LoadLibrary(path string) (int, error) {
	syms, err := symlib.LoadLibraryFile(path)
	if err != nil {
		return 0, fmt.Errorf("catalog: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range syms {
		c.symbols[s.Name] = s.Text
	}
	return len(syms), nil
}

// Roles returns the registered roles, sorted.
func (c *Catalog) Roles() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedKeys(c.roles)
}

// Symbols returns the names of all known symbols, sorted.
func (c *Catalog) Symbols() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedKeys(c.symbols)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
