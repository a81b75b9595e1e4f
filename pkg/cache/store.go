// Package cache persists the outcome of external part lookups keyed by
// external part number, so a part is fetched from the LCSC tool only once.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/OpenTraceLab/kipart/pkg/parts"
)

var (
	// ErrCorrupt marks a stored record that could not be decoded.
	ErrCorrupt = errors.New("cache: corrupt entry")
	// ErrInvalidKey is returned for ids that cannot be used as a key.
	ErrInvalidKey = errors.New("cache: invalid key")
)

// Entry is the cached outcome of resolving one external part number.
// Entries are replaced wholesale, never patched.
type Entry struct {
	SymbolName       string      `json:"symbol_name"`
	FootprintName    string      `json:"footprint_name"`
	FootprintLibrary string      `json:"footprint_library,omitempty"`
	Value            string      `json:"value"`
	Pins             []parts.Pin `json:"pins,omitempty"`
	SymbolFile       string      `json:"symbol_file,omitempty"`
	FootprintFile    string      `json:"footprint_file,omitempty"`
}

// Store reads and writes cache entries.
type Store interface {
	// Get returns the entry for id; found is false on a miss.
	Get(ctx context.Context, id string) (e Entry, found bool, err error)

	// Put stores e under id, replacing any previous entry.
	Put(ctx context.Context, id string, e Entry) error
}

// NormalizeKey trims an external id and rejects ids that would be unsafe
// as a directory or primary key.
func NormalizeKey(id string) (string, error) {
	key := strings.TrimSpace(id)
	if key == "" || key == "." || key == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, id)
	}
	if strings.ContainsAny(key, `/\:*?"<>|`) || strings.ContainsRune(key, 0) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, id)
	}
	return strings.ToUpper(key), nil
}
