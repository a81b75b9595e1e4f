package cache

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendDir    = "dir"
	BackendSQLite = "sqlite"
)

// Backends lists the accepted backend names.
var Backends = []string{BackendMemory, BackendDir, BackendSQLite}

// Options selects and locates a cache backend.
type Options struct {
	Backend string
	// Path is the cache root for "dir" and the database file for "sqlite".
	Path string
}

// Locator is implemented by stores that own a per-part directory the
// external tool can write into.
type Locator interface {
	PartDir(id string) (string, error)
}

// Open returns the store selected by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case BackendMemory:
		return NewMemoryStore(), nil

	case "", BackendDir:
		if opts.Path == "" {
			return nil, fmt.Errorf("cache: dir backend requires a path")
		}
		return NewDirStore(opts.Path), nil

	case BackendSQLite:
		if opts.Path == "" {
			return nil, fmt.Errorf("cache: sqlite backend requires a path")
		}
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, fmt.Errorf("cache: %w", err)
		}
		db, err := OpenSQLite(opts.Path)
		if err != nil {
			return nil, fmt.Errorf("cache: open %s: %w", opts.Path, err)
		}
		return NewSQLStore(ctx, db)

	default:
		return nil, fmt.Errorf("cache: unknown backend %q", opts.Backend)
	}
}

// Close releases s if it holds resources.
func Close(s Store) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
