package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// MetaFile is the record written inside every per-part cache directory.
const MetaFile = "part.json"

// DirStore keeps one sub-directory per external id under Root. Besides the
// metadata record the directory is where the LCSC tool output for that part
// lives.
type DirStore struct {
	Root string
}

// NewDirStore returns a store rooted at root. The directory is created
// lazily on the first Put.
func NewDirStore(root string) *DirStore {
	return &DirStore{Root: root}
}

// PartDir returns the directory used for id.
func (s *DirStore) PartDir(id string) (string, error) {
	key, err := NormalizeKey(id)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.Root, key), nil
}

// Get implements Store.
func (s *DirStore) Get(ctx context.Context, id string) (Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, false, err
	}
	dir, err := s.PartDir(id)
	if err != nil {
		return Entry{}, false, err
	}

	data, err := os.ReadFile(filepath.Join(dir, MetaFile))
	if errors.Is(err, fs.ErrNotExist) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("cache: read %s: %w", id, err)
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, false, fmt.Errorf("%w: %s: %v", ErrCorrupt, id, err)
	}
	if e.SymbolName == "" {
		return Entry{}, false, fmt.Errorf("%w: %s: missing symbol name", ErrCorrupt, id)
	}
	return e, true, nil
}

// Put implements Store. The record is written to a temporary file and
// renamed into place so readers never observe a partial write.
func (s *DirStore) Put(ctx context.Context, id string, e Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir, err := s.PartDir(id)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cache: create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", id, err)
	}

	tmp, err := os.CreateTemp(dir, MetaFile+".*")
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("cache: write %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cache: write %s: %w", id, err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, MetaFile)); err != nil {
		return fmt.Errorf("cache: commit %s: %w", id, err)
	}
	return nil
}
