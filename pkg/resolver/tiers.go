package resolver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/OpenTraceLab/kipart/pkg/cache"
	"github.com/OpenTraceLab/kipart/pkg/catalog"
	"github.com/OpenTraceLab/kipart/pkg/kicad/symlib"
	"github.com/OpenTraceLab/kipart/pkg/lcsc"
	"github.com/OpenTraceLab/kipart/pkg/parts"
)

// Tier names.
const (
	TierExternal = "external"
	TierCatalog  = "catalog"
	TierFallback = parts.TierFallback
)

// Partial is what a single tier contributes.
type Partial struct {
	SymbolName       string
	Value            string
	FootprintName    string
	FootprintLibrary string
	Pins             []parts.Pin
}

// merge fills the unset fields of p from q.
func (p Partial) merge(q Partial) Partial {
	if p.SymbolName == "" {
		p.SymbolName = q.SymbolName
	}
	if p.Value == "" {
		p.Value = q.Value
	}
	if p.FootprintName == "" {
		p.FootprintName = q.FootprintName
	}
	if p.FootprintLibrary == "" {
		p.FootprintLibrary = q.FootprintLibrary
	}
	if len(p.Pins) == 0 && len(q.Pins) > 0 {
		p.Pins = append([]parts.Pin(nil), q.Pins...)
	}
	return p
}

// Tier is one stage of the resolution chain. Resolve returns false when
// the tier does not apply or failed; failures are never returned as errors.
type Tier interface {
	Name() string
	Resolve(ctx context.Context, decl parts.Declaration) (Partial, bool)
}

// ExternalTier resolves parts by LCSC number, consulting the cache before
// running the conversion tool.
type ExternalTier struct {
	store     cache.Store
	fetcher   lcsc.Fetcher
	available bool
	timeout   time.Duration
	workDir   string
	logger    *zap.Logger
	recorder  Recorder

	group singleflight.Group
}

// NewExternalTier builds the external tier. fetcher may be nil, in which
// case only cached parts resolve. Tool availability is checked here, once.
// workDir receives tool output for stores that do not own a directory per
// part; empty selects a temporary directory per fetch.
func NewExternalTier(store cache.Store, fetcher lcsc.Fetcher, timeout time.Duration, workDir string, logger *zap.Logger, rec Recorder) *ExternalTier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	if timeout <= 0 {
		timeout = lcsc.DefaultTimeout
	}
	return &ExternalTier{
		store:     store,
		fetcher:   fetcher,
		available: fetcher != nil && fetcher.Available(),
		timeout:   timeout,
		workDir:   workDir,
		logger:    logger,
		recorder:  rec,
	}
}

// Name implements Tier.
func (t *ExternalTier) Name() string { return TierExternal }

// Available reports whether the tool was found at construction.
func (t *ExternalTier) Available() bool { return t.available }

// Resolve implements Tier.
func (t *ExternalTier) Resolve(ctx context.Context, decl parts.Declaration) (Partial, bool) {
	id := strings.TrimSpace(decl.ExternalID)
	if id == "" || (t.store == nil && !t.available) {
		return Partial{}, false
	}
	log := t.logger.With(zap.String("ref", decl.Ref), zap.String("lcsc", id))

	if t.store != nil {
		e, found, err := t.store.Get(ctx, id)
		switch {
		case err != nil:
			log.Warn("cache lookup failed, refetching", zap.Error(err))
		case found:
			log.Debug("cache hit", zap.String("symbol", e.SymbolName))
			return partialFromEntry(e), true
		}
	}

	if !t.available {
		return Partial{}, false
	}

	key, err := cache.NormalizeKey(id)
	if err != nil {
		log.Warn("external lookup skipped", zap.Error(err))
		t.recorder.ObserveTierFailure(TierExternal)
		return Partial{}, false
	}

	v, err, _ := t.group.Do(key, func() (any, error) {
		return t.fetch(ctx, key)
	})
	if err != nil {
		log.Warn("external lookup failed, falling back", zap.Error(err))
		t.recorder.ObserveTierFailure(TierExternal)
		return Partial{}, false
	}
	return partialFromEntry(v.(cache.Entry)), true
}

func (t *ExternalTier) fetch(ctx context.Context, key string) (cache.Entry, error) {
	// A flight for the same key may have completed since our cache miss.
	if t.store != nil {
		if e, found, err := t.store.Get(ctx, key); err == nil && found {
			return e, nil
		}
	}

	outDir, cleanup, err := t.outputDir(key)
	if err != nil {
		return cache.Entry{}, err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	start := time.Now()
	res, err := t.fetcher.Fetch(ctx, key, outDir)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, lcsc.ErrTimeout) {
		err = fmt.Errorf("%w: %v", lcsc.ErrTimeout, err)
	}
	t.recorder.ObserveExternal(time.Since(start), err)
	if err != nil {
		return cache.Entry{}, err
	}

	data, err := os.ReadFile(res.SymbolFile)
	if err != nil {
		return cache.Entry{}, fmt.Errorf("read symbol: %w", err)
	}
	sym, err := symlib.Extract(string(data))
	if err != nil {
		return cache.Entry{}, fmt.Errorf("%s: %w", res.SymbolFile, err)
	}

	e := cache.Entry{
		SymbolName:       sym.Name,
		FootprintName:    res.FootprintName(),
		FootprintLibrary: footprintLibrary(res.FootprintFile),
		Value:            sym.Name,
		Pins:             sym.Pins,
	}
	if _, ok := t.store.(cache.Locator); ok {
		e.SymbolFile = res.SymbolFile
		e.FootprintFile = res.FootprintFile
	}

	if t.store != nil {
		if err := t.store.Put(ctx, key, e); err != nil {
			t.logger.Warn("cache store failed", zap.String("lcsc", key), zap.Error(err))
		} else {
			t.logger.Debug("cached external part", zap.String("lcsc", key), zap.String("symbol", e.SymbolName))
		}
	}
	return e, nil
}

// outputDir picks where the tool writes. Stores that own a directory per
// part keep the files; otherwise they are removed after extraction.
func (t *ExternalTier) outputDir(key string) (string, func(), error) {
	if loc, ok := t.store.(cache.Locator); ok {
		dir, err := loc.PartDir(key)
		return dir, func() {}, err
	}
	if t.workDir != "" {
		if err := os.MkdirAll(t.workDir, 0o755); err != nil {
			return "", nil, err
		}
	}
	dir, err := os.MkdirTemp(t.workDir, "kipart-"+key+"-")
	if err != nil {
		return "", nil, err
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}

// footprintLibrary derives the library nickname from a footprint stored
// in a "<lib>.pretty" directory.
func footprintLibrary(footprintFile string) string {
	if footprintFile == "" {
		return ""
	}
	dir := filepath.Base(filepath.Dir(footprintFile))
	if lib, ok := strings.CutSuffix(dir, ".pretty"); ok {
		return lib
	}
	return ""
}

func partialFromEntry(e cache.Entry) Partial {
	return Partial{
		SymbolName:       e.SymbolName,
		Value:            e.Value,
		FootprintName:    e.FootprintName,
		FootprintLibrary: e.FootprintLibrary,
		Pins:             append([]parts.Pin(nil), e.Pins...),
	}
}

// CatalogTier resolves parts by role from the symbol catalog.
type CatalogTier struct {
	catalog *catalog.Catalog
}

// NewCatalogTier returns a tier backed by cat.
func NewCatalogTier(cat *catalog.Catalog) *CatalogTier {
	return &CatalogTier{catalog: cat}
}

// Name implements Tier.
func (t *CatalogTier) Name() string { return TierCatalog }

// Resolve implements Tier.
func (t *CatalogTier) Resolve(_ context.Context, decl parts.Declaration) (Partial, bool) {
	if t.catalog == nil || decl.Role == "" {
		return Partial{}, false
	}
	e, ok := t.catalog.Lookup(decl.Role)
	if !ok || e.Symbol == "" {
		return Partial{}, false
	}
	return Partial{
		SymbolName:       e.Symbol,
		Value:            e.Value,
		FootprintName:    e.Footprint,
		FootprintLibrary: e.FootprintLibrary,
	}, true
}

// FallbackTier uses the role itself as symbol and value. The result is
// degraded and logged as such.
type FallbackTier struct {
	logger *zap.Logger
}

// NewFallbackTier returns the last-resort tier.
func NewFallbackTier(logger *zap.Logger) *FallbackTier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackTier{logger: logger}
}

// Name implements Tier.
func (t *FallbackTier) Name() string { return TierFallback }

// Resolve implements Tier.
func (t *FallbackTier) Resolve(_ context.Context, decl parts.Declaration) (Partial, bool) {
	if decl.Role == "" {
		return Partial{}, false
	}
	t.logger.Warn("no symbol source for part, using role name as symbol",
		zap.String("ref", decl.Ref),
		zap.String("role", decl.Role),
	)
	return Partial{SymbolName: decl.Role, Value: decl.Role}, true
}
