// Package resolver turns part declarations into resolved part records by
// folding over an ordered chain of tiers: external lookup (cache, then the
// LCSC tool), the role catalog, and finally the role name itself.
package resolver

import (
	"context"
	"maps"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/OpenTraceLab/kipart/pkg/cache"
	"github.com/OpenTraceLab/kipart/pkg/catalog"
	"github.com/OpenTraceLab/kipart/pkg/lcsc"
	"github.com/OpenTraceLab/kipart/pkg/parts"
)

// Config tunes a Resolver.
type Config struct {
	// Timeout bounds one external tool run.
	Timeout time.Duration
	// Workers > 1 resolves parts concurrently in ResolveAll.
	Workers int
	// DisableFallback drops the role-name tier, so parts without an
	// external or catalog match fail.
	DisableFallback bool
	// WorkDir receives tool output when the cache does not keep files.
	WorkDir string
}

// DefaultConfig returns the sequential, fallback-enabled configuration.
func DefaultConfig() Config {
	return Config{
		Timeout: lcsc.DefaultTimeout,
		Workers: 1,
	}
}

// Option customises a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger. nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec Recorder) Option {
	return func(r *Resolver) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// WithTiers replaces the tier chain.
func WithTiers(tiers ...Tier) Option {
	return func(r *Resolver) {
		r.tiers = tiers
	}
}

// Resolver resolves declarations. It is safe for concurrent use.
type Resolver struct {
	cfg      Config
	tiers    []Tier
	logger   *zap.Logger
	recorder Recorder
}

// New builds the standard tier chain. store and fetcher may be nil.
func New(cfg Config, cat *catalog.Catalog, store cache.Store, fetcher lcsc.Fetcher, opts ...Option) *Resolver {
	r := newResolver(cfg, opts...)
	if r.tiers == nil {
		tiers := []Tier{
			NewExternalTier(store, fetcher, cfg.Timeout, cfg.WorkDir, r.logger, r.recorder),
			NewCatalogTier(cat),
		}
		if !cfg.DisableFallback {
			tiers = append(tiers, NewFallbackTier(r.logger))
		}
		r.tiers = tiers
	}
	return r
}

func newResolver(cfg Config, opts ...Option) *Resolver {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	r := &Resolver{
		cfg:      cfg,
		logger:   zap.NewNop(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tiers returns the names of the configured tiers in order.
func (r *Resolver) Tiers() []string {
	names := make([]string, len(r.tiers))
	for i, t := range r.tiers {
		names[i] = t.Name()
	}
	return names
}

// Resolve resolves one declaration. It fails with *ResolutionError only
// when the part is required and no tier produced a symbol; an optional
// part in that state is returned with an empty symbol name.
func (r *Resolver) Resolve(ctx context.Context, decl parts.Declaration) (parts.Resolved, error) {
	var (
		p    Partial
		tier string
	)
	for _, t := range r.tiers {
		got, ok := t.Resolve(ctx, decl)
		if !ok || got.SymbolName == "" {
			continue
		}
		p = p.merge(got)
		tier = t.Name()
		break
	}

	res := parts.Resolved{
		Ref:               decl.Ref,
		Role:              decl.Role,
		SymbolName:        p.SymbolName,
		Pins:              p.Pins,
		FootprintName:     p.FootprintName,
		FootprintLibrary:  p.FootprintLibrary,
		FootprintOverride: decl.FootprintOverride,
		Value:             p.Value,
		Nets:              maps.Clone(decl.Nets),
		Tier:              tier,
		BOM:               decl.BOM,
	}
	if decl.Value != "" {
		res.Value = decl.Value
	}

	r.recorder.ObserveTier(tier)

	if res.SymbolName == "" {
		if !decl.Optional {
			return res, &ResolutionError{Ref: decl.Ref, Role: decl.Role}
		}
		r.logger.Warn("optional part left unresolved",
			zap.String("ref", decl.Ref),
			zap.String("role", decl.Role),
		)
	}
	return res, nil
}

// ResolveAll resolves every declaration and reports all required-part
// failures at once. The returned slice holds the records of every part
// that did not fail, in input order; the error, if any, is an
// *AggregateError.
func (r *Resolver) ResolveAll(ctx context.Context, decls []parts.Declaration) ([]parts.Resolved, error) {
	results := make([]parts.Resolved, len(decls))
	errs := make([]error, len(decls))

	if r.cfg.Workers > 1 && len(decls) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.cfg.Workers)
		for i, d := range decls {
			i, d := i, d
			g.Go(func() error {
				results[i], errs[i] = r.Resolve(gctx, d)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, d := range decls {
			results[i], errs[i] = r.Resolve(ctx, d)
		}
	}

	resolved := make([]parts.Resolved, 0, len(decls))
	var agg AggregateError
	for i := range decls {
		if errs[i] != nil {
			if re, ok := errs[i].(*ResolutionError); ok {
				agg.Failures = append(agg.Failures, re)
			}
			continue
		}
		resolved = append(resolved, results[i])
	}
	if len(agg.Failures) > 0 {
		return resolved, &agg
	}
	return resolved, nil
}
