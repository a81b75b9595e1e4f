package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/OpenTraceLab/kipart/internal/config"
	"github.com/OpenTraceLab/kipart/internal/logging"
	"github.com/OpenTraceLab/kipart/internal/metrics"
	"github.com/OpenTraceLab/kipart/internal/project"
	"github.com/OpenTraceLab/kipart/pkg/cache"
	"github.com/OpenTraceLab/kipart/pkg/catalog"
	"github.com/OpenTraceLab/kipart/pkg/lcsc"
	"github.com/OpenTraceLab/kipart/pkg/parts"
	"github.com/OpenTraceLab/kipart/pkg/resolver"
)

// app carries the per-run state shared by the subcommands.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	catalog *catalog.Catalog
	store   cache.Store
}

var current *app

func setupApp(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if noExternal {
		cfg.LCSC.Disabled = true
	}
	if metricsFile != "" {
		cfg.Metrics.File = metricsFile
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	logger, _ = logging.WithRun(logger)
	logger = logger.With(zap.String("command", cmd.Name()))

	current = &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.New(),
	}
	return nil
}

func teardownApp(cmd *cobra.Command, args []string) error {
	a := current
	current = nil
	if a == nil {
		return nil
	}
	return a.close()
}

func (a *app) close() error {
	var errs []error
	if a.store != nil {
		errs = append(errs, cache.Close(a.store))
		a.store = nil
	}
	if a.cfg.Metrics.File != "" {
		if err := a.metrics.WriteTextfile(a.cfg.Metrics.File); err != nil {
			errs = append(errs, fmt.Errorf("metrics: %w", err))
		}
	}
	_ = a.logger.Sync()
	return errors.Join(errs...)
}

func (a *app) getCatalog() (*catalog.Catalog, error) {
	if a.catalog == nil {
		cat, err := a.cfg.BuildCatalog()
		if err != nil {
			return nil, err
		}
		a.catalog = cat
	}
	return a.catalog, nil
}

func (a *app) getStore(ctx context.Context) (cache.Store, error) {
	if a.store == nil {
		s, err := cache.Open(ctx, a.cfg.CacheOptions())
		if err != nil {
			return nil, err
		}
		a.store = s
	}
	return a.store, nil
}

func (a *app) fetcher() lcsc.Fetcher {
	if a.cfg.LCSC.Disabled {
		return nil
	}
	f, err := lcsc.NewCommandFetcher(a.cfg.LCSC.Command, a.cfg.LCSC.Timeout)
	if err != nil {
		a.logger.Warn("external lookup disabled", zap.Error(err))
		return nil
	}
	if !f.Available() {
		a.logger.Info("LCSC tool not found, using cache and catalog only", zap.String("tool", f.Program()))
		return nil
	}
	return lcsc.NewBreakerFetcher(f, a.cfg.LCSC.TripThreshold)
}

func (a *app) resolver(ctx context.Context) (*resolver.Resolver, error) {
	cat, err := a.getCatalog()
	if err != nil {
		return nil, err
	}
	store, err := a.getStore(ctx)
	if err != nil {
		return nil, err
	}
	return resolver.New(a.cfg.ResolverConfig(), cat, store, a.fetcher(),
		resolver.WithLogger(a.logger),
		resolver.WithRecorder(a.metrics),
	), nil
}

// resolveProject loads path and resolves its parts. The resolved records
// are returned even when required parts failed; err is then an
// *resolver.AggregateError.
func (a *app) resolveProject(ctx context.Context, path string) (*project.Project, []parts.Resolved, error) {
	proj, err := project.Load(path)
	if err != nil {
		return nil, nil, err
	}
	r, err := a.resolver(ctx)
	if err != nil {
		return nil, nil, err
	}

	a.logger.Info("resolving project",
		zap.String("project", proj.Name),
		zap.Int("parts", len(proj.Parts)),
		zap.Strings("tiers", r.Tiers()),
	)
	resolved, err := r.ResolveAll(ctx, proj.Parts)
	return proj, resolved, err
}
