package resolver

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/OpenTraceLab/kipart/pkg/cache"
	"github.com/OpenTraceLab/kipart/pkg/catalog"
	"github.com/OpenTraceLab/kipart/pkg/lcsc"
	"github.com/OpenTraceLab/kipart/pkg/parts"
)

func TestResolveCatalogValueOverride(t *testing.T) {
	r := New(DefaultConfig(), catalog.Default(), nil, nil)

	decl := parts.Declaration{
		Ref:   "R1",
		Role:  "resistor",
		Value: "10k",
		Nets:  map[string]string{"1": "VIN", "2": "GND"},
	}
	res, err := r.Resolve(context.Background(), decl)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.SymbolName != "R" {
		t.Errorf("SymbolName = %q, want R", res.SymbolName)
	}
	if res.Value != "10k" {
		t.Errorf("Value = %q, want 10k", res.Value)
	}
	if res.Tier != TierCatalog {
		t.Errorf("Tier = %q, want catalog", res.Tier)
	}
	if res.FootprintRef() != "Resistor_SMD:R_0603_1608Metric" {
		t.Errorf("FootprintRef = %q", res.FootprintRef())
	}
	if !reflect.DeepEqual(res.Nets, decl.Nets) {
		t.Errorf("Nets not carried through: %v", res.Nets)
	}
}

func TestResolveCatalogDefaultValue(t *testing.T) {
	r := New(DefaultConfig(), catalog.Default(), nil, nil)

	res, err := r.Resolve(context.Background(), parts.Declaration{Ref: "U1", Role: "buck_5v"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.SymbolName != "LM2596S-5" || res.Value != "LM2596S-5" {
		t.Errorf("got symbol=%q value=%q", res.SymbolName, res.Value)
	}
}

func TestResolveFallbackTier(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r := New(DefaultConfig(), catalog.Default(), nil, nil, WithLogger(zap.New(core)))

	res, err := r.Resolve(context.Background(), parts.Declaration{Ref: "X1", Role: "mystery_chip", Optional: true})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.SymbolName != "mystery_chip" || res.Value != "mystery_chip" {
		t.Errorf("got symbol=%q value=%q", res.SymbolName, res.Value)
	}
	if !res.Degraded() {
		t.Errorf("fallback result should be degraded")
	}

	entries := logs.FilterField(zap.String("ref", "X1")).All()
	if len(entries) != 1 {
		t.Fatalf("expected one warning naming X1, got %d", len(entries))
	}
}

func TestResolveExternalFailureFallsThrough(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.err = errors.New("exit status 1")
	rec := newCountingRecorder()
	core, logs := observer.New(zapcore.WarnLevel)

	r := New(DefaultConfig(), catalog.Default(), cache.NewMemoryStore(), fetcher,
		WithLogger(zap.New(core)), WithRecorder(rec))

	res, err := r.Resolve(context.Background(), parts.Declaration{
		Ref: "U2", Role: "buck_5v", ExternalID: "C999999",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.SymbolName != "LM2596S-5" || res.Tier != TierCatalog {
		t.Errorf("expected catalog resolution, got %+v", res)
	}
	if fetcher.Calls() != 1 {
		t.Errorf("fetcher calls = %d, want 1", fetcher.Calls())
	}
	if rec.failures[TierExternal] != 1 {
		t.Errorf("external failures = %d, want 1", rec.failures[TierExternal])
	}
	if logs.FilterMessageSnippet("external lookup failed").Len() != 1 {
		t.Errorf("expected a logged tier failure")
	}
}

func TestResolveExternalTimeoutFallsThrough(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.block = true
	cfg := DefaultConfig()
	cfg.Timeout = 50 * time.Millisecond

	r := New(cfg, catalog.Default(), cache.NewMemoryStore(), fetcher)

	start := time.Now()
	res, err := r.Resolve(context.Background(), parts.Declaration{Ref: "U3", Role: "ldo_3v3", ExternalID: "C6186"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("timeout not enforced")
	}
	if res.SymbolName != "AMS1117-3.3" {
		t.Errorf("expected catalog fallback after timeout, got %q", res.SymbolName)
	}
}

func TestResolveExternalFetchPopulatesCache(t *testing.T) {
	fetcher := newFakeFetcher()
	store := cache.NewMemoryStore()
	r := New(DefaultConfig(), catalog.Default(), store, fetcher)

	res, err := r.Resolve(context.Background(), parts.Declaration{Ref: "U1", Role: "buck_5v", ExternalID: "C29781"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.SymbolName != "LM2596S-5.0" || res.Tier != TierExternal {
		t.Fatalf("expected external resolution, got %+v", res)
	}
	if res.FootprintName != "TO-263-5_L10.2-W8.9-P1.70" {
		t.Errorf("FootprintName = %q", res.FootprintName)
	}
	if res.FootprintLibrary != "C29781" {
		t.Errorf("FootprintLibrary = %q", res.FootprintLibrary)
	}
	if len(res.Pins) != 3 || res.Pins[0] != (parts.Pin{Name: "VIN", Number: "1", Type: "power_in"}) {
		t.Errorf("Pins = %+v", res.Pins)
	}

	e, found, err := store.Get(context.Background(), "C29781")
	if err != nil || !found {
		t.Fatalf("expected cache entry, found=%v err=%v", found, err)
	}
	if e.SymbolName != "LM2596S-5.0" {
		t.Errorf("cached symbol = %q", e.SymbolName)
	}

	// second resolution is served from the cache
	if _, err := r.Resolve(context.Background(), parts.Declaration{Ref: "U9", Role: "buck_5v", ExternalID: "c29781"}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if fetcher.Calls() != 1 {
		t.Errorf("fetcher calls = %d, want 1", fetcher.Calls())
	}
}

func TestResolveRoundTripThroughCache(t *testing.T) {
	stores := map[string]cache.Store{
		"memory": cache.NewMemoryStore(),
		"dir":    cache.NewDirStore(t.TempDir()),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			decl := parts.Declaration{
				Ref:               "U1",
				Role:              "buck_5v",
				ExternalID:        "C29781",
				FootprintOverride: "TO-263-5_Custom",
				Nets:              map[string]string{"VIN": "+12V", "GND": "GND"},
				BOM:               parts.BOM{MPN: "LM2596S-5.0/NOPB", Manufacturer: "TI"},
			}

			online := New(DefaultConfig(), catalog.Default(), store, newFakeFetcher())
			first, err := online.Resolve(context.Background(), decl)
			if err != nil {
				t.Fatalf("first Resolve: %v", err)
			}

			offlineFetcher := newFakeFetcher()
			offlineFetcher.available = false
			offline := New(DefaultConfig(), catalog.Default(), store, offlineFetcher)
			second, err := offline.Resolve(context.Background(), decl)
			if err != nil {
				t.Fatalf("second Resolve: %v", err)
			}

			if !reflect.DeepEqual(first, second) {
				t.Errorf("cache hit differs from first resolution:\nfirst:  %+v\nsecond: %+v", first, second)
			}
			if offlineFetcher.Calls() != 0 {
				t.Errorf("unavailable tool must not be called")
			}
		})
	}
}

func TestResolveUnavailableToolSkipsExternal(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.available = false
	r := New(DefaultConfig(), catalog.Default(), cache.NewMemoryStore(), fetcher)

	res, err := r.Resolve(context.Background(), parts.Declaration{Ref: "U1", Role: "buck_5v", ExternalID: "C29781"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Tier != TierCatalog || fetcher.Calls() != 0 {
		t.Errorf("expected catalog resolution without tool calls, got tier=%q calls=%d", res.Tier, fetcher.Calls())
	}
}

func TestResolveInvariants(t *testing.T) {
	r := New(DefaultConfig(), catalog.Default(), cache.NewMemoryStore(), newFakeFetcher())
	roles := append(catalog.Default().Roles(), "mystery_chip", "opamp", "x")

	for _, role := range roles {
		for _, ext := range []string{"", "C29781"} {
			for _, value := range []string{"", "4k7"} {
				for _, fp := range []string{"", "R_0402", "Lib:FP"} {
					decl := parts.Declaration{
						Ref:               "P1",
						Role:              role,
						ExternalID:        ext,
						Value:             value,
						FootprintOverride: fp,
					}
					res, err := r.Resolve(context.Background(), decl)
					if err != nil {
						t.Fatalf("%+v: %v", decl, err)
					}
					if res.SymbolName == "" {
						t.Errorf("%+v: empty symbol name", decl)
					}
					if value != "" && res.Value != value {
						t.Errorf("%+v: value %q, want %q", decl, res.Value, value)
					}
					if res.FootprintOverride != fp {
						t.Errorf("%+v: footprint override %q, want %q", decl, res.FootprintOverride, fp)
					}
				}
			}
		}
	}
}

func TestResolveDisabledFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DisableFallback = true
	r := New(cfg, catalog.Default(), nil, nil)

	if got := r.Tiers(); !reflect.DeepEqual(got, []string{TierExternal, TierCatalog}) {
		t.Fatalf("Tiers = %v", got)
	}

	_, err := r.Resolve(context.Background(), parts.Declaration{Ref: "U7", Role: "mystery_chip"})
	var re *ResolutionError
	if !errors.As(err, &re) {
		t.Fatalf("expected ResolutionError, got %v", err)
	}
	if re.Ref != "U7" || re.Role != "mystery_chip" {
		t.Errorf("unexpected error context %+v", re)
	}

	res, err := r.Resolve(context.Background(), parts.Declaration{Ref: "U8", Role: "mystery_chip", Optional: true})
	if err != nil {
		t.Fatalf("optional part must not fail: %v", err)
	}
	if res.SymbolName != "" {
		t.Errorf("expected unresolved optional part, got %q", res.SymbolName)
	}
}

func TestResolveAllAggregatesOnlyRequired(t *testing.T) {
	r := New(DefaultConfig(), catalog.Default(), nil, nil)

	decls := []parts.Declaration{
		{Ref: "J1", Role: "", Optional: true},
		{Ref: "U5", Role: ""},
		{Ref: "R1", Role: "resistor"},
	}
	resolved, err := r.ResolveAll(context.Background(), decls)

	var agg *AggregateError
	if !errors.As(err, &agg) {
		t.Fatalf("expected AggregateError, got %v", err)
	}
	if !reflect.DeepEqual(agg.Refs(), []string{"U5"}) {
		t.Errorf("aggregate refs = %v, want [U5]", agg.Refs())
	}
	if strings.Contains(err.Error(), "J1") {
		t.Errorf("optional failure leaked into aggregate: %v", err)
	}
	if len(resolved) != 2 || resolved[0].Ref != "J1" || resolved[1].Ref != "R1" {
		t.Errorf("unexpected resolved list %+v", resolved)
	}
}

func TestResolveAllReportsEveryFailure(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DisableFallback = true
	r := New(cfg, catalog.Default(), nil, nil)

	var decls []parts.Declaration
	for i := 1; i <= 4; i++ {
		decls = append(decls, parts.Declaration{Ref: fmt.Sprintf("U%d", i), Role: "unknown_part"})
	}
	decls = append(decls, parts.Declaration{Ref: "C1", Role: "capacitor"})

	_, err := r.ResolveAll(context.Background(), decls)
	var agg *AggregateError
	if !errors.As(err, &agg) {
		t.Fatalf("expected AggregateError, got %v", err)
	}
	if len(agg.Failures) != 4 {
		t.Fatalf("failures = %d, want 4", len(agg.Failures))
	}
	for i := 1; i <= 4; i++ {
		if !strings.Contains(err.Error(), fmt.Sprintf("U%d", i)) {
			t.Errorf("aggregate message misses U%d: %v", i, err)
		}
	}

	var re *ResolutionError
	if !errors.As(err, &re) || re.Ref != "U1" {
		t.Errorf("errors.As should reach the first ResolutionError, got %v", re)
	}
}

func TestResolveAllConcurrentPreservesOrder(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.delay = 20 * time.Millisecond
	cfg := DefaultConfig()
	cfg.Workers = 4
	rec := newCountingRecorder()
	r := New(cfg, catalog.Default(), cache.NewMemoryStore(), fetcher, WithRecorder(rec))

	var decls []parts.Declaration
	for i := 0; i < 12; i++ {
		d := parts.Declaration{Ref: fmt.Sprintf("R%d", i), Role: "resistor"}
		if i%3 == 0 {
			d = parts.Declaration{Ref: fmt.Sprintf("U%d", i), Role: "buck_5v", ExternalID: "C29781"}
		}
		decls = append(decls, d)
	}

	resolved, err := r.ResolveAll(context.Background(), decls)
	if err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}
	if len(resolved) != len(decls) {
		t.Fatalf("resolved %d parts, want %d", len(resolved), len(decls))
	}
	for i := range decls {
		if resolved[i].Ref != decls[i].Ref {
			t.Errorf("position %d: got %s, want %s", i, resolved[i].Ref, decls[i].Ref)
		}
	}
	if fetcher.Calls() != 1 {
		t.Errorf("same LCSC id fetched %d times, want 1", fetcher.Calls())
	}
	if rec.tiers[TierExternal] != 4 || rec.tiers[TierCatalog] != 8 {
		t.Errorf("tier counts = %v", rec.tiers)
	}
}

func TestCustomTierChain(t *testing.T) {
	r := New(DefaultConfig(), nil, nil, nil, WithTiers(NewFallbackTier(nil)))

	res, err := r.Resolve(context.Background(), parts.Declaration{Ref: "R1", Role: "resistor"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.SymbolName != "resistor" || res.Tier != TierFallback {
		t.Errorf("custom chain ignored: %+v", res)
	}
}

func TestNewExternalTierChecksAvailabilityOnce(t *testing.T) {
	f := &countingAvailability{}
	tier := NewExternalTier(nil, f, time.Second, "", nil, nil)
	for i := 0; i < 3; i++ {
		tier.Resolve(context.Background(), parts.Declaration{Ref: "U1", Role: "x", ExternalID: "C1"})
	}
	if f.checks != 1 {
		t.Errorf("Available called %d times, want 1", f.checks)
	}
}

type countingAvailability struct {
	checks int
}

func (c *countingAvailability) Available() bool {
	c.checks++
	return false
}

func (c *countingAvailability) Fetch(context.Context, string, string) (lcsc.Result, error) {
	return lcsc.Result{}, errors.New("unexpected fetch")
}
