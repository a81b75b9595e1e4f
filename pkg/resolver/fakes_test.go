package resolver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/OpenTraceLab/kipart/pkg/lcsc"
)

const easyedaSymbol = `(kicad_symbol_lib
  (version 20211014)
  (generator https://github.com/uPesy/easyeda2kicad.py)
  (symbol "LM2596S-5.0"
    (in_bom yes)
    (on_board yes)
    (property "Reference" "U" (id 0) (at 0 7.62 0))
    (property "Value" "LM2596S-5.0" (id 1) (at 0 -7.62 0))
    (symbol "LM2596S-5.0_0_1"
      (rectangle (start -7.62 5.08) (end 7.62 -5.08) (stroke (width 0) (type default) (color 0 0 0 0)) (fill (type background)))
      (pin power_in line (at -10.16 2.54 0) (length 2.54)
        (name "VIN" (effects (font (size 1.27 1.27))))
        (number "1" (effects (font (size 1.27 1.27))))
      )
      (pin output line (at 10.16 2.54 180) (length 2.54)
        (name "OUTPUT" (effects (font (size 1.27 1.27))))
        (number "2" (effects (font (size 1.27 1.27))))
      )
      (pin power_in line (at 0 -7.62 90) (length 2.54)
        (name "GND" (effects (font (size 1.27 1.27))))
        (number "3" (effects (font (size 1.27 1.27))))
      )
    )
  )
)
`

// fakeFetcher mimics the converter by writing a symbol library and a
// footprint into the output directory.
type fakeFetcher struct {
	mu        sync.Mutex
	available bool
	calls     int
	err       error
	block     bool
	delay     time.Duration
	symbol    string
	footprint string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{available: true, symbol: easyedaSymbol, footprint: "TO-263-5_L10.2-W8.9-P1.70"}
}

func (f *fakeFetcher) Available() bool { return f.available }

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeFetcher) Fetch(ctx context.Context, id, outDir string) (lcsc.Result, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return lcsc.Result{}, ctx.Err()
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return lcsc.Result{}, f.err
	}

	symFile := filepath.Join(outDir, id+".kicad_sym")
	if err := os.WriteFile(symFile, []byte(f.symbol), 0o644); err != nil {
		return lcsc.Result{}, err
	}
	prettyDir := filepath.Join(outDir, id+".pretty")
	if err := os.MkdirAll(prettyDir, 0o755); err != nil {
		return lcsc.Result{}, err
	}
	fpFile := filepath.Join(prettyDir, f.footprint+".kicad_mod")
	if err := os.WriteFile(fpFile, []byte(fmt.Sprintf("(footprint %q)\n", f.footprint)), 0o644); err != nil {
		return lcsc.Result{}, err
	}
	return lcsc.Result{SymbolFile: symFile, FootprintFile: fpFile}, nil
}

type countingRecorder struct {
	mu       sync.Mutex
	tiers    map[string]int
	failures map[string]int
	external int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{tiers: map[string]int{}, failures: map[string]int{}}
}

func (r *countingRecorder) ObserveTier(tier string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tiers[tier]++
}

func (r *countingRecorder) ObserveTierFailure(tier string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[tier]++
}

func (r *countingRecorder) ObserveExternal(time.Duration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.external++
}
