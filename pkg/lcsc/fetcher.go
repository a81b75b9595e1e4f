// Package lcsc runs the external LCSC/EasyEDA conversion tool that turns an
// LCSC part number into a KiCad symbol and footprint.
package lcsc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var (
	// ErrTimeout is returned when the tool does not finish in time.
	ErrTimeout = errors.New("lcsc: tool timed out")
	// ErrToolUnavailable is returned when the tool cannot be run at all.
	ErrToolUnavailable = errors.New("lcsc: tool unavailable")
	// ErrNoOutput is returned when the tool exits cleanly but leaves no
	// symbol file behind.
	ErrNoOutput = errors.New("lcsc: tool produced no symbol")
)

// DefaultCommand is the easyeda2kicad invocation used when none is
// configured. {id} and {out} are substituted per call.
const DefaultCommand = "easyeda2kicad --full --lcsc_id={id} --output {out}/{id}"

// DefaultTimeout bounds a single tool run.
const DefaultTimeout = 60 * time.Second

const (
	symbolExt    = ".kicad_sym"
	footprintExt = ".kicad_mod"
)

// Result locates the files the tool produced.
type Result struct {
	SymbolFile    string
	FootprintFile string // empty when the tool produced no footprint
}

// FootprintName returns the footprint name implied by the footprint file.
func (r Result) FootprintName() string {
	if r.FootprintFile == "" {
		return ""
	}
	return strings.TrimSuffix(filepath.Base(r.FootprintFile), footprintExt)
}

// Fetcher converts one external part number into KiCad files.
type Fetcher interface {
	// Available reports whether the tool can be run.
	Available() bool

	// Fetch runs the tool for id, writing into outDir.
	Fetch(ctx context.Context, id, outDir string) (Result, error)
}

// CommandFetcher runs a command line tool.
type CommandFetcher struct {
	program string
	args    []string
	timeout time.Duration

	availOnce sync.Once
	avail     bool
}

// NewCommandFetcher builds a fetcher from a command template such as
// DefaultCommand. A zero timeout selects DefaultTimeout.
func NewCommandFetcher(command string, timeout time.Duration) (*CommandFetcher, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrToolUnavailable)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &CommandFetcher{
		program: fields[0],
		args:    fields[1:],
		timeout: timeout,
	}, nil
}

// Program returns the executable name.
func (f *CommandFetcher) Program() string { return f.program }

// Available implements Fetcher. The lookup runs once.
func (f *CommandFetcher) Available() bool {
	f.availOnce.Do(func() {
		_, err := exec.LookPath(f.program)
		f.avail = err == nil
	})
	return f.avail
}

// Fetch implements Fetcher.
func (f *CommandFetcher) Fetch(ctx context.Context, id, outDir string) (Result, error) {
	if !f.Available() {
		return Result{}, fmt.Errorf("%w: %s not found", ErrToolUnavailable, f.program)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("lcsc: create %s: %w", outDir, err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	repl := strings.NewReplacer("{id}", id, "{out}", outDir)
	args := make([]string, len(f.args))
	for i, a := range f.args {
		args[i] = repl.Replace(a)
	}

	cmd := exec.CommandContext(ctx, f.program, args...)
	cmd.Dir = outDir
	cmd.WaitDelay = time.Second
	var stderr bytes.Buffer
	cmd.Stdout = &stderr
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Result{}, fmt.Errorf("%w: %s after %s", ErrTimeout, id, f.timeout)
		}
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, fmt.Errorf("lcsc: %s %s: %w: %s", f.program, id, err, tail(stderr.String(), 200))
	}

	return FindOutput(outDir)
}

// FindOutput walks dir for the first symbol and footprint file.
func FindOutput(dir string) (Result, error) {
	var res Result
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case symbolExt:
			if res.SymbolFile == "" {
				res.SymbolFile = path
			}
		case footprintExt:
			if res.FootprintFile == "" {
				res.FootprintFile = path
			}
		}
		if res.SymbolFile != "" && res.FootprintFile != "" {
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("lcsc: scan %s: %w", dir, err)
	}
	if res.SymbolFile == "" {
		return Result{}, fmt.Errorf("%w in %s", ErrNoOutput, dir)
	}
	return res, nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		return "..." + s[len(s)-n:]
	}
	return s
}
