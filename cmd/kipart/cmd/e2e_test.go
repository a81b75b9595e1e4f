package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const e2eConfig = `
cache:
  backend: memory
lcsc:
  disabled: true
log:
  level: error
`

const e2eProject = `
name: e2e-board
parts:
  - ref: U1
    role: buck_5v
    nets: {VIN: +12V, OUT: +5V, GND: GND, FB: +5V}
  - ref: C1
    role: capacitor
    value: 100n
    nets: {1: +5V, 2: GND}
  - ref: J1
    role: usb_c
    nets: {VBUS: +5V, GND: GND}
`

const e2eBadProject = `
name: e2e-bad
parts:
  - ref: U1
    role: buck_5v
    nets: {VIN: +12V, EN: ENABLE}
  - ref: X1
    role: mystery_chip
    optional: true
    nets: {A: SIG}
`

const e2eLibrary = `(kicad_symbol_lib (version 20211014) (generator e2e)
  (symbol "TPS1234"
    (property "Reference" "U" (at 0 0 0))
    (property "Value" "TPS1234" (at 0 0 0))
    (property "LCSC" "C12345" (at 0 0 0))
    (symbol "TPS1234_0_1"
      (pin power_in line (at 0 0 0) (length 2.54) (name "VIN") (number "1"))
      (pin output line (at 0 0 0) (length 2.54) (name "SW") (number "2"))
      (pin power_in line (at 0 0 0) (length 2.54) (name "GND") (number "3")))))
`

func writeE2EFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// TestCommandsE2E runs each subcommand against temporary project files
func TestCommandsE2E(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeE2EFile(t, dir, "kipart.yaml", e2eConfig)
	good := writeE2EFile(t, dir, "board.yaml", e2eProject)
	bad := writeE2EFile(t, dir, "bad.yaml", e2eBadProject)
	lib := writeE2EFile(t, dir, "e2e.kicad_sym", e2eLibrary)

	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name: "resolve",
			args: []string{"resolve", good},
			wantContain: []string{
				"Project: e2e-board",
				"LM2596S-5",
				"Package_TO_SOT_SMD:TO-263-5_TabPin3",
				"100n",
				"catalog",
				"3 part(s) resolved",
			},
		},
		{
			name:        "resolve json",
			args:        []string{"resolve", good, "--json"},
			wantContain: []string{`"ref": "U1"`, `"symbol": "USB_C_Receptacle_USB2.0"`, `"tier": "catalog"`},
		},
		{
			name:        "validate clean project",
			args:        []string{"validate", good},
			wantContain: []string{"3 part(s) checked: 0 error(s), 0 warning(s)"},
		},
		{
			name:    "validate bad project",
			args:    []string{"validate", bad},
			wantErr: true,
			wantContain: []string{
				"ERROR: U1 (buck_5v) symbol=LM2596S-5: pin 'EN' not found for net ENABLE",
				"WARN:  pin info unavailable, skipping validation for X1 (mystery_chip) symbol=mystery_chip",
				"1 error(s), 1 warning(s)",
			},
		},
		{
			name: "nets",
			args: []string{"nets", good},
			wantContain: []string{
				"Nets (3 total):",
				"U1.1",
				"C1.2",
				"J1.A4",
				"Single-connection nets:",
				"+12V (U1.1)",
			},
		},
		{
			name:        "nets json",
			args:        []string{"nets", good, "--json"},
			wantContain: []string{`"+5V"`},
		},
		{
			name:        "symbol roles",
			args:        []string{"symbol", "roles"},
			wantContain: []string{"buck_5v", "LM2596S-5", "usb_c"},
		},
		{
			name:        "symbol info list",
			args:        []string{"symbol", "info", lib},
			wantContain: []string{"Symbols (1 total):", "TPS1234", "3 pins"},
		},
		{
			name:        "symbol info details",
			args:        []string{"symbol", "info", lib, "TPS1234"},
			wantContain: []string{"Symbol: TPS1234", "LCSC: C12345", "Pins (3 total):", "SW"},
		},
		{
			name:    "symbol info unknown symbol",
			args:    []string{"symbol", "info", lib, "NOPE"},
			wantErr: true,
		},
		{
			name:    "cache show miss",
			args:    []string{"cache", "show", "C29781"},
			wantErr: true,
		},
		{
			name:    "missing project",
			args:    []string{"resolve", filepath.Join(dir, "missing.yaml")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flags to prevent accumulation between tests
			configPath = cfgFile
			verbose = false
			logFormat = ""
			metricsFile = ""
			noExternal = false
			outputJSON = false
			netsJSON = false

			var buf bytes.Buffer
			rootCmd.SetOut(&buf)
			rootCmd.SetErr(&buf)
			rootCmd.SetArgs(append([]string{"--config", cfgFile}, tt.args...))

			err := rootCmd.Execute()
			if cerr := teardownApp(nil, nil); cerr != nil {
				t.Errorf("teardown: %v", cerr)
			}
			output := buf.String()

			if tt.wantErr && err == nil {
				t.Errorf("Expected error but got none\nOutput: %s", output)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v\nOutput: %s", err, output)
			}

			for _, want := range tt.wantContain {
				if !strings.Contains(output, want) {
					t.Errorf("Output missing %q\nGot:\n%s", want, output)
				}
			}
		})
	}
}

func TestMetricsFileE2E(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeE2EFile(t, dir, "kipart.yaml", e2eConfig)
	good := writeE2EFile(t, dir, "board.yaml", e2eProject)
	prom := filepath.Join(dir, "kipart.prom")

	configPath = cfgFile
	outputJSON = false
	netsJSON = false
	metricsFile = prom
	defer func() { metricsFile = "" }()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"validate", good, "--config", cfgFile, "--metrics-file", prom})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("validate: %v\n%s", err, buf.String())
	}
	if err := teardownApp(nil, nil); err != nil {
		t.Fatalf("teardown: %v", err)
	}

	data, err := os.ReadFile(prom)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	if !strings.Contains(string(data), `kipart_parts_resolved_total{tier="catalog"} 3`) {
		t.Errorf("metrics file missing resolved counter:\n%s", data)
	}
}
