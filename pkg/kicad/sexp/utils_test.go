package sexp

import (
	"testing"

	"github.com/OpenTraceLab/kipart/pkg/kicad/sexp/kicadsexp"
)

// Helper to parse s-expression from string
func parseSexp(t *testing.T, input string) kicadsexp.Sexp {
	t.Helper()
	sexps, err := kicadsexp.ParseString(input)
	if err != nil {
		t.Fatalf("Failed to parse s-expression %q: %v", input, err)
	}
	if len(sexps) == 0 {
		t.Fatalf("No s-expressions parsed from %q", input)
	}
	return sexps[0]
}

func TestGetString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		index   int
		want    string
		wantErr bool
	}{
		{name: "get key", input: `(number "5")`, index: 0, want: "number"},
		{name: "get quoted value", input: `(number "5")`, index: 1, want: "5"},
		{name: "value with spaces", input: `(name "~{ON}/OFF pin")`, index: 1, want: "~{ON}/OFF pin"},
		{name: "index out of bounds", input: `(number "5")`, index: 4, wantErr: true},
		{name: "list at index", input: `(pin (at 0 0))`, index: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetString(parseSexp(t, tt.input), tt.index)
			if tt.wantErr {
				if err == nil {
					t.Errorf("GetString() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("GetString() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("GetString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFindNode(t *testing.T) {
	s := parseSexp(t, `(pin input line hide (at 0 0 0) (name "FB") (number "4"))`)

	num, ok := FindNode(s, "number")
	if !ok {
		t.Fatalf("FindNode(number) not found")
	}
	if v, _ := GetString(num, 1); v != "4" {
		t.Errorf("number = %q, want 4", v)
	}

	if _, ok := FindNode(s, "hide"); !ok {
		t.Errorf("FindNode should match bare atoms")
	}
	if _, ok := FindNode(s, "length"); ok {
		t.Errorf("FindNode(length) should not be found")
	}
}

func TestFindAllNodes(t *testing.T) {
	s := parseSexp(t, `(symbol "X"
		(property "Reference" "U")
		(property "Value" "X")
		(symbol "X_1_1" (pin passive line (name "A") (number "1"))))`)

	props := FindAllNodes(s, "property")
	if len(props) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(props))
	}
	p, err := GetProperty(props[1])
	if err != nil {
		t.Fatalf("GetProperty failed: %v", err)
	}
	if p.Key != "Value" || p.Value != "X" {
		t.Errorf("unexpected property %+v", p)
	}

	if units := FindAllNodes(s, "symbol"); len(units) != 1 {
		t.Errorf("expected 1 nested unit, got %d", len(units))
	}
}

func TestHasSymbolAndNodeName(t *testing.T) {
	s := parseSexp(t, `(pin_numbers hide)`)
	if !HasSymbol(s, "hide") {
		t.Errorf("HasSymbol(hide) = false")
	}
	name, err := GetNodeName(s)
	if err != nil || name != "pin_numbers" {
		t.Errorf("GetNodeName() = %q, %v", name, err)
	}
	if _, err := GetProperty(s); err == nil {
		t.Errorf("GetProperty should reject non-property nodes")
	}
}

func TestSpan(t *testing.T) {
	input := `  (a (b c))`
	s := parseSexp(t, input)
	start, end, ok := Span(s)
	if !ok {
		t.Fatalf("Span not available")
	}
	if input[start:end] != "(a (b c))" {
		t.Errorf("span text = %q", input[start:end])
	}
	if _, _, ok := Span(kicadsexp.Symbol("x")); ok {
		t.Errorf("atoms have no span")
	}
}
