// Package parts defines the part records that flow through resolution and
// validation: the declaration a project file supplies, and the resolved
// record handed to the library/schematic generators.
package parts

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Pin is one pin of a resolved symbol.
type Pin struct {
	Name   string `json:"name" yaml:"name"`
	Number string `json:"number" yaml:"number"`
	Type   string `json:"type" yaml:"type"` // electrical type (power_in, passive, ...)
}

// BOM carries bill-of-materials fields through resolution untouched.
type BOM struct {
	MPN          string `json:"mpn,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	DNP          bool   `json:"dnp,omitempty"`
	Description  string `json:"description,omitempty"`
}

// Declaration is a part as declared in the project file.
// Empty optional strings mean "not declared".
type Declaration struct {
	Ref               string
	Role              string
	ExternalID        string            // LCSC part number
	Value             string            // overrides any resolved value
	FootprintOverride string            // "Footprint" or "Library:Footprint"
	Nets              map[string]string // pin key -> net name
	Optional          bool
	BOM
}

// Validate checks the fields every declaration must carry.
func (d Declaration) Validate() error {
	var errs []error
	if strings.TrimSpace(d.Ref) == "" {
		errs = append(errs, errors.New("missing ref"))
	}
	if strings.TrimSpace(d.Role) == "" {
		ref := d.Ref
		if ref == "" {
			ref = "<unnamed>"
		}
		errs = append(errs, fmt.Errorf("%s: missing role", ref))
	}
	return errors.Join(errs...)
}

// Resolved is the outcome of resolving one Declaration.
type Resolved struct {
	Ref               string            `json:"ref"`
	Role              string            `json:"role"`
	SymbolName        string            `json:"symbol"`
	Pins              []Pin             `json:"pins,omitempty"`
	FootprintName     string            `json:"footprint_name,omitempty"`
	FootprintLibrary  string            `json:"footprint_library,omitempty"`
	FootprintOverride string            `json:"footprint_override,omitempty"`
	Value             string            `json:"value"`
	Nets              map[string]string `json:"nets,omitempty"`
	Tier              string            `json:"tier,omitempty"`
	BOM
}

// TierFallback names the resolution tier that reuses the role as symbol.
const TierFallback = "fallback"

// FootprintRef returns the effective "Library:Footprint" reference.
func (r Resolved) FootprintRef() string {
	switch {
	case strings.Contains(r.FootprintOverride, ":"):
		return r.FootprintOverride
	case r.FootprintOverride != "" && r.FootprintLibrary != "":
		return r.FootprintLibrary + ":" + r.FootprintOverride
	case r.FootprintOverride != "":
		return r.FootprintOverride
	case r.FootprintName != "" && r.FootprintLibrary != "":
		return r.FootprintLibrary + ":" + r.FootprintName
	default:
		return ""
	}
}

// Degraded reports whether the symbol came from the role-name fallback.
func (r Resolved) Degraded() bool {
	return r.Tier == TierFallback
}

// PinKey normalizes a declared pin key to its string form. Project files
// may carry pin numbers as integers; they are compared as text.
func PinKey(v any) string {
	switch k := v.(type) {
	case string:
		return k
	case int:
		return strconv.Itoa(k)
	case int64:
		return strconv.FormatInt(k, 10)
	case uint64:
		return strconv.FormatUint(k, 10)
	case float64:
		if k == math.Trunc(k) && !math.IsInf(k, 0) {
			return strconv.FormatFloat(k, 'f', -1, 64)
		}
		return strconv.FormatFloat(k, 'g', -1, 64)
	case fmt.Stringer:
		return k.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(k)
	}
}

// NetMap builds a pin-key to net map from loosely typed keys.
func NetMap(m map[any]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[PinKey(k)] = v
	}
	return out
}

// OptionalIndex answers whether a ref was declared optional. It is built
// once from the declarations and shared by resolution and validation.
type OptionalIndex map[string]bool

// IndexOptional builds the ref -> optional lookup for decls.
func IndexOptional(decls []Declaration) OptionalIndex {
	idx := make(OptionalIndex, len(decls))
	for _, d := range decls {
		idx[d.Ref] = d.Optional
	}
	return idx
}

// IsOptional reports the declared optionality of ref; unknown refs are
// treated as required.
func (idx OptionalIndex) IsOptional(ref string) bool {
	return idx[ref]
}
