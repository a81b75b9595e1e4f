// Package symlib extracts symbol names and pin tables from KiCad symbol
// definition text.
//
// Extraction works on raw text rather than a full parse so it tolerates
// the output of third-party generators: the symbol name is the first quoted
// string after "(symbol", and every "(pin TYPE STYLE ... (name "N" ...)
// ... (number "X" ...)" record contributes one pin, with the position,
// length and effects lists in between skipped non-greedily.
package symlib

import (
	"errors"
	"regexp"
	"strings"

	"github.com/OpenTraceLab/kipart/pkg/parts"
)

// ErrNoSymbol is returned when text contains no symbol header.
var ErrNoSymbol = errors.New("symlib: no symbol definition found")

var (
	symbolNameRe = regexp.MustCompile(`\(\s*symbol\s+"((?:[^"\\]|\\.)*)"`)
	pinRe        = regexp.MustCompile(`(?s)\(\s*pin\s+(\w+)\s+(\w+).*?\(\s*name\s+"((?:[^"\\]|\\.)*)".*?\(\s*number\s+"((?:[^"\\]|\\.)*)"`)

	unescaper = strings.NewReplacer(`\"`, `"`, `\\`, `\`)
)

// Symbol is the name and pin table extracted from a symbol definition.
type Symbol struct {
	Name string
	Pins []parts.Pin
}

// Extract returns the symbol name and pins found in text.
func Extract(text string) (Symbol, error) {
	name, ok := ExtractName(text)
	if !ok {
		return Symbol{}, ErrNoSymbol
	}
	return Symbol{Name: name, Pins: ExtractPins(text)}, nil
}

// ExtractName returns the first quoted name following "(symbol".
func ExtractName(text string) (string, bool) {
	m := symbolNameRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return unescaper.Replace(m[1]), true
}

// ExtractPins returns every pin record in text, in order of appearance.
func ExtractPins(text string) []parts.Pin {
	matches := pinRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	pins := make([]parts.Pin, 0, len(matches))
	for _, m := range matches {
		pins = append(pins, parts.Pin{
			Type:   m[1],
			Name:   unescaper.Replace(m[3]),
			Number: unescaper.Replace(m[4]),
		})
	}
	return pins
}
