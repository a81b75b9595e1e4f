// Package project loads the YAML project description into part
// declarations.
package project

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/kipart/pkg/parts"
)

// Project is a parsed project file.
type Project struct {
	Name  string
	Parts []parts.Declaration
}

// Optional returns the shared ref -> optional index of the project.
func (p *Project) Optional() parts.OptionalIndex {
	return parts.IndexOptional(p.Parts)
}

type partYAML struct {
	Ref          string    `yaml:"ref"`
	Role         string    `yaml:"role"`
	LCSC         string    `yaml:"lcsc"`
	Value        string    `yaml:"value"`
	Footprint    string    `yaml:"footprint"`
	Optional     bool      `yaml:"optional"`
	MPN          string    `yaml:"mpn"`
	Manufacturer string    `yaml:"manufacturer"`
	DNP          bool      `yaml:"dnp"`
	Description  string    `yaml:"description"`
	Nets         yaml.Node `yaml:"nets"`
}

type projectYAML struct {
	Name  string     `yaml:"name"`
	Parts []partYAML `yaml:"parts"`
}

// Load reads and parses a project file.
func Load(path string) (*Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	defer f.Close()

	p, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a project document. All declaration problems are reported
// together.
func Parse(r io.Reader) (*Project, error) {
	var doc projectYAML
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("project: parse: %w", err)
	}

	p := &Project{Name: doc.Name, Parts: make([]parts.Declaration, 0, len(doc.Parts))}
	seen := make(map[string]int)
	var errs []error

	for i, py := range doc.Parts {
		nets, err := netsFromNode(&py.Nets)
		if err != nil {
			errs = append(errs, fmt.Errorf("parts[%d] %s: %w", i, py.Ref, err))
		}

		d := parts.Declaration{
			Ref:               py.Ref,
			Role:              py.Role,
			ExternalID:        py.LCSC,
			Value:             py.Value,
			FootprintOverride: py.Footprint,
			Nets:              nets,
			Optional:          py.Optional,
			BOM: parts.BOM{
				MPN:          py.MPN,
				Manufacturer: py.Manufacturer,
				DNP:          py.DNP,
				Description:  py.Description,
			},
		}
		if err := d.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("parts[%d]: %w", i, err))
		}
		if d.Ref != "" {
			if first, dup := seen[d.Ref]; dup {
				errs = append(errs, fmt.Errorf("parts[%d]: duplicate ref %s (first at parts[%d])", i, d.Ref, first))
			} else {
				seen[d.Ref] = i
			}
		}
		p.Parts = append(p.Parts, d)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("project: %w", errors.Join(errs...))
	}
	return p, nil
}

// netsFromNode reads a pin -> net mapping. Keys keep their scalar text,
// so pin numbers written as integers arrive as "5", not 5.
func netsFromNode(n *yaml.Node) (map[string]string, error) {
	if n.Kind == 0 || (n.Kind == yaml.ScalarNode && n.Tag == "!!null") {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: nets must be a mapping", n.Line)
	}

	nets := make(map[string]string, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: pin and net must be scalars", k.Line)
		}
		if v.Tag == "!!null" || v.Value == "" {
			return nil, fmt.Errorf("line %d: pin %s has no net", k.Line, k.Value)
		}
		nets[k.Value] = v.Value
	}
	return nets, nil
}
