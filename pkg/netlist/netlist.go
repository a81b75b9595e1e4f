// Package netlist groups the pin connections a project declares into nets.
// It is a report over the declarations; pin names are matched to physical
// pins where a pin table is known, so two names for the same pin that are
// wired to different nets show up as a short.
package netlist

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/OpenTraceLab/kipart/pkg/netcheck"
	"github.com/OpenTraceLab/kipart/pkg/parts"
)

// PinRef is one pin of one part.
type PinRef struct {
	Ref string `json:"ref"`
	Pin string `json:"pin"`
}

func (p PinRef) String() string { return p.Ref + "." + p.Pin }

// Net is a set of pins that share an electrical net.
type Net struct {
	Name string `json:"name"`
	// Aliases lists other declared names merged into this net through a
	// shared physical pin.
	Aliases []string `json:"aliases,omitempty"`
	Pins    []PinRef `json:"pins"`
}

// PinSource supplies the pin table of a resolved part.
// *netcheck.Validator satisfies it.
type PinSource interface {
	PinsFor(p parts.Resolved) ([]parts.Pin, string)
}

// Netlist tracks connectivity using a union-find over net and pin nodes.
type Netlist struct {
	parent map[string]string
	rank   map[string]int

	pins     map[string]PinRef // pin node key -> pin
	netNames map[string]string // net node key -> name

	// Nets is filled by Finalize.
	Nets []*Net
}

// New returns an empty netlist.
func New() *Netlist {
	return &Netlist{
		parent:   make(map[string]string),
		rank:     make(map[string]int),
		pins:     make(map[string]PinRef),
		netNames: make(map[string]string),
	}
}

// Build collects every declared connection of resolved. When src knows a
// part's pins, declared keys are canonicalised to pin numbers.
func Build(resolved []parts.Resolved, src PinSource) *Netlist {
	nl := New()
	for _, p := range resolved {
		var table []parts.Pin
		if src != nil && len(p.Nets) > 0 {
			table, _ = src.PinsFor(p)
		}
		for key, net := range p.Nets {
			pin := key
			if found, ok := netcheck.FindPin(table, key); ok && found.Number != "" {
				pin = found.Number
			}
			nl.Attach(PinRef{Ref: p.Ref, Pin: pin}, net)
		}
	}
	nl.Finalize()
	return nl
}

// Attach connects pin to the named net.
func (nl *Netlist) Attach(pin PinRef, net string) {
	pk := nl.add(pinNode(pin))
	nl.pins[pk] = pin
	nk := nl.add(netNode(net))
	nl.netNames[nk] = net
	nl.union(pk, nk)
}

func (nl *Netlist) add(key string) string {
	if _, ok := nl.parent[key]; !ok {
		nl.parent[key] = key
		nl.rank[key] = 0
	}
	return key
}

func (nl *Netlist) union(a, b string) {
	rootA := nl.find(a)
	rootB := nl.find(b)
	if rootA == rootB {
		return
	}

	// Union by rank
	if nl.rank[rootA] < nl.rank[rootB] {
		nl.parent[rootA] = rootB
	} else if nl.rank[rootA] > nl.rank[rootB] {
		nl.parent[rootB] = rootA
	} else {
		nl.parent[rootB] = rootA
		nl.rank[rootA]++
	}
}

func (nl *Netlist) find(key string) string {
	root := key
	for nl.parent[root] != root {
		root = nl.parent[root]
	}

	// Path compression
	for key != root {
		next := nl.parent[key]
		nl.parent[key] = root
		key = next
	}
	return root
}

// Connected reports whether two pins ended up on the same net.
func (nl *Netlist) Connected(a, b PinRef) bool {
	ka, kb := pinNode(a), pinNode(b)
	if _, ok := nl.parent[ka]; !ok {
		return false
	}
	if _, ok := nl.parent[kb]; !ok {
		return false
	}
	return nl.find(ka) == nl.find(kb)
}

// Finalize groups the nodes into Nets, sorted by name with pins sorted by
// ref then pin.
func (nl *Netlist) Finalize() {
	type group struct {
		names []string
		pins  []PinRef
	}
	groups := make(map[string]*group)
	get := func(root string) *group {
		g, ok := groups[root]
		if !ok {
			g = &group{}
			groups[root] = g
		}
		return g
	}
	for k, name := range nl.netNames {
		g := get(nl.find(k))
		g.names = append(g.names, name)
	}
	for k, pin := range nl.pins {
		g := get(nl.find(k))
		g.pins = append(g.pins, pin)
	}

	nl.Nets = make([]*Net, 0, len(groups))
	for _, g := range groups {
		sort.Strings(g.names)
		sort.Slice(g.pins, func(i, j int) bool {
			if g.pins[i].Ref != g.pins[j].Ref {
				return g.pins[i].Ref < g.pins[j].Ref
			}
			return g.pins[i].Pin < g.pins[j].Pin
		})
		net := &Net{Name: g.names[0], Pins: g.pins}
		if len(g.names) > 1 {
			net.Aliases = g.names[1:]
		}
		nl.Nets = append(nl.Nets, net)
	}
	sort.Slice(nl.Nets, func(i, j int) bool {
		return nl.Nets[i].Name < nl.Nets[j].Name
	})
}

// Net returns the net carrying name, directly or as an alias.
func (nl *Netlist) Net(name string) (*Net, bool) {
	for _, n := range nl.Nets {
		if n.Name == name {
			return n, true
		}
		for _, a := range n.Aliases {
			if a == name {
				return n, true
			}
		}
	}
	return nil, false
}

// NetCount returns the number of nets. Only valid after Finalize.
func (nl *Netlist) NetCount() int {
	return len(nl.Nets)
}

// SingleConnection returns nets that reach only one pin, usually a typo in
// a net name.
func (nl *Netlist) SingleConnection() []*Net {
	var out []*Net
	for _, n := range nl.Nets {
		if len(n.Pins) == 1 {
			out = append(out, n)
		}
	}
	return out
}

// Shorts returns nets that merged several declared names.
func (nl *Netlist) Shorts() []*Net {
	var out []*Net
	for _, n := range nl.Nets {
		if len(n.Aliases) > 0 {
			out = append(out, n)
		}
	}
	return out
}

// ExportJSON exports the netlist as JSON.
func (nl *Netlist) ExportJSON() ([]byte, error) {
	if nl.Nets == nil {
		return nil, fmt.Errorf("netlist: not finalized")
	}

	output := struct {
		NetCount         int    `json:"net_count"`
		SingleConnection int    `json:"single_connection_nets"`
		Shorts           int    `json:"shorted_nets"`
		Nets             []*Net `json:"nets"`
	}{
		NetCount:         nl.NetCount(),
		SingleConnection: len(nl.SingleConnection()),
		Shorts:           len(nl.Shorts()),
		Nets:             nl.Nets,
	}
	return json.MarshalIndent(output, "", "  ")
}

func pinNode(p PinRef) string { return "pin:" + p.Ref + ":" + p.Pin }

func netNode(name string) string { return "net:" + name }
