// Package palette is the catalogue of node kinds shown to the user.
package palette

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
)

//go:embed palette.toml
var builtin []byte

// Entry is one item in the palette. Several entries may share a type with
// different labels ("Action", "Send Email").
type Entry struct {
	Type        string `toml:"type" json:"type"`
	Label       string `toml:"label" json:"label"`
	Category    string `toml:"category" json:"category"`
	Description string `toml:"description" json:"description,omitempty"`
}

type paletteFile struct {
	Entries []Entry `toml:"entries"`
}

// Palette is an ordered set of entries
type Palette struct {
	entries []Entry
}

// Builtin returns the embedded palette.
func Builtin() (*Palette, error) {
	return Parse(builtin)
}

// Parse decodes a palette from TOML.
func Parse(data []byte) (*Palette, error) {
	var pf paletteFile
	if err := toml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing palette: %w", err)
	}
	for i, e := range pf.Entries {
		if e.Type == "" || e.Label == "" {
			return nil, fmt.Errorf("palette entry %d: type and label are required", i)
		}
	}
	return &Palette{entries: pf.Entries}, nil
}

// Load reads the embedded palette and appends entries from path, if given.
// Entries from the file replace built-in entries with the same type and label.
func Load(path string) (*Palette, error) {
	p, err := Builtin()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading palette %s: %w", path, err)
	}
	extra, err := Parse(data)
	if err != nil {
		return nil, err
	}
	p.merge(extra.entries)
	return p, nil
}

func (p *Palette) merge(extra []Entry) {
	index := make(map[[2]string]int, len(p.entries))
	for i, e := range p.entries {
		index[[2]string{e.Type, e.Label}] = i
	}
	for _, e := range extra {
		key := [2]string{e.Type, e.Label}
		if i, ok := index[key]; ok {
			p.entries[i] = e
			continue
		}
		index[key] = len(p.entries)
		p.entries = append(p.entries, e)
	}
}

// All returns every entry in file order.
func (p *Palette) All() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Categories returns the distinct categories, sorted.
func (p *Palette) Categories() []string {
	seen := map[string]bool{}
	var cats []string
	for _, e := range p.entries {
		if !seen[e.Category] {
			seen[e.Category] = true
			cats = append(cats, e.Category)
		}
	}
	sort.Strings(cats)
	return cats
}

// ByCategory returns the entries in one category.
func (p *Palette) ByCategory(category string) []Entry {
	var out []Entry
	for _, e := range p.entries {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// Lookup returns the first entry for a node type.
func (p *Palette) Lookup(nodeType string) (Entry, bool) {
	for _, e := range p.entries {
		if e.Type == nodeType {
			return e, true
		}
	}
	return Entry{}, false
}
