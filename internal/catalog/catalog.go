// Package catalog holds the read-only registry of cuttable sources.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrUnknownSource reports a lookup for a source id the catalog does not list.
var ErrUnknownSource = errors.New("unknown source")

// Source describes one registered recording.
type Source struct {
	ID    string `yaml:"-"`
	Title string `yaml:"title"`
	URL   string `yaml:"url"`   // playback page for the full recording
	Audio string `yaml:"audio"` // full-length track, input to the splitter
}

// Catalog is an immutable id → source mapping loaded at startup.
type Catalog struct {
	byID  map[string]Source
	order []string
}

// Load reads a YAML catalog file of the form:
//
//	sources:
//	  "2012":
//	    title: Annual address 2012
//	    url: https://example.org/2012
//	    audio: /srv/audio/2012.mp3
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a catalog from raw YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Sources map[string]Source `yaml:"sources"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{byID: make(map[string]Source, len(doc.Sources))}
	for id, src := range doc.Sources {
		if src.Title == "" {
			return nil, fmt.Errorf("parse catalog: source %q has no title", id)
		}
		src.ID = id
		c.byID[id] = src
		c.order = append(c.order, id)
	}
	sort.Strings(c.order)
	return c, nil
}

// Lookup returns the source registered under id.
func (c *Catalog) Lookup(id string) (Source, error) {
	src, ok := c.byID[id]
	if !ok {
		return Source{}, fmt.Errorf("%w: %q", ErrUnknownSource, id)
	}
	return src, nil
}

// All returns every source, ordered by id.
func (c *Catalog) All() []Source {
	out := make([]Source, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Len reports the number of registered sources.
func (c *Catalog) Len() int {
	return len(c.byID)
}
