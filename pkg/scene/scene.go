// Package scene holds the set of named shapes produced by evaluating a
// shape script. A Scene is built once per evaluation and never mutated
// afterwards.
package scene

import (
	"fmt"

	"github.com/chazu/supportmesh/pkg/support"
)

// DefaultSamples is the sample count used by entries that do not set one.
const DefaultSamples = 500

// Entry is one named shape to be meshed.
type Entry struct {
	Name    string        `json:"name"`
	Shape   support.Shape `json:"shape"`
	Samples int           `json:"samples,omitempty"` // 0 means the scene default
}

// Scene is an ordered collection of named shapes.
type Scene struct {
	Entries        []*Entry       `json:"entries"`
	NameIndex      map[string]int `json:"name_index"`
	DefaultSamples int            `json:"default_samples"`
}

// New creates an empty Scene with default settings.
func New() *Scene {
	return &Scene{
		NameIndex:      make(map[string]int),
		DefaultSamples: DefaultSamples,
	}
}

// Add appends an entry. It does not check for duplicate names; a later
// entry shadows an earlier one in Lookup and Validate reports the clash.
func (s *Scene) Add(e *Entry) {
	s.Entries = append(s.Entries, e)
	if e.Name != "" {
		s.NameIndex[e.Name] = len(s.Entries) - 1
	}
}

// Lookup returns the entry with the given name, or nil.
func (s *Scene) Lookup(name string) *Entry {
	i, ok := s.NameIndex[name]
	if !ok {
		return nil
	}
	return s.Entries[i]
}

// MustLookup returns the entry with the given name, or panics.
func (s *Scene) MustLookup(name string) *Entry {
	e := s.Lookup(name)
	if e == nil {
		panic(fmt.Sprintf("scene: no shape named %q", name))
	}
	return e
}

// Samples returns the effective sample count for e.
func (s *Scene) Samples(e *Entry) int {
	if e.Samples > 0 {
		return e.Samples
	}
	if s.DefaultSamples > 0 {
		return s.DefaultSamples
	}
	return DefaultSamples
}

// Len returns the number of entries.
func (s *Scene) Len() int {
	return len(s.Entries)
}
