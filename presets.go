package main

import (
	"fmt"
	"sort"

	"github.com/chazu/supportmesh/pkg/scene"
	"github.com/chazu/supportmesh/pkg/support"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// presets are the built-in demo shapes selectable with -shape.
var presets = map[string]support.Shape{
	"ball":   support.Ball{Radius: 0.5},
	"cuboid": support.Cuboid{HalfExtents: v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}},
	"capsule": support.Capsule{
		A:      v3.Vec{Y: 0.5},
		B:      v3.Vec{Y: -0.5},
		Radius: 0.5,
	},
	"cone": support.Cone{Height: 1, Radius: 0.5},
	"tapered-capsule": support.TaperedCapsule{
		A:       v3.Vec{Y: 0.5},
		B:       v3.Vec{Y: -0.5},
		RadiusA: 0.5,
		RadiusB: 0.2,
	},
}

// presetNames returns the preset names in sorted order.
func presetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// presetScene returns a one-entry scene holding the named preset.
func presetScene(name string, samples int) (*scene.Scene, error) {
	s, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown shape preset %q (have %v)", name, presetNames())
	}
	sc := scene.New()
	if samples > 0 {
		sc.DefaultSamples = samples
	}
	sc.Add(&scene.Entry{Name: name, Shape: s})
	return sc, nil
}
