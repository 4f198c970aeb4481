package sampling

import (
	"errors"
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestDirectionsUnitLength(t *testing.T) {
	for _, n := range []int{2, 3, 10, 500, 4096} {
		dirs, err := Directions(n)
		if err != nil {
			t.Fatalf("Directions(%d) error = %v", n, err)
		}
		if len(dirs) != n {
			t.Fatalf("Directions(%d) returned %d directions", n, len(dirs))
		}
		for i, d := range dirs {
			if l := d.Length(); math.Abs(l-1) > 1e-5 {
				t.Fatalf("Directions(%d)[%d] = %v has length %f", n, i, d, l)
			}
		}
	}
}

func TestDirectionsDeterministic(t *testing.T) {
	a, err := Directions(500)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Directions(500)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("direction %d differs between runs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestDirectionsPoles(t *testing.T) {
	dirs, err := Directions(100)
	if err != nil {
		t.Fatal(err)
	}
	if first := dirs[0]; first != (v3.Vec{X: 0, Y: 1, Z: 0}) {
		t.Errorf("first direction = %v, want +Y", first)
	}
	last := dirs[len(dirs)-1]
	if math.Abs(last.Y+1) > 1e-12 || math.Abs(last.X) > 1e-12 || math.Abs(last.Z) > 1e-12 {
		t.Errorf("last direction = %v, want -Y", last)
	}
}

func TestDirectionsCoverSphere(t *testing.T) {
	dirs, err := Directions(1000)
	if err != nil {
		t.Fatal(err)
	}
	// Every octant should get roughly an eighth of the samples.
	var octants [8]int
	var mean v3.Vec
	for _, d := range dirs {
		idx := 0
		if d.X > 0 {
			idx |= 1
		}
		if d.Y > 0 {
			idx |= 2
		}
		if d.Z > 0 {
			idx |= 4
		}
		octants[idx]++
		mean = mean.Add(d)
	}
	for i, c := range octants {
		if c < 100 || c > 150 {
			t.Errorf("octant %d has %d samples, want about 125", i, c)
		}
	}
	if l := mean.Length() / float64(len(dirs)); l > 0.01 {
		t.Errorf("mean direction length = %f, want near 0", l)
	}
}

func TestDirectionsInvalidCount(t *testing.T) {
	for _, n := range []int{-1, 0, 1} {
		dirs, err := Directions(n)
		if !errors.Is(err, ErrInvalidSampleCount) {
			t.Errorf("Directions(%d) error = %v, want ErrInvalidSampleCount", n, err)
		}
		if dirs != nil {
			t.Errorf("Directions(%d) returned %d directions, want nil", n, len(dirs))
		}
	}
}

func TestDirectionMatchesDirections(t *testing.T) {
	dirs, err := Directions(37)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range dirs {
		if got := Direction(i, 37); got != want {
			t.Errorf("Direction(%d, 37) = %v, want %v", i, got, want)
		}
	}
}
