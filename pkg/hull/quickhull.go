package hull

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultTolerance is the relative tolerance used by Build. Plane distance
// tests treat anything within DefaultTolerance times the input scale as
// lying on the plane.
const DefaultTolerance = 1e-10

// Builder computes convex hulls with a configurable tolerance.
// The zero value uses DefaultTolerance.
type Builder struct {
	// Tolerance is relative to the bounding-box diagonal of the input.
	Tolerance float64
}

// NewBuilder returns a Builder using DefaultTolerance.
func NewBuilder() *Builder {
	return &Builder{Tolerance: DefaultTolerance}
}

// Build computes the convex hull of points with DefaultTolerance.
func Build(points []v3.Vec) (*Hull, error) {
	return NewBuilder().Build(points)
}

// Build computes the convex hull of points. The input is not modified.
// On error no hull is returned.
func (b *Builder) Build(points []v3.Vec) (*Hull, error) {
	if len(points) < 4 {
		return nil, fmt.Errorf("%w: need at least 4, got %d", ErrInsufficientPoints, len(points))
	}
	for i, p := range points {
		if !finite(p) {
			return nil, fmt.Errorf("%w: point %d is not finite: %v", ErrDegenerateInput, i, p)
		}
	}

	tol := b.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	qh := &quickhull{
		points: points,
		eps:    epsilon(points, tol),
	}

	if err := qh.initSimplex(); err != nil {
		return nil, err
	}
	if err := qh.expand(); err != nil {
		return nil, err
	}
	return qh.result(), nil
}

// face is a triangle of the hull under construction. Edge e runs from
// v[e] to v[(e+1)%3]; adj[e] is the face on the other side of that edge.
type face struct {
	v       [3]int
	adj     [3]int
	normal  v3.Vec
	outside []int // points strictly outside this face, not yet processed
	alive   bool
	visit   int
	visible bool
}

type horizonEdge struct {
	a, b int // edge a->b as wound in the visible face
	face int // non-visible neighbour across the edge
}

type quickhull struct {
	points []v3.Vec
	eps    float64
	faces  []*face
	stamp  int
}

func (qh *quickhull) newFace(a, b, c int) int {
	pa := qh.points[a]
	n := qh.points[b].Sub(pa).Cross(qh.points[c].Sub(pa))
	if l := n.Length(); l > 0 {
		n = n.MulScalar(1 / l)
	}
	qh.faces = append(qh.faces, &face{
		v:      [3]int{a, b, c},
		normal: n,
		alive:  true,
	})
	return len(qh.faces) - 1
}

// distance is the signed distance of point i above the plane of f,
// measured from the face's first corner to keep far-off inputs exact.
func (qh *quickhull) distance(f *face, i int) float64 {
	return f.normal.Dot(qh.points[i].Sub(qh.points[f.v[0]]))
}

// initSimplex picks four well separated points and builds the starting
// tetrahedron, then distributes the remaining points to its faces.
func (qh *quickhull) initSimplex() error {
	pts := qh.points

	// Extreme points along each axis.
	var ext [6]int
	for i, p := range pts {
		if p.X < pts[ext[0]].X {
			ext[0] = i
		}
		if p.X > pts[ext[1]].X {
			ext[1] = i
		}
		if p.Y < pts[ext[2]].Y {
			ext[2] = i
		}
		if p.Y > pts[ext[3]].Y {
			ext[3] = i
		}
		if p.Z < pts[ext[4]].Z {
			ext[4] = i
		}
		if p.Z > pts[ext[5]].Z {
			ext[5] = i
		}
	}

	// The two extremes farthest apart span the first edge.
	i0, i1 := ext[0], ext[1]
	best := -1.0
	for j := 0; j < len(ext); j++ {
		for k := j + 1; k < len(ext); k++ {
			if d := pts[ext[j]].Sub(pts[ext[k]]).Length(); d > best {
				i0, i1, best = ext[j], ext[k], d
			}
		}
	}
	if best <= qh.eps {
		return fmt.Errorf("%w: all points coincide", ErrDegenerateInput)
	}

	// Farthest point from the line i0-i1.
	p0 := pts[i0]
	axis := pts[i1].Sub(p0).MulScalar(1 / best)
	i2 := -1
	best = qh.eps
	for i, p := range pts {
		if d := p.Sub(p0).Cross(axis).Length(); d > best {
			i2, best = i, d
		}
	}
	if i2 < 0 {
		return fmt.Errorf("%w: all points are collinear", ErrDegenerateInput)
	}

	// Farthest point from the plane i0-i1-i2.
	n := pts[i1].Sub(p0).Cross(pts[i2].Sub(p0)).Normalize()
	i3 := -1
	best = qh.eps
	above := false
	for i, p := range pts {
		d := n.Dot(p.Sub(p0))
		if math.Abs(d) > best {
			i3, best, above = i, math.Abs(d), d > 0
		}
	}
	if i3 < 0 {
		return fmt.Errorf("%w: all points are coplanar", ErrDegenerateInput)
	}

	// Wind the base so that the apex lies below it.
	if above {
		i1, i2 = i2, i1
	}
	initial := []int{
		qh.newFace(i0, i1, i2),
		qh.newFace(i0, i3, i1),
		qh.newFace(i1, i3, i2),
		qh.newFace(i2, i3, i0),
	}
	qh.link(initial)

	rest := make([]int, 0, len(pts))
	for i := range pts {
		if i != i0 && i != i1 && i != i2 && i != i3 {
			rest = append(rest, i)
		}
	}
	qh.assign(rest, initial)
	return nil
}

// link fills in adjacency for a closed set of faces by matching each edge
// with its reverse.
func (qh *quickhull) link(faces []int) {
	type edge struct{ a, b int }
	owner := make(map[edge]int, len(faces)*3)
	for _, fi := range faces {
		f := qh.faces[fi]
		for e := 0; e < 3; e++ {
			owner[edge{f.v[e], f.v[(e+1)%3]}] = fi
		}
	}
	for _, fi := range faces {
		f := qh.faces[fi]
		for e := 0; e < 3; e++ {
			f.adj[e] = owner[edge{f.v[(e+1)%3], f.v[e]}]
		}
	}
}

// assign moves each candidate point into the outside set of the face it is
// farthest above. Points inside every face are dropped.
func (qh *quickhull) assign(candidates, faces []int) {
	for _, i := range candidates {
		target := -1
		best := qh.eps
		for _, fi := range faces {
			if d := qh.distance(qh.faces[fi], i); d > best {
				target, best = fi, d
			}
		}
		if target >= 0 {
			f := qh.faces[target]
			f.outside = append(f.outside, i)
		}
	}
}

// expand adds outside points until every face has an empty outside set.
// New faces are appended to qh.faces, so a single forward pass visits
// every face that can still hold points.
func (qh *quickhull) expand() error {
	for fi := 0; fi < len(qh.faces); fi++ {
		f := qh.faces[fi]
		if !f.alive || len(f.outside) == 0 {
			continue
		}
		if err := qh.addPoint(fi); err != nil {
			return err
		}
	}
	return nil
}

// addPoint inserts the farthest outside point of face fi into the hull.
func (qh *quickhull) addPoint(fi int) error {
	start := qh.faces[fi]
	apex := start.outside[0]
	far := qh.distance(start, apex)
	for _, i := range start.outside[1:] {
		if d := qh.distance(start, i); d > far {
			apex, far = i, d
		}
	}

	// Flood the faces visible from the apex and collect the horizon.
	qh.stamp++
	start.visit, start.visible = qh.stamp, true
	visible := []int{fi}
	stack := []int{fi}
	var horizon []horizonEdge
	for len(stack) > 0 {
		cur := qh.faces[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		for e := 0; e < 3; e++ {
			ni := cur.adj[e]
			nb := qh.faces[ni]
			if nb.visit != qh.stamp {
				nb.visit = qh.stamp
				nb.visible = qh.distance(nb, apex) > qh.eps
				if nb.visible {
					visible = append(visible, ni)
					stack = append(stack, ni)
				}
			}
			if !nb.visible {
				horizon = append(horizon, horizonEdge{a: cur.v[e], b: cur.v[(e+1)%3], face: ni})
			}
		}
	}

	if err := checkHorizon(horizon); err != nil {
		return fmt.Errorf("%w while adding point %d", err, apex)
	}

	// Fan the horizon to the apex. Each new face (a, b, apex) keeps the
	// horizon edge's winding, which makes it outward.
	created := make([]int, 0, len(horizon))
	startsAt := make(map[int]int, len(horizon))
	for _, h := range horizon {
		ni := qh.newFace(h.a, h.b, apex)
		qh.faces[ni].adj[0] = h.face
		nb := qh.faces[h.face]
		for e := 0; e < 3; e++ {
			if nb.v[e] == h.b && nb.v[(e+1)%3] == h.a {
				nb.adj[e] = ni
			}
		}
		startsAt[h.a] = ni
		created = append(created, ni)
	}
	for _, ni := range created {
		f := qh.faces[ni]
		next := startsAt[f.v[1]]
		// Edge b->apex of this face meets edge apex->b of the next one.
		f.adj[1] = next
		qh.faces[next].adj[2] = ni
	}

	var orphans []int
	for _, vi := range visible {
		vf := qh.faces[vi]
		vf.alive = false
		for _, i := range vf.outside {
			if i != apex {
				orphans = append(orphans, i)
			}
		}
		vf.outside = nil
	}
	qh.assign(orphans, created)
	return nil
}

// checkHorizon reports whether the horizon is a single closed loop. The
// visible region of a convex hull is a disc, so anything else means the
// tolerance let a near-coplanar face flip.
func checkHorizon(horizon []horizonEdge) error {
	if len(horizon) < 3 {
		return fmt.Errorf("%w: horizon has %d edges", ErrDegenerateInput, len(horizon))
	}
	next := make(map[int]int, len(horizon))
	for _, h := range horizon {
		if _, dup := next[h.a]; dup {
			return fmt.Errorf("%w: horizon is not simple at vertex %d", ErrDegenerateInput, h.a)
		}
		next[h.a] = h.b
	}
	start := horizon[0].a
	v, steps := start, 0
	for {
		b, ok := next[v]
		if !ok {
			return fmt.Errorf("%w: open horizon at vertex %d", ErrDegenerateInput, v)
		}
		v = b
		steps++
		if v == start || steps > len(horizon) {
			break
		}
	}
	if steps != len(horizon) {
		return fmt.Errorf("%w: horizon splits into several loops", ErrDegenerateInput)
	}
	return nil
}

// result compacts the live faces into a Hull whose vertices keep input order.
func (qh *quickhull) result() *Hull {
	remap := make([]int, len(qh.points))
	for i := range remap {
		remap[i] = -1
	}
	var live []*face
	for _, f := range qh.faces {
		if !f.alive {
			continue
		}
		live = append(live, f)
		for _, v := range f.v {
			remap[v] = 0
		}
	}

	h := &Hull{Faces: make([][3]int, 0, len(live))}
	for i, used := range remap {
		if used < 0 {
			continue
		}
		remap[i] = len(h.Vertices)
		h.Vertices = append(h.Vertices, qh.points[i])
		h.Source = append(h.Source, i)
	}
	for _, f := range live {
		h.Faces = append(h.Faces, [3]int{remap[f.v[0]], remap[f.v[1]], remap[f.v[2]]})
	}
	return h
}

func finite(p v3.Vec) bool {
	for _, c := range [3]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
