// Package geom builds exact triangle meshes for OpenSCAD primitives and
// applies affine transforms to built meshes. Unlike the SDF-backed CSG path,
// these tessellators emit minimal manifold topology directly: a cube is 8
// vertices and 12 triangles, a sphere is a closed lat-long grid, and so on.
// Degenerate dimensions are hard validation failures, never clamped.
package geom

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"

	"github.com/scadview/csg/pkg/mesh"
)

// DefaultSegments is the circle resolution used when $fn is unset or zero.
const DefaultSegments = 32

// MinSegments is the lower bound imposed on caller-supplied $fn values.
const MinSegments = 3

// validDimension reports whether v is a usable geometric dimension.
func validDimension(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Segments clamps a $fn-derived value into a usable segment count.
func Segments(fn float64) int {
	if fn <= 0 || math.IsNaN(fn) || math.IsInf(fn, 0) {
		return DefaultSegments
	}
	if fn < MinSegments {
		return MinSegments
	}
	return int(fn)
}

// ---------------------------------------------------------------------------
// Box
// ---------------------------------------------------------------------------

// boxFaces lists the 12 triangles of a box over its 8 corners, CCW when
// viewed from outside. Corner i has coordinates (i&1, i>>1&1, i>>2&1).
var boxFaces = [36]uint32{
	// bottom (z=0, viewed from -z)
	0, 2, 1, 1, 2, 3,
	// top (z=1)
	4, 5, 6, 5, 7, 6,
	// front (y=0)
	0, 1, 4, 1, 5, 4,
	// back (y=1)
	2, 6, 3, 3, 6, 7,
	// left (x=0)
	0, 4, 2, 2, 4, 6,
	// right (x=1)
	1, 3, 5, 3, 7, 5,
}

// Box builds an axis-aligned box with exactly 8 vertices and 12 triangles.
// The minimum corner sits at the origin unless center is true, matching
// OpenSCAD's cube placement.
func Box(w, h, d float64, center bool) (*mesh.Mesh, error) {
	if !validDimension(w) || !validDimension(h) || !validDimension(d) {
		return nil, fmt.Errorf("invalid size [%g, %g, %g]: cube dimensions must be positive and finite", w, h, d)
	}

	var ox, oy, oz float64
	if center {
		ox, oy, oz = -w/2, -h/2, -d/2
	}

	vertices := make([]float32, 0, 8*3)
	for i := 0; i < 8; i++ {
		x := ox + float64(i&1)*w
		y := oy + float64(i>>1&1)*h
		z := oz + float64(i>>2&1)*d
		vertices = append(vertices, float32(x), float32(y), float32(z))
	}

	indices := make([]uint32, 36)
	copy(indices, boxFaces[:])

	normals := ComputeVertexNormals(vertices, indices)
	return mesh.New(vertices, normals, indices), nil
}

// ---------------------------------------------------------------------------
// Sphere
// ---------------------------------------------------------------------------

// Sphere builds a closed lat-long sphere of the given radius. segments is
// the number of longitudinal steps; latitude uses segments/2 bands.
func Sphere(r float64, segments int) (*mesh.Mesh, error) {
	if !validDimension(r) {
		return nil, fmt.Errorf("invalid radius %g: sphere radius must be positive and finite", r)
	}
	if segments < MinSegments {
		segments = MinSegments
	}
	rings := segments / 2
	if rings < 2 {
		rings = 2
	}

	// One north pole vertex, (rings-1) interior rings, one south pole.
	var vertices, normals []float32
	push := func(x, y, z float64) {
		vertices = append(vertices, float32(x), float32(y), float32(z))
		// Sphere normals are exact: position over radius.
		normals = append(normals, float32(x/r), float32(y/r), float32(z/r))
	}

	push(0, 0, r)
	for ring := 1; ring < rings; ring++ {
		phi := math.Pi * float64(ring) / float64(rings)
		z := r * math.Cos(phi)
		ringR := r * math.Sin(phi)
		for seg := 0; seg < segments; seg++ {
			theta := 2 * math.Pi * float64(seg) / float64(segments)
			push(ringR*math.Cos(theta), ringR*math.Sin(theta), z)
		}
	}
	push(0, 0, -r)

	ringStart := func(ring int) uint32 { return uint32(1 + (ring-1)*segments) }
	south := uint32(1 + (rings-1)*segments)

	var indices []uint32
	// North cap.
	first := ringStart(1)
	for seg := 0; seg < segments; seg++ {
		next := (seg + 1) % segments
		indices = append(indices, 0, first+uint32(seg), first+uint32(next))
	}
	// Interior bands.
	for ring := 1; ring < rings-1; ring++ {
		a := ringStart(ring)
		b := ringStart(ring + 1)
		for seg := 0; seg < segments; seg++ {
			next := (seg + 1) % segments
			i0, i1 := a+uint32(seg), a+uint32(next)
			j0, j1 := b+uint32(seg), b+uint32(next)
			indices = append(indices, i0, j0, i1, i1, j0, j1)
		}
	}
	// South cap.
	last := ringStart(rings - 1)
	for seg := 0; seg < segments; seg++ {
		next := (seg + 1) % segments
		indices = append(indices, south, last+uint32(next), last+uint32(seg))
	}

	return mesh.New(vertices, normals, indices), nil
}

// ---------------------------------------------------------------------------
// Cylinder / cone
// ---------------------------------------------------------------------------

// Cylinder builds a cylinder (or cone frustum) along the Z axis. r1 is the
// bottom radius and r2 the top; r2 may be zero for a cone apex. The solid
// spans z in [0, h], or [-h/2, h/2] when center is true.
func Cylinder(h, r1, r2 float64, segments int, center bool) (*mesh.Mesh, error) {
	if !validDimension(h) {
		return nil, fmt.Errorf("invalid height %g: cylinder height must be positive and finite", h)
	}
	if !validDimension(r1) && !validDimension(r2) {
		return nil, fmt.Errorf("invalid radii [%g, %g]: at least one cylinder radius must be positive and finite", r1, r2)
	}
	if r1 < 0 || r2 < 0 || math.IsNaN(r1) || math.IsNaN(r2) || math.IsInf(r1, 0) || math.IsInf(r2, 0) {
		return nil, fmt.Errorf("invalid radii [%g, %g]: cylinder radii must be non-negative and finite", r1, r2)
	}
	if segments < MinSegments {
		segments = MinSegments
	}

	z0, z1 := 0.0, h
	if center {
		z0, z1 = -h/2, h/2
	}

	var vertices []float32
	push := func(x, y, z float64) uint32 {
		idx := uint32(len(vertices) / 3)
		vertices = append(vertices, float32(x), float32(y), float32(z))
		return idx
	}
	ring := func(r, z float64) []uint32 {
		out := make([]uint32, segments)
		for seg := 0; seg < segments; seg++ {
			theta := 2 * math.Pi * float64(seg) / float64(segments)
			out[seg] = push(r*math.Cos(theta), r*math.Sin(theta), z)
		}
		return out
	}

	var indices []uint32
	tri := func(a, b, c uint32) { indices = append(indices, a, b, c) }

	switch {
	case r1 > 0 && r2 > 0:
		bottom := ring(r1, z0)
		top := ring(r2, z1)
		for seg := 0; seg < segments; seg++ {
			next := (seg + 1) % segments
			tri(bottom[seg], bottom[next], top[seg])
			tri(bottom[next], top[next], top[seg])
		}
		bc := push(0, 0, z0)
		tc := push(0, 0, z1)
		for seg := 0; seg < segments; seg++ {
			next := (seg + 1) % segments
			tri(bc, bottom[next], bottom[seg]) // bottom cap faces -z
			tri(tc, top[seg], top[next])       // top cap faces +z
		}

	case r1 > 0:
		// Cone with apex at the top.
		bottom := ring(r1, z0)
		apex := push(0, 0, z1)
		bc := push(0, 0, z0)
		for seg := 0; seg < segments; seg++ {
			next := (seg + 1) % segments
			tri(bottom[seg], bottom[next], apex)
			tri(bc, bottom[next], bottom[seg])
		}

	default:
		// Inverted cone with apex at the bottom.
		top := ring(r2, z1)
		apex := push(0, 0, z0)
		tc := push(0, 0, z1)
		for seg := 0; seg < segments; seg++ {
			next := (seg + 1) % segments
			tri(apex, top[next], top[seg])
			tri(tc, top[seg], top[next])
		}
	}

	normals := ComputeVertexNormals(vertices, indices)
	return mesh.New(vertices, normals, indices), nil
}

// ---------------------------------------------------------------------------
// 2D shapes as flat meshes
// ---------------------------------------------------------------------------

// Disc builds a flat circle fan in the z=0 plane, facing +z.
func Disc(r float64, segments int) (*mesh.Mesh, error) {
	if !validDimension(r) {
		return nil, fmt.Errorf("invalid radius %g: circle radius must be positive and finite", r)
	}
	if segments < MinSegments {
		segments = MinSegments
	}

	vertices := []float32{0, 0, 0}
	normals := []float32{0, 0, 1}
	for seg := 0; seg < segments; seg++ {
		theta := 2 * math.Pi * float64(seg) / float64(segments)
		vertices = append(vertices, float32(r*math.Cos(theta)), float32(r*math.Sin(theta)), 0)
		normals = append(normals, 0, 0, 1)
	}

	var indices []uint32
	for seg := 0; seg < segments; seg++ {
		next := (seg+1)%segments + 1
		indices = append(indices, 0, uint32(seg+1), uint32(next))
	}
	return mesh.New(vertices, normals, indices), nil
}

// Quad builds a flat rectangle in the z=0 plane, facing +z. The minimum
// corner sits at the origin unless center is true.
func Quad(w, h float64, center bool) (*mesh.Mesh, error) {
	if !validDimension(w) || !validDimension(h) {
		return nil, fmt.Errorf("invalid size [%g, %g]: square dimensions must be positive and finite", w, h)
	}
	var ox, oy float64
	if center {
		ox, oy = -w/2, -h/2
	}
	vertices := []float32{
		float32(ox), float32(oy), 0,
		float32(ox + w), float32(oy), 0,
		float32(ox + w), float32(oy + h), 0,
		float32(ox), float32(oy + h), 0,
	}
	normals := []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1}
	indices := []uint32{0, 1, 2, 0, 2, 3}
	return mesh.New(vertices, normals, indices), nil
}

// ---------------------------------------------------------------------------
// Polygon (ear clipping)
// ---------------------------------------------------------------------------

// PolygonMesh triangulates a simple (non-self-intersecting) polygon outline
// into a flat mesh in the z=0 plane using ear clipping. Winding of the input
// does not matter; the output faces +z.
func PolygonMesh(points [][2]float64) (*mesh.Mesh, error) {
	indices, err := earClip(points)
	if err != nil {
		return nil, err
	}

	vertices := make([]float32, 0, len(points)*3)
	normals := make([]float32, 0, len(points)*3)
	for _, p := range points {
		vertices = append(vertices, float32(p[0]), float32(p[1]), 0)
		normals = append(normals, 0, 0, 1)
	}
	return mesh.New(vertices, normals, indices), nil
}

// earClip triangulates a simple polygon, returning CCW triangles over the
// original point indices.
func earClip(points [][2]float64) ([]uint32, error) {
	n := len(points)
	if n < 3 {
		return nil, fmt.Errorf("polygon requires at least 3 points, got %d", n)
	}
	for _, p := range points {
		if math.IsNaN(p[0]) || math.IsNaN(p[1]) || math.IsInf(p[0], 0) || math.IsInf(p[1], 0) {
			return nil, fmt.Errorf("invalid polygon point [%g, %g]", p[0], p[1])
		}
	}

	// Work on an index ring, oriented CCW.
	ring := make([]int, n)
	if signedArea(points) >= 0 {
		for i := range ring {
			ring[i] = i
		}
	} else {
		for i := range ring {
			ring[i] = n - 1 - i
		}
	}

	cross := func(a, b, c [2]float64) float64 {
		return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
	}
	inTriangle := func(p, a, b, c [2]float64) bool {
		return cross(a, b, p) >= 0 && cross(b, c, p) >= 0 && cross(c, a, p) >= 0
	}

	var out []uint32
	guard := 0
	for len(ring) > 3 {
		if guard++; guard > n*n {
			return nil, fmt.Errorf("polygon triangulation failed: outline may be self-intersecting")
		}
		clipped := false
		for i := 0; i < len(ring); i++ {
			prev := ring[(i+len(ring)-1)%len(ring)]
			cur := ring[i]
			next := ring[(i+1)%len(ring)]
			a, b, c := points[prev], points[cur], points[next]
			if cross(a, b, c) <= 0 {
				continue // reflex corner, not an ear
			}
			ear := true
			for _, other := range ring {
				if other == prev || other == cur || other == next {
					continue
				}
				if inTriangle(points[other], a, b, c) {
					ear = false
					break
				}
			}
			if !ear {
				continue
			}
			out = append(out, uint32(prev), uint32(cur), uint32(next))
			ring = append(ring[:i], ring[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			return nil, fmt.Errorf("polygon triangulation failed: degenerate outline")
		}
	}
	out = append(out, uint32(ring[0]), uint32(ring[1]), uint32(ring[2]))
	return out, nil
}

// signedArea returns twice the signed area of the polygon; positive is CCW.
func signedArea(points [][2]float64) float64 {
	sum := 0.0
	for i := range points {
		j := (i + 1) % len(points)
		sum += points[i][0]*points[j][1] - points[j][0]*points[i][1]
	}
	return sum
}

// ---------------------------------------------------------------------------
// Text placeholder
// ---------------------------------------------------------------------------

// TextPlaceholder builds one thin box per non-space character, advancing
// along X. Proper glyph outlines require font support, which the conversion
// core does not carry; a degraded-but-visible stand-in keeps the preview
// alive while the user types.
func TextPlaceholder(text string, size float64) (*mesh.Mesh, error) {
	if !validDimension(size) {
		return nil, fmt.Errorf("invalid text size %g: must be positive and finite", size)
	}
	if text == "" {
		return nil, fmt.Errorf("text primitive requires a non-empty string")
	}

	advance := size * 0.6
	glyphW := size * 0.5
	depth := size * 0.1

	var combined *mesh.Mesh
	x := 0.0
	for _, r := range text {
		if r == ' ' || r == '\t' {
			x += advance
			continue
		}
		glyph, err := Box(glyphW, size, depth, false)
		if err != nil {
			return nil, err
		}
		Transform(glyph, Translation(x, 0, 0))
		combined = Merge(combined, glyph)
		x += advance
	}
	if combined == nil {
		return nil, fmt.Errorf("text primitive requires at least one printable character")
	}
	return combined, nil
}

// ---------------------------------------------------------------------------
// Mesh operations
// ---------------------------------------------------------------------------

// Transform applies an affine transform to a mesh in place. Positions use
// the full matrix, normals the inverse-transpose of its linear part. An
// orientation-flipping transform (negative determinant) also reverses
// triangle winding so faces stay outward.
func Transform(m *mesh.Mesh, t Mat4) {
	for v := 0; v < m.VertexCount(); v++ {
		x, y, z := t.MulPosition(
			float64(m.Vertices[v*3]),
			float64(m.Vertices[v*3+1]),
			float64(m.Vertices[v*3+2]),
		)
		m.Vertices[v*3] = float32(x)
		m.Vertices[v*3+1] = float32(y)
		m.Vertices[v*3+2] = float32(z)
	}

	if len(m.Normals) == len(m.Vertices) {
		nm := t.NormalMatrix()
		for v := 0; v < m.VertexCount(); v++ {
			nx := float64(m.Normals[v*3])
			ny := float64(m.Normals[v*3+1])
			nz := float64(m.Normals[v*3+2])
			tx := nm[0]*nx + nm[1]*ny + nm[2]*nz
			ty := nm[3]*nx + nm[4]*ny + nm[5]*nz
			tz := nm[6]*nx + nm[7]*ny + nm[8]*nz
			setNormal(m.Normals, v, float32(tx), float32(ty), float32(tz))
		}
	}

	if t.Det3() < 0 {
		for i := 0; i+2 < len(m.Indices); i += 3 {
			m.Indices[i+1], m.Indices[i+2] = m.Indices[i+2], m.Indices[i+1]
		}
	}
}

// Merge concatenates b onto a and returns the combined mesh. Either input
// may be nil. Metadata is not merged; callers set it on the result.
func Merge(a, b *mesh.Mesh) *mesh.Mesh {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	offset := uint32(a.VertexCount())
	vertices := append(append([]float32{}, a.Vertices...), b.Vertices...)
	normals := append(append([]float32{}, a.Normals...), b.Normals...)
	indices := append([]uint32{}, a.Indices...)
	for _, idx := range b.Indices {
		indices = append(indices, idx+offset)
	}
	return mesh.New(vertices, normals, indices)
}

// Weld deduplicates vertices whose positions agree within tolerance,
// averaging their normals. Marching-cubes output emits three unique
// vertices per triangle; welding collapses the shared ones.
func Weld(m *mesh.Mesh, tolerance float64) *mesh.Mesh {
	if tolerance <= 0 {
		tolerance = 1e-6
	}
	type key [3]int64
	quantize := func(v float32) int64 {
		return int64(math.Round(float64(v) / tolerance))
	}

	lookup := make(map[key]uint32)
	var vertices, normals []float32
	remap := make([]uint32, m.VertexCount())

	for v := 0; v < m.VertexCount(); v++ {
		k := key{
			quantize(m.Vertices[v*3]),
			quantize(m.Vertices[v*3+1]),
			quantize(m.Vertices[v*3+2]),
		}
		idx, seen := lookup[k]
		if !seen {
			idx = uint32(len(vertices) / 3)
			lookup[k] = idx
			vertices = append(vertices, m.Vertices[v*3], m.Vertices[v*3+1], m.Vertices[v*3+2])
			normals = append(normals, 0, 0, 0)
		}
		if len(m.Normals) == len(m.Vertices) {
			normals[idx*3] += m.Normals[v*3]
			normals[idx*3+1] += m.Normals[v*3+1]
			normals[idx*3+2] += m.Normals[v*3+2]
		}
		remap[v] = idx
	}

	indices := make([]uint32, len(m.Indices))
	for i, idx := range m.Indices {
		indices[i] = remap[idx]
	}

	normalizeAll(normals)
	return mesh.New(vertices, normals, indices)
}

// ComputeVertexNormals generates per-vertex normals by accumulating the
// area-weighted face normals of all triangles incident on each vertex,
// then normalizing.
func ComputeVertexNormals(vertices []float32, indices []uint32) []float32 {
	normals := make([]float32, len(vertices))

	for t := 0; t+2 < len(indices); t += 3 {
		i0, i1, i2 := indices[t], indices[t+1], indices[t+2]

		ax, ay, az := vertices[i0*3], vertices[i0*3+1], vertices[i0*3+2]
		bx, by, bz := vertices[i1*3], vertices[i1*3+1], vertices[i1*3+2]
		cx, cy, cz := vertices[i2*3], vertices[i2*3+1], vertices[i2*3+2]

		e1x, e1y, e1z := bx-ax, by-ay, bz-az
		e2x, e2y, e2z := cx-ax, cy-ay, cz-az

		// Unnormalized cross product weights by triangle area.
		nx := e1y*e2z - e1z*e2y
		ny := e1z*e2x - e1x*e2z
		nz := e1x*e2y - e1y*e2x

		for _, idx := range [3]uint32{i0, i1, i2} {
			normals[idx*3] += nx
			normals[idx*3+1] += ny
			normals[idx*3+2] += nz
		}
	}

	normalizeAll(normals)
	return normals
}

// normalizeAll normalizes each consecutive float32 triple in place.
func normalizeAll(normals []float32) {
	for v := 0; v+2 < len(normals); v += 3 {
		nx, ny, nz := normals[v], normals[v+1], normals[v+2]
		l := math32.Sqrt(nx*nx + ny*ny + nz*nz)
		if l > 1e-12 {
			normals[v] = nx / l
			normals[v+1] = ny / l
			normals[v+2] = nz / l
		}
	}
}

// setNormal writes one normal triple.
func setNormal(normals []float32, v int, x, y, z float32) {
	l := math32.Sqrt(x*x + y*y + z*z)
	if l > 1e-12 {
		x, y, z = x/l, y/l, z/l
	}
	normals[v*3] = x
	normals[v*3+1] = y
	normals[v*3+2] = z
}
