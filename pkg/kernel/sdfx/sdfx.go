// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/scadview/csg/pkg/kernel"
	"github.com/scadview/csg/pkg/mesh"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution.
const DefaultMeshCells = 100

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// sdfxShape wraps an sdf.SDF2 to implement kernel.Shape2D.
type sdfxShape struct {
	s sdf.SDF2
}

// Bounds returns the 2D axis-aligned bounding box.
func (s *sdfxShape) Bounds() (min, max [2]float64) {
	bb := s.s.BoundingBox()
	min = [2]float64{bb.Min.X, bb.Min.Y}
	max = [2]float64{bb.Max.X, bb.Max.Y}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// unwrap2 extracts the underlying sdf.SDF2 from a kernel.Shape2D.
func unwrap2(s kernel.Shape2D) sdf.SDF2 {
	return s.(*sdfxShape).s
}

// wrap2 creates a kernel.Shape2D from an sdf.SDF2.
func wrap2(s sdf.SDF2) kernel.Shape2D {
	return &sdfxShape{s: s}
}

// Box creates a box with the given dimensions. sdf.Box3D centers the box at
// the origin, so the uncentered case translates by half-dimensions to put
// the minimum corner at (0,0,0).
func (k *SdfxKernel) Box(x, y, z float64, center bool) (kernel.Solid, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("box: %w", err)
	}
	if !center {
		m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
		s = sdf.Transform3D(s, m)
	}
	return wrap(s), nil
}

// Sphere creates a sphere centered at the origin.
func (k *SdfxKernel) Sphere(radius float64) (kernel.Solid, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sphere: %w", err)
	}
	return wrap(s), nil
}

// Cylinder creates a cylinder or truncated cone along the z axis. r1 is the
// bottom radius and r2 the top radius. sdfx centers solids on z, so the
// uncentered case shifts the base onto z=0.
func (k *SdfxKernel) Cylinder(height, r1, r2 float64, center bool) (kernel.Solid, error) {
	var s sdf.SDF3
	var err error
	if r1 == r2 {
		s, err = sdf.Cylinder3D(height, r1, 0)
	} else {
		s, err = sdf.Cone3D(height, r1, r2, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("cylinder: %w", err)
	}
	if !center {
		s = sdf.Transform3D(s, sdf.Translate3d(v3.Vec{Z: height / 2}))
	}
	return wrap(s), nil
}

// Circle creates a circle centered at the origin.
func (k *SdfxKernel) Circle(radius float64) (kernel.Shape2D, error) {
	s, err := sdf.Circle2D(radius)
	if err != nil {
		return nil, fmt.Errorf("circle: %w", err)
	}
	return wrap2(s), nil
}

// Square creates a rectangle, min-corner at the origin unless centered.
func (k *SdfxKernel) Square(x, y float64, center bool) (kernel.Shape2D, error) {
	s := sdf.Box2D(v2.Vec{X: x, Y: y}, 0)
	if !center {
		s = sdf.Transform2D(s, sdf.Translate2d(v2.Vec{X: x / 2, Y: y / 2}))
	}
	return wrap2(s), nil
}

// Polygon creates a closed polygon from its outline points.
func (k *SdfxKernel) Polygon(points [][2]float64) (kernel.Shape2D, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("polygon needs at least 3 points, got %d", len(points))
	}
	vs := make([]v2.Vec, len(points))
	for i, p := range points {
		vs[i] = v2.Vec{X: p[0], Y: p[1]}
	}
	s, err := sdf.Polygon2D(vs)
	if err != nil {
		return nil, fmt.Errorf("polygon: %w", err)
	}
	return wrap2(s), nil
}

// Union returns the union of the given solids.
func (k *SdfxKernel) Union(solids ...kernel.Solid) (kernel.Solid, error) {
	if len(solids) == 0 {
		return nil, fmt.Errorf("union needs at least one solid")
	}
	ss := make([]sdf.SDF3, len(solids))
	for i, s := range solids {
		ss[i] = unwrap(s)
	}
	return wrap(sdf.Union3D(ss...)), nil
}

// Difference subtracts every following solid from the first.
func (k *SdfxKernel) Difference(base kernel.Solid, subtract ...kernel.Solid) (kernel.Solid, error) {
	if base == nil {
		return nil, fmt.Errorf("difference needs a base solid")
	}
	acc := unwrap(base)
	for _, s := range subtract {
		acc = sdf.Difference3D(acc, unwrap(s))
	}
	return wrap(acc), nil
}

// Intersection returns the intersection of the given solids.
func (k *SdfxKernel) Intersection(solids ...kernel.Solid) (kernel.Solid, error) {
	if len(solids) == 0 {
		return nil, fmt.Errorf("intersection needs at least one solid")
	}
	acc := unwrap(solids[0])
	for _, s := range solids[1:] {
		acc = sdf.Intersect3D(acc, unwrap(s))
	}
	return wrap(acc), nil
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Scale scales a solid by (x, y, z).
func (k *SdfxKernel) Scale(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Scale3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Mirror reflects a solid across the plane through the origin with the
// given normal. The reflection is built by rotating the normal onto the x
// axis, negating x, and rotating back, so only rotation and scale matrices
// are needed.
func (k *SdfxKernel) Mirror(s kernel.Solid, nx, ny, nz float64) (kernel.Solid, error) {
	l := math.Sqrt(nx*nx + ny*ny + nz*nz)
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return nil, fmt.Errorf("mirror normal must be a non-zero finite vector")
	}
	yaw := math.Atan2(ny, nx)
	pitch := math.Atan2(nz, math.Hypot(nx, ny))

	// fwd maps the normal onto the x axis.
	fwd := sdf.RotateY(pitch).Mul(sdf.RotateZ(-yaw))
	back := sdf.RotateZ(yaw).Mul(sdf.RotateY(-pitch))
	flip := sdf.Scale3d(v3.Vec{X: -1, Y: 1, Z: 1})

	m := back.Mul(flip).Mul(fwd)
	return wrap(sdf.Transform3D(unwrap(s), m)), nil
}

// Translate2D moves a 2D shape by (x, y) in its plane.
func (k *SdfxKernel) Translate2D(s kernel.Shape2D, x, y float64) kernel.Shape2D {
	m := sdf.Translate2d(v2.Vec{X: x, Y: y})
	return wrap2(sdf.Transform2D(unwrap2(s), m))
}

// LinearExtrude extrudes a 2D shape along z, optionally twisting and
// scaling over the height. sdfx extrusions are centered on z, so the
// uncentered case shifts the base onto z=0.
func (k *SdfxKernel) LinearExtrude(s kernel.Shape2D, height, twist float64, scale [2]float64, center bool) (kernel.Solid, error) {
	if height <= 0 {
		return nil, fmt.Errorf("extrude height must be positive, got %v", height)
	}
	s2 := unwrap2(s)
	twistRad := twist * math.Pi / 180.0
	scaled := scale[0] != 1 || scale[1] != 1

	var s3 sdf.SDF3
	switch {
	case twist != 0 && scaled:
		s3 = sdf.ScaleTwistExtrude3D(s2, height, twistRad, v2.Vec{X: scale[0], Y: scale[1]})
	case twist != 0:
		s3 = sdf.TwistExtrude3D(s2, height, twistRad)
	case scaled:
		s3 = sdf.ScaleExtrude3D(s2, height, v2.Vec{X: scale[0], Y: scale[1]})
	default:
		s3 = sdf.Extrude3D(s2, height)
	}
	if !center {
		s3 = sdf.Transform3D(s3, sdf.Translate3d(v3.Vec{Z: height / 2}))
	}
	return wrap(s3), nil
}

// RotateExtrude revolves a 2D shape around the z axis by the given sweep
// angle in degrees. Sweeps of 360 or more produce a full revolution.
func (k *SdfxKernel) RotateExtrude(s kernel.Shape2D, angle float64) (kernel.Solid, error) {
	theta := angle * math.Pi / 180.0
	if angle >= 360 || angle <= 0 {
		// RevolveTheta3D treats zero as a full revolution.
		theta = 0
	}
	s3, err := sdf.RevolveTheta3D(unwrap2(s), theta)
	if err != nil {
		return nil, fmt.Errorf("rotate extrude: %w", err)
	}
	return wrap(s3), nil
}

// ToMesh converts a solid to a triangle mesh using marching cubes. The
// output is a triangle soup; callers wanting indexed geometry can weld it
// afterwards.
func (k *SdfxKernel) ToMesh(s kernel.Solid, cells int) (*mesh.Mesh, error) {
	if cells <= 0 {
		cells = DefaultMeshCells
	}
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(sdf3, renderer)

	numVerts := len(triangles) * 3
	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return mesh.New(vertices, normals, indices), nil
}
