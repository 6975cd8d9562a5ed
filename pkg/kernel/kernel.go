// Package kernel defines the abstract geometry kernel interface.
// Implementations (sdfx) provide solid modeling and boolean operations
// behind this interface. The kernel abstraction allows swapping backends
// without changing the conversion pipeline.
package kernel

import "github.com/scadview/csg/pkg/mesh"

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Shape2D is an opaque handle to a planar shape used as extrusion input.
type Shape2D interface {
	// Bounds returns the 2D axis-aligned bounding box.
	Bounds() (min, max [2]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives. Placement follows OpenSCAD conventions: boxes sit with
	// their minimum corner at the origin and cylinders with their base on
	// z=0 unless center is true; spheres are always origin-centered.
	Box(x, y, z float64, center bool) (Solid, error)
	Sphere(radius float64) (Solid, error)
	Cylinder(height, r1, r2 float64, center bool) (Solid, error)

	// 2D shapes for extrusion input.
	Circle(radius float64) (Shape2D, error)
	Square(x, y float64, center bool) (Shape2D, error)
	Polygon(points [][2]float64) (Shape2D, error)

	// Boolean operations. Difference subtracts every following solid from
	// the first.
	Union(solids ...Solid) (Solid, error)
	Difference(base Solid, subtract ...Solid) (Solid, error)
	Intersection(solids ...Solid) (Solid, error)

	// Transforms. Angles are Euler degrees applied X, then Y, then Z.
	// Mirror reflects across the plane through the origin with the given
	// normal.
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid
	Scale(s Solid, x, y, z float64) Solid
	Mirror(s Solid, nx, ny, nz float64) (Solid, error)

	// Translate2D moves a 2D shape in its plane, for offset extrusion
	// profiles.
	Translate2D(s Shape2D, x, y float64) Shape2D

	// Extrusions. twist is degrees over the full height, scale is the
	// top-face scale factor, angle is the revolution sweep in degrees.
	LinearExtrude(s Shape2D, height, twist float64, scale [2]float64, center bool) (Solid, error)
	RotateExtrude(s Shape2D, angle float64) (Solid, error)

	// ToMesh tessellates a solid into a triangle mesh. cells controls the
	// sampling resolution along the longest bounding box axis.
	ToMesh(s Solid, cells int) (*mesh.Mesh, error)
}
