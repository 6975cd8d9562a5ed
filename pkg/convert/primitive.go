package convert

import (
	"fmt"

	"github.com/scadview/csg/pkg/ast"
	"github.com/scadview/csg/pkg/geom"
	"github.com/scadview/csg/pkg/mesh"
)

// scalarOr extracts a scalar parameter, falling back to def when the node
// is absent or yields nothing.
func (c *Converter) scalarOr(node ast.Expr, def float64) float64 {
	if node == nil {
		return def
	}
	if v := c.ext.Value(node); v != nil {
		return *v
	}
	return def
}

// boolOr extracts a boolean parameter with a default.
func (c *Converter) boolOr(node ast.Expr, def bool) bool {
	if node == nil {
		return def
	}
	if v := c.ext.Boolean(node); v != nil {
		return *v
	}
	return def
}

// vectorOr extracts a 3-vector parameter with a default.
func (c *Converter) vectorOr(node ast.Expr, def [3]float64) [3]float64 {
	if node == nil {
		return def
	}
	if v := c.ext.Vector(node); v != nil {
		return *v
	}
	return def
}

// segments resolves the $fn parameter to a tessellation segment count.
func (c *Converter) segments(fn ast.Expr) int {
	return geom.Segments(c.scalarOr(fn, 0))
}

func (c *Converter) convertCube(n *ast.CubeNode) (*mesh.Mesh, error) {
	size := c.vectorOr(n.Size, [3]float64{1, 1, 1})
	center := c.boolOr(n.Center, false)
	return geom.Box(size[0], size[1], size[2], center)
}

// sphereRadius resolves the r/d parameter pair; d wins when both appear.
func sphereRadius(r, d *float64, def float64) float64 {
	if d != nil {
		return *d / 2
	}
	if r != nil {
		return *r
	}
	return def
}

func (c *Converter) convertSphere(n *ast.SphereNode, opts Options) (*mesh.Mesh, error) {
	var r, d *float64
	if n.Radius != nil {
		r = c.ext.Value(n.Radius)
	}
	if n.Diameter != nil {
		d = c.ext.Value(n.Diameter)
	}
	segs := c.segments(n.Fn)
	// A lat-long sphere triangle count is known from the segment count, so
	// an oversized request is rejected before any geometry is built.
	if est := segs * (segs / 2) * 2; est > opts.MaxComplexity {
		return nil, fmt.Errorf("complexity limit exceeded: estimated %d triangles (max %d)",
			est, opts.MaxComplexity)
	}
	return geom.Sphere(sphereRadius(r, d, 1), segs)
}

func (c *Converter) convertCylinder(n *ast.CylinderNode, opts Options) (*mesh.Mesh, error) {
	h := c.scalarOr(n.Height, 1)
	center := c.boolOr(n.Center, false)

	// Radius precedence: d1/d2 over d over r1/r2 over r.
	r1, r2 := 1.0, 1.0
	if v := c.ext.Value(n.Radius); n.Radius != nil && v != nil {
		r1, r2 = *v, *v
	}
	if v := c.ext.Value(n.R1); n.R1 != nil && v != nil {
		r1 = *v
	}
	if v := c.ext.Value(n.R2); n.R2 != nil && v != nil {
		r2 = *v
	}
	if v := c.ext.Value(n.D); n.D != nil && v != nil {
		r1, r2 = *v/2, *v/2
	}
	if v := c.ext.Value(n.D1); n.D1 != nil && v != nil {
		r1 = *v / 2
	}
	if v := c.ext.Value(n.D2); n.D2 != nil && v != nil {
		r2 = *v / 2
	}

	segs := c.segments(n.Fn)
	if est := segs * 4; est > opts.MaxComplexity {
		return nil, fmt.Errorf("complexity limit exceeded: estimated %d triangles (max %d)",
			est, opts.MaxComplexity)
	}
	return geom.Cylinder(h, r1, r2, segs, center)
}

func (c *Converter) convertText(n *ast.TextNode) (*mesh.Mesh, error) {
	size := c.scalarOr(n.Size, 10)
	return geom.TextPlaceholder(n.Text, size)
}

func (c *Converter) convertCircle(n *ast.CircleNode) (*mesh.Mesh, error) {
	var r, d *float64
	if n.Radius != nil {
		r = c.ext.Value(n.Radius)
	}
	if n.Diameter != nil {
		d = c.ext.Value(n.Diameter)
	}
	return geom.Disc(sphereRadius(r, d, 1), c.segments(n.Fn))
}

func (c *Converter) convertSquare(n *ast.SquareNode) (*mesh.Mesh, error) {
	size := c.vectorOr(n.Size, [3]float64{1, 1, 0})
	center := c.boolOr(n.Center, false)
	return geom.Quad(size[0], size[1], center)
}

func (c *Converter) convertPolygon(n *ast.PolygonNode) (*mesh.Mesh, error) {
	points, err := c.extractPoints(n.Points)
	if err != nil {
		return nil, err
	}
	return geom.PolygonMesh(points)
}

// extractPoints extracts a [[x,y], ...] point list from a polygon points
// parameter.
func (c *Converter) extractPoints(node ast.Expr) ([][2]float64, error) {
	if node == nil {
		return nil, fmt.Errorf("polygon requires a points parameter")
	}

	inner := node
	for {
		p, ok := inner.(*ast.ParenExpr)
		if !ok {
			break
		}
		inner = p.Inner
	}

	vec, ok := inner.(*ast.VectorExpr)
	if !ok {
		return nil, fmt.Errorf("polygon points must be a vector of [x, y] pairs")
	}

	points := make([][2]float64, 0, len(vec.Elements))
	for i, el := range vec.Elements {
		p := c.ext.Vector(el)
		if p == nil {
			return nil, fmt.Errorf("polygon point %d is not a coordinate pair", i)
		}
		points = append(points, [2]float64{p[0], p[1]})
	}
	return points, nil
}
