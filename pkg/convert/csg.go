package convert

import (
	"fmt"
	"math"

	"github.com/scadview/csg/pkg/ast"
	"github.com/scadview/csg/pkg/geom"
	"github.com/scadview/csg/pkg/kernel"
	"github.com/scadview/csg/pkg/mesh"
)

// convertBoolean converts a union/difference/intersection node. The whole
// subtree is built as a kernel solid and tessellated once, so nested
// booleans cost a single marching cubes pass.
func (c *Converter) convertBoolean(node ast.Node, children []ast.Node, opts Options) (*mesh.Mesh, error) {
	if len(children) == 0 {
		return mesh.New(nil, nil, nil), nil
	}
	if len(children) == 1 {
		// A boolean of one operand is that operand.
		return c.convertNode(children[0], opts)
	}

	solid, err := c.buildSolid(node, opts)
	if err != nil {
		return nil, err
	}
	return c.tessellate(solid, opts)
}

// tessellate converts a kernel solid to a mesh, welding duplicate vertices
// when optimization is enabled.
func (c *Converter) tessellate(solid kernel.Solid, opts Options) (*mesh.Mesh, error) {
	m, err := c.kern.ToMesh(solid, opts.MeshCells)
	if err != nil {
		return nil, err
	}
	if opts.EnableOptimization {
		m = geom.Weld(m, weldTolerance)
	}
	return m, nil
}

// buildSolid recursively maps an AST subtree to a kernel solid. It covers
// the 3D node kinds that can participate in a boolean expression; anything
// else is rejected with the standard unsupported-type error. Flat 2D shapes
// (circle, square, polygon) only enter a boolean through an extrusion node,
// so a multi-operand boolean over bare 2D children fails rather than
// producing a mixed-dimension solid.
func (c *Converter) buildSolid(node ast.Node, opts Options) (kernel.Solid, error) {
	switch n := node.(type) {
	case *ast.CubeNode:
		size := c.vectorOr(n.Size, [3]float64{1, 1, 1})
		return c.kern.Box(size[0], size[1], size[2], c.boolOr(n.Center, false))

	case *ast.SphereNode:
		var r, d *float64
		if n.Radius != nil {
			r = c.ext.Value(n.Radius)
		}
		if n.Diameter != nil {
			d = c.ext.Value(n.Diameter)
		}
		return c.kern.Sphere(sphereRadius(r, d, 1))

	case *ast.CylinderNode:
		h := c.scalarOr(n.Height, 1)
		r1, r2 := c.cylinderRadii(n)
		return c.kern.Cylinder(h, r1, r2, c.boolOr(n.Center, false))

	case *ast.UnionNode:
		return c.buildChildSolids(n.Children, opts, c.kern.Union)

	case *ast.IntersectionNode:
		return c.buildChildSolids(n.Children, opts, c.kern.Intersection)

	case *ast.DifferenceNode:
		if len(n.Children) == 0 {
			return nil, fmt.Errorf("difference requires at least one child")
		}
		base, err := c.buildSolid(n.Children[0], opts)
		if err != nil {
			return nil, err
		}
		rest := make([]kernel.Solid, 0, len(n.Children)-1)
		for _, child := range n.Children[1:] {
			s, err := c.buildSolid(child, opts)
			if err != nil {
				return nil, err
			}
			rest = append(rest, s)
		}
		return c.kern.Difference(base, rest...)

	case *ast.TranslateNode:
		s, err := c.buildChildSolids(n.Children, opts, c.kern.Union)
		if err != nil {
			return nil, err
		}
		v := c.vectorOr(n.Vector, [3]float64{})
		return c.kern.Translate(s, v[0], v[1], v[2]), nil

	case *ast.RotateNode:
		s, err := c.buildChildSolids(n.Children, opts, c.kern.Union)
		if err != nil {
			return nil, err
		}
		return c.rotateSolid(s, n), nil

	case *ast.ScaleNode:
		s, err := c.buildChildSolids(n.Children, opts, c.kern.Union)
		if err != nil {
			return nil, err
		}
		v := c.vectorOr(n.Vector, [3]float64{1, 1, 1})
		return c.kern.Scale(s, v[0], v[1], v[2]), nil

	case *ast.MirrorNode:
		s, err := c.buildChildSolids(n.Children, opts, c.kern.Union)
		if err != nil {
			return nil, err
		}
		v := c.vectorOr(n.Vector, [3]float64{1, 0, 0})
		return c.kern.Mirror(s, v[0], v[1], v[2])

	case *ast.LinearExtrudeNode:
		return c.extrudeSolid(n, opts)

	case *ast.RotateExtrudeNode:
		return c.revolveSolid(n, opts)

	case *ast.ModuleInstantiationNode:
		inst, err := c.instantiate(n)
		if err != nil {
			return nil, err
		}
		return c.buildChildSolids(inst.Body, opts, c.kern.Union)

	default:
		return nil, fmt.Errorf("Unsupported AST node type: %s", node.NodeType())
	}
}

// buildChildSolids builds each child as a solid and combines them with the
// given boolean operation.
func (c *Converter) buildChildSolids(
	children []ast.Node,
	opts Options,
	combine func(...kernel.Solid) (kernel.Solid, error),
) (kernel.Solid, error) {
	if len(children) == 0 {
		return nil, fmt.Errorf("boolean operand has no children")
	}
	solids := make([]kernel.Solid, 0, len(children))
	for _, child := range children {
		s, err := c.buildSolid(child, opts)
		if err != nil {
			return nil, err
		}
		solids = append(solids, s)
	}
	if len(solids) == 1 {
		return solids[0], nil
	}
	return combine(solids...)
}

// cylinderRadii resolves the r/r1/r2/d/d1/d2 parameter cluster.
func (c *Converter) cylinderRadii(n *ast.CylinderNode) (r1, r2 float64) {
	r1, r2 = 1, 1
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
	return r1, r2
}

// rotateSolid applies a rotate node to a kernel solid. Arbitrary-axis
// rotation is expressed by conjugation: align the axis with Z, rotate
// about Z, then rotate back.
func (c *Converter) rotateSolid(s kernel.Solid, n *ast.RotateNode) kernel.Solid {
	inner := n.Angle
	for {
		p, ok := inner.(*ast.ParenExpr)
		if !ok {
			break
		}
		inner = p.Inner
	}
	if _, ok := inner.(*ast.VectorExpr); ok {
		e := c.vectorOr(inner, [3]float64{})
		return c.kern.Rotate(s, e[0], e[1], e[2])
	}

	a := c.scalarOr(n.Angle, 0)
	if n.Axis == nil {
		return c.kern.Rotate(s, 0, 0, a)
	}

	axis := c.vectorOr(n.Axis, [3]float64{0, 0, 1})
	l := math.Sqrt(axis[0]*axis[0] + axis[1]*axis[1] + axis[2]*axis[2])
	if l == 0 {
		return c.kern.Rotate(s, 0, 0, a)
	}
	yaw := math.Atan2(axis[1], axis[0]) * 180 / math.Pi
	pitch := math.Acos(axis[2]/l) * 180 / math.Pi

	s = c.kern.Rotate(s, 0, 0, -yaw)
	s = c.kern.Rotate(s, 0, -pitch, 0)
	s = c.kern.Rotate(s, 0, 0, a)
	s = c.kern.Rotate(s, 0, pitch, 0)
	return c.kern.Rotate(s, 0, 0, yaw)
}
