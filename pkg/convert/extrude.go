package convert

import (
	"fmt"

	"github.com/scadview/csg/pkg/ast"
	"github.com/scadview/csg/pkg/kernel"
	"github.com/scadview/csg/pkg/mesh"
)

func (c *Converter) convertLinearExtrude(n *ast.LinearExtrudeNode, opts Options) (*mesh.Mesh, error) {
	solid, err := c.extrudeSolid(n, opts)
	if err != nil {
		return nil, err
	}
	return c.tessellate(solid, opts)
}

func (c *Converter) convertRotateExtrude(n *ast.RotateExtrudeNode, opts Options) (*mesh.Mesh, error) {
	solid, err := c.revolveSolid(n, opts)
	if err != nil {
		return nil, err
	}
	return c.tessellate(solid, opts)
}

// extrudeSolid builds a linear_extrude subtree as a kernel solid. Extrusion
// distributes over union, so each 2D child is extruded separately and the
// results are unioned.
func (c *Converter) extrudeSolid(n *ast.LinearExtrudeNode, opts Options) (kernel.Solid, error) {
	if len(n.Children) == 0 {
		return nil, fmt.Errorf("linear_extrude requires a 2D child shape")
	}

	height := c.scalarOr(n.Height, 100)
	twist := c.scalarOr(n.Twist, 0)
	center := c.boolOr(n.Center, false)

	scale := [2]float64{1, 1}
	if n.Scale != nil {
		if v := c.ext.Vector(n.Scale); v != nil {
			scale = [2]float64{v[0], v[1]}
		}
	}

	solids := make([]kernel.Solid, 0, len(n.Children))
	for _, child := range n.Children {
		shape, err := c.buildShape(child)
		if err != nil {
			return nil, err
		}
		s, err := c.kern.LinearExtrude(shape, height, twist, scale, center)
		if err != nil {
			return nil, err
		}
		solids = append(solids, s)
	}
	if len(solids) == 1 {
		return solids[0], nil
	}
	return c.kern.Union(solids...)
}

// revolveSolid builds a rotate_extrude subtree as a kernel solid.
func (c *Converter) revolveSolid(n *ast.RotateExtrudeNode, opts Options) (kernel.Solid, error) {
	if len(n.Children) == 0 {
		return nil, fmt.Errorf("rotate_extrude requires a 2D child shape")
	}

	angle := c.scalarOr(n.Angle, 360)

	solids := make([]kernel.Solid, 0, len(n.Children))
	for _, child := range n.Children {
		shape, err := c.buildShape(child)
		if err != nil {
			return nil, err
		}
		s, err := c.kern.RotateExtrude(shape, angle)
		if err != nil {
			return nil, err
		}
		solids = append(solids, s)
	}
	if len(solids) == 1 {
		return solids[0], nil
	}
	return c.kern.Union(solids...)
}

// buildShape maps a 2D AST node to a kernel shape. translate is honored in
// the XY plane so offset profiles (e.g. a torus cross-section) work.
func (c *Converter) buildShape(node ast.Node) (kernel.Shape2D, error) {
	switch n := node.(type) {
	case *ast.CircleNode:
		var r, d *float64
		if n.Radius != nil {
			r = c.ext.Value(n.Radius)
		}
		if n.Diameter != nil {
			d = c.ext.Value(n.Diameter)
		}
		return c.kern.Circle(sphereRadius(r, d, 1))

	case *ast.SquareNode:
		size := c.vectorOr(n.Size, [3]float64{1, 1, 0})
		return c.kern.Square(size[0], size[1], c.boolOr(n.Center, false))

	case *ast.PolygonNode:
		points, err := c.extractPoints(n.Points)
		if err != nil {
			return nil, err
		}
		return c.kern.Polygon(points)

	case *ast.TranslateNode:
		if len(n.Children) != 1 {
			return nil, fmt.Errorf("translate inside an extrusion requires exactly one 2D child")
		}
		shape, err := c.buildShape(n.Children[0])
		if err != nil {
			return nil, err
		}
		v := c.vectorOr(n.Vector, [3]float64{})
		return c.kern.Translate2D(shape, v[0], v[1]), nil

	default:
		return nil, fmt.Errorf("Unsupported AST node type: %s", node.NodeType())
	}
}
