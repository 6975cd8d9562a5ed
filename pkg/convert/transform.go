package convert

import (
	"github.com/scadview/csg/pkg/ast"
	"github.com/scadview/csg/pkg/geom"
	"github.com/scadview/csg/pkg/mesh"
)

func (c *Converter) convertTranslate(n *ast.TranslateNode, opts Options) (*mesh.Mesh, error) {
	v := c.vectorOr(n.Vector, [3]float64{})
	m, err := c.convertChildren(n.Children, opts)
	if err != nil {
		return nil, err
	}
	geom.Transform(m, geom.Translation(v[0], v[1], v[2]))
	return m, nil
}

// rotationMatrix resolves the rotate(a|[x,y,z], v) parameter forms: a
// vector angle is Euler X-then-Y-then-Z, a scalar with an axis rotates
// about that axis, and a bare scalar rotates about Z.
func (c *Converter) rotationMatrix(n *ast.RotateNode) geom.Mat4 {
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
		return geom.RotationEuler(e[0], e[1], e[2])
	}

	a := c.scalarOr(n.Angle, 0)
	if n.Axis != nil {
		axis := c.vectorOr(n.Axis, [3]float64{0, 0, 1})
		return geom.RotationAxis(axis[0], axis[1], axis[2], a)
	}
	return geom.RotationEuler(0, 0, a)
}

func (c *Converter) convertRotate(n *ast.RotateNode, opts Options) (*mesh.Mesh, error) {
	m, err := c.convertChildren(n.Children, opts)
	if err != nil {
		return nil, err
	}
	geom.Transform(m, c.rotationMatrix(n))
	return m, nil
}

func (c *Converter) convertScale(n *ast.ScaleNode, opts Options) (*mesh.Mesh, error) {
	v := c.vectorOr(n.Vector, [3]float64{1, 1, 1})
	m, err := c.convertChildren(n.Children, opts)
	if err != nil {
		return nil, err
	}
	geom.Transform(m, geom.Scaling(v[0], v[1], v[2]))
	return m, nil
}

func (c *Converter) convertMirror(n *ast.MirrorNode, opts Options) (*mesh.Mesh, error) {
	v := c.vectorOr(n.Vector, [3]float64{1, 0, 0})
	t, err := geom.Mirror(v[0], v[1], v[2])
	if err != nil {
		return nil, err
	}
	m, err := c.convertChildren(n.Children, opts)
	if err != nil {
		return nil, err
	}
	geom.Transform(m, t)
	return m, nil
}
