// Package ast defines the OpenSCAD abstract syntax tree vocabulary consumed
// by the conversion core. The tree is produced by an external parser front
// end and is borrowed, never mutated, for the duration of one conversion.
//
// Node kinds are modeled as a tagged union: a Node interface with one
// concrete struct per kind, so a type switch over all variants is the
// dispatch mechanism and an explicit default arm is the unsupported-kind
// fallthrough.
package ast

// Position is a point in the source document.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

// Location is the source span covered by a node.
type Location struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Node is the common interface of all AST nodes.
type Node interface {
	// NodeType returns the parser's type discriminant, e.g. "cube".
	NodeType() string
	// Loc returns the source span of the node.
	Loc() Location
	// Source returns the raw source text covered by the node. It is the
	// basis for best-effort recovery from malformed parses.
	Source() string
}

// base carries the location and raw source text shared by every node.
type base struct {
	Location Location
	Src      string
}

func (b base) Loc() Location  { return b.Location }
func (b base) Source() string { return b.Src }

// SetSpan records the source span and raw text of a node. Parser front ends
// call this once while building the tree.
func (b *base) SetSpan(loc Location, src string) {
	b.Location = loc
	b.Src = src
}

// ---------------------------------------------------------------------------
// 3D primitives
// ---------------------------------------------------------------------------

// CubeNode is a cube(size, center) primitive.
type CubeNode struct {
	base
	Size   Expr // scalar or [w,h,d]
	Center Expr
}

func (*CubeNode) NodeType() string { return "cube" }

// SphereNode is a sphere(r|d, $fn) primitive.
type SphereNode struct {
	base
	Radius   Expr
	Diameter Expr
	Fn       Expr
}

func (*SphereNode) NodeType() string { return "sphere" }

// CylinderNode is a cylinder(h, r|r1/r2|d/d1/d2, center, $fn) primitive.
type CylinderNode struct {
	base
	Height Expr
	Radius Expr
	R1     Expr
	R2     Expr
	D      Expr
	D1     Expr
	D2     Expr
	Center Expr
	Fn     Expr
}

func (*CylinderNode) NodeType() string { return "cylinder" }

// TextNode is a text(text, size, font) primitive.
type TextNode struct {
	base
	Text string
	Size Expr
	Font string
}

func (*TextNode) NodeType() string { return "text" }

// ---------------------------------------------------------------------------
// 2D primitives
// ---------------------------------------------------------------------------

// CircleNode is a circle(r|d, $fn) 2D primitive.
type CircleNode struct {
	base
	Radius   Expr
	Diameter Expr
	Fn       Expr
}

func (*CircleNode) NodeType() string { return "circle" }

// SquareNode is a square(size, center) 2D primitive.
type SquareNode struct {
	base
	Size   Expr // scalar or [w,h]
	Center Expr
}

func (*SquareNode) NodeType() string { return "square" }

// PolygonNode is a polygon(points, paths) 2D primitive.
type PolygonNode struct {
	base
	Points Expr // [[x,y], ...]
	Paths  Expr // optional index paths; nil means the natural outline
}

func (*PolygonNode) NodeType() string { return "polygon" }

// ---------------------------------------------------------------------------
// Boolean operations
// ---------------------------------------------------------------------------

// UnionNode is a union() { ... } operation.
type UnionNode struct {
	base
	Children []Node
}

func (*UnionNode) NodeType() string { return "union" }

// DifferenceNode is a difference() { ... } operation. The first child is the
// base solid; the remaining children are subtracted from it.
type DifferenceNode struct {
	base
	Children []Node
}

func (*DifferenceNode) NodeType() string { return "difference" }

// IntersectionNode is an intersection() { ... } operation.
type IntersectionNode struct {
	base
	Children []Node
}

func (*IntersectionNode) NodeType() string { return "intersection" }

// ---------------------------------------------------------------------------
// Transforms
// ---------------------------------------------------------------------------

// TranslateNode is a translate(v) { ... } transform.
type TranslateNode struct {
	base
	Vector   Expr
	Children []Node
}

func (*TranslateNode) NodeType() string { return "translate" }

// RotateNode is a rotate(a|[x,y,z], v) transform. Angles are degrees.
type RotateNode struct {
	base
	Angle    Expr // scalar angle or [x,y,z] Euler angles
	Axis     Expr // optional axis for the scalar-angle form
	Children []Node
}

func (*RotateNode) NodeType() string { return "rotate" }

// ScaleNode is a scale(v) transform.
type ScaleNode struct {
	base
	Vector   Expr
	Children []Node
}

func (*ScaleNode) NodeType() string { return "scale" }

// MirrorNode is a mirror(v) transform; v is the normal of the mirror plane.
type MirrorNode struct {
	base
	Vector   Expr
	Children []Node
}

func (*MirrorNode) NodeType() string { return "mirror" }

// ---------------------------------------------------------------------------
// Extrusions
// ---------------------------------------------------------------------------

// LinearExtrudeNode sweeps a 2D child shape along the Z axis.
type LinearExtrudeNode struct {
	base
	Height   Expr
	Twist    Expr // degrees over the full height
	Scale    Expr // scalar or [x,y] scale at the top
	Slices   Expr
	Center   Expr
	Children []Node
}

func (*LinearExtrudeNode) NodeType() string { return "linear_extrude" }

// RotateExtrudeNode revolves a 2D child shape around the Z axis.
type RotateExtrudeNode struct {
	base
	Angle    Expr // degrees, default 360
	Fn       Expr
	Children []Node
}

func (*RotateExtrudeNode) NodeType() string { return "rotate_extrude" }

// ---------------------------------------------------------------------------
// Modules
// ---------------------------------------------------------------------------

// Parameter is a formal parameter of a module definition.
type Parameter struct {
	Name    string
	Default Expr // nil when the parameter has no default
}

// ModuleDefinitionNode is a module name(params) { body } declaration.
type ModuleDefinitionNode struct {
	base
	Name       string
	Parameters []Parameter
	Body       []Node
}

func (*ModuleDefinitionNode) NodeType() string { return "module_definition" }

// Argument is one call-site argument, positional or named.
type Argument struct {
	Name  string // empty for positional arguments
	Value Expr
}

// ModuleInstantiationNode is a call site name(args) { children }.
type ModuleInstantiationNode struct {
	base
	Name     string
	Args     []Argument
	Children []Node
}

func (*ModuleInstantiationNode) NodeType() string { return "module_instantiation" }

// ---------------------------------------------------------------------------
// Unknown
// ---------------------------------------------------------------------------

// UnknownNode stands in for any node kind the external grammar produces that
// this core does not recognize. Conversion of an UnknownNode always fails
// gracefully with the offending type name.
type UnknownNode struct {
	base
	TypeName string
}

func (n *UnknownNode) NodeType() string { return n.TypeName }

// NewUnknown builds an UnknownNode carrying the given parser type name.
func NewUnknown(typeName, src string) *UnknownNode {
	return &UnknownNode{base: base{Src: src}, TypeName: typeName}
}
