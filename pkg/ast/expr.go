package ast

// Expr is the interface of expression-shaped nodes. Parameter values arrive
// as raw parse-tree nodes, so the expression vocabulary is wider than what
// the constant-folding evaluator supports.
type Expr interface {
	Node
	exprNode()
}

// NumberExpr is a numeric literal (the parser's number/integer/float kinds).
type NumberExpr struct {
	base
	Value float64
}

func (*NumberExpr) NodeType() string { return "number" }
func (*NumberExpr) exprNode()        {}

// BoolExpr is a true/false literal.
type BoolExpr struct {
	base
	Value bool
}

func (*BoolExpr) NodeType() string { return "boolean" }
func (*BoolExpr) exprNode()        {}

// StringExpr is a string literal.
type StringExpr struct {
	base
	Value string
}

func (*StringExpr) NodeType() string { return "string" }
func (*StringExpr) exprNode()        {}

// VariableExpr is an identifier reference. The conversion path performs no
// variable-scope resolution; extraction treats identifiers as unresolved.
type VariableExpr struct {
	base
	Name string
}

func (*VariableExpr) NodeType() string { return "identifier" }
func (*VariableExpr) exprNode()        {}

// SpecialVariableExpr is a $-prefixed variable such as $fn or $t.
type SpecialVariableExpr struct {
	base
	Name string // includes the leading $
}

func (*SpecialVariableExpr) NodeType() string { return "special_variable" }
func (*SpecialVariableExpr) exprNode()        {}

// BinaryExpr applies an infix operator to two operand subtrees.
type BinaryExpr struct {
	base
	Operator string
	Left     Expr
	Right    Expr
}

func (*BinaryExpr) NodeType() string { return "binary_expression" }
func (*BinaryExpr) exprNode()        {}

// UnaryExpr applies a prefix operator to one operand.
type UnaryExpr struct {
	base
	Operator string
	Operand  Expr
}

func (*UnaryExpr) NodeType() string { return "unary_expression" }
func (*UnaryExpr) exprNode()        {}

// ParenExpr is a parenthesized subexpression.
type ParenExpr struct {
	base
	Inner Expr
}

func (*ParenExpr) NodeType() string { return "parenthesized_expression" }
func (*ParenExpr) exprNode()        {}

// VectorExpr is a bracketed element list, e.g. [10, 20, 30].
type VectorExpr struct {
	base
	Elements []Expr
}

func (*VectorExpr) NodeType() string { return "vector_expression" }
func (*VectorExpr) exprNode()        {}

// RangeExpr is a [start : step : end] range.
type RangeExpr struct {
	base
	Start Expr
	Step  Expr
	End   Expr
}

func (*RangeExpr) NodeType() string { return "range_expression" }
func (*RangeExpr) exprNode()        {}

// ConditionalExpr is a cond ? then : else expression.
type ConditionalExpr struct {
	base
	Cond Expr
	Then Expr
	Else Expr
}

func (*ConditionalExpr) NodeType() string { return "conditional_expression" }
func (*ConditionalExpr) exprNode()        {}

// CallExpr is a function call expression.
type CallExpr struct {
	base
	Name string
	Args []Argument
}

func (*CallExpr) NodeType() string { return "function_call" }
func (*CallExpr) exprNode()        {}

// MemberExpr is a dotted member access such as pos.x.
type MemberExpr struct {
	base
	Object Expr
	Member string
}

func (*MemberExpr) NodeType() string { return "member_expression" }
func (*MemberExpr) exprNode()        {}

// ListComprehensionExpr is a [for (...) ...] comprehension. The geometry
// conversion path never evaluates these.
type ListComprehensionExpr struct {
	base
}

func (*ListComprehensionExpr) NodeType() string { return "list_comprehension_expression" }
func (*ListComprehensionExpr) exprNode()        {}

// ErrorExpr is an ERROR node from a partial or malformed parse. Its raw
// source text is kept so extraction can attempt text-based recovery.
type ErrorExpr struct {
	base
}

func (*ErrorExpr) NodeType() string { return "ERROR" }
func (*ErrorExpr) exprNode()        {}

// ---------------------------------------------------------------------------
// Construction helpers
// ---------------------------------------------------------------------------

// Num builds a numeric literal.
func Num(v float64) *NumberExpr { return &NumberExpr{Value: v} }

// Bool builds a boolean literal.
func Bool(v bool) *BoolExpr { return &BoolExpr{Value: v} }

// Str builds a string literal.
func Str(v string) *StringExpr { return &StringExpr{Value: v} }

// Ident builds an identifier reference.
func Ident(name string) *VariableExpr { return &VariableExpr{Name: name} }

// Special builds a special-variable reference; name includes the leading $.
func Special(name string) *SpecialVariableExpr { return &SpecialVariableExpr{Name: name} }

// Binary builds a binary expression.
func Binary(op string, left, right Expr) *BinaryExpr {
	return &BinaryExpr{Operator: op, Left: left, Right: right}
}

// Unary builds a unary expression.
func Unary(op string, operand Expr) *UnaryExpr {
	return &UnaryExpr{Operator: op, Operand: operand}
}

// Paren wraps an expression in parentheses.
func Paren(inner Expr) *ParenExpr { return &ParenExpr{Inner: inner} }

// Vector builds a bracketed element list.
func Vector(elements ...Expr) *VectorExpr { return &VectorExpr{Elements: elements} }

// Vec3 builds a three-element numeric vector literal.
func Vec3(x, y, z float64) *VectorExpr {
	return Vector(Num(x), Num(y), Num(z))
}

// ErrorNode builds an ERROR node carrying raw source text.
func ErrorNode(src string) *ErrorExpr {
	return &ErrorExpr{base: base{Src: src}}
}
