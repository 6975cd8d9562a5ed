// Package eval constant-folds OpenSCAD expression trees for the geometry
// conversion path. It handles literals, arithmetic and comparison operators,
// unary operators, and special variables. Anything requiring scope or
// function evaluation (identifiers, calls, comprehensions) is out of scope
// for this evaluator and either yields null or fails, never a guess.
package eval

import (
	"math"

	"github.com/scadview/csg/pkg/ast"
	"github.com/scadview/csg/pkg/result"
)

// Evaluate folds an expression tree to a Value. Evaluation terminates
// because the tree is finite and acyclic by construction of the parser.
func Evaluate(expr ast.Expr) result.Result[Value] {
	switch e := expr.(type) {
	case *ast.NumberExpr:
		return result.Ok(Number(e.Value))

	case *ast.BoolExpr:
		return result.Ok(Boolean(e.Value))

	case *ast.StringExpr:
		return result.Errf[Value]("cannot coerce string literal %q to a numeric value", e.Value)

	case *ast.BinaryExpr:
		return evaluateBinary(e)

	case *ast.UnaryExpr:
		return evaluateUnary(e)

	case *ast.SpecialVariableExpr:
		return evaluateSpecial(e)

	case *ast.ParenExpr:
		return Evaluate(e.Inner)

	case *ast.ListComprehensionExpr:
		// Comprehensions belong to the rendering-value pipeline, not
		// geometry conversion. Ignored, not an error.
		return result.Ok(Null)

	case *ast.VariableExpr:
		return result.Errf[Value]("cannot evaluate variable %q: scope resolution is not performed", e.Name)

	case nil:
		return result.Errf[Value]("cannot evaluate nil expression")

	default:
		return result.Errf[Value]("unhandled expression type: %s", expr.NodeType())
	}
}

// vectorSpecials are the special variables whose scene-level value is
// vector-shaped. They evaluate to null on the geometry path.
var vectorSpecials = map[string]bool{
	"$vpt": true,
	"$vpr": true,
}

// evaluateSpecial resolves a special variable. The geometry path does not
// interpret the scene-level special-variable context, so scalar specials
// ($fn, $fa, $fs, $t, $children, $vpd) are always 0 and vector-shaped ones
// ($vpt, $vpr) are null.
func evaluateSpecial(e *ast.SpecialVariableExpr) result.Result[Value] {
	if vectorSpecials[e.Name] {
		return result.Ok(Null)
	}
	return result.Ok(Number(0))
}

// evaluateBinary folds a binary expression. Both operands must fold to
// numbers; anything else is a non-literal operand failure.
func evaluateBinary(e *ast.BinaryExpr) result.Result[Value] {
	left := Evaluate(e.Left)
	if left.IsErr() {
		return result.Errf[Value]("non-literal operand on left of %q: %v", e.Operator, left.Err())
	}
	right := Evaluate(e.Right)
	if right.IsErr() {
		return result.Errf[Value]("non-literal operand on right of %q: %v", e.Operator, right.Err())
	}

	lv, rv := left.Value(), right.Value()
	if !lv.IsNumber() || !rv.IsNumber() {
		return result.Errf[Value]("non-literal operand for %q: got %s and %s",
			e.Operator, lv.Kind, rv.Kind)
	}

	l, r := lv.Num, rv.Num
	switch e.Operator {
	case "+":
		return result.Ok(Number(l + r))
	case "-":
		return result.Ok(Number(l - r))
	case "*":
		return result.Ok(Number(l * r))
	case "/":
		if r == 0 {
			return result.Errf[Value]("division by zero")
		}
		return result.Ok(Number(l / r))
	case "%":
		if r == 0 {
			return result.Errf[Value]("modulo by zero")
		}
		return result.Ok(Number(math.Mod(l, r)))
	case "^", "**":
		// Single power application; exponent chains are not re-associated.
		return result.Ok(Number(math.Pow(l, r)))
	case "<":
		return result.Ok(Boolean(l < r))
	case "<=":
		return result.Ok(Boolean(l <= r))
	case ">":
		return result.Ok(Boolean(l > r))
	case ">=":
		return result.Ok(Boolean(l >= r))
	case "==":
		return result.Ok(Boolean(l == r))
	case "!=":
		return result.Ok(Boolean(l != r))
	default:
		return result.Errf[Value]("unsupported binary operator %q", e.Operator)
	}
}

// evaluateUnary folds a unary expression. The ! operator follows OpenSCAD's
// boolean-as-number convention: zero maps to 1 and nonzero maps to 0.
func evaluateUnary(e *ast.UnaryExpr) result.Result[Value] {
	operand := Evaluate(e.Operand)
	if operand.IsErr() {
		return result.Errf[Value]("non-literal operand for unary %q: %v", e.Operator, operand.Err())
	}

	v := operand.Value()
	if !v.IsNumber() {
		return result.Errf[Value]("non-literal operand for unary %q: got %s", e.Operator, v.Kind)
	}

	switch e.Operator {
	case "-":
		return result.Ok(Number(-v.Num))
	case "+":
		return result.Ok(Number(v.Num))
	case "!":
		if v.Num == 0 {
			return result.Ok(Number(1))
		}
		return result.Ok(Number(0))
	default:
		return result.Errf[Value]("unsupported unary operator %q", e.Operator)
	}
}
