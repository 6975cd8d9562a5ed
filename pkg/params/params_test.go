package params

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/scadview/csg/pkg/ast"
	"github.com/scadview/csg/pkg/eval"
)

func newTestExtractor() *Extractor {
	return New(zerolog.Nop())
}

func TestValueNumberLiteral(t *testing.T) {
	x := newTestExtractor()
	v := x.Value(ast.Num(12.5))
	if v == nil || *v != 12.5 {
		t.Fatalf("got %v, want 12.5", v)
	}
}

func TestValueIdentifierDefaultsToZero(t *testing.T) {
	x := newTestExtractor()
	v := x.Value(ast.Ident("width"))
	if v == nil || *v != 0 {
		t.Fatalf("got %v, want 0 for unresolved identifier", v)
	}
}

func TestValueFunctionCallDefaultsToZero(t *testing.T) {
	x := newTestExtractor()
	v := x.Value(&ast.CallExpr{Name: "sin"})
	if v == nil || *v != 0 {
		t.Fatalf("got %v, want 0 for function call", v)
	}
}

func TestValueBinaryExpression(t *testing.T) {
	x := newTestExtractor()
	v := x.Value(ast.Binary("+", ast.Num(4), ast.Num(6)))
	if v == nil || *v != 10 {
		t.Fatalf("got %v, want 10", v)
	}
}

func TestValueUnaryExpression(t *testing.T) {
	x := newTestExtractor()
	v := x.Value(ast.Unary("-", ast.Num(8)))
	if v == nil || *v != -8 {
		t.Fatalf("got %v, want -8", v)
	}
}

func TestValueErrorNodeRegexRecovery(t *testing.T) {
	x := newTestExtractor()

	v := x.Value(ast.ErrorNode("cube(15.5"))
	if v == nil || *v != 15.5 {
		t.Fatalf("got %v, want 15.5 recovered from text", v)
	}

	// Recovery fails only when there is no number at all.
	if v := x.Value(ast.ErrorNode("cube(")); v != nil {
		t.Fatalf("expected nil for unrecoverable ERROR node, got %v", *v)
	}
}

func TestValueNilNode(t *testing.T) {
	x := newTestExtractor()
	if v := x.Value(nil); v != nil {
		t.Fatalf("expected nil for nil node, got %v", *v)
	}
}

func TestVectorStructural(t *testing.T) {
	x := newTestExtractor()
	v := x.Vector(ast.Vec3(10, 20, 30))
	if v == nil {
		t.Fatal("expected vector")
	}
	if *v != [3]float64{10, 20, 30} {
		t.Errorf("got %v, want [10 20 30]", *v)
	}
}

func TestVectorParenthesized(t *testing.T) {
	x := newTestExtractor()
	v := x.Vector(ast.Paren(ast.Vec3(1, 2, 3)))
	if v == nil || *v != [3]float64{1, 2, 3} {
		t.Fatalf("got %v, want [1 2 3]", v)
	}
}

func TestVectorShortListPadsWithZero(t *testing.T) {
	x := newTestExtractor()
	v := x.Vector(ast.Vector(ast.Num(4), ast.Num(5)))
	if v == nil || *v != [3]float64{4, 5, 0} {
		t.Fatalf("got %v, want [4 5 0]", v)
	}
}

func TestVectorScalarBroadcast(t *testing.T) {
	x := newTestExtractor()
	v := x.Vector(ast.Num(7))
	if v == nil || *v != [3]float64{7, 7, 7} {
		t.Fatalf("got %v, want [7 7 7]", v)
	}
}

func TestVectorTextRecovery(t *testing.T) {
	x := newTestExtractor()
	v := x.Vector(ast.ErrorNode("cube([10, 20, 30]"))
	if v == nil || *v != [3]float64{10, 20, 30} {
		t.Fatalf("got %v, want [10 20 30] recovered from text", v)
	}
}

func TestVectorNegativeComponentsViaRecovery(t *testing.T) {
	x := newTestExtractor()
	v := x.Vector(ast.ErrorNode("translate([-5, 2.5, -1]"))
	if v == nil || *v != [3]float64{-5, 2.5, -1} {
		t.Fatalf("got %v, want [-5 2.5 -1]", v)
	}
}

func TestVectorErrorNodePrefersVectorOverScalarRecovery(t *testing.T) {
	x := newTestExtractor()

	// A malformed vector recovers all three components; broadcasting the
	// first recovered number would silently lose the other two.
	v := x.Vector(ast.ErrorNode("resize([8, 16, 24]"))
	if v == nil || *v != [3]float64{8, 16, 24} {
		t.Fatalf("got %v, want [8 16 24]", v)
	}

	// With no vector literal in the text, scalar broadcast still applies.
	v = x.Vector(ast.ErrorNode("sphere(7"))
	if v == nil || *v != [3]float64{7, 7, 7} {
		t.Fatalf("got %v, want [7 7 7]", v)
	}
}

func TestBooleanLiterals(t *testing.T) {
	x := newTestExtractor()

	v := x.Boolean(ast.Bool(true))
	if v == nil || !*v {
		t.Fatalf("got %v, want true", v)
	}
	v = x.Boolean(ast.Bool(false))
	if v == nil || *v {
		t.Fatalf("got %v, want false", v)
	}
}

func TestBooleanFromNumbers(t *testing.T) {
	x := newTestExtractor()

	v := x.Boolean(ast.Num(1))
	if v == nil || !*v {
		t.Fatalf("got %v, want true for nonzero", v)
	}
	v = x.Boolean(ast.Num(0))
	if v == nil || *v {
		t.Fatalf("got %v, want false for zero", v)
	}
}

func TestBooleanNoImplicitTruthiness(t *testing.T) {
	x := newTestExtractor()

	if v := x.Boolean(ast.Str("true")); v != nil {
		t.Errorf("strings must not coerce to booleans, got %v", *v)
	}
	if v := x.Boolean(ast.Ident("flag")); v != nil {
		t.Errorf("identifiers must not coerce to booleans, got %v", *v)
	}
}

func TestParametersMixedArguments(t *testing.T) {
	x := newTestExtractor()
	args := []ast.Argument{
		{Value: ast.Num(40)},
		{Name: "center", Value: ast.Bool(true)},
		{Name: "size", Value: ast.Vec3(1, 2, 3)},
	}

	m := x.Parameters(args)
	if len(m) != 3 {
		t.Fatalf("got %d parameters, want 3", len(m))
	}
	if v := m["0"]; !v.IsNumber() || v.Num != 40 {
		t.Errorf("positional 0 = %v, want 40", v)
	}
	if v := m["center"]; v.Kind != eval.KindBool || !v.Bool {
		t.Errorf("center = %v, want true", v)
	}
	if v := m["size"]; v.Kind != eval.KindVector || v.Vec != [3]float64{1, 2, 3} {
		t.Errorf("size = %v, want [1 2 3]", v)
	}
}

func TestParametersUnresolvableIsUndefined(t *testing.T) {
	x := newTestExtractor()
	m := x.Parameters([]ast.Argument{{Name: "points", Value: &ast.ListComprehensionExpr{}}})
	if v := m["points"]; !v.IsUndefined() {
		t.Errorf("got %v, want undefined for unresolvable argument", v)
	}
}
