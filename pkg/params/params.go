// Package params extracts typed parameter values from heterogeneous AST
// nodes. Parameter values arrive as raw parse-tree nodes, including partial
// and malformed (ERROR) nodes from an editor session mid-edit, so extraction
// is layered: structural extraction first, then documented fallbacks, and
// for ERROR nodes a clearly-labeled best-effort regex recovery from the raw
// source text. The fallback paths are logged so they never silently mask
// structural extraction bugs.
package params

import (
	"regexp"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/scadview/csg/pkg/ast"
	"github.com/scadview/csg/pkg/eval"
)

// Extractor extracts typed values from parameter nodes.
type Extractor struct {
	log zerolog.Logger
}

// New creates an Extractor that logs fallback-path use to the given logger.
func New(log zerolog.Logger) *Extractor {
	return &Extractor{log: log}
}

// numberPattern matches the first signed decimal number in raw source text.
var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// vectorPattern matches a literal [x, y, z] in raw source text.
var vectorPattern = regexp.MustCompile(
	`\[\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)\s*\]`)

// Value extracts a scalar numeric value from a node, or nil when the node
// cannot yield one.
func (x *Extractor) Value(node ast.Expr) *float64 {
	switch n := node.(type) {
	case *ast.NumberExpr:
		v := n.Value
		return &v

	case *ast.BoolExpr:
		// Booleans are numbers under OpenSCAD's convention.
		v := 0.0
		if n.Value {
			v = 1.0
		}
		return &v

	case *ast.VariableExpr:
		// No variable-scope resolution on the conversion path.
		x.log.Debug().Str("identifier", n.Name).
			Msg("unresolved identifier parameter, defaulting to 0")
		v := 0.0
		return &v

	case *ast.MemberExpr:
		x.log.Debug().Str("member", n.Member).
			Msg("unresolved member expression parameter, defaulting to 0")
		v := 0.0
		return &v

	case *ast.CallExpr:
		// Function evaluation is out of scope for geometry conversion.
		x.log.Debug().Str("function", n.Name).
			Msg("function call parameter, defaulting to 0")
		v := 0.0
		return &v

	case *ast.BinaryExpr, *ast.UnaryExpr, *ast.ParenExpr, *ast.SpecialVariableExpr:
		r := eval.Evaluate(n)
		if r.IsErr() {
			return nil
		}
		if v := r.Value(); v.IsNumber() {
			num := v.Num
			return &num
		}
		return nil

	case *ast.ErrorExpr:
		return x.recoverValue(n)

	case nil:
		return nil

	default:
		return nil
	}
}

// recoverValue is the best-effort recovery path for ERROR nodes: it scans
// the node's raw source text for the first numeric literal.
func (x *Extractor) recoverValue(n *ast.ErrorExpr) *float64 {
	src := n.Source()
	x.log.Warn().Str("source", src).
		Msg("attempting text-based numeric recovery from ERROR node")

	m := numberPattern.FindString(src)
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Vector extracts a 3-vector from a node. Extraction is three-tiered:
// structural element-list extraction, scalar broadcast to [v,v,v], and
// finally a regex match of a literal [x, y, z] in the raw source text.
func (x *Extractor) Vector(node ast.Expr) *[3]float64 {
	if node == nil {
		return nil
	}

	// Tier 1: structural. Unwrap parentheses around the element list.
	inner := node
	for {
		p, ok := inner.(*ast.ParenExpr)
		if !ok {
			break
		}
		inner = p.Inner
	}
	if vec, ok := inner.(*ast.VectorExpr); ok {
		var out [3]float64
		for i := 0; i < 3 && i < len(vec.Elements); i++ {
			v := x.Value(vec.Elements[i])
			if v == nil {
				return nil
			}
			out[i] = *v
		}
		return &out
	}

	// An ERROR node's raw text may hold a full vector literal. Try vector
	// recovery before the scalar tier, whose numeric recovery would
	// otherwise broadcast the first number it finds.
	if _, malformed := inner.(*ast.ErrorExpr); malformed {
		if v := x.recoverVector(node); v != nil {
			return v
		}
	}

	// Tier 2: scalar broadcast.
	if v := x.Value(inner); v != nil {
		x.log.Debug().Float64("scalar", *v).
			Msg("broadcasting scalar parameter to uniform vector")
		return &[3]float64{*v, *v, *v}
	}

	// Tier 3: text recovery.
	return x.recoverVector(node)
}

// recoverVector scans the node's raw source text for a literal [x, y, z].
func (x *Extractor) recoverVector(node ast.Expr) *[3]float64 {
	src := node.Source()
	x.log.Warn().Str("source", src).
		Msg("attempting text-based vector recovery")

	m := vectorPattern.FindStringSubmatch(src)
	if m == nil {
		return nil
	}
	var out [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return nil
		}
		out[i] = v
	}
	return &out
}

// Boolean extracts a boolean from a node. Explicit true/false literals map
// directly; numbers use nonzero-is-true; every other kind yields nil. There
// is no implicit truthiness for strings or other shapes.
func (x *Extractor) Boolean(node ast.Expr) *bool {
	switch n := node.(type) {
	case *ast.BoolExpr:
		v := n.Value
		return &v
	case *ast.NumberExpr:
		v := n.Value != 0
		return &v
	default:
		return nil
	}
}

// Parameters extracts a name-to-value map from a call-site argument list.
// Positional arguments are keyed by their zero-based position ("0", "1", ...).
// Arguments that cannot be folded are bound as undefined rather than dropped,
// so callers can distinguish "absent" from "present but unresolvable".
func (x *Extractor) Parameters(args []ast.Argument) map[string]eval.Value {
	out := make(map[string]eval.Value, len(args))
	pos := 0
	for _, arg := range args {
		key := arg.Name
		if key == "" {
			key = strconv.Itoa(pos)
			pos++
		}
		out[key] = x.argumentValue(arg.Value)
	}
	return out
}

// argumentValue folds one argument node to an eval.Value.
func (x *Extractor) argumentValue(node ast.Expr) eval.Value {
	if node == nil {
		return eval.Undefined
	}
	if b := x.Boolean(node); b != nil {
		if _, isBool := node.(*ast.BoolExpr); isBool {
			return eval.Boolean(*b)
		}
	}
	if vec, ok := node.(*ast.VectorExpr); ok && len(vec.Elements) > 0 {
		if v := x.Vector(vec); v != nil {
			return eval.VectorOf(v[0], v[1], v[2])
		}
		return eval.Undefined
	}
	if v := x.Value(node); v != nil {
		return eval.Number(*v)
	}
	return eval.Undefined
}
