package convert

import (
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scadview/csg/pkg/ast"
	"github.com/scadview/csg/pkg/kernel/sdfx"
	"github.com/scadview/csg/pkg/mesh"
	"github.com/scadview/csg/pkg/registry"
)

// testMeshCells keeps marching cubes passes fast in tests.
const testMeshCells = 48

func newConverter() *Converter {
	return New(sdfx.New(), registry.New(), zerolog.Nop())
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.MeshCells = testMeshCells
	return opts
}

func mustConvert(t *testing.T, c *Converter, node ast.Node) *mesh.Mesh {
	t.Helper()
	r := c.Convert(node, 0, testOptions())
	require.True(t, r.IsOk(), "conversion failed: %v", r.Err())
	return r.Value()
}

func TestConvertCubeEndToEnd(t *testing.T) {
	c := newConverter()
	m := mustConvert(t, c, &ast.CubeNode{Size: ast.Vec3(10, 10, 10)})

	assert.Equal(t, "cube", m.Meta.NodeType)
	assert.Equal(t, "cube_0", m.Meta.NodeID)
	assert.Equal(t, 0, m.Meta.NodeIndex)
	assert.Equal(t, 8, m.VertexCount())
	assert.Equal(t, 12, m.TriangleCount())
	assert.Equal(t, 12, m.Meta.TriangleCount)
	assert.Greater(t, m.Meta.TriangleCount, 0)

	require.NoError(t, m.Dispose())
	assert.Error(t, m.Dispose())
}

func TestConvertCubeDefaultSize(t *testing.T) {
	c := newConverter()
	m := mustConvert(t, c, &ast.CubeNode{})

	min, max := m.BoundingBox()
	assert.Equal(t, [3]float64{0, 0, 0}, min)
	assert.Equal(t, [3]float64{1, 1, 1}, max)
}

func TestConvertCubeCentered(t *testing.T) {
	c := newConverter()
	m := mustConvert(t, c, &ast.CubeNode{
		Size:   ast.Vec3(4, 6, 8),
		Center: ast.Bool(true),
	})

	min, max := m.BoundingBox()
	assert.Equal(t, [3]float64{-2, -3, -4}, min)
	assert.Equal(t, [3]float64{2, 3, 4}, max)
}

func TestConvertCubeScalarSize(t *testing.T) {
	c := newConverter()
	m := mustConvert(t, c, &ast.CubeNode{Size: ast.Num(3)})

	_, max := m.BoundingBox()
	assert.Equal(t, [3]float64{3, 3, 3}, max)
}

func TestConvertCubeInvalidSize(t *testing.T) {
	c := newConverter()
	r := c.Convert(&ast.CubeNode{Size: ast.Vec3(-1, 1, 1)}, 0, testOptions())
	require.True(t, r.IsErr())
	assert.Contains(t, r.Err().Error(), "invalid size")
}

func TestConvertSphere(t *testing.T) {
	c := newConverter()
	m := mustConvert(t, c, &ast.SphereNode{
		Radius: ast.Num(5),
		Fn:     ast.Num(16),
	})

	assert.Equal(t, "sphere", m.Meta.NodeType)
	min, max := m.BoundingBox()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, -5, min[i], 1e-4)
		assert.InDelta(t, 5, max[i], 1e-4)
	}
}

func TestConvertSphereDiameterWins(t *testing.T) {
	c := newConverter()
	m := mustConvert(t, c, &ast.SphereNode{
		Radius:   ast.Num(5),
		Diameter: ast.Num(4),
	})

	_, max := m.BoundingBox()
	assert.InDelta(t, 2, max[0], 1e-4)
}

func TestConvertCylinderCone(t *testing.T) {
	c := newConverter()
	m := mustConvert(t, c, &ast.CylinderNode{
		Height: ast.Num(10),
		R1:     ast.Num(4),
		R2:     ast.Num(0),
		Fn:     ast.Num(16),
	})

	min, max := m.BoundingBox()
	assert.InDelta(t, 0, min[2], 1e-4)
	assert.InDelta(t, 10, max[2], 1e-4)
	assert.InDelta(t, 4, max[0], 1e-4)
}

func TestConvertText(t *testing.T) {
	c := newConverter()
	m := mustConvert(t, c, &ast.TextNode{Text: "ab", Size: ast.Num(10)})

	assert.Equal(t, "text", m.Meta.NodeType)
	assert.Greater(t, m.TriangleCount(), 0)
}

func TestConvertPolygon(t *testing.T) {
	c := newConverter()
	m := mustConvert(t, c, &ast.PolygonNode{
		Points: ast.Vector(
			ast.Vector(ast.Num(0), ast.Num(0)),
			ast.Vector(ast.Num(10), ast.Num(0)),
			ast.Vector(ast.Num(0), ast.Num(10)),
		),
	})

	assert.Equal(t, 3, m.VertexCount())
	assert.Equal(t, 1, m.TriangleCount())
}

func TestConvertPolygonBadPoints(t *testing.T) {
	c := newConverter()
	r := c.Convert(&ast.PolygonNode{Points: ast.Num(5)}, 0, testOptions())
	require.True(t, r.IsErr())
	assert.Contains(t, r.Err().Error(), "points")
}

func TestUnsupportedNodeType(t *testing.T) {
	c := newConverter()
	r := c.Convert(ast.NewUnknown("import", `import("x.stl");`), 0, testOptions())
	require.True(t, r.IsErr())
	assert.Equal(t, "Unsupported AST node type: import", r.Err().Error())
}

func TestMaterialEcho(t *testing.T) {
	c := newConverter()
	opts := testOptions()
	opts.Material = mesh.Material{
		Color:       "#ff0000",
		Opacity:     0.8,
		Wireframe:   true,
		Transparent: true,
	}

	r := c.Convert(&ast.CubeNode{Size: ast.Vec3(1, 1, 1)}, 3, opts)
	require.True(t, r.IsOk())
	m := r.Value()

	assert.Equal(t, "#ff0000", m.Meta.Material.Color)
	assert.Equal(t, 0.8, m.Meta.Material.Opacity)
	assert.True(t, m.Meta.Material.Wireframe)
	assert.True(t, m.Meta.Material.Transparent)
	assert.Equal(t, "cube_3", m.Meta.NodeID)
}

func TestTimeout(t *testing.T) {
	c := newConverter()
	opts := DefaultOptions()
	opts.Timeout = time.Nanosecond

	node := &ast.UnionNode{Children: []ast.Node{
		&ast.SphereNode{Radius: ast.Num(5)},
		&ast.SphereNode{Radius: ast.Num(5), Diameter: ast.Num(8)},
	}}
	r := c.Convert(node, 0, opts)
	require.True(t, r.IsErr())
	assert.Regexp(t, regexp.MustCompile(`(?i)timeout|failed`), r.Err().Error())
}

func TestComplexityLimit(t *testing.T) {
	c := newConverter()
	opts := testOptions()
	opts.MaxComplexity = 1

	r := c.Convert(&ast.SphereNode{Radius: ast.Num(5)}, 0, opts)
	require.True(t, r.IsErr())
	assert.Contains(t, r.Err().Error(), "complexity limit exceeded")
}

func TestTranslate(t *testing.T) {
	c := newConverter()
	m := mustConvert(t, c, &ast.TranslateNode{
		Vector: ast.Vec3(5, 0, 0),
		Children: []ast.Node{
			&ast.CubeNode{Size: ast.Vec3(2, 2, 2), Center: ast.Bool(true)},
		},
	})

	min, max := m.BoundingBox()
	assert.InDelta(t, 4, min[0], 1e-4)
	assert.InDelta(t, 6, max[0], 1e-4)
	assert.InDelta(t, -1, min[1], 1e-4)
}

func TestRotateScalarAboutZ(t *testing.T) {
	c := newConverter()
	m := mustConvert(t, c, &ast.RotateNode{
		Angle: ast.Num(90),
		Children: []ast.Node{
			&ast.CubeNode{Size: ast.Vec3(10, 1, 1)},
		},
	})

	min, max := m.BoundingBox()
	assert.InDelta(t, -1, min[0], 1e-4)
	assert.InDelta(t, 0, max[0], 1e-4)
	assert.InDelta(t, 10, max[1], 1e-4)
}

func TestRotateEuler(t *testing.T) {
	c := newConverter()
	m := mustConvert(t, c, &ast.RotateNode{
		Angle: ast.Vec3(90, 0, 0),
		Children: []ast.Node{
			&ast.CubeNode{Size: ast.Vec3(1, 10, 1)},
		},
	})

	_, max := m.BoundingBox()
	assert.InDelta(t, 10, max[2], 1e-4)
}

func TestScale(t *testing.T) {
	c := newConverter()
	m := mustConvert(t, c, &ast.ScaleNode{
		Vector: ast.Vec3(2, 1, 0.5),
		Children: []ast.Node{
			&ast.CubeNode{Size: ast.Vec3(10, 10, 10)},
		},
	})

	_, max := m.BoundingBox()
	assert.InDelta(t, 20, max[0], 1e-4)
	assert.InDelta(t, 5, max[2], 1e-4)
}

func TestMirror(t *testing.T) {
	c := newConverter()
	m := mustConvert(t, c, &ast.MirrorNode{
		Vector: ast.Vec3(1, 0, 0),
		Children: []ast.Node{
			&ast.CubeNode{Size: ast.Vec3(1, 1, 1)},
		},
	})

	min, max := m.BoundingBox()
	assert.InDelta(t, -1, min[0], 1e-4)
	assert.InDelta(t, 0, max[0], 1e-4)
}

func TestMirrorZeroNormal(t *testing.T) {
	c := newConverter()
	r := c.Convert(&ast.MirrorNode{
		Vector: ast.Vec3(0, 0, 0),
		Children: []ast.Node{
			&ast.CubeNode{},
		},
	}, 0, testOptions())
	require.True(t, r.IsErr())
	assert.Contains(t, r.Err().Error(), "mirror normal")
}

func TestUnionSingleChildSkipsKernel(t *testing.T) {
	c := newConverter()
	m := mustConvert(t, c, &ast.UnionNode{Children: []ast.Node{
		&ast.CubeNode{Size: ast.Vec3(1, 1, 1)},
	}})

	// One operand passes through the exact tessellation path.
	assert.Equal(t, 8, m.VertexCount())
	assert.Equal(t, "union", m.Meta.NodeType)
}

func TestEmptyUnion(t *testing.T) {
	c := newConverter()
	m := mustConvert(t, c, &ast.UnionNode{})
	assert.True(t, m.IsEmpty())
}

func TestDifference(t *testing.T) {
	c := newConverter()
	m := mustConvert(t, c, &ast.DifferenceNode{Children: []ast.Node{
		&ast.CubeNode{Size: ast.Vec3(20, 20, 20), Center: ast.Bool(true)},
		&ast.SphereNode{Radius: ast.Num(8)},
	}})

	assert.Greater(t, m.TriangleCount(), 0)
	// Optimization welds the marching cubes soup into indexed geometry.
	assert.Less(t, m.VertexCount(), m.TriangleCount()*3)
}

func TestDifferenceChildFailurePropagates(t *testing.T) {
	c := newConverter()
	r := c.Convert(&ast.DifferenceNode{Children: []ast.Node{
		&ast.CubeNode{Size: ast.Vec3(10, 10, 10)},
		ast.NewUnknown("surface", "surface(...)"),
	}}, 0, testOptions())
	require.True(t, r.IsErr())
	assert.Equal(t, "Unsupported AST node type: surface", r.Err().Error())
}

func TestIntersection(t *testing.T) {
	c := newConverter()
	m := mustConvert(t, c, &ast.IntersectionNode{Children: []ast.Node{
		&ast.CubeNode{Size: ast.Vec3(10, 10, 10), Center: ast.Bool(true)},
		&ast.SphereNode{Radius: ast.Num(6)},
	}})

	assert.Greater(t, m.TriangleCount(), 0)
	min, max := m.BoundingBox()
	assert.GreaterOrEqual(t, min[0], -5.5)
	assert.LessOrEqual(t, max[0], 5.5)
}

func TestLinearExtrude(t *testing.T) {
	c := newConverter()
	m := mustConvert(t, c, &ast.LinearExtrudeNode{
		Height: ast.Num(10),
		Children: []ast.Node{
			&ast.CircleNode{Radius: ast.Num(5)},
		},
	})

	min, max := m.BoundingBox()
	assert.InDelta(t, 0, min[2], 1.0)
	assert.InDelta(t, 10, max[2], 1.0)
	assert.InDelta(t, 5, max[0], 1.0)
}

func TestRotateExtrudeTorus(t *testing.T) {
	c := newConverter()
	m := mustConvert(t, c, &ast.RotateExtrudeNode{
		Children: []ast.Node{
			&ast.TranslateNode{
				Vector:   ast.Vec3(10, 0, 0),
				Children: []ast.Node{&ast.CircleNode{Radius: ast.Num(3)}},
			},
		},
	})

	_, max := m.BoundingBox()
	assert.InDelta(t, 13, max[0], 1.5)
	assert.InDelta(t, 3, max[2], 1.5)
}

func TestExtrudeWithoutChild(t *testing.T) {
	c := newConverter()
	r := c.Convert(&ast.LinearExtrudeNode{Height: ast.Num(5)}, 0, testOptions())
	require.True(t, r.IsErr())
	assert.Contains(t, r.Err().Error(), "2D child")
}

func TestModuleDefinitionAndInstantiation(t *testing.T) {
	reg := registry.New()
	c := New(sdfx.New(), reg, zerolog.Nop())

	def := &ast.ModuleDefinitionNode{
		Name:       "widget",
		Parameters: []ast.Parameter{{Name: "size"}},
		Body: []ast.Node{
			&ast.CubeNode{Size: ast.Vec3(2, 2, 2)},
		},
	}
	m := mustConvert(t, c, def)
	assert.True(t, m.IsEmpty())
	assert.Equal(t, 1, reg.Len())

	// A duplicate definition keeps the first registration.
	dup := &ast.ModuleDefinitionNode{Name: "widget"}
	mustConvert(t, c, dup)
	assert.Equal(t, 1, reg.Len())
	assert.Len(t, reg.Get("widget").Body, 1)

	call := &ast.ModuleInstantiationNode{
		Name: "widget",
		Args: []ast.Argument{{Value: ast.Num(5)}},
	}
	got := mustConvert(t, c, call)
	assert.Equal(t, 8, got.VertexCount())
	assert.Equal(t, "module_instantiation", got.Meta.NodeType)
}

func TestUndefinedModule(t *testing.T) {
	c := newConverter()
	r := c.Convert(&ast.ModuleInstantiationNode{Name: "ghost"}, 0, testOptions())
	require.True(t, r.IsErr())
	assert.Contains(t, r.Err().Error(), `module "ghost" is not defined`)
}

func TestNilNode(t *testing.T) {
	c := newConverter()
	r := c.Convert(nil, 0, testOptions())
	require.True(t, r.IsErr())
}
