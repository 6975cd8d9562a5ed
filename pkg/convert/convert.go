// Package convert is the AST-to-CSG orchestrator. It dispatches AST nodes
// to the matching converter, applies conversion options, and returns the
// produced mesh with its metadata. Primitives are tessellated exactly;
// boolean operations and extrusions go through the geometry kernel and are
// tessellated with marching cubes.
package convert

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/scadview/csg/pkg/ast"
	"github.com/scadview/csg/pkg/geom"
	"github.com/scadview/csg/pkg/kernel"
	"github.com/scadview/csg/pkg/mesh"
	"github.com/scadview/csg/pkg/params"
	"github.com/scadview/csg/pkg/registry"
	"github.com/scadview/csg/pkg/result"
)

// Converter converts AST nodes to meshes. Each call to Convert runs in its
// own goroutine under a wall-clock budget; a conversion that outlives a
// newer request is discarded via a generation counter, so a Converter can
// back an editor session that re-renders on every keystroke.
type Converter struct {
	kern kernel.Kernel
	reg  *registry.Registry
	ext  *params.Extractor
	log  zerolog.Logger

	mu         sync.Mutex
	generation uint64
}

// New creates a Converter over the given kernel and module registry.
func New(kern kernel.Kernel, reg *registry.Registry, log zerolog.Logger) *Converter {
	return &Converter{
		kern: kern,
		reg:  reg,
		ext:  params.New(log),
		log:  log,
	}
}

// Convert converts one AST node to a mesh. index is the node's zero-based
// position in the document and is recorded in the mesh metadata. The
// returned mesh is owned by the caller, who must dispose it exactly once.
func (c *Converter) Convert(node ast.Node, index int, opts Options) result.Result[*mesh.Mesh] {
	opts = opts.withDefaults()

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	ch := make(chan convResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- convResult{err: fmt.Errorf("panic during conversion: %v", r)}
			}
		}()

		m, err := c.convertNode(node, opts)
		ch <- convResult{mesh: m, err: err}
	}()

	m, err := waitWithTimeout(ch, opts.Timeout, gen, &c.mu, &c.generation)
	if err != nil {
		c.log.Error().Err(err).Int("index", index).Msg("conversion failed")
		return result.Err[*mesh.Mesh](err)
	}

	m.Meta.NodeType = node.NodeType()
	m.Meta.NodeIndex = index
	m.Meta.NodeID = fmt.Sprintf("%s_%d", node.NodeType(), index)
	m.Meta.Material = opts.Material

	c.log.Debug().
		Str("node", m.Meta.NodeID).
		Int("triangles", m.TriangleCount()).
		Int("vertices", m.VertexCount()).
		Msg("converted node")

	return result.Ok(m)
}

// convertNode dispatches a node to its converter and enforces the
// complexity cap on the produced mesh.
func (c *Converter) convertNode(node ast.Node, opts Options) (*mesh.Mesh, error) {
	if node == nil {
		return nil, fmt.Errorf("cannot convert nil node")
	}

	var m *mesh.Mesh
	var err error

	switch n := node.(type) {
	case *ast.CubeNode:
		m, err = c.convertCube(n)
	case *ast.SphereNode:
		m, err = c.convertSphere(n, opts)
	case *ast.CylinderNode:
		m, err = c.convertCylinder(n, opts)
	case *ast.TextNode:
		m, err = c.convertText(n)
	case *ast.CircleNode:
		m, err = c.convertCircle(n)
	case *ast.SquareNode:
		m, err = c.convertSquare(n)
	case *ast.PolygonNode:
		m, err = c.convertPolygon(n)

	case *ast.UnionNode:
		m, err = c.convertBoolean(node, n.Children, opts)
	case *ast.DifferenceNode:
		m, err = c.convertBoolean(node, n.Children, opts)
	case *ast.IntersectionNode:
		m, err = c.convertBoolean(node, n.Children, opts)

	case *ast.TranslateNode:
		m, err = c.convertTranslate(n, opts)
	case *ast.RotateNode:
		m, err = c.convertRotate(n, opts)
	case *ast.ScaleNode:
		m, err = c.convertScale(n, opts)
	case *ast.MirrorNode:
		m, err = c.convertMirror(n, opts)

	case *ast.LinearExtrudeNode:
		m, err = c.convertLinearExtrude(n, opts)
	case *ast.RotateExtrudeNode:
		m, err = c.convertRotateExtrude(n, opts)

	case *ast.ModuleDefinitionNode:
		m, err = c.convertDefinition(n)
	case *ast.ModuleInstantiationNode:
		m, err = c.convertInstantiation(n, opts)

	default:
		return nil, fmt.Errorf("Unsupported AST node type: %s", node.NodeType())
	}

	if err != nil {
		return nil, err
	}
	if m.TriangleCount() > opts.MaxComplexity {
		return nil, fmt.Errorf("complexity limit exceeded: %d triangles (max %d)",
			m.TriangleCount(), opts.MaxComplexity)
	}
	return m, nil
}

// convertChildren converts each child and merges the results into one mesh.
// An empty child list yields an empty mesh.
func (c *Converter) convertChildren(children []ast.Node, opts Options) (*mesh.Mesh, error) {
	merged := mesh.New(nil, nil, nil)
	for _, child := range children {
		m, err := c.convertNode(child, opts)
		if err != nil {
			return nil, err
		}
		merged = geom.Merge(merged, m)
	}
	return merged, nil
}
