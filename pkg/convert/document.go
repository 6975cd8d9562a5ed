package convert

import (
	"fmt"

	"github.com/scadview/csg/pkg/ast"
	"github.com/scadview/csg/pkg/mesh"
	"github.com/scadview/csg/pkg/result"
)

// ConvertDocument converts an ordered document of top-level nodes, returning
// one result per node, index-aligned with the input.
//
// Module definitions are registered in a pre-pass over the whole document,
// so a call site may appear before its definition, matching how a parser
// front end hoists declarations. During the main pass a definition node
// yields an empty mesh.
func (c *Converter) ConvertDocument(nodes []ast.Node, opts Options) []result.Result[*mesh.Mesh] {
	opts = opts.withDefaults()

	for _, node := range nodes {
		def, ok := node.(*ast.ModuleDefinitionNode)
		if !ok {
			continue
		}
		if err := c.reg.RegisterNode(def); err != nil {
			c.log.Warn().Str("module", def.Name).Err(err).
				Msg("keeping first definition of module")
		}
	}

	results := make([]result.Result[*mesh.Mesh], len(nodes))
	for i, node := range nodes {
		if def, ok := node.(*ast.ModuleDefinitionNode); ok {
			m := mesh.New(nil, nil, nil)
			m.Meta.NodeType = def.NodeType()
			m.Meta.NodeIndex = i
			m.Meta.NodeID = fmt.Sprintf("%s_%d", def.NodeType(), i)
			m.Meta.Material = opts.Material
			results[i] = result.Ok(m)
			continue
		}
		results[i] = c.Convert(node, i, opts)
	}
	return results
}
