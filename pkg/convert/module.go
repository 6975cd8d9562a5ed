package convert

import (
	"fmt"
	"strconv"

	"github.com/scadview/csg/pkg/ast"
	"github.com/scadview/csg/pkg/eval"
	"github.com/scadview/csg/pkg/mesh"
	"github.com/scadview/csg/pkg/registry"
)

// convertDefinition registers a module definition. Definitions produce no
// geometry, so the result is an empty mesh. A duplicate name keeps the
// first definition and logs the conflict.
func (c *Converter) convertDefinition(n *ast.ModuleDefinitionNode) (*mesh.Mesh, error) {
	if err := c.reg.RegisterNode(n); err != nil {
		c.log.Warn().Str("module", n.Name).Err(err).
			Msg("keeping first definition of module")
	}
	return mesh.New(nil, nil, nil), nil
}

// instantiate resolves a call site against the registry, binding call-site
// arguments to the definition's parameters by name first, then position.
func (c *Converter) instantiate(n *ast.ModuleInstantiationNode) (*registry.Instance, error) {
	def := c.reg.Get(n.Name)
	if def == nil {
		return nil, fmt.Errorf("module %q is not defined", n.Name)
	}

	vals := c.ext.Parameters(n.Args)
	args := make([]eval.Value, len(def.Parameters))
	for i, p := range def.Parameters {
		if v, ok := vals[p.Name]; ok {
			args[i] = v
			continue
		}
		if v, ok := vals[strconv.Itoa(i)]; ok {
			args[i] = v
			continue
		}
		args[i] = eval.Undefined
	}

	return c.reg.Instantiate(n.Name, args)
}

// convertInstantiation converts a module call site by converting the
// definition's body statements and merging the results.
func (c *Converter) convertInstantiation(n *ast.ModuleInstantiationNode, opts Options) (*mesh.Mesh, error) {
	inst, err := c.instantiate(n)
	if err != nil {
		return nil, err
	}
	return c.convertChildren(inst.Body, opts)
}
