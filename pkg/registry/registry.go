// Package registry stores module definitions for one document session and
// binds call-site arguments to formal parameters. A Registry is explicitly
// constructed and passed to its consumers; concurrent documents must each
// use their own instance.
package registry

import (
	"fmt"

	"github.com/scadview/csg/pkg/ast"
	"github.com/scadview/csg/pkg/eval"
)

// Definition is a registered module: its name, ordered formal parameters,
// and body statements.
type Definition struct {
	Name       string
	Parameters []ast.Parameter
	Body       []ast.Node
}

// Binding pairs a formal parameter name with its bound argument value.
// Unmatched trailing parameters are bound to eval.Undefined.
type Binding struct {
	Name  string
	Value eval.Value
}

// Instance is one call-site instantiation of a module: the definition, the
// ordered parameter bindings, and the definition's body. Instances are
// ephemeral; they are not cached across calls.
type Instance struct {
	Definition *Definition
	Bindings   []Binding
	Body       []ast.Node
}

// Param returns the bound value of a parameter by name.
func (in *Instance) Param(name string) (eval.Value, bool) {
	for _, b := range in.Bindings {
		if b.Name == name {
			return b.Value, true
		}
	}
	return eval.Undefined, false
}

// Registry is a single-session, name-keyed store of module definitions.
// It is not safe for concurrent use; each evaluation session owns one.
type Registry struct {
	modules map[string]*Definition
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{modules: make(map[string]*Definition)}
}

// Register stores a module definition. Registration is first-wins: a second
// definition with the same name is an error and the first is retained.
func (r *Registry) Register(def *Definition) error {
	if def == nil || def.Name == "" {
		return fmt.Errorf("module definition must have a name")
	}
	if _, exists := r.modules[def.Name]; exists {
		return fmt.Errorf("module %q is already defined", def.Name)
	}
	r.modules[def.Name] = def
	return nil
}

// RegisterNode stores a definition taken directly from an AST node.
func (r *Registry) RegisterNode(node *ast.ModuleDefinitionNode) error {
	return r.Register(&Definition{
		Name:       node.Name,
		Parameters: node.Parameters,
		Body:       node.Body,
	})
}

// Get returns the definition registered under name, or nil.
func (r *Registry) Get(name string) *Definition {
	return r.modules[name]
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	return len(r.modules)
}

// Clear removes all registered modules.
func (r *Registry) Clear() {
	r.modules = make(map[string]*Definition)
}

// Instantiate binds args positionally to the named module's parameters and
// returns the resulting instance. args[i] binds to parameters[i]; unmatched
// trailing parameters bind to undefined. Default values declared on the
// definition are not substituted at this layer.
func (r *Registry) Instantiate(name string, args []eval.Value) (*Instance, error) {
	def, ok := r.modules[name]
	if !ok {
		return nil, fmt.Errorf("module %q is not defined", name)
	}

	bindings := make([]Binding, len(def.Parameters))
	for i, p := range def.Parameters {
		v := eval.Undefined
		if i < len(args) {
			v = args[i]
		}
		bindings[i] = Binding{Name: p.Name, Value: v}
	}

	return &Instance{
		Definition: def,
		Bindings:   bindings,
		Body:       def.Body,
	}, nil
}
