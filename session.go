// Package csg converts OpenSCAD abstract syntax trees into renderable
// triangle meshes. The conversion pipeline is: parameter extraction from the
// AST, CSG evaluation through a geometry kernel, and tessellation into flat
// vertex/normal/index buffers a renderer can upload directly.
//
// Session is the embedding surface for a front end: it owns the kernel, the
// module registry, and the conversion options for one open document.
package csg

import (
	"github.com/rs/zerolog"

	"github.com/scadview/csg/pkg/ast"
	"github.com/scadview/csg/pkg/convert"
	"github.com/scadview/csg/pkg/kernel/sdfx"
	"github.com/scadview/csg/pkg/mesh"
	"github.com/scadview/csg/pkg/registry"
)

// colorPalette assigns distinct colors to document nodes when the caller
// does not configure a material.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// MeshData is the JSON-serializable mesh format sent to the frontend. The
// buffers are shared with the converted mesh, which the session disposes
// after extraction, so MeshData is the surviving owner of the geometry.
type MeshData struct {
	Vertices []float32     `json:"vertices"`
	Normals  []float32     `json:"normals"`
	Indices  []uint32      `json:"indices"`
	Handle   string        `json:"handle"`
	Meta     mesh.Metadata `json:"metadata"`
}

// NodeError is a JSON-serializable per-node conversion failure.
type NodeError struct {
	Index    int    `json:"index"`
	NodeType string `json:"nodeType"`
	Message  string `json:"message"`
}

// DocumentResult is the full result of converting one document.
type DocumentResult struct {
	Meshes []MeshData  `json:"meshes"`
	Errors []NodeError `json:"errors"`
}

// Session owns the conversion state for one open document.
type Session struct {
	conv    *convert.Converter
	reg     *registry.Registry
	opts    convert.Options
	palette bool
	log     zerolog.Logger
}

// NewSession creates a Session over the sdfx kernel. Pass
// convert.DefaultOptions() for standard behavior; a zero-value material
// enables the per-node color palette.
func NewSession(opts convert.Options, log zerolog.Logger) *Session {
	usePalette := opts.Material.Color == ""
	reg := registry.New()
	return &Session{
		conv:    convert.New(sdfx.New(), reg, log),
		reg:     reg,
		opts:    opts,
		palette: usePalette,
		log:     log,
	}
}

// Registry exposes the session's module registry, e.g. for pre-registering
// library modules before converting a document.
func (s *Session) Registry() *registry.Registry {
	return s.reg
}

// ConvertDocument converts an ordered document of AST nodes and returns the
// frontend-ready result. Definitions are hoisted, so call sites may precede
// their module definitions. Nodes producing no geometry are omitted from
// Meshes; failures are collected per node rather than aborting the document.
func (s *Session) ConvertDocument(nodes []ast.Node) DocumentResult {
	// Slices start non-nil so JSON serializes [] instead of null.
	out := DocumentResult{
		Meshes: []MeshData{},
		Errors: []NodeError{},
	}

	opts := s.opts
	results := s.conv.ConvertDocument(nodes, opts)

	for i, r := range results {
		if r.IsErr() {
			nodeType := ""
			if nodes[i] != nil {
				nodeType = nodes[i].NodeType()
			}
			out.Errors = append(out.Errors, NodeError{
				Index:    i,
				NodeType: nodeType,
				Message:  r.Err().Error(),
			})
			continue
		}

		m := r.Value()
		if m.IsEmpty() {
			// Definitions and empty booleans render nothing.
			if err := m.Dispose(); err != nil {
				s.log.Warn().Err(err).Msg("disposing empty mesh")
			}
			continue
		}

		if s.palette {
			m.Meta.Material.Color = colorPalette[i%len(colorPalette)]
		}

		data := MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Handle:   m.Handle,
			Meta:     m.Meta,
		}

		// Ownership of the buffers moves to MeshData; release the mesh.
		if err := m.Dispose(); err != nil {
			s.log.Warn().Str("handle", data.Handle).Err(err).Msg("disposing mesh")
		}

		out.Meshes = append(out.Meshes, data)
	}

	return out
}
