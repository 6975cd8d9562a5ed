// Package mesh defines the triangle-mesh output of the conversion pipeline.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z), normals has
// 3 floats per vertex, indices has 3 uint32s per triangle. Ownership of a
// Mesh transfers to the caller on return; the owner must call Dispose
// exactly once when the mesh is superseded.
package mesh

import (
	"fmt"

	"github.com/google/uuid"
)

// Material describes the rendering material echoed into mesh metadata.
type Material struct {
	Color       string  `json:"color" toml:"color"`
	Opacity     float64 `json:"opacity" toml:"opacity"`
	Metalness   float64 `json:"metalness" toml:"metalness"`
	Roughness   float64 `json:"roughness" toml:"roughness"`
	Wireframe   bool    `json:"wireframe" toml:"wireframe"`
	Transparent bool    `json:"transparent" toml:"transparent"`
	Side        string  `json:"side" toml:"side"` // front, back, double
}

// Metadata describes a converted mesh for UI display. Callers rely on it
// and must not need to re-derive any of it from the buffers.
type Metadata struct {
	NodeType      string   `json:"nodeType"`
	NodeID        string   `json:"nodeId"`
	NodeIndex     int      `json:"nodeIndex"`
	TriangleCount int      `json:"triangleCount"`
	VertexCount   int      `json:"vertexCount"`
	Material      Material `json:"material"`
}

// Mesh is a renderable triangle mesh plus its conversion metadata.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles

	// Handle uniquely identifies this mesh for scene owners tracking
	// disposal across rebuilds.
	Handle string `json:"handle"`

	Meta Metadata `json:"metadata"`

	disposed bool
}

// New creates a mesh from flat buffers and fills in the derived counts.
func New(vertices, normals []float32, indices []uint32) *Mesh {
	m := &Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
		Handle:   uuid.NewString(),
	}
	m.Meta.VertexCount = m.VertexCount()
	m.Meta.TriangleCount = m.TriangleCount()
	return m
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Disposed reports whether Dispose has been called.
func (m *Mesh) Disposed() bool {
	return m.disposed
}

// Dispose releases the mesh buffers. It must be called exactly once by the
// owner; a second call is an error rather than a silent no-op so double
// frees surface during development.
func (m *Mesh) Dispose() error {
	if m.disposed {
		return fmt.Errorf("mesh %s already disposed", m.Handle)
	}
	m.disposed = true
	m.Vertices = nil
	m.Normals = nil
	m.Indices = nil
	return nil
}

// BoundingBox returns the axis-aligned bounding box of the mesh.
func (m *Mesh) BoundingBox() (min, max [3]float64) {
	if m.IsEmpty() {
		return min, max
	}
	for i := 0; i < 3; i++ {
		min[i] = float64(m.Vertices[i])
		max[i] = float64(m.Vertices[i])
	}
	for v := 1; v < m.VertexCount(); v++ {
		for i := 0; i < 3; i++ {
			c := float64(m.Vertices[v*3+i])
			if c < min[i] {
				min[i] = c
			}
			if c > max[i] {
				max[i] = c
			}
		}
	}
	return min, max
}
