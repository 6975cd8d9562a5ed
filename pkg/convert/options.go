package convert

import (
	"time"

	"github.com/scadview/csg/pkg/mesh"
)

// DefaultTimeout is the wall-clock budget for converting a single node.
const DefaultTimeout = 5 * time.Second

// DefaultMaxComplexity caps the triangle count of a single converted mesh.
const DefaultMaxComplexity = 1_000_000

// DefaultMeshCells is the marching cubes resolution used when tessellating
// kernel solids.
const DefaultMeshCells = 100

// weldTolerance is the vertex merge distance used by the optimization pass.
const weldTolerance = 1e-5

// DefaultMaterial returns the material applied when the caller supplies
// none.
func DefaultMaterial() mesh.Material {
	return mesh.Material{
		Color:     "#ffcc00",
		Opacity:   1.0,
		Metalness: 0.1,
		Roughness: 0.8,
		Side:      "double",
	}
}

// Options controls one conversion. The zero value is not useful; start from
// DefaultOptions and override fields as needed.
type Options struct {
	// Material is echoed into the metadata of every produced mesh.
	Material mesh.Material

	// EnableOptimization welds duplicate vertices in tessellated output.
	EnableOptimization bool

	// MaxComplexity is the maximum triangle count of one converted mesh.
	// Conversions producing more triangles fail.
	MaxComplexity int

	// MeshCells is the marching cubes sampling resolution for boolean and
	// extrusion results.
	MeshCells int

	// Timeout is the wall-clock budget for one node conversion.
	Timeout time.Duration
}

// DefaultOptions returns the options used when the caller supplies none.
func DefaultOptions() Options {
	return Options{
		Material:           DefaultMaterial(),
		EnableOptimization: true,
		MaxComplexity:      DefaultMaxComplexity,
		MeshCells:          DefaultMeshCells,
		Timeout:            DefaultTimeout,
	}
}

// withDefaults fills unset numeric fields and the material color so partial
// option structs behave predictably. EnableOptimization is left as given
// since false is a meaningful setting.
func (o Options) withDefaults() Options {
	if o.Material.Color == "" {
		o.Material = DefaultMaterial()
	}
	if o.MaxComplexity <= 0 {
		o.MaxComplexity = DefaultMaxComplexity
	}
	if o.MeshCells <= 0 {
		o.MeshCells = DefaultMeshCells
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}
