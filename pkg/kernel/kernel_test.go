package kernel

import (
	"testing"

	"github.com/scadview/csg/pkg/mesh"
)

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

// stubShape is a minimal Shape2D implementation for testing.
type stubShape struct {
	minBB, maxBB [2]float64
}

func (s *stubShape) Bounds() (min, max [2]float64) {
	return s.minBB, s.maxBB
}

// stubKernel is a minimal Kernel implementation that proves the interface
// is satisfiable. All methods return trivial results.
type stubKernel struct{}

func (k *stubKernel) Box(x, y, z float64, center bool) (Solid, error) {
	if center {
		return &stubSolid{
			minBB: [3]float64{-x / 2, -y / 2, -z / 2},
			maxBB: [3]float64{x / 2, y / 2, z / 2},
		}, nil
	}
	return &stubSolid{maxBB: [3]float64{x, y, z}}, nil
}

func (k *stubKernel) Sphere(r float64) (Solid, error) {
	return &stubSolid{
		minBB: [3]float64{-r, -r, -r},
		maxBB: [3]float64{r, r, r},
	}, nil
}

func (k *stubKernel) Cylinder(h, r1, r2 float64, center bool) (Solid, error) {
	r := r1
	if r2 > r {
		r = r2
	}
	if center {
		return &stubSolid{
			minBB: [3]float64{-r, -r, -h / 2},
			maxBB: [3]float64{r, r, h / 2},
		}, nil
	}
	return &stubSolid{
		minBB: [3]float64{-r, -r, 0},
		maxBB: [3]float64{r, r, h},
	}, nil
}

func (k *stubKernel) Circle(r float64) (Shape2D, error) {
	return &stubShape{minBB: [2]float64{-r, -r}, maxBB: [2]float64{r, r}}, nil
}

func (k *stubKernel) Square(x, y float64, center bool) (Shape2D, error) {
	return &stubShape{maxBB: [2]float64{x, y}}, nil
}

func (k *stubKernel) Polygon(points [][2]float64) (Shape2D, error) {
	return &stubShape{}, nil
}

func (k *stubKernel) Union(solids ...Solid) (Solid, error)          { return solids[0], nil }
func (k *stubKernel) Difference(b Solid, _ ...Solid) (Solid, error) { return b, nil }
func (k *stubKernel) Intersection(s ...Solid) (Solid, error)        { return s[0], nil }

func (k *stubKernel) Translate(s Solid, _, _, _ float64) Solid     { return s }
func (k *stubKernel) Rotate(s Solid, _, _, _ float64) Solid        { return s }
func (k *stubKernel) Scale(s Solid, _, _, _ float64) Solid         { return s }
func (k *stubKernel) Mirror(s Solid, _, _, _ float64) (Solid, error) {
	return s, nil
}

func (k *stubKernel) Translate2D(s Shape2D, _, _ float64) Shape2D { return s }

func (k *stubKernel) LinearExtrude(_ Shape2D, h, _ float64, _ [2]float64, _ bool) (Solid, error) {
	return &stubSolid{maxBB: [3]float64{1, 1, h}}, nil
}

func (k *stubKernel) RotateExtrude(_ Shape2D, _ float64) (Solid, error) {
	return &stubSolid{}, nil
}

func (k *stubKernel) ToMesh(_ Solid, _ int) (*mesh.Mesh, error) {
	return mesh.New(nil, nil, nil), nil
}

// Compile-time checks that the stubs implement the interfaces.
var _ Solid = (*stubSolid)(nil)
var _ Shape2D = (*stubShape)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelBoxBoundingBox(t *testing.T) {
	var k Kernel = &stubKernel{}
	s, err := k.Box(10, 20, 30, false)
	if err != nil {
		t.Fatalf("Box() error = %v", err)
	}
	min, max := s.BoundingBox()
	if min != [3]float64{0, 0, 0} {
		t.Errorf("Box min = %v, want [0 0 0]", min)
	}
	if max != [3]float64{10, 20, 30} {
		t.Errorf("Box max = %v, want [10 20 30]", max)
	}
}

func TestStubKernelToMesh(t *testing.T) {
	var k Kernel = &stubKernel{}
	s, err := k.Box(1, 1, 1, false)
	if err != nil {
		t.Fatalf("Box() error = %v", err)
	}
	m, err := k.ToMesh(s, 0)
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if m == nil {
		t.Fatal("ToMesh() returned nil mesh")
	}
	if !m.IsEmpty() {
		t.Error("stub ToMesh() should return empty mesh")
	}
}
