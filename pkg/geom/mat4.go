package geom

import (
	"fmt"
	"math"
)

// Mat4 is a row-major 4x4 affine transform matrix.
type Mat4 [16]float64

// Identity returns the identity transform.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a translation by (x, y, z).
func Translation(x, y, z float64) Mat4 {
	m := Identity()
	m[3], m[7], m[11] = x, y, z
	return m
}

// Scaling returns a scale by (x, y, z).
func Scaling(x, y, z float64) Mat4 {
	m := Identity()
	m[0], m[5], m[10] = x, y, z
	return m
}

// RotationX returns a rotation about the X axis by a radians.
func RotationX(a float64) Mat4 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat4{
		1, 0, 0, 0,
		0, c, -s, 0,
		0, s, c, 0,
		0, 0, 0, 1,
	}
}

// RotationY returns a rotation about the Y axis by a radians.
func RotationY(a float64) Mat4 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat4{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotationZ returns a rotation about the Z axis by a radians.
func RotationZ(a float64) Mat4 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat4{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// RotationEuler returns the OpenSCAD rotate([x,y,z]) transform: rotation
// about X, then Y, then Z, angles in degrees.
func RotationEuler(xDeg, yDeg, zDeg float64) Mat4 {
	rx := RotationX(xDeg * math.Pi / 180)
	ry := RotationY(yDeg * math.Pi / 180)
	rz := RotationZ(zDeg * math.Pi / 180)
	return rz.Mul(ry).Mul(rx)
}

// RotationAxis returns a rotation by deg degrees about the given axis,
// built with Rodrigues' formula. A zero or non-finite axis yields the
// identity.
func RotationAxis(x, y, z, deg float64) Mat4 {
	l := math.Sqrt(x*x + y*y + z*z)
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Identity()
	}
	x, y, z = x/l, y/l, z/l
	a := deg * math.Pi / 180
	c, s := math.Cos(a), math.Sin(a)
	t := 1 - c
	return Mat4{
		c + x*x*t, x*y*t - z*s, x*z*t + y*s, 0,
		y*x*t + z*s, c + y*y*t, y*z*t - x*s, 0,
		z*x*t - y*s, z*y*t + x*s, c + z*z*t, 0,
		0, 0, 0, 1,
	}
}

// Mirror returns the Householder reflection across the plane through the
// origin with the given normal: M = I - 2nnT.
func Mirror(nx, ny, nz float64) (Mat4, error) {
	l := math.Sqrt(nx*nx + ny*ny + nz*nz)
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Identity(), fmt.Errorf("mirror normal must be a non-zero finite vector")
	}
	nx, ny, nz = nx/l, ny/l, nz/l
	return Mat4{
		1 - 2*nx*nx, -2 * nx * ny, -2 * nx * nz, 0,
		-2 * ny * nx, 1 - 2*ny*ny, -2 * ny * nz, 0,
		-2 * nz * nx, -2 * nz * ny, 1 - 2*nz*nz, 0,
		0, 0, 0, 1,
	}, nil
}

// Mul returns m * o (o applied first).
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += m[row*4+k] * o[k*4+col]
			}
			r[row*4+col] = sum
		}
	}
	return r
}

// MulPosition transforms a point.
func (m Mat4) MulPosition(x, y, z float64) (float64, float64, float64) {
	return m[0]*x + m[1]*y + m[2]*z + m[3],
		m[4]*x + m[5]*y + m[6]*z + m[7],
		m[8]*x + m[9]*y + m[10]*z + m[11]
}

// Det3 returns the determinant of the linear (upper-left 3x3) part. A
// negative determinant means the transform flips orientation, so triangle
// winding must be reversed to keep faces outward.
func (m Mat4) Det3() float64 {
	return m[0]*(m[5]*m[10]-m[6]*m[9]) -
		m[1]*(m[4]*m[10]-m[6]*m[8]) +
		m[2]*(m[4]*m[9]-m[5]*m[8])
}

// NormalMatrix returns the inverse-transpose of the linear part, the
// correct transform for surface normals under non-uniform scaling.
// Singular transforms fall back to the linear part itself.
func (m Mat4) NormalMatrix() [9]float64 {
	det := m.Det3()
	if det == 0 {
		return [9]float64{m[0], m[1], m[2], m[4], m[5], m[6], m[8], m[9], m[10]}
	}
	inv := 1 / det
	// Transposed adjugate of the 3x3 linear part.
	return [9]float64{
		(m[5]*m[10] - m[6]*m[9]) * inv,
		(m[6]*m[8] - m[4]*m[10]) * inv,
		(m[4]*m[9] - m[5]*m[8]) * inv,
		(m[2]*m[9] - m[1]*m[10]) * inv,
		(m[0]*m[10] - m[2]*m[8]) * inv,
		(m[1]*m[8] - m[0]*m[9]) * inv,
		(m[1]*m[6] - m[2]*m[5]) * inv,
		(m[2]*m[4] - m[0]*m[6]) * inv,
		(m[0]*m[5] - m[1]*m[4]) * inv,
	}
}
