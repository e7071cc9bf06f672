package renderer

import "math"

// Matrix is a 2D affine transform in row-vector form:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Matrix struct {
	A, B, C, D, E, F float64
}

func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

func Translation(x, y float64) Matrix {
	return Matrix{A: 1, D: 1, E: x, F: y}
}

func Scaling(sx, sy float64) Matrix {
	return Matrix{A: sx, D: sy}
}

// Then returns the transform that applies m first and n second.
func (m Matrix) Then(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.B*n.C,
		B: m.A*n.B + m.B*n.D,
		C: m.C*n.A + m.D*n.C,
		D: m.C*n.B + m.D*n.D,
		E: m.E*n.A + m.F*n.C + n.E,
		F: m.E*n.B + m.F*n.D + n.F,
	}
}

func (m Matrix) Determinant() float64 {
	return m.A*m.D - m.B*m.C
}

// Inverse returns the inverse transform, or the identity when m is singular.
func (m Matrix) Inverse() Matrix {
	det := m.Determinant()
	if math.Abs(det) < 1e-12 {
		return Identity()
	}
	return Matrix{
		A: m.D / det,
		B: -m.B / det,
		C: -m.C / det,
		D: m.A / det,
		E: (m.C*m.F - m.D*m.E) / det,
		F: (m.B*m.E - m.A*m.F) / det,
	}
}

func (m Matrix) Map(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}
