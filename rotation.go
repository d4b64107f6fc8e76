package explore

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// R1 rotation about the 1st axis.
func R1(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R2 rotation about the 2nd axis.
func R2(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m *mat64.Dense, v []float64) (o []float64) {
	vVec := mat64.NewVector(len(v), v)
	var rVec mat64.Vector
	rVec.MulVec(m, vVec)
	return []float64{rVec.At(0, 0), rVec.At(1, 0), rVec.At(2, 0)}
}

// det3 returns the determinant of a 3x3 matrix.
func det3(m *mat64.Dense) float64 {
	return m.At(0, 0)*(m.At(1, 1)*m.At(2, 2)-m.At(1, 2)*m.At(2, 1)) -
		m.At(0, 1)*(m.At(1, 0)*m.At(2, 2)-m.At(1, 2)*m.At(2, 0)) +
		m.At(0, 2)*(m.At(1, 0)*m.At(2, 1)-m.At(1, 1)*m.At(2, 0))
}

// PointingAttitude returns the rotation whose body fixed +x axis looks from
// `from` toward `to`. The up candidate is inertial +z, switched to +y when the
// boresight is within 1e-6 of colinear with +z. The result is orthonormal with
// determinant +1.
func PointingAttitude(from, to []float64) *mat64.Dense {
	view := unit(sub(to, from))
	up := []float64{0, 0, 1}
	if math.Abs(dot(view, up)) > 1-1e-6 {
		up = []float64{0, 1, 0}
	}
	right := unit(cross(up, view))
	newUp := cross(view, right)
	R := mat64.NewDense(3, 3, []float64{
		view[0], right[0], newUp[0],
		view[1], right[1], newUp[1],
		view[2], right[2], newUp[2]})
	if det3(R) < 0 {
		R.Set(0, 2, -newUp[0])
		R.Set(1, 2, -newUp[1])
		R.Set(2, 2, -newUp[2])
	}
	return R
}

// isRotation checks orthonormality (‖RᵀR - I‖_F < tol) and a positive determinant.
func isRotation(R *mat64.Dense, tol float64) bool {
	var rtr mat64.Dense
	rtr.Mul(R.T(), R)
	rtr.Sub(&rtr, DenseIdentity(3))
	return mat64.Norm(&rtr, 2) < tol && det3(R) > 0
}

// DenseIdentity returns an n×n identity matrix.
func DenseIdentity(n int) *mat64.Dense {
	return ScaledDenseIdentity(n, 1)
}

// ScaledDenseIdentity returns an n×n identity matrix times a scaling factor.
func ScaledDenseIdentity(n int, s float64) *mat64.Dense {
	vals := make([]float64, n*n)
	for j := 0; j < n*n; j++ {
		if j%(n+1) == 0 {
			vals[j] = s
		} else {
			vals[j] = 0
		}
	}
	return mat64.NewDense(n, n, vals)
}
