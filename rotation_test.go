package explore

import (
	"math"
	"testing"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

func TestR1R2R3(t *testing.T) {
	x := math.Pi / 3.0
	s, c := math.Sincos(x)
	r1 := R1(x)
	r2 := R2(x)
	r3 := R3(x)
	if r1.At(0, 0) != r2.At(1, 1) || r1.At(0, 0) != r3.At(2, 2) || r3.At(2, 2) != 1 {
		t.Fatal("expected R1.At(0, 0) = R2.At(1, 1) = R3.At(2, 2) = 1")
	}
	if r1.At(1, 1) != r1.At(2, 2) || r1.At(2, 2) != c {
		t.Fatal("R1 cosines misplaced")
	}
	if r1.At(2, 1) != -r1.At(1, 2) || r1.At(1, 2) != s {
		t.Fatal("R1 sines misplaced")
	}
	for i, r := range []*mat64.Dense{r1, r2, r3} {
		if !isRotation(r, 1e-10) {
			t.Fatalf("R%d is not a proper rotation", i+1)
		}
	}
}

func TestPointingAttitude(t *testing.T) {
	from := []float64{1.5, 0, 0}
	to := []float64{0.2, 0.3, -0.1}
	R := PointingAttitude(from, to)
	if !isRotation(R, 1e-10) {
		t.Fatal("pointing attitude is not a proper rotation")
	}
	boresight := MxV33(R, []float64{1, 0, 0})
	if !vectorsEqual(boresight, unit(sub(to, from))) {
		t.Fatalf("boresight %v does not aim at the target", boresight)
	}
}

func TestPointingAttitudeColinearUp(t *testing.T) {
	// Boresight along ±z forces the +y up candidate.
	for _, to := range [][]float64{{0, 0, 5}, {0, 0, -5}} {
		R := PointingAttitude([]float64{0, 0, 0}, to)
		if !isRotation(R, 1e-10) {
			t.Fatalf("colinear case to %v is not a proper rotation", to)
		}
		boresight := MxV33(R, []float64{1, 0, 0})
		if !vectorsEqual(boresight, unit(to)) {
			t.Fatalf("boresight %v does not aim at %v", boresight, to)
		}
	}
}

func TestPointingAttitudeDeterminant(t *testing.T) {
	R := PointingAttitude([]float64{2, -1, 0.5}, []float64{-1, 1, 1})
	if det := det3(R); !floats.EqualWithinAbs(det, 1, 1e-10) {
		t.Fatalf("det = %f, expected +1", det)
	}
}

func TestDenseIdentity(t *testing.T) {
	I := DenseIdentity(3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			expected := 0.0
			if i == j {
				expected = 1
			}
			if I.At(i, j) != expected {
				t.Fatalf("I(%d,%d) = %f", i, j, I.At(i, j))
			}
		}
	}
}
