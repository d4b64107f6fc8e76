package explore

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func unitSphereMesh() *MeshData {
	V, F := octasphere(3, 1, [3]float64{0, 0, 0})
	return mustMesh(V, F)
}

func TestCastRayHitsVertex(t *testing.T) {
	caster := NewRayCaster(unitSphereMesh())
	// The ray from (2,0,0) toward (-1,0,0) passes through the exact +x pole
	// vertex of the sphere.
	pt, hit := caster.CastRay([]float64{2, 0, 0}, []float64{-1, 0, 0})
	if !hit {
		t.Fatal("expected a hit")
	}
	for i, expected := range []float64{1, 0, 0} {
		if !floats.EqualWithinAbs(pt[i], expected, 1e-9) {
			t.Fatalf("intersection = %v, expected (1 0 0)", pt)
		}
	}
}

func TestCastRayClosestForward(t *testing.T) {
	caster := NewRayCaster(unitSphereMesh())
	// From outside, the first forward intersection is the near side of the
	// sphere, never the far side.
	pt, hit := caster.CastRay([]float64{3, 0, 0}, []float64{2, 0, 0})
	if !hit {
		t.Fatal("expected a hit")
	}
	if !floats.EqualWithinAbs(pt[0], 1, 1e-9) {
		t.Fatalf("near side expected, got %v", pt)
	}
	// From inside the sphere only the -x side is forward.
	pt, hit = caster.CastRay([]float64{0, 0, 0}, []float64{-0.5, 0, 0})
	if !hit {
		t.Fatal("expected a hit from inside")
	}
	if !floats.EqualWithinAbs(pt[0], -1, 1e-9) {
		t.Fatalf("forward face expected, got %v", pt)
	}
}

func TestCastRayMiss(t *testing.T) {
	caster := NewRayCaster(unitSphereMesh())
	pt, hit := caster.CastRay([]float64{2, 0, 0}, []float64{2, 1, 0})
	if hit {
		t.Fatalf("expected a miss, got %v", pt)
	}
	if !vectorsEqual(pt, []float64{0, 0, 0}) {
		t.Fatal("miss must return the zero vector sentinel")
	}
}

func TestCastRayDegenerateTarget(t *testing.T) {
	caster := NewRayCaster(unitSphereMesh())
	src := []float64{2, 0, 0}
	if _, hit := caster.CastRay(src, []float64{2, 0, 1e-13}); hit {
		t.Fatal("degenerate ray must not hit")
	}
}

func TestCastRayRebindIdentical(t *testing.T) {
	mesh := unitSphereMesh()
	caster := NewRayCaster(mesh)
	src := []float64{2, 0.1, -0.2}
	tgt := []float64{-1, -0.05, 0.12}
	first, hit1 := caster.CastRay(src, tgt)
	caster.UpdateMesh(mesh)
	second, hit2 := caster.CastRay(src, tgt)
	if hit1 != hit2 {
		t.Fatal("rebind changed hit status")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("rebind changed the cast bit pattern: %v vs %v", first, second)
		}
	}
}

func TestCastRayAfterMeshReplace(t *testing.T) {
	mesh := unitSphereMesh()
	caster := NewRayCaster(mesh)
	// Before the translation this ray misses everything near x=10.
	if _, hit := caster.CastRay([]float64{11, 0, 0}, []float64{9, 0, 0}); hit {
		t.Fatal("expected a miss before replacement")
	}
	V, F := octasphere(3, 1, [3]float64{10, 0, 0})
	if err := mesh.Replace(V, F); err != nil {
		t.Fatal(err)
	}
	pt, hit := caster.CastRay([]float64{11, 0, 0}, []float64{9, 0, 0})
	if !hit {
		t.Fatal("expected a hit on the translated mesh")
	}
	if !floats.EqualWithinAbs(pt[0], 11, 1e-9) || !floats.EqualWithinAbs(pt[1], 0, 1e-9) {
		t.Fatalf("intersection = %v, expected (11 0 0)", pt)
	}
}

func TestCastArrayOrderAndParity(t *testing.T) {
	caster := NewRayCaster(unitSphereMesh())
	src := []float64{2, 0, 0}
	targets := [][]float64{
		{-1, 0, 0},
		{2, 1, 0}, // miss
		{-1, 0.1, 0},
		{-1, 0, -0.1},
	}
	out := caster.CastArray(src, targets)
	rows, cols := out.Dims()
	if rows != len(targets) || cols != 3 {
		t.Fatalf("dims = %d×%d", rows, cols)
	}
	for k, tgt := range targets {
		pt, hit := caster.CastRay(src, tgt)
		if !hit {
			pt = []float64{0, 0, 0}
		}
		row := []float64{out.At(k, 0), out.At(k, 1), out.At(k, 2)}
		for i := range pt {
			if row[i] != pt[i] {
				t.Fatalf("row %d differs from the sequential cast: %v vs %v", k, row, pt)
			}
		}
	}
}

func TestMinimumDistance(t *testing.T) {
	// Plain octahedron: faces are the planes |x|+|y|+|z| = 1.
	V, F := octasphere(0, 1, [3]float64{0, 0, 0})
	caster := NewRayCaster(mustMesh(V, F))
	if d := caster.MinimumDistance([]float64{2, 0, 0}); !floats.EqualWithinAbs(d, 1, 1e-12) {
		t.Fatalf("distance from (2,0,0) = %f, expected 1", d)
	}
	if d := caster.MinimumDistance([]float64{0, 0, 0}); !floats.EqualWithinAbs(d, 1/math.Sqrt(3), 1e-12) {
		t.Fatalf("distance from origin = %f, expected 1/√3", d)
	}
	if d := caster.MinimumDistance([]float64{1, 0, 0}); !floats.EqualWithinAbs(d, 0, 1e-12) {
		t.Fatalf("distance from a vertex = %f, expected 0", d)
	}
}

func TestIntersectionLiesOnTruth(t *testing.T) {
	mesh := unitSphereMesh()
	caster := NewRayCaster(mesh)
	sources := [][]float64{{2, 0, 0}, {0, 3, 1}, {-2, -2, -2}}
	for _, src := range sources {
		pt, hit := caster.CastRay(src, []float64{0, 0, 0})
		if !hit {
			t.Fatalf("ray from %v toward the origin must hit", src)
		}
		if d := caster.MinimumDistance(pt); d > 1e-9 {
			t.Fatalf("intersection %v is %g off the surface", pt, d)
		}
	}
}
