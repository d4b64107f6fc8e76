package explore

import (
	"math"

	"github.com/gonum/floats"
)

// vectorsEqual returns whether both vectors match within 1e-8.
func vectorsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !floats.EqualWithinAbs(a[i], b[i], 1e-8) {
			return false
		}
	}
	return true
}

// octasphere builds a sphere mesh by subdividing an octahedron, which keeps
// exact vertices on all six axis poles (±r, 0, 0) and friends.
func octasphere(subdiv int, radius float64, center [3]float64) ([][3]float64, [][3]int) {
	dirs := [][3]float64{
		{1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
	}
	faces := [][3]int{
		{0, 2, 4}, {2, 1, 4}, {1, 3, 4}, {3, 0, 4},
		{2, 0, 5}, {1, 2, 5}, {3, 1, 5}, {0, 3, 5},
	}
	for s := 0; s < subdiv; s++ {
		dirs, faces = subdivide(dirs, faces)
	}
	verts := make([][3]float64, len(dirs))
	for i, d := range dirs {
		n := math.Sqrt(dot3(d, d))
		verts[i] = [3]float64{
			center[0] + radius*d[0]/n,
			center[1] + radius*d[1]/n,
			center[2] + radius*d[2]/n,
		}
	}
	return verts, faces
}

func mustMesh(V [][3]float64, F [][3]int) *MeshData {
	mesh, err := NewMeshData(V, F)
	if err != nil {
		panic(err)
	}
	return mesh
}
