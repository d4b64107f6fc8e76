package explore

import (
	"errors"
	"math"

	"github.com/gonum/floats"
)

// ErrObservationAtOrigin is returned when an observation is too close to the
// body origin to define a radial direction; the update is skipped.
var ErrObservationAtOrigin = errors.New("observation at origin: no radial direction")

// ReconstructMesh carries the deformable shape estimate: a seed mesh whose
// topology is frozen while vertex positions and per vertex uncertainty
// weights evolve with observations. A weight of 1 marks a vertex untouched by
// any measurement; weights decay toward 0 as the region is confirmed and
// never increase.
type ReconstructMesh struct {
	verts   [][3]float64
	faces   [][3]int
	weights []float64
}

// NewReconstructMesh copies the seed mesh and starts all weights at one.
func NewReconstructMesh(V [][3]float64, F [][3]int) (*ReconstructMesh, error) {
	if err := validateFaces(V, F); err != nil {
		return nil, err
	}
	verts := make([][3]float64, len(V))
	copy(verts, V)
	faces := make([][3]int, len(F))
	copy(faces, F)
	weights := make([]float64, len(V))
	for i := range weights {
		weights[i] = 1
	}
	return &ReconstructMesh{verts: verts, faces: faces, weights: weights}, nil
}

// SingleUpdate folds one intersection point q into the estimate. Vertices
// within the angular tolerance θmax of the observation direction move toward
// q along the radial blend f·w·(q - v) and their weights decay by (1 - f),
// where f is the linear falloff 1 - α/θmax. When no vertex lies within θmax
// the nearest one is updated so every observation makes progress.
func (rm *ReconstructMesh) SingleUpdate(q []float64, θmax float64) error {
	if norm(q) < 1e-12 {
		return ErrObservationAtOrigin
	}
	û := unit(q)

	nearest := -1
	nearestα := math.Inf(1)
	region := make([]int, 0, 16)
	αs := make([]float64, 0, 16)
	for i := range rm.verts {
		v := rm.verts[i][:]
		α := math.Pi
		if norm(v) > 1e-12 {
			α = angularSep(û, v)
		}
		if α < nearestα {
			nearest, nearestα = i, α
		}
		if α <= θmax {
			region = append(region, i)
			αs = append(αs, α)
		}
	}
	if len(region) == 0 {
		// Nearest vertex fallback: θmax is below the vertex spacing, so the
		// closest vertex takes the full update to keep the loop progressing.
		region = append(region, nearest)
		αs = append(αs, 0)
	}

	for k, i := range region {
		f := 1 - αs[k]/θmax
		if f < 0 {
			f = 0
		} else if f > 1 {
			f = 1
		}
		w := rm.weights[i]
		for j := 0; j < 3; j++ {
			rm.verts[i][j] += f * w * (q[j] - rm.verts[i][j])
		}
		w *= 1 - f
		if w < 0 {
			w = 0
		} else if w > 1 {
			w = 1
		}
		rm.weights[i] = w
	}
	return nil
}

// WeightSum returns Σwᵢ, the loop termination measure.
func (rm *ReconstructMesh) WeightSum() float64 {
	return floats.Sum(rm.weights)
}

// Vertices returns the current estimate vertices. Callers must not mutate them.
func (rm *ReconstructMesh) Vertices() [][3]float64 {
	return rm.verts
}

// Faces returns the (immutable) estimate topology.
func (rm *ReconstructMesh) Faces() [][3]int {
	return rm.faces
}

// Weights returns the per vertex uncertainty weights. Callers must not mutate them.
func (rm *ReconstructMesh) Weights() []float64 {
	return rm.weights
}

// MaxWeightVertex returns the index and position of the most uncertain
// vertex, breaking ties by the smallest index.
func (rm *ReconstructMesh) MaxWeightVertex() (int, [3]float64) {
	best := 0
	for i := 1; i < len(rm.weights); i++ {
		if rm.weights[i] > rm.weights[best] {
			best = i
		}
	}
	return best, rm.verts[best]
}
