package explore

import (
	"runtime"
	"sync"

	"github.com/gonum/matrix/mat64"
)

const (
	// relative factor applied to the scene extent to reject self hits at the
	// ray origin.
	rayEpsilonRel = 1e-12
	// below this source to target separation the ray direction is undefined.
	degenerateRay = 1e-12
)

// RayCaster answers first intersection and minimum distance queries against a
// MeshData through an AABB tree. The tree is rebuilt eagerly whenever the
// mesh is rebound; it is never handed out.
type RayCaster struct {
	mesh *MeshData
	tree *aabbTree
	gen  uint64
}

// NewRayCaster binds the mesh and builds the acceleration tree.
func NewRayCaster(mesh *MeshData) *RayCaster {
	rc := &RayCaster{}
	rc.UpdateMesh(mesh)
	return rc
}

// UpdateMesh rebinds the caster to a mesh and rebuilds the tree. Rebinding to
// an unchanged mesh yields bit identical casts since the build is
// deterministic.
func (rc *RayCaster) UpdateMesh(mesh *MeshData) {
	rc.mesh = mesh
	rc.tree = newAABBTree(mesh)
	rc.gen = mesh.Generation()
}

// refresh rebuilds the tree if the bound mesh was replaced underneath us.
func (rc *RayCaster) refresh() {
	if rc.gen != rc.mesh.Generation() {
		rc.UpdateMesh(rc.mesh)
	}
}

// CastRay casts the ray from source through target and returns the first
// intersection strictly forward of the source, closest first, with ties on
// the parametric distance broken by the smallest triangle id. A miss, or a
// degenerate target closer than the direction tolerance, returns the zero
// vector and false.
func (rc *RayCaster) CastRay(source, target []float64) ([]float64, bool) {
	rc.refresh()
	o := [3]float64{source[0], source[1], source[2]}
	d := [3]float64{target[0] - source[0], target[1] - source[1], target[2] - source[2]}
	if dot3(d, d) < degenerateRay*degenerateRay {
		return []float64{0, 0, 0}, false
	}
	tMin := rayEpsilonRel * rc.tree.extent
	if tMin <= 0 {
		tMin = rayEpsilonRel
	}
	t, _, ok := rc.tree.firstHit(o, d, tMin)
	if !ok {
		return []float64{0, 0, 0}, false
	}
	return []float64{o[0] + t*d[0], o[1] + t*d[1], o[2] + t*d[2]}, true
}

// CastArray casts one independent ray per target row, all sharing the same
// source, and returns the K×3 intersection matrix with zero rows for misses.
// Rays are dispatched across workers; rows are written back in input order so
// the result is deterministic.
func (rc *RayCaster) CastArray(source []float64, targets [][]float64) *mat64.Dense {
	rc.refresh()
	if len(targets) == 0 {
		return &mat64.Dense{}
	}
	out := mat64.NewDense(len(targets), 3, nil)
	workers := runtime.NumCPU()
	if workers > len(targets) {
		workers = len(targets)
	}
	if workers < 1 {
		workers = 1
	}
	var wg sync.WaitGroup
	jobs := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := range jobs {
				if pt, hit := rc.CastRay(source, targets[k]); hit {
					out.SetRow(k, pt)
				}
			}
		}()
	}
	for k := range targets {
		jobs <- k
	}
	close(jobs)
	wg.Wait()
	return out
}

// MinimumDistance returns the Euclidean distance from pt to the nearest point
// on any triangle of the bound mesh.
func (rc *RayCaster) MinimumDistance(pt []float64) float64 {
	rc.refresh()
	return rc.tree.minDistance([3]float64{pt[0], pt[1], pt[2]})
}
