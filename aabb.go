package explore

import (
	"math"
	"sort"
)

const aabbLeafSize = 4

// aabb is an axis aligned bounding box.
type aabb struct {
	min, max [3]float64
}

func emptyAABB() aabb {
	inf := math.Inf(1)
	return aabb{min: [3]float64{inf, inf, inf}, max: [3]float64{-inf, -inf, -inf}}
}

func (b *aabb) extend(p [3]float64) {
	for i := 0; i < 3; i++ {
		if p[i] < b.min[i] {
			b.min[i] = p[i]
		}
		if p[i] > b.max[i] {
			b.max[i] = p[i]
		}
	}
}

func (b *aabb) union(o aabb) {
	b.extend(o.min)
	b.extend(o.max)
}

// hitSlab is the slab test for the parametric ray o + t·d with precomputed
// inverse direction. It reports whether the box overlaps [tMin, tMax].
func (b aabb) hitSlab(o, invD [3]float64, tMin, tMax float64) bool {
	for i := 0; i < 3; i++ {
		t0 := (b.min[i] - o[i]) * invD[i]
		t1 := (b.max[i] - o[i]) * invD[i]
		if invD[i] < 0 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMax < tMin {
			return false
		}
	}
	return true
}

// distanceSq returns the squared distance from p to the box, zero inside.
func (b aabb) distanceSq(p [3]float64) float64 {
	var d2 float64
	for i := 0; i < 3; i++ {
		if p[i] < b.min[i] {
			d := b.min[i] - p[i]
			d2 += d * d
		} else if p[i] > b.max[i] {
			d := p[i] - b.max[i]
			d2 += d * d
		}
	}
	return d2
}

// triangle is a primitive snapshot taken from the mesh at tree build time.
type triangle struct {
	a, b, c [3]float64
}

type aabbNode struct {
	box         aabb
	left, right *aabbNode
	prims       []int // non-nil iff leaf, ascending primitive ids
}

// aabbTree is the spatial index over the triangles of one mesh generation.
// It is immutable after construction and safe for concurrent read traversal.
type aabbTree struct {
	root   *aabbNode
	tris   []triangle
	extent float64
}

// newAABBTree snapshots the mesh triangles and builds the tree by recursive
// median split along the longest centroid extent axis.
func newAABBTree(mesh *MeshData) *aabbTree {
	nf := mesh.NumFaces()
	t := &aabbTree{tris: make([]triangle, nf)}
	boxes := make([]aabb, nf)
	centroids := make([][3]float64, nf)
	world := emptyAABB()
	for i := 0; i < nf; i++ {
		a, b, c := mesh.Triangle(i)
		t.tris[i] = triangle{a, b, c}
		box := emptyAABB()
		box.extend(a)
		box.extend(b)
		box.extend(c)
		boxes[i] = box
		centroids[i] = mesh.Centroid(i)
		world.union(box)
	}
	if nf > 0 {
		diag := sub3(world.max, world.min)
		t.extent = math.Sqrt(dot3(diag, diag))
		ids := make([]int, nf)
		for i := range ids {
			ids[i] = i
		}
		t.root = buildAABBNode(ids, boxes, centroids)
	}
	return t
}

func buildAABBNode(ids []int, boxes []aabb, centroids [][3]float64) *aabbNode {
	node := &aabbNode{box: emptyAABB()}
	for _, id := range ids {
		node.box.union(boxes[id])
	}
	if len(ids) <= aabbLeafSize {
		sort.Ints(ids)
		node.prims = ids
		return node
	}
	// Split on the widest centroid axis; sort by centroid with the primitive
	// id as tie break so the build is deterministic.
	cbox := emptyAABB()
	for _, id := range ids {
		cbox.extend(centroids[id])
	}
	axis := 0
	width := cbox.max[0] - cbox.min[0]
	for i := 1; i < 3; i++ {
		if w := cbox.max[i] - cbox.min[i]; w > width {
			axis, width = i, w
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		ci, cj := centroids[ids[i]][axis], centroids[ids[j]][axis]
		if ci != cj {
			return ci < cj
		}
		return ids[i] < ids[j]
	})
	mid := len(ids) / 2
	node.left = buildAABBNode(ids[:mid], boxes, centroids)
	node.right = buildAABBNode(ids[mid:], boxes, centroids)
	return node
}

// rayTriangle is the Möller–Trumbore ray/triangle test on the parametric ray
// o + t·d. A slightly negative barycentric tolerance keeps rays through
// shared edges and vertices from slipping between adjacent triangles.
func rayTriangle(o, d [3]float64, tri triangle) (float64, bool) {
	const εbary = 1e-12
	e1 := sub3(tri.b, tri.a)
	e2 := sub3(tri.c, tri.a)
	p := cross3(d, e2)
	det := dot3(e1, p)
	if math.Abs(det) < 1e-15 {
		return 0, false
	}
	inv := 1 / det
	s := sub3(o, tri.a)
	u := dot3(s, p) * inv
	if u < -εbary || u > 1+εbary {
		return 0, false
	}
	q := cross3(s, e1)
	v := dot3(d, q) * inv
	if v < -εbary || u+v > 1+εbary {
		return 0, false
	}
	return dot3(e2, q) * inv, true
}

// firstHit returns the smallest t > tMin along o + t·d, with ties broken by
// the smallest primitive id, or false when nothing is hit.
func (t *aabbTree) firstHit(o, d [3]float64, tMin float64) (float64, int, bool) {
	if t.root == nil {
		return 0, -1, false
	}
	invD := [3]float64{1 / d[0], 1 / d[1], 1 / d[2]}
	bestT := math.Inf(1)
	bestID := -1
	t.hitNode(t.root, o, d, invD, tMin, &bestT, &bestID)
	return bestT, bestID, bestID >= 0
}

func (t *aabbTree) hitNode(n *aabbNode, o, d, invD [3]float64, tMin float64, bestT *float64, bestID *int) {
	if !n.box.hitSlab(o, invD, tMin, *bestT) {
		return
	}
	if n.prims != nil {
		for _, id := range n.prims {
			if tt, ok := rayTriangle(o, d, t.tris[id]); ok && tt > tMin {
				if tt < *bestT || (tt == *bestT && id < *bestID) {
					*bestT, *bestID = tt, id
				}
			}
		}
		return
	}
	t.hitNode(n.left, o, d, invD, tMin, bestT, bestID)
	t.hitNode(n.right, o, d, invD, tMin, bestT, bestID)
}

// minDistance returns the Euclidean distance from p to the nearest point on
// any triangle, descending nearer children first and pruning on box distance.
func (t *aabbTree) minDistance(p [3]float64) float64 {
	if t.root == nil {
		return math.Inf(1)
	}
	bestSq := math.Inf(1)
	t.distNode(t.root, p, &bestSq)
	return math.Sqrt(bestSq)
}

func (t *aabbTree) distNode(n *aabbNode, p [3]float64, bestSq *float64) {
	if n.box.distanceSq(p) >= *bestSq {
		return
	}
	if n.prims != nil {
		for _, id := range n.prims {
			q := closestPointTriangle(p, t.tris[id])
			dp := sub3(p, q)
			if d2 := dot3(dp, dp); d2 < *bestSq {
				*bestSq = d2
			}
		}
		return
	}
	dl := n.left.box.distanceSq(p)
	dr := n.right.box.distanceSq(p)
	if dl <= dr {
		t.distNode(n.left, p, bestSq)
		t.distNode(n.right, p, bestSq)
	} else {
		t.distNode(n.right, p, bestSq)
		t.distNode(n.left, p, bestSq)
	}
}

// closestPointTriangle returns the point on the triangle closest to p,
// following the Voronoi region walk from Ericson's Real-Time Collision
// Detection.
func closestPointTriangle(p [3]float64, tri triangle) [3]float64 {
	ab := sub3(tri.b, tri.a)
	ac := sub3(tri.c, tri.a)
	ap := sub3(p, tri.a)
	d1 := dot3(ab, ap)
	d2 := dot3(ac, ap)
	if d1 <= 0 && d2 <= 0 {
		return tri.a
	}
	bp := sub3(p, tri.b)
	d3 := dot3(ab, bp)
	d4 := dot3(ac, bp)
	if d3 >= 0 && d4 <= d3 {
		return tri.b
	}
	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return add3(tri.a, scale3(ab, v))
	}
	cp := sub3(p, tri.c)
	d5 := dot3(ab, cp)
	d6 := dot3(ac, cp)
	if d6 >= 0 && d5 <= d6 {
		return tri.c
	}
	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return add3(tri.a, scale3(ac, w))
	}
	va := d3*d6 - d5*d4
	if va <= 0 && d4-d3 >= 0 && d5-d6 >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return add3(tri.b, scale3(sub3(tri.c, tri.b), w))
	}
	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return add3(tri.a, add3(scale3(ab, v), scale3(ac, w)))
}

func sub3(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func add3(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func scale3(a [3]float64, s float64) [3]float64 {
	return [3]float64{a[0] * s, a[1] * s, a[2] * s}
}

func dot3(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross3(a, b [3]float64) [3]float64 {
	return [3]float64{a[1]*b[2] - a[2]*b[1], a[2]*b[0] - a[0]*b[2], a[0]*b[1] - a[1]*b[0]}
}
