package explore

import (
	"fmt"
	"math"
)

const maxSubdivisions = 10

// SurfMesh generates the seed reconstruction mesh: an icosahedron subdivided
// onto the ellipsoid with semi axes (a, b, c) until every facet satisfies the
// circumradius and centroid to surface tolerances. The minimum facet angle is
// verified against minAngle (degrees) after refinement.
type SurfMesh struct {
	verts [][3]float64
	faces [][3]int
}

// NewSurfMesh refines the seed until every facet has circumradius ≤ maxRadius
// and centroid to surface distance ≤ maxDistance. It fails when the angle
// tolerance cannot be met or the refinement does not converge within the
// subdivision cap.
func NewSurfMesh(a, b, c, minAngle, maxRadius, maxDistance float64) (*SurfMesh, error) {
	if a <= 0 || b <= 0 || c <= 0 {
		return nil, fmt.Errorf("surfmesh: semi axes must be positive, got (%g, %g, %g)", a, b, c)
	}
	dirs, faces := icosahedron()
	for depth := 0; ; depth++ {
		verts := mapToEllipsoid(dirs, a, b, c)
		if withinTolerances(verts, faces, a, b, c, maxRadius, maxDistance) {
			if θ := minFacetAngle(verts, faces); θ < minAngle {
				return nil, fmt.Errorf("surfmesh: minimum facet angle %.3f° below tolerance %.3f°", θ, minAngle)
			}
			return &SurfMesh{verts: verts, faces: faces}, nil
		}
		if depth == maxSubdivisions {
			return nil, fmt.Errorf("surfmesh: tolerances not met after %d subdivisions", maxSubdivisions)
		}
		dirs, faces = subdivide(dirs, faces)
	}
}

// Verts returns the seed vertices.
func (s *SurfMesh) Verts() [][3]float64 {
	return s.verts
}

// Faces returns the seed faces.
func (s *SurfMesh) Faces() [][3]int {
	return s.faces
}

// icosahedron returns the twelve unit directions and twenty faces of a
// regular icosahedron, ordered deterministically.
func icosahedron() ([][3]float64, [][3]int) {
	φ := (1 + math.Sqrt(5)) / 2
	raw := [][3]float64{
		{-1, φ, 0}, {1, φ, 0}, {-1, -φ, 0}, {1, -φ, 0},
		{0, -1, φ}, {0, 1, φ}, {0, -1, -φ}, {0, 1, -φ},
		{φ, 0, -1}, {φ, 0, 1}, {-φ, 0, -1}, {-φ, 0, 1},
	}
	dirs := make([][3]float64, len(raw))
	for i, d := range raw {
		n := math.Sqrt(dot3(d, d))
		dirs[i] = [3]float64{d[0] / n, d[1] / n, d[2] / n}
	}
	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	return dirs, faces
}

// subdivide splits every face into four, caching edge midpoints by vertex
// pair so shared edges produce a single new direction.
func subdivide(dirs [][3]float64, faces [][3]int) ([][3]float64, [][3]int) {
	type edge struct{ lo, hi int }
	midpoints := make(map[edge]int, len(faces)*3/2)
	newDirs := make([][3]float64, len(dirs), len(dirs)+len(faces)*3/2)
	copy(newDirs, dirs)
	midpoint := func(i, j int) int {
		e := edge{i, j}
		if i > j {
			e = edge{j, i}
		}
		if idx, ok := midpoints[e]; ok {
			return idx
		}
		m := add3(dirs[i], dirs[j])
		n := math.Sqrt(dot3(m, m))
		newDirs = append(newDirs, [3]float64{m[0] / n, m[1] / n, m[2] / n})
		midpoints[e] = len(newDirs) - 1
		return len(newDirs) - 1
	}
	newFaces := make([][3]int, 0, len(faces)*4)
	for _, f := range faces {
		ab := midpoint(f[0], f[1])
		bc := midpoint(f[1], f[2])
		ca := midpoint(f[2], f[0])
		newFaces = append(newFaces,
			[3]int{f[0], ab, ca},
			[3]int{f[1], bc, ab},
			[3]int{f[2], ca, bc},
			[3]int{ab, bc, ca})
	}
	return newDirs, newFaces
}

// mapToEllipsoid scales unit sphere directions onto the ellipsoid.
func mapToEllipsoid(dirs [][3]float64, a, b, c float64) [][3]float64 {
	verts := make([][3]float64, len(dirs))
	for i, d := range dirs {
		verts[i] = [3]float64{a * d[0], b * d[1], c * d[2]}
	}
	return verts
}

func withinTolerances(verts [][3]float64, faces [][3]int, a, b, c, maxRadius, maxDistance float64) bool {
	for _, f := range faces {
		va, vb, vc := verts[f[0]], verts[f[1]], verts[f[2]]
		if circumradius(va, vb, vc) > maxRadius {
			return false
		}
		g := [3]float64{(va[0] + vb[0] + vc[0]) / 3, (va[1] + vb[1] + vc[1]) / 3, (va[2] + vb[2] + vc[2]) / 3}
		if centroidSurfaceDistance(g, a, b, c) > maxDistance {
			return false
		}
	}
	return true
}

// circumradius of the triangle (a·b·c)/(4·Area).
func circumradius(a, b, c [3]float64) float64 {
	ab := sub3(b, a)
	ac := sub3(c, a)
	bc := sub3(c, b)
	area2 := cross3(ab, ac)
	area := math.Sqrt(dot3(area2, area2)) // twice the triangle area
	if area == 0 {
		return math.Inf(1)
	}
	la := math.Sqrt(dot3(ab, ab))
	lb := math.Sqrt(dot3(ac, ac))
	lc := math.Sqrt(dot3(bc, bc))
	return la * lb * lc / (2 * area)
}

// centroidSurfaceDistance measures how far the facet centroid sits from the
// ellipsoid surface along its radial direction.
func centroidSurfaceDistance(g [3]float64, a, b, c float64) float64 {
	q := (g[0]/a)*(g[0]/a) + (g[1]/b)*(g[1]/b) + (g[2]/c)*(g[2]/c)
	if q == 0 {
		return math.Min(a, math.Min(b, c))
	}
	s := 1 / math.Sqrt(q)
	return math.Abs(1-s) * math.Sqrt(dot3(g, g))
}

// minFacetAngle returns the smallest interior angle over all facets, in degrees.
func minFacetAngle(verts [][3]float64, faces [][3]int) float64 {
	θmin := 180.0
	for _, f := range faces {
		a, b, c := verts[f[0]], verts[f[1]], verts[f[2]]
		for _, corner := range [][3][3]float64{{a, b, c}, {b, c, a}, {c, a, b}} {
			u := sub3(corner[1], corner[0])
			v := sub3(corner[2], corner[0])
			cosθ := dot3(u, v) / (math.Sqrt(dot3(u, u)) * math.Sqrt(dot3(v, v)))
			if cosθ > 1 {
				cosθ = 1
			} else if cosθ < -1 {
				cosθ = -1
			}
			if θ := math.Acos(cosθ) / deg2rad; θ < θmin {
				θmin = θ
			}
		}
	}
	return θmin
}
