package explore

import (
	"fmt"
	"sync/atomic"
)

// MeshMalformedError reports a face referencing an invalid vertex.
type MeshMalformedError struct {
	Face   int
	Reason string
}

func (e MeshMalformedError) Error() string {
	return fmt.Sprintf("mesh malformed: face %d: %s", e.Face, e.Reason)
}

// MeshData owns the vertices and faces of a triangular surface mesh along
// with the generation counter consumers use to notice replacements. All
// coordinates are in the asteroid fixed frame.
type MeshData struct {
	vertices [][3]float64
	faces    [][3]int
	gen      uint64
}

// NewMeshData validates the faces against the vertices and returns the mesh.
// Every face index must be in [0, len(V)) and the three indices of a face
// must be distinct.
func NewMeshData(V [][3]float64, F [][3]int) (*MeshData, error) {
	if err := validateFaces(V, F); err != nil {
		return nil, err
	}
	return &MeshData{vertices: V, faces: F, gen: 1}, nil
}

func validateFaces(V [][3]float64, F [][3]int) error {
	for i, f := range F {
		for _, idx := range f {
			if idx < 0 || idx >= len(V) {
				return MeshMalformedError{Face: i, Reason: fmt.Sprintf("vertex index %d out of range [0, %d)", idx, len(V))}
			}
		}
		if f[0] == f[1] || f[1] == f[2] || f[0] == f[2] {
			return MeshMalformedError{Face: i, Reason: fmt.Sprintf("duplicate vertex indices %v", f)}
		}
	}
	return nil
}

// Vertices returns the vertex table. Callers must not mutate it.
func (m *MeshData) Vertices() [][3]float64 {
	return m.vertices
}

// Faces returns the face table. Callers must not mutate it.
func (m *MeshData) Faces() [][3]int {
	return m.faces
}

// NumVertices returns the vertex count.
func (m *MeshData) NumVertices() int {
	return len(m.vertices)
}

// NumFaces returns the face count.
func (m *MeshData) NumFaces() int {
	return len(m.faces)
}

// Triangle returns the three corner points of face i.
func (m *MeshData) Triangle(i int) (a, b, c [3]float64) {
	f := m.faces[i]
	return m.vertices[f[0]], m.vertices[f[1]], m.vertices[f[2]]
}

// Centroid returns the centroid of face i.
func (m *MeshData) Centroid(i int) [3]float64 {
	a, b, c := m.Triangle(i)
	return [3]float64{(a[0] + b[0] + c[0]) / 3, (a[1] + b[1] + c[1]) / 3, (a[2] + b[2] + c[2]) / 3}
}

// Replace swaps in a new vertex and face table after validation, invalidating
// any derived spatial index via the generation counter. Replacement must not
// race with in flight queries.
func (m *MeshData) Replace(V [][3]float64, F [][3]int) error {
	if err := validateFaces(V, F); err != nil {
		return err
	}
	m.vertices = V
	m.faces = F
	atomic.AddUint64(&m.gen, 1)
	return nil
}

// Generation returns the replacement counter. It changes iff the mesh was replaced.
func (m *MeshData) Generation() uint64 {
	return atomic.LoadUint64(&m.gen)
}
