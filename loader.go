package explore

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// MeshLoadError reports a failure to read or parse a mesh file.
type MeshLoadError struct {
	Path string
	Err  error
}

func (e MeshLoadError) Error() string {
	return fmt.Sprintf("loading mesh %s: %s", e.Path, e.Err)
}

func (e MeshLoadError) Unwrap() error {
	return e.Err
}

// Load reads a Wavefront OBJ file and returns the mesh. Only the `v` and `f`
// records are interpreted; texture and normal references on faces are
// dropped, negative indices are resolved relative to the vertices seen so
// far, and polygons with more than three corners are fan triangulated.
func Load(path string) (*MeshData, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, MeshLoadError{Path: path, Err: err}
	}
	defer fh.Close()

	var verts [][3]float64
	var faces [][3]int
	scanner := bufio.NewScanner(fh)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, MeshLoadError{Path: path, Err: fmt.Errorf("line %d: vertex needs three coordinates", lineNo)}
			}
			var p [3]float64
			for i := 0; i < 3; i++ {
				val, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, MeshLoadError{Path: path, Err: fmt.Errorf("line %d: %s", lineNo, err)}
				}
				p[i] = val
			}
			verts = append(verts, p)
		case "f":
			if len(fields) < 4 {
				return nil, MeshLoadError{Path: path, Err: fmt.Errorf("line %d: face needs at least three vertices", lineNo)}
			}
			idx := make([]int, len(fields)-1)
			for i, field := range fields[1:] {
				ref := strings.SplitN(field, "/", 2)[0]
				val, err := strconv.Atoi(ref)
				if err != nil {
					return nil, MeshLoadError{Path: path, Err: fmt.Errorf("line %d: %s", lineNo, err)}
				}
				if val < 0 {
					val += len(verts) + 1 // relative reference
				}
				idx[i] = val - 1 // OBJ indices are one based
			}
			for i := 1; i < len(idx)-1; i++ {
				faces = append(faces, [3]int{idx[0], idx[i], idx[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, MeshLoadError{Path: path, Err: err}
	}
	mesh, err := NewMeshData(verts, faces)
	if err != nil {
		return nil, MeshLoadError{Path: path, Err: err}
	}
	return mesh, nil
}

// Save writes the mesh as a triangular Wavefront OBJ file.
func Save(path string, mesh *MeshData) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(fh)
	for _, v := range mesh.Vertices() {
		fmt.Fprintf(w, "v %.17g %.17g %.17g\n", v[0], v[1], v[2])
	}
	for _, f := range mesh.Faces() {
		fmt.Fprintf(w, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1)
	}
	if err := w.Flush(); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}
