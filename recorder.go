package explore

import (
	"fmt"
	"strconv"

	"gonum.org/v1/hdf5"
)

// Recorder persists the exploration trace: root datasets for the truth and
// the initial estimate, then one dataset per iteration in each group, named
// by the decimal iteration index.
type Recorder interface {
	WriteTruth(verts [][3]float64, faces [][3]int) error
	WriteInitial(verts [][3]float64, faces [][3]int, weights, state []float64) error
	WriteIteration(ii int, verts [][3]float64, weights, state, target, intersection []float64) error
	Close() error
}

// RecorderIOError wraps a recorder write failure. It is fatal to the loop.
type RecorderIOError struct {
	Op  string
	Err error
}

func (e RecorderIOError) Error() string {
	return fmt.Sprintf("recorder: %s: %s", e.Op, e.Err)
}

func (e RecorderIOError) Unwrap() error {
	return e.Err
}

// HDF5Recorder writes the trace into an HDF5 file with per iteration groups
// reconstructed_vertex, reconstructed_weight, state, targets, intersections
// and the reserved (never populated) volume group.
type HDF5Recorder struct {
	file   *hdf5.File
	groups map[string]*hdf5.Group
}

var iterationGroups = []string{
	"reconstructed_vertex",
	"reconstructed_weight",
	"state",
	"targets",
	"intersections",
	"volume",
}

// NewHDF5Recorder creates (truncating) the output file and the iteration groups.
func NewHDF5Recorder(path string) (*HDF5Recorder, error) {
	file, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, RecorderIOError{Op: "create " + path, Err: err}
	}
	rec := &HDF5Recorder{file: file, groups: make(map[string]*hdf5.Group, len(iterationGroups))}
	for _, name := range iterationGroups {
		g, err := file.CreateGroup(name)
		if err != nil {
			file.Close()
			return nil, RecorderIOError{Op: "create group " + name, Err: err}
		}
		rec.groups[name] = g
	}
	return rec, nil
}

type datasetCreator interface {
	CreateDataset(name string, dtype *hdf5.Datatype, dspace *hdf5.Dataspace) (*hdf5.Dataset, error)
}

func writeFloats(dst datasetCreator, name string, data []float64, rows, cols int) error {
	dims := []uint{uint(rows), uint(cols)}
	dspace, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return err
	}
	defer dspace.Close()
	dset, err := dst.CreateDataset(name, hdf5.T_NATIVE_DOUBLE, dspace)
	if err != nil {
		return err
	}
	defer dset.Close()
	return dset.Write(&data)
}

func writeInts(dst datasetCreator, name string, data []int32, rows, cols int) error {
	dims := []uint{uint(rows), uint(cols)}
	dspace, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return err
	}
	defer dspace.Close()
	dset, err := dst.CreateDataset(name, hdf5.T_NATIVE_INT32, dspace)
	if err != nil {
		return err
	}
	defer dset.Close()
	return dset.Write(&data)
}

func flattenVerts(verts [][3]float64) []float64 {
	flat := make([]float64, 0, len(verts)*3)
	for _, v := range verts {
		flat = append(flat, v[0], v[1], v[2])
	}
	return flat
}

func flattenFaces(faces [][3]int) []int32 {
	flat := make([]int32, 0, len(faces)*3)
	for _, f := range faces {
		flat = append(flat, int32(f[0]), int32(f[1]), int32(f[2]))
	}
	return flat
}

// WriteTruth records the ground truth mesh at the file root.
func (r *HDF5Recorder) WriteTruth(verts [][3]float64, faces [][3]int) error {
	if err := writeFloats(r.file, "truth_vertex", flattenVerts(verts), len(verts), 3); err != nil {
		return RecorderIOError{Op: "write truth_vertex", Err: err}
	}
	if err := writeInts(r.file, "truth_faces", flattenFaces(faces), len(faces), 3); err != nil {
		return RecorderIOError{Op: "write truth_faces", Err: err}
	}
	return nil
}

// WriteInitial records the seed estimate, its weights and the initial state
// at the file root.
func (r *HDF5Recorder) WriteInitial(verts [][3]float64, faces [][3]int, weights, state []float64) error {
	if err := writeFloats(r.file, "initial_vertex", flattenVerts(verts), len(verts), 3); err != nil {
		return RecorderIOError{Op: "write initial_vertex", Err: err}
	}
	if err := writeInts(r.file, "initial_faces", flattenFaces(faces), len(faces), 3); err != nil {
		return RecorderIOError{Op: "write initial_faces", Err: err}
	}
	if err := writeFloats(r.file, "initial_weight", weights, len(weights), 1); err != nil {
		return RecorderIOError{Op: "write initial_weight", Err: err}
	}
	if err := writeFloats(r.file, "initial_state", state, 1, len(state)); err != nil {
		return RecorderIOError{Op: "write initial_state", Err: err}
	}
	return nil
}

// WriteIteration records one loop step under the decimal iteration index.
func (r *HDF5Recorder) WriteIteration(ii int, verts [][3]float64, weights, state, target, intersection []float64) error {
	name := strconv.Itoa(ii)
	if err := writeFloats(r.groups["reconstructed_vertex"], name, flattenVerts(verts), len(verts), 3); err != nil {
		return RecorderIOError{Op: "write reconstructed_vertex/" + name, Err: err}
	}
	if err := writeFloats(r.groups["reconstructed_weight"], name, weights, len(weights), 1); err != nil {
		return RecorderIOError{Op: "write reconstructed_weight/" + name, Err: err}
	}
	if err := writeFloats(r.groups["state"], name, state, 1, len(state)); err != nil {
		return RecorderIOError{Op: "write state/" + name, Err: err}
	}
	if err := writeFloats(r.groups["targets"], name, target, 1, len(target)); err != nil {
		return RecorderIOError{Op: "write targets/" + name, Err: err}
	}
	if err := writeFloats(r.groups["intersections"], name, intersection, 1, len(intersection)); err != nil {
		return RecorderIOError{Op: "write intersections/" + name, Err: err}
	}
	return nil
}

// Close flushes and closes the file and its groups.
func (r *HDF5Recorder) Close() error {
	for _, g := range r.groups {
		if err := g.Close(); err != nil {
			return RecorderIOError{Op: "close group", Err: err}
		}
	}
	if err := r.file.Close(); err != nil {
		return RecorderIOError{Op: "close file", Err: err}
	}
	return nil
}
