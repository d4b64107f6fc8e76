package explore

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// Lidar models the ranging sensor. The boresight is the body fixed view axis
// (+x by convention); the fan of unit vectors spanning the field of view is
// precomputed for multi ray casts, although the exploration loop itself only
// uses the single boresight ray.
type Lidar struct {
	viewAxis []float64
	upAxis   []float64
	fov      []float64 // horizontal, vertical half angles in radians
	dist     float64
	numSteps int
	fan      [][]float64 // numSteps² unit vectors in the body frame
}

// NewLidar returns a sensor with the +x view axis, +z up axis, a 7 degree
// half field of view and a 3×3 target fan.
func NewLidar() *Lidar {
	l := &Lidar{
		viewAxis: []float64{1, 0, 0},
		upAxis:   []float64{0, 0, 1},
		fov:      []float64{Deg2rad(7), Deg2rad(7)},
		dist:     1,
		numSteps: 3,
	}
	l.buildFan()
	return l
}

// Dist sets the stand off distance and returns the sensor for chaining.
func (l *Lidar) Dist(d float64) *Lidar {
	l.dist = d
	return l
}

// NumSteps sets the fan resolution per axis and returns the sensor for chaining.
func (l *Lidar) NumSteps(n int) *Lidar {
	if n < 1 {
		n = 1
	}
	l.numSteps = n
	l.buildFan()
	return l
}

// ViewAxis sets the body fixed boresight and returns the sensor for chaining.
func (l *Lidar) ViewAxis(v []float64) *Lidar {
	l.viewAxis = unit(v)
	l.buildFan()
	return l
}

// buildFan spans the field of view with numSteps² unit vectors around the
// boresight, ordered by elevation then azimuth.
func (l *Lidar) buildFan() {
	right := unit(cross(l.upAxis, l.viewAxis))
	up := cross(l.viewAxis, right)
	n := l.numSteps
	l.fan = make([][]float64, 0, n*n)
	for i := 0; i < n; i++ {
		el := fanAngle(l.fov[1], i, n)
		for j := 0; j < n; j++ {
			az := fanAngle(l.fov[0], j, n)
			sEl, cEl := math.Sincos(el)
			sAz, cAz := math.Sincos(az)
			dir := make([]float64, 3)
			for k := 0; k < 3; k++ {
				dir[k] = cEl*cAz*l.viewAxis[k] + cEl*sAz*right[k] + sEl*up[k]
			}
			l.fan = append(l.fan, dir)
		}
	}
}

// fanAngle spreads step i of n across [-half, half], degenerating to the
// boresight for a single step.
func fanAngle(half float64, i, n int) float64 {
	if n == 1 {
		return 0
	}
	return -half + 2*half*float64(i)/float64(n-1)
}

// DefineTarget returns the ray target pos + dist·R·ê_view for the given
// attitude. Pure function of its inputs.
func (l *Lidar) DefineTarget(pos []float64, att *mat64.Dense, dist float64) []float64 {
	view := MxV33(att, l.viewAxis)
	return []float64{pos[0] + dist*view[0], pos[1] + dist*view[1], pos[2] + dist*view[2]}
}

// DefineTargets returns one target per fan direction at the given stand off
// distance, rotated by the attitude. The loop does not consume these; they
// feed multi ray casts through RayCaster.CastArray.
func (l *Lidar) DefineTargets(pos []float64, att *mat64.Dense, dist float64) [][]float64 {
	targets := make([][]float64, len(l.fan))
	for i, dir := range l.fan {
		rotated := MxV33(att, dir)
		targets[i] = []float64{pos[0] + dist*rotated[0], pos[1] + dist*rotated[1], pos[2] + dist*rotated[2]}
	}
	return targets
}

// RotateFOV returns the fan rotated into the asteroid frame by the attitude,
// one unit vector per row.
func (l *Lidar) RotateFOV(att *mat64.Dense) *mat64.Dense {
	out := mat64.NewDense(len(l.fan), 3, nil)
	for i, dir := range l.fan {
		out.SetRow(i, MxV33(att, dir))
	}
	return out
}
