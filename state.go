package explore

import (
	"fmt"

	"github.com/gonum/matrix/mat64"
)

// State is the kinematic state of the spacecraft in the asteroid fixed frame:
// position, velocity, attitude and angular velocity. The attitude maps body
// fixed axes into the asteroid frame; its first column is the sensor
// boresight.
type State struct {
	Pos    []float64
	Vel    []float64
	Att    *mat64.Dense
	AngVel []float64
}

// NewState returns a state at rest at the given position with an identity attitude.
func NewState(pos []float64) State {
	return State{
		Pos:    []float64{pos[0], pos[1], pos[2]},
		Vel:    make([]float64, 3),
		Att:    DenseIdentity(3),
		AngVel: make([]float64, 3),
	}
}

// Vector serializes the state as the 18 element row p(3), v(3), R row major (9), ω(3).
func (s State) Vector() []float64 {
	v := make([]float64, 18)
	copy(v[0:3], s.Pos)
	copy(v[3:6], s.Vel)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v[6+3*i+j] = s.Att.At(i, j)
		}
	}
	copy(v[15:18], s.AngVel)
	return v
}

func (s State) String() string {
	return fmt.Sprintf("State{p=%v v=%v ω=%v}", s.Pos, s.Vel, s.AngVel)
}
