package explore

import (
	kitlog "github.com/go-kit/kit/log"
)

// AttitudeController implements the greedy next best view policy: point the
// sensor boresight at the estimate vertex with the highest residual
// uncertainty. The system is kinematic only, so position is held and the
// desired velocity and angular velocity are zero.
type AttitudeController struct {
	logger kitlog.Logger
}

// NewAttitudeController returns a controller logging through the given logger.
func NewAttitudeController(logger kitlog.Logger) *AttitudeController {
	return &AttitudeController{logger: logger}
}

// ExploreAsteroid returns the desired state for the next measurement: same
// position, attitude re-pointed at the current maximum weight vertex of the
// estimate (smallest index wins ties).
func (c *AttitudeController) ExploreAsteroid(state State, rm *ReconstructMesh) State {
	idx, v := rm.MaxWeightVertex()
	if c.logger != nil {
		c.logger.Log("level", "debug", "target", idx, "weight", rm.Weights()[idx])
	}
	desired := NewState(state.Pos)
	desired.Att = PointingAttitude(state.Pos, v[:])
	return desired
}

// BodyFixedPointingAttitude returns the state re-pointed at the asteroid
// origin, used to orient the very first pose before any observation.
func (c *AttitudeController) BodyFixedPointingAttitude(state State) State {
	desired := NewState(state.Pos)
	desired.Att = PointingAttitude(state.Pos, []float64{0, 0, 0})
	return desired
}
