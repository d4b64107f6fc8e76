package explore

import (
	"errors"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/soniakeys/meeus/julian"
)

// DefaultOmegaStop is the weight sum below which the estimate is considered
// converged.
const DefaultOmegaStop = 1e-2

// Explorer sequences the exploration loop: sensor targeting, ray casting
// against the truth mesh, reconstruction update, next best view repointing
// and trace recording, until the residual weight sum falls below the
// threshold or the iteration cap is hit.
type Explorer struct {
	truth      *MeshData
	caster     *RayCaster
	sensor     *Lidar
	rmesh      *ReconstructMesh
	controller *AttitudeController
	rec        Recorder
	state      State

	ThetaMax  float64
	OmegaStop float64
	Dist      float64
	MaxIter   int // 0 means uncapped

	logger     kitlog.Logger
	iterations int
}

// NewExplorer assembles the loop for one asteroid: the seed ellipsoid is
// meshed, the estimate initialized with unit weights and the initial pose
// pointed at the body origin.
func NewExplorer(cfg AsteroidConfig, truth *MeshData, rec Recorder, logger kitlog.Logger) (*Explorer, error) {
	seed, err := NewSurfMesh(cfg.Axes[0], cfg.Axes[1], cfg.Axes[2], cfg.MinAngle, cfg.MaxRadius, cfg.MaxDistance)
	if err != nil {
		return nil, err
	}
	rmesh, err := NewReconstructMesh(seed.Verts(), seed.Faces())
	if err != nil {
		return nil, err
	}
	controller := NewAttitudeController(kitlog.With(logger, "subsys", "control"))
	e := &Explorer{
		truth:      truth,
		caster:     NewRayCaster(truth),
		sensor:     NewLidar().Dist(cfg.Dist).NumSteps(cfg.NumSteps),
		rmesh:      rmesh,
		controller: controller,
		rec:        rec,
		ThetaMax:   cfg.ThetaMax(),
		OmegaStop:  cfg.OmegaStop,
		Dist:       cfg.Dist,
		logger:     kitlog.With(logger, "subsys", "explore"),
	}
	if e.OmegaStop <= 0 {
		e.OmegaStop = DefaultOmegaStop
	}
	e.state = controller.BodyFixedPointingAttitude(NewState(cfg.InitialPos))
	return e, nil
}

// State returns the current spacecraft state.
func (e *Explorer) State() State {
	return e.state
}

// Estimate returns the reconstruction engine.
func (e *Explorer) Estimate() *ReconstructMesh {
	return e.rmesh
}

// Iterations returns the number of recorded iterations so far.
func (e *Explorer) Iterations() int {
	return e.iterations
}

// Explore runs the loop to convergence. Recorder failures abort; misses and
// origin observations are recoverable and the iteration is still recorded
// with the zero vector sentinel.
func (e *Explorer) Explore() error {
	e.logger.Log("level", "info", "status", "started",
		"jd", julian.TimeToJD(time.Now().UTC()),
		"vertices", len(e.rmesh.Vertices()), "θmax", e.ThetaMax, "ωstop", e.OmegaStop)
	if err := e.rec.WriteTruth(e.truth.Vertices(), e.truth.Faces()); err != nil {
		return err
	}
	if err := e.rec.WriteInitial(e.rmesh.Vertices(), e.rmesh.Faces(), e.rmesh.Weights(), e.state.Vector()); err != nil {
		return err
	}
	for ii := 0; e.MaxIter == 0 || ii < e.MaxIter; ii++ {
		target := e.sensor.DefineTarget(e.state.Pos, e.state.Att, e.Dist)
		intersection, hit := e.caster.CastRay(e.state.Pos, target)
		if hit {
			if err := e.rmesh.SingleUpdate(intersection, e.ThetaMax); err != nil {
				if errors.Is(err, ErrObservationAtOrigin) {
					e.logger.Log("level", "warning", "iteration", ii, "skipped", err)
				} else {
					return err
				}
			}
		} else {
			e.logger.Log("level", "warning", "iteration", ii, "status", "no hit")
		}
		e.state = e.controller.ExploreAsteroid(e.state, e.rmesh)
		if err := e.rec.WriteIteration(ii, e.rmesh.Vertices(), e.rmesh.Weights(), e.state.Vector(), target, intersection); err != nil {
			return err
		}
		e.iterations = ii + 1
		if ws := e.rmesh.WeightSum(); ws <= e.OmegaStop {
			e.logger.Log("level", "notice", "status", "converged", "iterations", e.iterations, "weight_sum", ws)
			return nil
		}
	}
	e.logger.Log("level", "notice", "status", "iteration cap reached", "iterations", e.iterations, "weight_sum", e.rmesh.WeightSum())
	return nil
}
