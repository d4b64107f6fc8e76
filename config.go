package explore

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/spf13/viper"
)

// AsteroidConfig bundles the per asteroid run parameters. It is read only
// after loading.
type AsteroidConfig struct {
	Name        string
	MinAngle    float64   // minimum facet angle of the seed mesh, degrees
	MaxRadius   float64   // maximum facet circumradius of the seed mesh
	MaxDistance float64   // maximum centroid to surface distance of the seed mesh
	SurfArea    float64   // target surface patch area σ
	Axes        []float64 // ellipsoid semi axes (already halved)
	InitialPos  []float64
	MeshPath    string
	Dist        float64 // sensor stand off distance
	NumSteps    int
	OmegaStop   float64 // weight sum termination threshold
}

// ThetaMax derives the angular update tolerance θ_max = √(σ/a²) from the
// target patch area and the largest semi axis.
func (c AsteroidConfig) ThetaMax() float64 {
	return math.Sqrt(c.SurfArea / (c.Axes[0] * c.Axes[0]))
}

var asteroidDefaults = map[string]map[string]interface{}{
	"castalia": {
		"min_angle":    10.0,
		"max_radius":   0.03,
		"max_distance": 0.5,
		"surf_area":    0.005,
		"axes":         []float64{1.6130 / 2, 0.9810 / 2, 0.8260 / 2},
		"initial_pos":  []float64{1.5, 0, 0},
		"mesh_path":    "data/castalia.obj",
	},
	"geographos": {
		"min_angle":    10.0,
		"max_radius":   0.05,
		"max_distance": 0.5,
		"surf_area":    0.005,
		"axes":         []float64{2.5, 1.0, 1.05},
		"initial_pos":  []float64{5, 0, 0},
		"mesh_path":    "data/geographos.obj",
	},
	"golevka": {
		"min_angle":    10.0,
		"max_radius":   0.015,
		"max_distance": 0.5,
		"surf_area":    0.005,
		"axes":         []float64{0.4, 0.4, 0.4},
		"initial_pos":  []float64{1, 0, 0},
		"mesh_path":    "data/golevka.obj",
	},
	"52760": {
		"min_angle":    10.0,
		"max_radius":   0.05,
		"max_distance": 0.5,
		"surf_area":    0.005,
		"axes":         []float64{0.55, 0.55, 0.55},
		"initial_pos":  []float64{1.5, 0, 0},
		"mesh_path":    "data/52760.obj",
	},
}

// Asteroids lists the bundled configuration names in sorted order.
func Asteroids() []string {
	names := make([]string, 0, len(asteroidDefaults))
	for name := range asteroidDefaults {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadAsteroidConfig returns the bundled configuration for the named
// asteroid. When the EXPLORE_CONFIG environment variable names a directory
// holding explore.toml, values found there override the bundled defaults.
func LoadAsteroidConfig(name string) (AsteroidConfig, error) {
	defaults, found := asteroidDefaults[name]
	if !found {
		return AsteroidConfig{}, fmt.Errorf("unknown asteroid %q (supported: %v)", name, Asteroids())
	}
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(name+"."+key, val)
	}
	v.SetDefault(name+".dist", 5.0)
	v.SetDefault(name+".num_steps", 3)
	v.SetDefault(name+".omega_stop", 1e-2)
	if confPath := os.Getenv("EXPLORE_CONFIG"); confPath != "" {
		v.SetConfigName("explore")
		v.AddConfigPath(confPath)
		if err := v.ReadInConfig(); err != nil {
			return AsteroidConfig{}, fmt.Errorf("%s/explore.toml: %s", confPath, err)
		}
	}
	cfg := AsteroidConfig{
		Name:        name,
		MinAngle:    v.GetFloat64(name + ".min_angle"),
		MaxRadius:   v.GetFloat64(name + ".max_radius"),
		MaxDistance: v.GetFloat64(name + ".max_distance"),
		SurfArea:    v.GetFloat64(name + ".surf_area"),
		Axes:        floatSlice(v.Get(name + ".axes")),
		InitialPos:  floatSlice(v.Get(name + ".initial_pos")),
		MeshPath:    v.GetString(name + ".mesh_path"),
		Dist:        v.GetFloat64(name + ".dist"),
		NumSteps:    v.GetInt(name + ".num_steps"),
		OmegaStop:   v.GetFloat64(name + ".omega_stop"),
	}
	if len(cfg.Axes) != 3 || len(cfg.InitialPos) != 3 {
		return AsteroidConfig{}, fmt.Errorf("asteroid %q: axes and initial_pos must have three components", name)
	}
	return cfg, nil
}

// floatSlice coerces the viper value into []float64, accepting both the
// in code defaults and TOML array overrides.
func floatSlice(val interface{}) []float64 {
	switch s := val.(type) {
	case []float64:
		return s
	case []interface{}:
		out := make([]float64, len(s))
		for i, item := range s {
			switch f := item.(type) {
			case float64:
				out[i] = f
			case int64:
				out[i] = float64(f)
			case int:
				out[i] = float64(f)
			}
		}
		return out
	}
	return nil
}
