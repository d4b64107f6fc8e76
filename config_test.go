package explore

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestLoadAsteroidConfigBundles(t *testing.T) {
	cases := []struct {
		name       string
		maxRadius  float64
		axes       []float64
		initialPos []float64
	}{
		{"castalia", 0.03, []float64{1.6130 / 2, 0.9810 / 2, 0.8260 / 2}, []float64{1.5, 0, 0}},
		{"geographos", 0.05, []float64{2.5, 1.0, 1.05}, []float64{5, 0, 0}},
		{"golevka", 0.015, []float64{0.4, 0.4, 0.4}, []float64{1, 0, 0}},
		{"52760", 0.05, []float64{0.55, 0.55, 0.55}, []float64{1.5, 0, 0}},
	}
	for _, tc := range cases {
		cfg, err := LoadAsteroidConfig(tc.name)
		if err != nil {
			t.Fatalf("%s: %s", tc.name, err)
		}
		if cfg.MinAngle != 10 || cfg.MaxDistance != 0.5 || cfg.SurfArea != 0.005 {
			t.Fatalf("%s: common tolerances wrong: %+v", tc.name, cfg)
		}
		if cfg.MaxRadius != tc.maxRadius {
			t.Fatalf("%s: max radius = %f", tc.name, cfg.MaxRadius)
		}
		if !vectorsEqual(cfg.Axes, tc.axes) {
			t.Fatalf("%s: axes = %v", tc.name, cfg.Axes)
		}
		if !vectorsEqual(cfg.InitialPos, tc.initialPos) {
			t.Fatalf("%s: initial position = %v", tc.name, cfg.InitialPos)
		}
		if cfg.Dist != 5 || cfg.NumSteps != 3 || cfg.OmegaStop != 1e-2 {
			t.Fatalf("%s: sensor/loop defaults wrong: %+v", tc.name, cfg)
		}
	}
}

func TestThetaMax(t *testing.T) {
	cfg, err := LoadAsteroidConfig("castalia")
	if err != nil {
		t.Fatal(err)
	}
	a := cfg.Axes[0]
	if !floats.EqualWithinAbs(cfg.ThetaMax(), math.Sqrt(0.005/(a*a)), 1e-15) {
		t.Fatalf("θmax = %f", cfg.ThetaMax())
	}
}

func TestLoadAsteroidConfigUnknown(t *testing.T) {
	if _, err := LoadAsteroidConfig("ceres"); err == nil {
		t.Fatal("unknown asteroid accepted")
	}
}

func TestAsteroidsSorted(t *testing.T) {
	names := Asteroids()
	if len(names) != 4 {
		t.Fatalf("got %d bundled asteroids", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatal("names are not sorted")
		}
	}
}
