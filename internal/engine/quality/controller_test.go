package quality

import (
	"math"
	"testing"
	"time"
)

// evalSeq feeds samples spaced one interval apart so every call evaluates.
func evalSeq(c *Controller, interval time.Duration, samples []float64) []Level {
	now := time.Unix(0, 0)
	levels := make([]Level, 0, len(samples))
	for _, fps := range samples {
		now = now.Add(interval)
		lvl, _ := c.Evaluate(now, fps)
		levels = append(levels, lvl)
	}
	return levels
}

func TestDowngradeAfterSustainedLowFPS(t *testing.T) {
	c := NewController(60, 3, time.Second)

	// [25,25,25,25,25] at target 60 with K=3 downgrades exactly once, on
	// the 3rd sample, and holds.
	levels := evalSeq(c, time.Second, []float64{25, 25, 25, 25, 25})

	want := []Level{Ultra, Ultra, High, High, High}
	for i := range want {
		if levels[i] != want[i] {
			t.Errorf("sample %d: level = %v, want %v", i, levels[i], want[i])
		}
	}
}

func TestUpgradeAfterSustainedHighFPS(t *testing.T) {
	c := NewController(60, 3, time.Second)
	c.SetLevel(Low)

	levels := evalSeq(c, time.Second, []float64{120, 120, 120, 120, 120, 120})

	// Upgrades on samples 3 and 6.
	want := []Level{Low, Low, Medium, Medium, Medium, High}
	for i := range want {
		if levels[i] != want[i] {
			t.Errorf("sample %d: level = %v, want %v", i, levels[i], want[i])
		}
	}
}

func TestOscillationNeverTransitions(t *testing.T) {
	c := NewController(60, 3, time.Second)
	c.SetLevel(Medium)

	// Alternating low/high every sample: no run of K qualifying samples
	// ever completes, so the level must never move.
	samples := make([]float64, 40)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = 20
		} else {
			samples[i] = 120
		}
	}
	for i, lvl := range evalSeq(c, time.Second, samples) {
		if lvl != Medium {
			t.Fatalf("sample %d: level = %v, oscillating input caused a transition", i, lvl)
		}
	}
}

func TestDeadZoneResetsRuns(t *testing.T) {
	c := NewController(60, 3, time.Second)

	// Two low samples, then one in the dead zone, then two more low:
	// no full run of 3 completes.
	levels := evalSeq(c, time.Second, []float64{25, 25, 60, 25, 25})
	for i, lvl := range levels {
		if lvl != Ultra {
			t.Errorf("sample %d: level = %v, incomplete run caused a transition", i, lvl)
		}
	}
}

func TestClampAtFloorAndCeiling(t *testing.T) {
	c := NewController(60, 2, time.Second)
	c.SetLevel(Low)

	for i, lvl := range evalSeq(c, time.Second, []float64{10, 10, 10, 10}) {
		if lvl != Low {
			t.Errorf("sample %d: level = %v, dropped below floor", i, lvl)
		}
	}

	c.SetLevel(Ultra)
	for i, lvl := range evalSeq(c, time.Second, []float64{200, 200, 200, 200}) {
		if lvl != Ultra {
			t.Errorf("sample %d: level = %v, rose above ceiling", i, lvl)
		}
	}
}

func TestEvaluateIntervalGating(t *testing.T) {
	c := NewController(60, 1, time.Second)

	now := time.Unix(100, 0)
	if _, changed := c.Evaluate(now, 10); !changed {
		t.Error("first evaluation with K=1 and low fps should downgrade")
	}
	// Within the interval: sample must be ignored entirely.
	if lvl, changed := c.Evaluate(now.Add(100*time.Millisecond), 10); changed || lvl != High {
		t.Errorf("mid-interval evaluation changed state: level %v changed %v", lvl, changed)
	}
	// After the interval: evaluated again.
	if lvl, _ := c.Evaluate(now.Add(time.Second), 10); lvl != Medium {
		t.Errorf("post-interval evaluation level = %v, want medium", lvl)
	}
}

func TestDegenerateFPSTreatedAsLow(t *testing.T) {
	c := NewController(60, 2, time.Second)

	levels := evalSeq(c, time.Second, []float64{math.NaN(), -10})
	if levels[1] != High {
		t.Errorf("NaN/negative fps did not count toward downgrade, level = %v", levels[1])
	}
}

func TestSetLevelClamps(t *testing.T) {
	c := NewController(60, 3, time.Second)
	c.SetLevel(Level(99))
	if c.Level() != Ultra {
		t.Errorf("SetLevel(99) = %v, want ultra", c.Level())
	}
	c.SetLevel(Level(-5))
	if c.Level() != Low {
		t.Errorf("SetLevel(-5) = %v, want low", c.Level())
	}
}
