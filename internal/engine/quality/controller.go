// Package quality adjusts a discrete quality level from the smoothed frame
// rate. Each level selects a full LOD tier table; the controller itself only
// decides which level is active.
package quality

import (
	"fmt"
	"math"
	"time"
)

// Level is one of the ordered quality levels.
type Level int

const (
	Low Level = iota
	Medium
	High
	Ultra

	// LevelCount is the number of quality levels.
	LevelCount = 4
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	case Ultra:
		return "ultra"
	default:
		return "unknown"
	}
}

// ParseLevel resolves a level name as used in config files.
func ParseLevel(name string) (Level, error) {
	switch name {
	case "low":
		return Low, nil
	case "medium":
		return Medium, nil
	case "high":
		return High, nil
	case "ultra":
		return Ultra, nil
	default:
		return Low, fmt.Errorf("unknown quality level %q", name)
	}
}

// Thresholds relative to the target FPS. A downgrade requires the smoothed
// rate to sit below target*downgradeFactor for a full run; an upgrade
// requires it above target*upgradeFactor. The gap between the two bands is
// dead zone, which together with the run requirement prevents flicker
// between adjacent levels.
const (
	downgradeFactor = 0.8
	upgradeFactor   = 1.1
)

// Controller owns the current quality level. Evaluate is rate-limited
// internally, so it is safe to call every frame.
type Controller struct {
	targetFPS float64
	runs      int // consecutive qualifying evaluations required (K)
	interval  time.Duration

	level    Level
	lowRun   int
	highRun  int
	lastEval time.Time
}

// NewController creates a controller starting at the highest level.
// runs below 1 is clamped to 1; a non-positive target disables downgrades.
func NewController(targetFPS float64, runs int, interval time.Duration) *Controller {
	if runs < 1 {
		runs = 1
	}
	return &Controller{
		targetFPS: targetFPS,
		runs:      runs,
		interval:  interval,
		level:     Ultra,
	}
}

// Level returns the current quality level.
func (c *Controller) Level() Level {
	return c.level
}

// SetLevel forces a level, clamped to the valid range.
func (c *Controller) SetLevel(l Level) {
	if l < Low {
		l = Low
	}
	if l > Ultra {
		l = Ultra
	}
	c.level = l
	c.lowRun = 0
	c.highRun = 0
}

// Evaluate consumes a smoothed FPS sample and returns the active level and
// whether it changed. Samples arriving before the evaluation interval has
// elapsed are ignored. NaN and negative rates count as below threshold.
func (c *Controller) Evaluate(now time.Time, smoothedFPS float64) (Level, bool) {
	if !c.lastEval.IsZero() && now.Sub(c.lastEval) < c.interval {
		return c.level, false
	}
	c.lastEval = now

	if math.IsNaN(smoothedFPS) || smoothedFPS < 0 {
		smoothedFPS = 0
	}

	switch {
	case smoothedFPS < c.targetFPS*downgradeFactor:
		c.lowRun++
		c.highRun = 0
	case smoothedFPS > c.targetFPS*upgradeFactor:
		c.highRun++
		c.lowRun = 0
	default:
		c.lowRun = 0
		c.highRun = 0
	}

	if c.lowRun >= c.runs {
		c.lowRun = 0
		c.highRun = 0
		if c.level > Low {
			c.level--
			return c.level, true
		}
		return c.level, false
	}

	if c.highRun >= c.runs {
		c.lowRun = 0
		c.highRun = 0
		if c.level < Ultra {
			c.level++
			return c.level, true
		}
		return c.level, false
	}

	return c.level, false
}

// Reset restores the controller to its startup state.
func (c *Controller) Reset() {
	c.level = Ultra
	c.lowRun = 0
	c.highRun = 0
	c.lastEval = time.Time{}
}
