package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/Faultbox/skyline/internal/engine/lod"
	"github.com/Faultbox/skyline/internal/engine/quality"
	"github.com/Faultbox/skyline/internal/engine/scene"
	"github.com/Faultbox/skyline/pkg/math"
)

func testOptions() Options {
	table := func(scale float32) []lod.Tier {
		return []lod.Tier{
			{Level: 0, MaxDistance: 100 * scale, Capacity: 2},
			{Level: 1, MaxDistance: 500 * scale, Instanced: true},
			{Level: 2, MaxDistance: 1000 * scale, Instanced: true},
		}
	}
	return Options{
		TargetFPS:         60,
		HysteresisRuns:    3,
		EvaluateInterval:  time.Second,
		PartitionInterval: 100 * time.Millisecond,
		MovementEpsilon:   2,
		Levels: map[quality.Level][]lod.Tier{
			quality.Low:    table(0.25),
			quality.Medium: table(0.5),
			quality.High:   table(0.75),
			quality.Ultra:  table(1),
		},
	}
}

func testObjects(distances ...float32) []scene.Object {
	objs := make([]scene.Object, len(distances))
	for i, d := range distances {
		objs[i] = scene.Object{
			ID:        scene.ObjectID(i + 1),
			Position:  math.Vec3{X: d},
			Footprint: math.Vec3{X: 10, Y: 30, Z: 10},
			Material:  scene.Material(i % scene.MaterialCount),
		}
	}
	return objs
}

func TestNewRejectsMalformedTierTable(t *testing.T) {
	opts := testOptions()
	opts.Levels[quality.High] = []lod.Tier{
		{Level: 0, MaxDistance: 500},
		{Level: 1, MaxDistance: 100}, // non-increasing
	}
	_, err := New(opts, nil)
	if err == nil {
		t.Fatal("New() accepted a malformed tier table")
	}
	if !errors.Is(err, lod.ErrInvalidTiers) {
		t.Errorf("error %v does not wrap ErrInvalidTiers", err)
	}
}

func TestNewRejectsMissingLevel(t *testing.T) {
	opts := testOptions()
	delete(opts.Levels, quality.Medium)
	if _, err := New(opts, nil); err == nil {
		t.Fatal("New() accepted a missing quality level table")
	}
}

func TestFrameProducesBatchesAndHeroes(t *testing.T) {
	p, err := New(testOptions(), nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := p.Reload(testObjects(10, 50, 200, 400, 1200)); err != nil {
		t.Fatalf("Reload() error: %v", err)
	}

	out := p.Frame(16.7, math.Vec3{}, time.Unix(0, 0))

	// At startup quality is ultra: tier 0 takes the two nearest as heroes,
	// 200 and 400 land in instanced tier 1, 1200 exceeds 1000 and is culled.
	if out.Metrics.Heroes != 2 {
		t.Errorf("heroes = %d, want 2", out.Metrics.Heroes)
	}
	if out.Metrics.Culled != 1 {
		t.Errorf("culled = %d, want 1", out.Metrics.Culled)
	}
	if out.Metrics.Instances != 2 {
		t.Errorf("instances = %d, want 2", out.Metrics.Instances)
	}
	if out.Metrics.DrawCalls != len(out.Batches)+len(out.Heroes) {
		t.Errorf("draw calls = %d, want batches+heroes = %d",
			out.Metrics.DrawCalls, len(out.Batches)+len(out.Heroes))
	}
	if out.Metrics.Quality != quality.Ultra {
		t.Errorf("quality = %v, want ultra", out.Metrics.Quality)
	}
}

func TestSustainedSlowFramesDowngradeQuality(t *testing.T) {
	p, err := New(testOptions(), nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := p.Reload(testObjects(10, 200, 900)); err != nil {
		t.Fatalf("Reload() error: %v", err)
	}

	// 40ms frames = 25 FPS, far below the 48 FPS downgrade threshold.
	// Evaluations are 1s apart; after 3 the controller must step down once.
	now := time.Unix(0, 0)
	var out FrameOutput
	for i := 0; i < 4; i++ {
		now = now.Add(time.Second)
		out = p.Frame(40, math.Vec3{}, now)
	}
	if out.Metrics.Quality != quality.High {
		t.Errorf("quality after sustained low fps = %v, want high", out.Metrics.Quality)
	}

	// The high table scales distances by 0.75: the object at 900 now
	// exceeds the last tier's 750 and gets culled.
	if out.Metrics.Culled != 1 {
		t.Errorf("culled = %d after downgrade, want 1", out.Metrics.Culled)
	}
}

func TestReloadStartsFreshSession(t *testing.T) {
	p, err := New(testOptions(), nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := p.Reload(testObjects(200, 300)); err != nil {
		t.Fatalf("Reload() error: %v", err)
	}

	out := p.Frame(16.7, math.Vec3{}, time.Unix(0, 0))
	if len(out.Batches) == 0 {
		t.Fatal("expected batches before reload")
	}

	if err := p.Reload(nil); err != nil {
		t.Fatalf("Reload(nil) error: %v", err)
	}
	out = p.Frame(16.7, math.Vec3{}, time.Unix(1, 0))
	if len(out.Batches) != 0 || out.Metrics.Instances != 0 {
		t.Errorf("state survived reload: %d batches, %d instances",
			len(out.Batches), out.Metrics.Instances)
	}
	if out.Metrics.SmoothedFPS == 0 {
		t.Error("sampler produced no estimate after reload")
	}
}

func TestReloadRejectsDuplicateIDs(t *testing.T) {
	p, err := New(testOptions(), nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	objs := testObjects(10, 20)
	objs[1].ID = objs[0].ID
	if err := p.Reload(objs); err == nil {
		t.Error("Reload() accepted duplicate object ids")
	}
}
