// Package pipeline runs the per-frame LOD chain: performance sampler,
// adaptive quality controller, distance partitioner, batch manager. All
// four run synchronously inside the render loop; each stage's output is
// read only by the next stage.
package pipeline

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/skyline/internal/engine/batch"
	"github.com/Faultbox/skyline/internal/engine/lod"
	"github.com/Faultbox/skyline/internal/engine/perf"
	"github.com/Faultbox/skyline/internal/engine/quality"
	"github.com/Faultbox/skyline/internal/engine/scene"
	"github.com/Faultbox/skyline/pkg/math"
)

// Options configures the pipeline. Every quality level must carry a valid
// tier table; validation failures are fatal at construction time.
type Options struct {
	TargetFPS         float64
	HysteresisRuns    int
	EvaluateInterval  time.Duration
	PartitionInterval time.Duration
	MovementEpsilon   float32
	Levels            map[quality.Level][]lod.Tier
}

// Metrics is the read-only per-frame telemetry for display layers.
type Metrics struct {
	SmoothedFPS float64
	FrameMs     float64
	Quality     quality.Level
	Batches     int
	DrawCalls   int // instanced batches + individual hero draws
	Instances   int
	Heroes      int
	Culled      int
}

// FrameOutput is what the render backend consumes each frame.
type FrameOutput struct {
	Batches []*batch.Batch
	Heroes  []batch.Handle
	Metrics Metrics
}

// Pipeline owns the four LOD components and the current object set.
type Pipeline struct {
	opts    Options
	sampler *perf.Sampler
	ctrl    *quality.Controller
	part    *lod.Partitioner
	batches *batch.Manager
	set     *scene.Set
	log     *zap.Logger
}

// New validates the tier tables and builds the pipeline. A table must be
// present for every quality level.
func New(opts Options, log *zap.Logger) (*Pipeline, error) {
	if log == nil {
		log = zap.NewNop()
	}
	for lvl := quality.Low; lvl <= quality.Ultra; lvl++ {
		tiers, ok := opts.Levels[lvl]
		if !ok {
			return nil, fmt.Errorf("%w: no tier table for quality level %s", lod.ErrInvalidTiers, lvl)
		}
		if err := lod.ValidateTiers(tiers); err != nil {
			return nil, fmt.Errorf("quality level %s: %w", lvl, err)
		}
	}

	empty, _ := scene.NewSet(nil)
	return &Pipeline{
		opts:    opts,
		sampler: perf.NewSampler(),
		ctrl:    quality.NewController(opts.TargetFPS, opts.HysteresisRuns, opts.EvaluateInterval),
		part:    lod.NewPartitioner(opts.MovementEpsilon, opts.PartitionInterval),
		batches: batch.NewManager(log),
		set:     empty,
		log:     log,
	}, nil
}

// Reload replaces the object set wholesale and starts a fresh session:
// batches are discarded, the sampler window cleared, and partitioning
// re-run from scratch. Incremental patching of stale state is deliberately
// not supported.
func (p *Pipeline) Reload(objects []scene.Object) error {
	set, err := scene.NewSet(objects)
	if err != nil {
		return fmt.Errorf("reloading scene content: %w", err)
	}
	p.set = set
	p.sampler.Reset()
	p.part.Reset()
	p.batches.Reset()
	p.log.Info("scene content reloaded", zap.Int("objects", set.Len()))
	return nil
}

// Set returns the current object set.
func (p *Pipeline) Set() *scene.Set {
	return p.set
}

// Quality returns the current quality level.
func (p *Pipeline) Quality() quality.Level {
	return p.ctrl.Level()
}

// Frame advances the pipeline by one frame: records timing, re-evaluates
// quality, partitions by distance, and updates batches. The returned
// output is valid until the next Frame call.
func (p *Pipeline) Frame(frameDurationMs float64, viewer math.Vec3, now time.Time) FrameOutput {
	fps := p.sampler.RecordFrame(frameDurationMs)

	lvl, changed := p.ctrl.Evaluate(now, fps)
	if changed {
		// New tier table takes effect on the next classification pass.
		p.part.Invalidate()
		p.log.Info("quality level changed",
			zap.String("level", lvl.String()),
			zap.Float64("smoothed_fps", fps),
		)
	}

	tiers := p.opts.Levels[lvl]
	res := p.part.Partition(p.set, viewer, tiers, now)
	batches, heroes := p.batches.Update(res, p.set, tiers)

	instances := 0
	for _, b := range batches {
		instances += len(b.MemberIDs)
	}

	return FrameOutput{
		Batches: batches,
		Heroes:  heroes,
		Metrics: Metrics{
			SmoothedFPS: fps,
			FrameMs:     p.sampler.LastFrameMs(),
			Quality:     lvl,
			Batches:     len(batches),
			DrawCalls:   len(batches) + len(heroes),
			Instances:   instances,
			Heroes:      len(heroes),
			Culled:      len(res.Culled),
		},
	}
}
