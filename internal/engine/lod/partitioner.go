package lod

import (
	"sort"
	"time"

	"github.com/Faultbox/skyline/internal/engine/scene"
	"github.com/Faultbox/skyline/pkg/math"
)

// Result is one partitioning pass: ordered member ids per tier level plus
// the culled bucket. Members are ordered nearest-first with id tiebreak,
// so repeated runs over identical input produce identical output.
type Result struct {
	Tiers  map[int][]scene.ObjectID
	Culled []scene.ObjectID
}

// Members returns the ids assigned to the given tier level.
func (r *Result) Members(level int) []scene.ObjectID {
	return r.Tiers[level]
}

// Assigned returns the total number of non-culled objects.
func (r *Result) Assigned() int {
	n := 0
	for _, ids := range r.Tiers {
		n += len(ids)
	}
	return n
}

// Partitioner classifies the object set into tiers. A full pass sorts the
// whole population, so passes are throttled: the previous result is reused
// until the viewer moves more than MoveEpsilon or Interval elapses. Stale
// assignments between passes are valid data, only less current.
type Partitioner struct {
	MoveEpsilon float32
	Interval    time.Duration

	last       *Result
	lastViewer math.Vec3
	lastRun    time.Time
	forced     bool

	// scratch buffer reused across passes to avoid per-frame allocation
	candidates []candidate
}

type candidate struct {
	id     scene.ObjectID
	distSq float32
}

// NewPartitioner creates a partitioner with the given throttle settings.
func NewPartitioner(moveEpsilon float32, interval time.Duration) *Partitioner {
	return &Partitioner{
		MoveEpsilon: moveEpsilon,
		Interval:    interval,
		forced:      true,
	}
}

// Invalidate forces a fresh pass on the next Partition call. Used when the
// active tier table changes (quality transition) or content is reloaded.
func (p *Partitioner) Invalidate() {
	p.forced = true
}

// Reset discards all cached state for a fresh session.
func (p *Partitioner) Reset() {
	p.last = nil
	p.forced = true
}

// Partition returns the tier assignment for the current viewer position.
// The caller must have validated tiers with ValidateTiers beforehand.
func (p *Partitioner) Partition(set *scene.Set, viewer math.Vec3, tiers []Tier, now time.Time) *Result {
	if !p.needsRun(viewer, now) {
		return p.last
	}

	p.last = p.run(set, viewer, tiers)
	p.lastViewer = viewer
	p.lastRun = now
	p.forced = false
	return p.last
}

func (p *Partitioner) needsRun(viewer math.Vec3, now time.Time) bool {
	if p.forced || p.last == nil {
		return true
	}
	if viewer.DistanceSq(p.lastViewer) > p.MoveEpsilon*p.MoveEpsilon {
		return true
	}
	return now.Sub(p.lastRun) >= p.Interval
}

func (p *Partitioner) run(set *scene.Set, viewer math.Vec3, tiers []Tier) *Result {
	objects := set.Objects()

	p.candidates = p.candidates[:0]
	for i := range objects {
		p.candidates = append(p.candidates, candidate{
			id:     objects[i].ID,
			distSq: viewer.DistanceSq(objects[i].Position),
		})
	}

	// Nearest first; equal distances break ties by id so the output is
	// reproducible byte for byte.
	sort.Slice(p.candidates, func(a, b int) bool {
		ca, cb := p.candidates[a], p.candidates[b]
		if ca.distSq != cb.distSq {
			return ca.distSq < cb.distSq
		}
		return ca.id < cb.id
	})

	maxSq := make([]float32, len(tiers))
	for i, t := range tiers {
		maxSq[i] = t.MaxDistance * t.MaxDistance
	}

	res := &Result{Tiers: make(map[int][]scene.ObjectID, len(tiers))}

	// Walking candidates in ascending distance keeps the base tier cursor
	// monotonic. A capacity-limited tier takes the nearest candidates until
	// full; overflow spills down to the next tier rather than dropping.
	base := 0
	for _, c := range p.candidates {
		for base < len(tiers) && c.distSq >= maxSq[base] {
			base++
		}
		if base == len(tiers) {
			res.Culled = append(res.Culled, c.id)
			continue
		}

		t := base
		for t < len(tiers) && tiers[t].Capacity > 0 && len(res.Tiers[t]) >= tiers[t].Capacity {
			t++
		}
		if t == len(tiers) {
			res.Culled = append(res.Culled, c.id)
			continue
		}
		res.Tiers[t] = append(res.Tiers[t], c.id)
	}

	return res
}
