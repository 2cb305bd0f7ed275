// Package batch groups same-tier objects into instanced draw batches keyed
// by (tier level, material category), bounding draw-call count regardless
// of scene size.
package batch

import (
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/skyline/internal/engine/lod"
	"github.com/Faultbox/skyline/internal/engine/scene"
	"github.com/Faultbox/skyline/pkg/math"
)

// Key identifies one instanced draw batch.
type Key struct {
	TierLevel int
	Material  scene.Material
}

// Batch is one instanced draw unit. It is owned exclusively by the Manager;
// the render backend reads it, uploads the transform buffer when Dirty, and
// calls MarkClean.
type Batch struct {
	Key        Key
	MemberIDs  []scene.ObjectID
	Transforms []math.Mat4 // per-instance transforms, matching MemberIDs order
	Dirty      bool

	members map[scene.ObjectID]struct{}
}

// MarkClean clears the dirty flag once the transform buffer is consumed.
func (b *Batch) MarkClean() {
	b.Dirty = false
}

// sameMembers reports whether the batch currently holds exactly the given
// id set. Order is irrelevant; only membership counts.
func (b *Batch) sameMembers(ids []scene.ObjectID) bool {
	if len(ids) != len(b.members) {
		return false
	}
	for _, id := range ids {
		if _, ok := b.members[id]; !ok {
			return false
		}
	}
	return true
}

// Handle is a per-object renderable for non-instanced (hero) tiers, where
// individual per-object control is needed.
type Handle struct {
	ID        scene.ObjectID
	TierLevel int
	Material  scene.Material
	Transform math.Mat4
}

// Manager owns all batches. Created once at startup; batches are created
// and destroyed only as (tier, material) activity appears and disappears.
type Manager struct {
	batches map[Key]*Batch
	log     *zap.Logger

	// scratch grouping reused across updates
	grouped map[Key][]scene.ObjectID
}

// NewManager creates an empty batch manager. A nil logger is replaced with
// a no-op logger.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		batches: make(map[Key]*Batch),
		log:     log,
		grouped: make(map[Key][]scene.ObjectID),
	}
}

// Update diffs the partition result against current batches and returns the
// batches plus hero handles for the render backend. Objects referenced by
// the result but missing from the set are pruned and logged; this is a
// recoverable inconsistency, not a fatal error.
func (m *Manager) Update(res *lod.Result, set *scene.Set, tiers []lod.Tier) ([]*Batch, []Handle) {
	var heroes []Handle

	for k := range m.grouped {
		delete(m.grouped, k)
	}

	for _, tier := range tiers {
		ids := res.Members(tier.Level)
		if !tier.Instanced {
			for _, id := range ids {
				obj, ok := set.Get(id)
				if !ok {
					m.logMissing(id, tier.Level)
					continue
				}
				heroes = append(heroes, Handle{
					ID:        id,
					TierLevel: tier.Level,
					Material:  obj.Material,
					Transform: instanceTransform(obj),
				})
			}
			continue
		}

		for _, id := range ids {
			obj, ok := set.Get(id)
			if !ok {
				m.logMissing(id, tier.Level)
				continue
			}
			key := Key{TierLevel: tier.Level, Material: obj.Material}
			m.grouped[key] = append(m.grouped[key], id)
		}
	}

	// Drop batches whose (tier, material) lost all membership.
	for key := range m.batches {
		if len(m.grouped[key]) == 0 {
			delete(m.batches, key)
		}
	}

	for key, ids := range m.grouped {
		b, ok := m.batches[key]
		if !ok {
			b = &Batch{Key: key}
			m.batches[key] = b
			m.rebuild(b, ids, set)
			continue
		}
		if b.sameMembers(ids) {
			// Same set: transform buffer identity preserved, no rebuild.
			continue
		}
		m.rebuild(b, ids, set)
	}

	out := make([]*Batch, 0, len(m.batches))
	for _, b := range m.batches {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if a.TierLevel != b.TierLevel {
			return a.TierLevel < b.TierLevel
		}
		return a.Material < b.Material
	})
	return out, heroes
}

// rebuild replaces the batch membership and transform buffer in the new
// member order and marks the batch dirty.
func (m *Manager) rebuild(b *Batch, ids []scene.ObjectID, set *scene.Set) {
	b.MemberIDs = append(b.MemberIDs[:0], ids...)
	b.Transforms = b.Transforms[:0]
	if b.members == nil {
		b.members = make(map[scene.ObjectID]struct{}, len(ids))
	} else {
		for id := range b.members {
			delete(b.members, id)
		}
	}
	for _, id := range ids {
		obj, _ := set.Get(id) // membership already verified during grouping
		b.Transforms = append(b.Transforms, instanceTransform(obj))
		b.members[id] = struct{}{}
	}
	b.Dirty = true
}

// Count returns the number of live batches.
func (m *Manager) Count() int {
	return len(m.batches)
}

// Reset discards all batches for a fresh session.
func (m *Manager) Reset() {
	m.batches = make(map[Key]*Batch)
}

func (m *Manager) logMissing(id scene.ObjectID, level int) {
	m.log.Warn("object in partition result missing from set, pruning",
		zap.Uint32("id", uint32(id)),
		zap.Int("tier", level),
	)
}

// instanceTransform builds the per-instance transform: a unit cube spanning
// [-0.5,0.5] scaled to the footprint and moved so its base sits at the
// object position.
func instanceTransform(obj scene.Object) math.Mat4 {
	f := obj.Footprint
	t := math.Translate(obj.Position.X, obj.Position.Y+f.Y/2, obj.Position.Z)
	return t.Mul(math.Scale(f.X, f.Y, f.Z))
}
