// Package lod assigns renderable objects to detail tiers by viewer distance.
package lod

import (
	"errors"
	"fmt"
)

// ErrInvalidTiers marks a malformed tier table. Validation failures are
// fatal at load time; the partitioner never runs against a bad table.
var ErrInvalidTiers = errors.New("invalid tier table")

// Tier is one detail level. Tiers partition the distance axis: an object
// belongs to the first tier whose MaxDistance exceeds its viewer distance,
// or to the culled bucket beyond the last tier.
type Tier struct {
	Level       int     // ordinal, 0 = highest detail
	MaxDistance float32 // exclusive upper bound of viewer distance
	Capacity    int     // max objects before overflow spills down; 0 = unbounded
	Instanced   bool    // rendered through the batch manager
}

// ValidateTiers checks a tier table. Distances must be positive and
// strictly increasing, levels must be the ordinals 0..n-1, and capacities
// must be non-negative.
func ValidateTiers(tiers []Tier) error {
	if len(tiers) == 0 {
		return fmt.Errorf("%w: no tiers", ErrInvalidTiers)
	}
	prev := float32(0)
	for i, t := range tiers {
		if t.Level != i {
			return fmt.Errorf("%w: tier %d has level %d", ErrInvalidTiers, i, t.Level)
		}
		if t.MaxDistance <= prev {
			return fmt.Errorf("%w: tier %d max distance %v not greater than %v",
				ErrInvalidTiers, i, t.MaxDistance, prev)
		}
		if t.Capacity < 0 {
			return fmt.Errorf("%w: tier %d has negative capacity %d", ErrInvalidTiers, i, t.Capacity)
		}
		prev = t.MaxDistance
	}
	return nil
}
