// Package scene defines the renderable content types consumed by the LOD
// pipeline. Objects are supplied wholesale by a content source and are
// read-only for the lifetime of a frame.
package scene

import (
	"fmt"

	"github.com/Faultbox/skyline/pkg/math"
)

// ObjectID is a stable unique identifier for a renderable object.
type ObjectID uint32

// Material is the closed set of material categories. The category is
// resolved by the content source; the pipeline only reads it.
type Material uint8

const (
	MaterialGlass Material = iota
	MaterialConcrete
	MaterialMetal
	MaterialBrick

	// MaterialCount is the number of material categories.
	MaterialCount = 4
)

// String returns the material name.
func (m Material) String() string {
	switch m {
	case MaterialGlass:
		return "glass"
	case MaterialConcrete:
		return "concrete"
	case MaterialMetal:
		return "metal"
	case MaterialBrick:
		return "brick"
	default:
		return fmt.Sprintf("material(%d)", uint8(m))
	}
}

// Object is one scene entity eligible for LOD management.
type Object struct {
	ID        ObjectID
	Position  math.Vec3 // base center, world space
	Footprint math.Vec3 // extents: width (X), height (Y), depth (Z)
	Material  Material
}

// Set is the full object population for a session. It is built once per
// content load and never mutated between reloads.
type Set struct {
	objects []Object
	index   map[ObjectID]int
}

// NewSet builds a Set from the given objects. IDs must be unique.
func NewSet(objects []Object) (*Set, error) {
	s := &Set{
		objects: objects,
		index:   make(map[ObjectID]int, len(objects)),
	}
	for i, obj := range objects {
		if _, dup := s.index[obj.ID]; dup {
			return nil, fmt.Errorf("duplicate object id %d", obj.ID)
		}
		s.index[obj.ID] = i
	}
	return s, nil
}

// Len returns the number of objects.
func (s *Set) Len() int {
	return len(s.objects)
}

// Objects returns the full object slice. Callers must not modify it.
func (s *Set) Objects() []Object {
	return s.objects
}

// Get returns the object with the given id.
func (s *Set) Get(id ObjectID) (Object, bool) {
	i, ok := s.index[id]
	if !ok {
		return Object{}, false
	}
	return s.objects[i], true
}
