package scene

import (
	"testing"

	"github.com/Faultbox/skyline/pkg/math"
)

func TestNewSetIndexesByID(t *testing.T) {
	set, err := NewSet([]Object{
		{ID: 7, Position: math.Vec3{X: 1}, Material: MaterialGlass},
		{ID: 3, Position: math.Vec3{X: 2}, Material: MaterialBrick},
	})
	if err != nil {
		t.Fatalf("NewSet() error: %v", err)
	}

	if set.Len() != 2 {
		t.Errorf("Len() = %d, want 2", set.Len())
	}

	obj, ok := set.Get(3)
	if !ok {
		t.Fatal("Get(3) not found")
	}
	if obj.Material != MaterialBrick {
		t.Errorf("Get(3).Material = %v, want brick", obj.Material)
	}

	if _, ok := set.Get(99); ok {
		t.Error("Get(99) found nonexistent object")
	}
}

func TestNewSetRejectsDuplicateIDs(t *testing.T) {
	_, err := NewSet([]Object{{ID: 1}, {ID: 1}})
	if err == nil {
		t.Error("NewSet() accepted duplicate ids")
	}
}

func TestMaterialString(t *testing.T) {
	if MaterialGlass.String() != "glass" {
		t.Errorf("MaterialGlass.String() = %q", MaterialGlass.String())
	}
	if Material(200).String() != "material(200)" {
		t.Errorf("unknown material String() = %q", Material(200).String())
	}
}
