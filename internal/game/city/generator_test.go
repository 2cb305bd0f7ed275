package city

import (
	"testing"

	"github.com/Faultbox/skyline/internal/config"
	"github.com/Faultbox/skyline/internal/engine/scene"
)

func testCityConfig() config.CityConfig {
	return config.CityConfig{
		Seed:        42,
		BlocksX:     4,
		BlocksZ:     4,
		LotsPerSide: 3,
		LotSize:     14,
		StreetWidth: 10,
		MinHeight:   8,
		MaxHeight:   160,
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate(testCityConfig())
	b := Generate(testCityConfig())

	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("object %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGenerateSeedChangesLayout(t *testing.T) {
	cfg := testCityConfig()
	a := Generate(cfg)
	cfg.Seed = 43
	b := Generate(cfg)

	if len(a) == len(b) {
		same := true
		for i := range a {
			if a[i] != b[i] {
				same = false
				break
			}
		}
		if same {
			t.Error("different seeds produced an identical city")
		}
	}
}

func TestGenerateUniqueIDs(t *testing.T) {
	objs := Generate(testCityConfig())
	if len(objs) == 0 {
		t.Fatal("generator produced no buildings")
	}

	seen := make(map[scene.ObjectID]bool, len(objs))
	for _, o := range objs {
		if seen[o.ID] {
			t.Fatalf("duplicate id %d", o.ID)
		}
		seen[o.ID] = true
	}
}

func TestGenerateHeightsWithinBounds(t *testing.T) {
	cfg := testCityConfig()
	objs := Generate(cfg)

	for _, o := range objs {
		if o.Footprint.Y < cfg.MinHeight || o.Footprint.Y > cfg.MaxHeight {
			t.Fatalf("building %d height %v outside [%v, %v]",
				o.ID, o.Footprint.Y, cfg.MinHeight, cfg.MaxHeight)
		}
		if o.Footprint.X <= 0 || o.Footprint.X > cfg.LotSize {
			t.Fatalf("building %d width %v outside lot", o.ID, o.Footprint.X)
		}
		if o.Material >= scene.MaterialCount {
			t.Fatalf("building %d has invalid material %d", o.ID, o.Material)
		}
	}
}

func TestGenerateCenteredOnOrigin(t *testing.T) {
	objs := Generate(testCityConfig())

	var minX, maxX float32
	for i, o := range objs {
		if i == 0 || o.Position.X < minX {
			minX = o.Position.X
		}
		if i == 0 || o.Position.X > maxX {
			maxX = o.Position.X
		}
	}

	// The grid is symmetric around the origin; lot pitch bounds the skew.
	if off := minX + maxX; off > 30 || off < -30 {
		t.Errorf("city not centered: x range [%v, %v]", minX, maxX)
	}
}
