// Package city generates the procedural building population. It is the
// content source feeding the LOD pipeline; nothing here knows about
// tiers, batches, or quality levels.
package city

import (
	gomath "math"
	"math/rand"

	"github.com/Faultbox/skyline/internal/config"
	"github.com/Faultbox/skyline/internal/engine/scene"
	"github.com/Faultbox/skyline/pkg/math"
)

// Generate builds the city's object list from the config. The same seed
// and parameters always produce the same buildings in the same order.
func Generate(cfg config.CityConfig) []scene.Object {
	rng := rand.New(rand.NewSource(cfg.Seed))

	blockSize := float32(cfg.LotsPerSide) * cfg.LotSize
	pitch := blockSize + cfg.StreetWidth

	// Center the grid on the origin.
	totalX := float32(cfg.BlocksX)*pitch - cfg.StreetWidth
	totalZ := float32(cfg.BlocksZ)*pitch - cfg.StreetWidth
	originX := -totalX / 2
	originZ := -totalZ / 2

	// Height falls off with distance from the center so the skyline has
	// a downtown. Normalized against the grid's half-diagonal.
	maxRadius := float32(gomath.Hypot(float64(totalX/2), float64(totalZ/2)))

	objs := make([]scene.Object, 0, cfg.BlocksX*cfg.BlocksZ*cfg.LotsPerSide*cfg.LotsPerSide)
	var id scene.ObjectID

	for bx := 0; bx < cfg.BlocksX; bx++ {
		for bz := 0; bz < cfg.BlocksZ; bz++ {
			blockX := originX + float32(bx)*pitch
			blockZ := originZ + float32(bz)*pitch

			for lx := 0; lx < cfg.LotsPerSide; lx++ {
				for lz := 0; lz < cfg.LotsPerSide; lz++ {
					// Leave some lots vacant for parks and parking.
					if rng.Float32() < 0.08 {
						continue
					}

					cx := blockX + (float32(lx)+0.5)*cfg.LotSize
					cz := blockZ + (float32(lz)+0.5)*cfg.LotSize

					dist := float32(gomath.Hypot(float64(cx), float64(cz)))
					falloff := 1 - dist/maxRadius
					if falloff < 0 {
						falloff = 0
					}

					// Square the falloff so tall towers cluster tightly
					// downtown, with jitter to break up the gradient.
					h := cfg.MinHeight + (cfg.MaxHeight-cfg.MinHeight)*falloff*falloff*rng.Float32()
					if h < cfg.MinHeight {
						h = cfg.MinHeight
					}

					// Footprint fills most of the lot with some setback.
					fx := cfg.LotSize * (0.6 + rng.Float32()*0.3)
					fz := cfg.LotSize * (0.6 + rng.Float32()*0.3)

					id++
					objs = append(objs, scene.Object{
						ID:        id,
						Position:  math.Vec3{X: cx, Z: cz},
						Footprint: math.Vec3{X: fx, Y: h, Z: fz},
						Material:  materialFor(h, cfg.MaxHeight, rng),
					})
				}
			}
		}
	}

	return objs
}

// materialFor picks a material weighted by building height: towers skew
// glass and metal, low-rises skew brick and concrete.
func materialFor(height, maxHeight float32, rng *rand.Rand) scene.Material {
	tall := float64(0)
	if maxHeight > 0 {
		tall = float64(height / maxHeight)
	}

	r := rng.Float64()
	switch {
	case r < 0.25+0.5*tall:
		if rng.Float64() < 0.7 {
			return scene.MaterialGlass
		}
		return scene.MaterialMetal
	case r < 0.7:
		return scene.MaterialConcrete
	default:
		return scene.MaterialBrick
	}
}
