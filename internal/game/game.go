// Package game wires the window, input, camera, LOD pipeline, and render
// backend into the main loop.
package game

import (
	"fmt"
	gomath "math"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/skyline/internal/config"
	"github.com/Faultbox/skyline/internal/engine/camera"
	"github.com/Faultbox/skyline/internal/engine/input"
	"github.com/Faultbox/skyline/internal/engine/lod"
	"github.com/Faultbox/skyline/internal/engine/pipeline"
	"github.com/Faultbox/skyline/internal/engine/quality"
	"github.com/Faultbox/skyline/internal/engine/render"
	"github.com/Faultbox/skyline/internal/engine/window"
	"github.com/Faultbox/skyline/internal/game/city"
	"github.com/Faultbox/skyline/internal/logger"
	"github.com/Faultbox/skyline/pkg/math"
)

const windowTitle = "Skyline"

// Game owns the main loop and all engine subsystems.
type Game struct {
	cfg      *config.Config
	window   *window.Window
	input    *input.Input
	camera   *camera.OrbitCamera
	pipeline *pipeline.Pipeline
	backend  *render.Backend

	width   int
	height  int
	running bool

	titleAt time.Time
}

// New creates the game: window and GL context first, then the render
// backend, then the LOD pipeline loaded with the generated city.
func New(cfg *config.Config) (*Game, error) {
	win, err := window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	if err := gl.Init(); err != nil {
		win.Close()
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	logger.Sugar.Infow("OpenGL initialized",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
	)

	backend, err := render.New(logger.Log)
	if err != nil {
		win.Close()
		return nil, fmt.Errorf("creating render backend: %w", err)
	}

	opts, err := pipelineOptions(cfg.LOD)
	if err != nil {
		backend.Destroy()
		win.Close()
		return nil, err
	}
	pipe, err := pipeline.New(opts, logger.Log)
	if err != nil {
		backend.Destroy()
		win.Close()
		return nil, fmt.Errorf("creating pipeline: %w", err)
	}

	buildings := city.Generate(cfg.City)
	if err := pipe.Reload(buildings); err != nil {
		backend.Destroy()
		win.Close()
		return nil, fmt.Errorf("loading city: %w", err)
	}
	logger.Sugar.Infow("city generated",
		"seed", cfg.City.Seed,
		"buildings", len(buildings),
	)

	cam := camera.NewOrbitCamera()
	cam.PanSpeed = cfg.Game.CameraSpeed

	g := &Game{
		cfg:      cfg,
		window:   win,
		input:    input.New(),
		camera:   cam,
		pipeline: pipe,
		backend:  backend,
		width:    cfg.Graphics.Width,
		height:   cfg.Graphics.Height,
	}
	backend.Resize(g.width, g.height)

	return g, nil
}

// Run executes the main loop until quit.
func (g *Game) Run() {
	g.running = true
	last := time.Now()

	for g.running {
		now := time.Now()
		dt := now.Sub(last)
		last = now

		if g.input.Update() {
			g.running = false
			break
		}
		g.handleEvents(float32(dt.Seconds()))

		out := g.pipeline.Frame(float64(dt.Nanoseconds())/1e6, g.camera.Position(), now)

		aspect := float32(g.width) / float32(g.height)
		proj := math.Perspective(float32(gomath.Pi/4), aspect, 1.0, 8000.0)
		viewProj := proj.Mul(g.camera.ViewMatrix())

		g.backend.Draw(viewProj, out.Batches, out.Heroes)
		g.window.SwapBuffers()

		if g.cfg.Game.ShowFPS && now.Sub(g.titleAt) >= 500*time.Millisecond {
			g.titleAt = now
			g.window.SetTitle(fmt.Sprintf("%s | %.0f fps | %s | %d draws | %d culled",
				windowTitle, out.Metrics.SmoothedFPS, out.Metrics.Quality,
				out.Metrics.DrawCalls, out.Metrics.Culled))
		}
	}
}

func (g *Game) handleEvents(dt float32) {
	for _, ev := range g.input.Events() {
		switch ev.Type {
		case input.EventQuit:
			g.running = false

		case input.EventWindowResize:
			g.width, g.height = ev.Width, ev.Height
			g.backend.Resize(ev.Width, ev.Height)

		case input.EventKeyDown:
			if ev.Key == sdl.SCANCODE_ESCAPE {
				g.running = false
			}

		case input.EventMouseMove:
			if g.input.IsLeftMouseHeld() {
				g.camera.HandleDrag(float32(ev.DeltaX), float32(ev.DeltaY))
			}

		case input.EventMouseWheel:
			g.camera.HandleZoom(ev.WheelY)
		}
	}

	var forward, right float32
	if g.input.IsKeyHeld(sdl.SCANCODE_W) || g.input.IsKeyHeld(sdl.SCANCODE_UP) {
		forward++
	}
	if g.input.IsKeyHeld(sdl.SCANCODE_S) || g.input.IsKeyHeld(sdl.SCANCODE_DOWN) {
		forward--
	}
	if g.input.IsKeyHeld(sdl.SCANCODE_D) || g.input.IsKeyHeld(sdl.SCANCODE_RIGHT) {
		right++
	}
	if g.input.IsKeyHeld(sdl.SCANCODE_A) || g.input.IsKeyHeld(sdl.SCANCODE_LEFT) {
		right--
	}
	if forward != 0 || right != 0 {
		g.camera.HandleMovement(forward, right, dt)
	}
}

// Close releases all resources.
func (g *Game) Close() {
	g.backend.Destroy()
	g.window.Close()
}

// pipelineOptions converts the yaml LOD config to pipeline options,
// resolving quality level names to their ordinals.
func pipelineOptions(cfg config.LODConfig) (pipeline.Options, error) {
	levels := make(map[quality.Level][]lod.Tier, len(cfg.Levels))
	for name, tiers := range cfg.Levels {
		lvl, err := quality.ParseLevel(name)
		if err != nil {
			return pipeline.Options{}, fmt.Errorf("lod config: %w", err)
		}
		table := make([]lod.Tier, len(tiers))
		for i, t := range tiers {
			table[i] = lod.Tier{
				Level:       i,
				MaxDistance: t.MaxDistance,
				Capacity:    t.Capacity,
				Instanced:   t.Instanced,
			}
		}
		levels[lvl] = table
	}

	return pipeline.Options{
		TargetFPS:         cfg.TargetFPS,
		HysteresisRuns:    cfg.HysteresisRuns,
		EvaluateInterval:  cfg.EvaluateInterval,
		PartitionInterval: cfg.PartitionInterval,
		MovementEpsilon:   cfg.MovementEpsilon,
		Levels:            levels,
	}, nil
}
