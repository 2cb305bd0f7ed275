package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	if cfg.LOD.TargetFPS != 60 {
		t.Errorf("expected target fps 60, got %f", cfg.LOD.TargetFPS)
	}
	if cfg.LOD.HysteresisRuns != 3 {
		t.Errorf("expected hysteresis runs 3, got %d", cfg.LOD.HysteresisRuns)
	}
	if cfg.LOD.PartitionInterval != 100*time.Millisecond {
		t.Errorf("expected partition interval 100ms, got %v", cfg.LOD.PartitionInterval)
	}

	// Every quality level ships a full tier table with strictly increasing distances.
	for _, name := range []string{"low", "medium", "high", "ultra"} {
		tiers, ok := cfg.LOD.Levels[name]
		if !ok {
			t.Errorf("missing tier table for level %q", name)
			continue
		}
		if len(tiers) == 0 {
			t.Errorf("empty tier table for level %q", name)
			continue
		}
		prev := float32(0)
		for i, tier := range tiers {
			if tier.MaxDistance <= prev {
				t.Errorf("level %q tier %d: max_distance %v not increasing", name, i, tier.MaxDistance)
			}
			prev = tier.MaxDistance
		}
		if tiers[0].Instanced {
			t.Errorf("level %q: nearest tier should be the hero tier", name)
		}
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

city:
  seed: 42
  blocks_x: 8
  blocks_z: 8

lod:
  target_fps: 30
  hysteresis_runs: 5
  evaluate_interval: 500ms
  partition_interval: 250ms
  movement_epsilon: 5.0
  levels:
    low:
      - {max_distance: 50, capacity: 4}
      - {max_distance: 400, instanced: true}
    medium:
      - {max_distance: 80, capacity: 8}
      - {max_distance: 600, instanced: true}
    high:
      - {max_distance: 100, capacity: 16}
      - {max_distance: 800, instanced: true}
    ultra:
      - {max_distance: 150, capacity: 32}
      - {max_distance: 1200, instanced: true}

logging:
  level: "debug"
  log_file: "skyline.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}

	if cfg.City.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.City.Seed)
	}
	if cfg.City.BlocksX != 8 {
		t.Errorf("expected blocks_x 8, got %d", cfg.City.BlocksX)
	}

	if cfg.LOD.TargetFPS != 30 {
		t.Errorf("expected target fps 30, got %f", cfg.LOD.TargetFPS)
	}
	if cfg.LOD.HysteresisRuns != 5 {
		t.Errorf("expected hysteresis runs 5, got %d", cfg.LOD.HysteresisRuns)
	}
	if cfg.LOD.EvaluateInterval != 500*time.Millisecond {
		t.Errorf("expected evaluate interval 500ms, got %v", cfg.LOD.EvaluateInterval)
	}
	if cfg.LOD.MovementEpsilon != 5.0 {
		t.Errorf("expected movement epsilon 5.0, got %v", cfg.LOD.MovementEpsilon)
	}

	low := cfg.LOD.Levels["low"]
	if len(low) != 2 {
		t.Fatalf("expected 2 low tiers, got %d", len(low))
	}
	if low[0].MaxDistance != 50 || low[0].Capacity != 4 || low[0].Instanced {
		t.Errorf("unexpected low tier 0: %+v", low[0])
	}
	if low[1].MaxDistance != 400 || !low[1].Instanced {
		t.Errorf("unexpected low tier 1: %+v", low[1])
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "skyline.log" {
		t.Errorf("expected log file 'skyline.log', got %s", cfg.Logging.LogFile)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "saved", "config.yaml")

	cfg := Default()
	cfg.City.Seed = 777
	cfg.LOD.TargetFPS = 144

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.City.Seed != 777 {
		t.Errorf("expected seed 777 after round trip, got %d", loaded.City.Seed)
	}
	if loaded.LOD.TargetFPS != 144 {
		t.Errorf("expected target fps 144 after round trip, got %f", loaded.LOD.TargetFPS)
	}
}
