// Package config handles viewer configuration loading and management.
package config

import "time"

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Game     GameConfig     `yaml:"game"`
	City     CityConfig     `yaml:"city"`
	LOD      LODConfig      `yaml:"lod"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// GameConfig holds viewer behavior settings.
type GameConfig struct {
	ShowFPS     bool    `yaml:"show_fps"`
	CameraSpeed float32 `yaml:"camera_speed"`
}

// CityConfig holds content-source settings for the procedural city.
// These feed the generator only; the LOD core never sees them.
type CityConfig struct {
	Seed        int64   `yaml:"seed"`
	BlocksX     int     `yaml:"blocks_x"`
	BlocksZ     int     `yaml:"blocks_z"`
	LotsPerSide int     `yaml:"lots_per_side"`
	LotSize     float32 `yaml:"lot_size"`
	StreetWidth float32 `yaml:"street_width"`
	MinHeight   float32 `yaml:"min_height"`
	MaxHeight   float32 `yaml:"max_height"`
}

// TierConfig describes one LOD tier of a quality level.
// Capacity 0 means unbounded.
type TierConfig struct {
	MaxDistance float32 `yaml:"max_distance"`
	Capacity    int     `yaml:"capacity"`
	Instanced   bool    `yaml:"instanced"`
}

// LODConfig holds the adaptive quality and partitioning settings.
// Levels maps quality level names (low, medium, high, ultra) to tier tables.
type LODConfig struct {
	TargetFPS         float64                 `yaml:"target_fps"`
	HysteresisRuns    int                     `yaml:"hysteresis_runs"`
	EvaluateInterval  time.Duration           `yaml:"evaluate_interval"`
	PartitionInterval time.Duration           `yaml:"partition_interval"`
	MovementEpsilon   float32                 `yaml:"movement_epsilon"`
	Levels            map[string][]TierConfig `yaml:"levels"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
// The default tier tables scale distances and hero capacity down with each
// quality step so the controller has real headroom to trade against.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Game: GameConfig{
			ShowFPS:     true,
			CameraSpeed: 1.0,
		},
		City: CityConfig{
			Seed:        1,
			BlocksX:     24,
			BlocksZ:     24,
			LotsPerSide: 4,
			LotSize:     14,
			StreetWidth: 10,
			MinHeight:   8,
			MaxHeight:   160,
		},
		LOD: LODConfig{
			TargetFPS:         60,
			HysteresisRuns:    3,
			EvaluateInterval:  750 * time.Millisecond,
			PartitionInterval: 100 * time.Millisecond,
			MovementEpsilon:   2.0,
			Levels: map[string][]TierConfig{
				"low": {
					{MaxDistance: 60, Capacity: 10},
					{MaxDistance: 300, Instanced: true},
					{MaxDistance: 700, Instanced: true},
				},
				"medium": {
					{MaxDistance: 90, Capacity: 20},
					{MaxDistance: 500, Instanced: true},
					{MaxDistance: 1100, Instanced: true},
				},
				"high": {
					{MaxDistance: 120, Capacity: 35},
					{MaxDistance: 700, Instanced: true},
					{MaxDistance: 1600, Instanced: true},
				},
				"ultra": {
					{MaxDistance: 160, Capacity: 50},
					{MaxDistance: 900, Instanced: true},
					{MaxDistance: 2200, Instanced: true},
				},
			},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
