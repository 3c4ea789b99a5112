package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/airframe/internal/aero"
)

const (
	DefaultMach               = 0.3
	DefaultLogLevel           = "info"
	DefaultDataDir            = "snapshots"
	DefaultSpeedOfSound       = 340.29
	DefaultKinematicViscosity = 1.46e-5
	DefaultTemperature        = 288.15
	DefaultPressure           = 101325.0
)

type Config struct {
	DefaultMach   float64          `yaml:"default_mach" env:"DEFAULT_MACH"`
	LogLevel      string           `yaml:"log_level" env:"LOG_LEVEL"`
	DataDir       string           `yaml:"data_dir" env:"DATA_DIR"`
	RaceDetection bool             `yaml:"race_detection" env:"RACE_DETECTION"`
	Atmosphere    AtmosphereConfig `yaml:"atmosphere" envPrefix:"ATMOSPHERE_"`
	Presets       []PresetConfig   `yaml:"presets,omitempty"`
}

type AtmosphereConfig struct {
	Temperature        float64 `yaml:"temperature" env:"TEMPERATURE"`
	Pressure           float64 `yaml:"pressure" env:"PRESSURE"`
	SpeedOfSound       float64 `yaml:"speed_of_sound" env:"SPEED_OF_SOUND"`
	KinematicViscosity float64 `yaml:"kinematic_viscosity" env:"KINEMATIC_VISCOSITY"`
}

func DefaultConfig() *Config {
	return &Config{
		DefaultMach:   DefaultMach,
		LogLevel:      DefaultLogLevel,
		DataDir:       DefaultDataDir,
		RaceDetection: true,
		Atmosphere: AtmosphereConfig{
			Temperature:        DefaultTemperature,
			Pressure:           DefaultPressure,
			SpeedOfSound:       DefaultSpeedOfSound,
			KinematicViscosity: DefaultKinematicViscosity,
		},
	}
}

// Load reads path over the defaults and then applies AIRFRAME_* environment
// variables. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays AIRFRAME_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "AIRFRAME_"}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.DefaultMach <= 0 {
		return fmt.Errorf("config: default_mach must be positive, got %g", c.DefaultMach)
	}
	if c.Atmosphere.SpeedOfSound <= 0 || c.Atmosphere.KinematicViscosity <= 0 {
		return fmt.Errorf("config: atmosphere speed_of_sound and kinematic_viscosity must be positive")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	for _, p := range c.Presets {
		if _, err := p.resolve(); err != nil {
			return err
		}
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("config: log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

func (c *Config) AeroAtmosphere() aero.Atmosphere {
	return aero.Atmosphere{
		SpeedOfSound:       c.Atmosphere.SpeedOfSound,
		KinematicViscosity: c.Atmosphere.KinematicViscosity,
	}
}

// Catalog returns the built-in presets extended with the ones from the file.
// File entries replace built-ins of the same kind and name.
func (c *Config) Catalog() (*Catalog, error) {
	cat := BuiltinCatalog()
	for _, pc := range c.Presets {
		p, err := pc.resolve()
		if err != nil {
			return nil, err
		}
		cat.Add(p)
	}
	return cat, nil
}
