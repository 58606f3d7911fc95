// Package game provides the session orchestrator and its configuration.
package game

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mkessler/wildmere/internal/spawn"
)

// SeedSpec selects between a reproducible seed and a fresh draw per
// run. In YAML it is either the string "random" or an integer.
type SeedSpec struct {
	Value  int64
	Random bool
}

// Seeded returns a deterministic seed spec.
func Seeded(value int64) SeedSpec {
	return SeedSpec{Value: value}
}

// RandomSeed returns a spec that draws a fresh seed each materialize.
func RandomSeed() SeedSpec {
	return SeedSpec{Random: true}
}

// Materialize returns the effective seed: the fixed value, or a fresh
// draw from the wall clock in random mode.
func (s SeedSpec) Materialize() int64 {
	if s.Random {
		return time.Now().UnixNano()
	}
	return s.Value
}

// String renders the spec the way the config file spells it.
func (s SeedSpec) String() string {
	if s.Random {
		return "random"
	}
	return fmt.Sprintf("%d", s.Value)
}

// UnmarshalYAML accepts "random" or an integer literal.
func (s *SeedSpec) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err == nil && raw == "random" {
		*s = RandomSeed()
		return nil
	}
	var v int64
	if err := value.Decode(&v); err != nil {
		return fmt.Errorf("seed must be \"random\" or an integer, got %q", value.Value)
	}
	*s = Seeded(v)
	return nil
}

// MarshalYAML emits the same form UnmarshalYAML accepts.
func (s SeedSpec) MarshalYAML() (interface{}, error) {
	if s.Random {
		return "random", nil
	}
	return s.Value, nil
}

// Config holds everything the session needs to build a world.
type Config struct {
	Width  int      `yaml:"width"`
	Height int      `yaml:"height"`
	Seed   SeedSpec `yaml:"seed"`

	Enemies int `yaml:"enemies"`
	Pickups int `yaml:"pickups"`

	// StrictSpawn resamples spawn cells until walkable instead of the
	// legacy accept-anything behavior. Off by default on purpose.
	StrictSpawn      bool `yaml:"strictSpawn"`
	SpawnRetryBudget int  `yaml:"spawnRetryBudget"`

	// StartVariant is the character selected at session start (1..6).
	StartVariant int `yaml:"startVariant"`
}

// DefaultConfig returns the shipped defaults: an 80x24 world, a random
// seed, three enemies and six healing pickups, lenient spawning.
func DefaultConfig() Config {
	return Config{
		Width:            80,
		Height:           24,
		Seed:             RandomSeed(),
		Enemies:          3,
		Pickups:          6,
		SpawnRetryBudget: spawn.DefaultRetryBudget,
		StartVariant:     1,
	}
}

// LoadConfig reads a YAML config file, overlaying the defaults. A
// missing file is not an error; the defaults are returned as-is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.normalize()
	return cfg, nil
}

// normalize pulls nonsense values back to the defaults rather than
// failing startup over a config typo.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Width <= 0 {
		c.Width = def.Width
	}
	if c.Height <= 0 {
		c.Height = def.Height
	}
	if c.Enemies <= 0 {
		c.Enemies = def.Enemies
	}
	if c.Pickups < 0 {
		c.Pickups = def.Pickups
	}
	if c.SpawnRetryBudget <= 0 {
		c.SpawnRetryBudget = def.SpawnRetryBudget
	}
	if c.StartVariant < 1 || c.StartVariant > 6 {
		c.StartVariant = def.StartVariant
	}
}
