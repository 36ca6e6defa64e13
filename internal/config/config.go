// Package config provides YAML-based configuration loading for the
// simulation and the render theme. A Config value is built once and passed
// explicitly into engine and encoder constructors; nothing in this package
// is consulted ambiently at runtime.
package config

import (
	"fmt"
	"strings"
)

// Config bundles everything tunable about a render run.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Explosion  ExplosionConfig  `yaml:"explosion"`
	Starfield  StarfieldConfig  `yaml:"starfield"`
	Theme      ThemeConfig      `yaml:"theme"`
}

// SimulationConfig defines the fixed-timestep world parameters.
// All speeds are in grid cells per second, all durations in seconds,
// so behavior is frame-rate independent.
type SimulationConfig struct {
	FPS               int     `yaml:"fps"`
	ShipSpeed         float64 `yaml:"ship_speed"`
	BulletSpeed       float64 `yaml:"bullet_speed"`
	BossMoveSpeed     float64 `yaml:"boss_move_speed"`
	PowerUpSpeed      float64 `yaml:"power_up_speed"`
	ShipShootCooldown float64 `yaml:"ship_shoot_cooldown"`
	BossShootInterval float64 `yaml:"boss_shoot_interval"`
	ShipMaxHealth     int     `yaml:"ship_max_health"`
	RapidFireDuration float64 `yaml:"rapid_fire_duration"`
	PowerUpDropChance float64 `yaml:"power_up_drop_chance"`
	ForceStopTicks    int     `yaml:"force_stop_ticks"`
	SettleFrames      int     `yaml:"settle_frames"`
}

// ExplosionConfig defines particle counts, radii and lifetimes for the two
// explosion sizes.
type ExplosionConfig struct {
	LargeParticles int     `yaml:"large_particles"`
	SmallParticles int     `yaml:"small_particles"`
	LargeRadius    float64 `yaml:"large_radius"`
	SmallRadius    float64 `yaml:"small_radius"`
	LargeDuration  float64 `yaml:"large_duration"`
	SmallDuration  float64 `yaml:"small_duration"`
}

// StarfieldConfig defines the background star population.
type StarfieldConfig struct {
	Count    int     `yaml:"count"`
	SpeedMin float64 `yaml:"speed_min"`
	SpeedMax float64 `yaml:"speed_max"`
}

// ThemeConfig defines canvas geometry and the color palette shared by the
// vector and raster encoders.
type ThemeConfig struct {
	CellSize          int     `yaml:"cell_size"`
	CellSpacing       int     `yaml:"cell_spacing"`
	Padding           int     `yaml:"padding"`
	BulletTrailLength int     `yaml:"bullet_trail_length"`
	BulletTrailGap    float64 `yaml:"bullet_trail_gap"`
	Background        Color   `yaml:"background"`
	Ship              Color   `yaml:"ship"`
	Bullet            Color   `yaml:"bullet"`
	BossBullet        Color   `yaml:"boss_bullet"`
	PowerUp           Color   `yaml:"power_up"`
	EnemyLevels       []Color `yaml:"enemy_levels"`
}

// Step returns the pixel pitch of one grid cell (size plus spacing).
func (t ThemeConfig) Step() int {
	return t.CellSize + t.CellSpacing
}

// CellPosition converts grid-cell coordinates to pixel coordinates of the
// cell's top-left corner.
func (t ThemeConfig) CellPosition(x, y float64) (float64, float64) {
	step := float64(t.Step())
	return float64(t.Padding) + x*step, float64(t.Padding) + y*step
}

// EnemyColor returns the fill color for an enemy with the given health.
// Health values beyond the configured levels fall back to the first level,
// matching the contribution-graph palette where only levels 1-4 exist.
func (t ThemeConfig) EnemyColor(health int) Color {
	if len(t.EnemyLevels) == 0 {
		return Color{}
	}
	if health >= 1 && health <= len(t.EnemyLevels) {
		return t.EnemyLevels[health-1]
	}
	return t.EnemyLevels[0]
}

// Color is an RGB triple parsed from a "#rrggbb" YAML string.
type Color struct {
	R, G, B uint8
}

// Hex returns the color as a lowercase "#rrggbb" string.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// UnmarshalYAML implements yaml.Unmarshaler for "#rrggbb" values.
func (c *Color) UnmarshalYAML(unmarshal func(any) error) error {
	var text string
	if err := unmarshal(&text); err != nil {
		return err
	}
	parsed, err := ParseColor(text)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Color) MarshalYAML() (any, error) {
	return c.Hex(), nil
}

// ParseColor parses a "#rrggbb" hex string.
func ParseColor(text string) (Color, error) {
	text = strings.TrimSpace(text)
	if len(text) != 7 || text[0] != '#' {
		return Color{}, fmt.Errorf("config: invalid color %q (want #rrggbb)", text)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(text[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return Color{}, fmt.Errorf("config: invalid color %q: %w", text, err)
	}
	return Color{R: r, G: g, B: b}, nil
}

// Validate reports the first invalid configuration value found.
func (c Config) Validate() error {
	if c.Simulation.FPS <= 0 {
		return fmt.Errorf("config: fps must be positive, got %d", c.Simulation.FPS)
	}
	if c.Simulation.ForceStopTicks <= 0 {
		return fmt.Errorf("config: force_stop_ticks must be positive, got %d", c.Simulation.ForceStopTicks)
	}
	if c.Theme.CellSize <= 0 {
		return fmt.Errorf("config: cell_size must be positive, got %d", c.Theme.CellSize)
	}
	if len(c.Theme.EnemyLevels) == 0 {
		return fmt.Errorf("config: theme needs at least one enemy level color")
	}
	return nil
}
