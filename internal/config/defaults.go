package config

import (
	_ "embed"
)

//go:embed defaults/starshot.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Simulation: SimulationConfig{
			FPS:               40,
			ShipSpeed:         12.5,
			BulletSpeed:       7.5,
			BossMoveSpeed:     0.5,
			PowerUpSpeed:      1.0,
			ShipShootCooldown: 0.2,
			BossShootInterval: 1.5,
			ShipMaxHealth:     3,
			RapidFireDuration: 5.0,
			PowerUpDropChance: 0.1,
			ForceStopTicks:    100,
			SettleFrames:      5,
		},
		Explosion: ExplosionConfig{
			LargeParticles: 8,
			SmallParticles: 4,
			LargeRadius:    20,
			SmallRadius:    10,
			LargeDuration:  0.4,
			SmallDuration:  0.12,
		},
		Starfield: StarfieldConfig{
			Count:    100,
			SpeedMin: 1.0,
			SpeedMax: 2.5,
		},
		Theme: ThemeConfig{
			CellSize:          10,
			CellSpacing:       3,
			Padding:           10,
			BulletTrailLength: 3,
			BulletTrailGap:    0.15,
			Background:        Color{R: 13, G: 17, B: 23},
			Ship:              Color{R: 88, G: 166, B: 255},
			Bullet:            Color{R: 255, G: 211, B: 61},
			BossBullet:        Color{R: 255, G: 0, B: 0},
			PowerUp:           Color{R: 0, G: 255, B: 0},
			EnemyLevels: []Color{
				{R: 14, G: 68, B: 41},
				{R: 0, G: 109, B: 50},
				{R: 38, G: 166, B: 65},
				{R: 57, G: 211, B: 83},
			},
		},
	}
}
