package game

import (
	"github.com/vovakirdan/starshot/internal/config"
)

// PowerUpKind names the effect a power-up grants when collected.
type PowerUpKind string

// RapidFire lets the ship ignore its shot cooldown for a fixed duration.
const RapidFire PowerUpKind = "rapid_fire"

// PowerUp drifts downward from a destroyed enemy until the ship collects
// it or it leaves the screen.
type PowerUp struct {
	Kind PowerUpKind
	X    float64
	Y    float64

	speed float64
	alive bool
}

func newRapidFirePowerUp(x, y float64, sim config.SimulationConfig) *PowerUp {
	return &PowerUp{
		Kind:  RapidFire,
		X:     x,
		Y:     y,
		speed: sim.PowerUpSpeed,
		alive: true,
	}
}

func (p *PowerUp) update(_ *State, dt float64) {
	p.Y += p.speed * dt
	if p.Y > ShipRow+5 {
		p.alive = false
	}
}

func (p *PowerUp) activate(sh *Ship, sim config.SimulationConfig) {
	switch p.Kind {
	case RapidFire:
		sh.RapidFireActive = true
		sh.RapidFireRemaining = sim.RapidFireDuration
	}
}
