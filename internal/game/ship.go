package game

import (
	"github.com/vovakirdan/starshot/internal/config"
)

// Ship is the player vessel. It eases toward a target column at constant
// speed and can only fire while stationary with an elapsed cooldown (or
// while a rapid-fire power-up is active).
type Ship struct {
	X             float64
	TargetX       float64
	ShootCooldown float64
	Health        int
	Destroyed     bool

	RapidFireActive    bool
	RapidFireRemaining float64

	speed float64
}

func newShip(sim config.SimulationConfig) *Ship {
	start := float64(GridWidth / 2)
	return &Ship{
		X:       start,
		TargetX: start,
		Health:  sim.ShipMaxHealth,
		speed:   sim.ShipSpeed,
	}
}

// MoveTo sets a new target column for the ship.
func (sh *Ship) MoveTo(x int) {
	sh.TargetX = float64(x)
}

// IsMoving reports whether the ship has not yet reached its target column.
func (sh *Ship) IsMoving() bool {
	return sh.X != sh.TargetX
}

// CanShoot reports whether the shot cooldown has elapsed or rapid fire is
// active.
func (sh *Ship) CanShoot() bool {
	if sh.RapidFireActive {
		return true
	}
	return sh.ShootCooldown <= 0
}

// TakeDamage applies one point of damage. At zero health the ship is
// destroyed with a large explosion.
func (sh *Ship) TakeDamage(s *State) {
	if sh.Destroyed {
		return
	}
	sh.Health--
	if sh.Health <= 0 {
		sh.Destroyed = true
		s.spawnExplosion(sh.X, ShipRow, true)
	}
}

func (sh *Ship) update(s *State, dt float64) {
	step := sh.speed * dt
	switch {
	case sh.X < sh.TargetX:
		sh.X = min(sh.X+step, sh.TargetX)
	case sh.X > sh.TargetX:
		sh.X = max(sh.X-step, sh.TargetX)
	}

	if sh.ShootCooldown > 0 {
		sh.ShootCooldown -= dt
	}

	if sh.RapidFireActive {
		sh.RapidFireRemaining -= dt
		if sh.RapidFireRemaining <= 0 {
			sh.RapidFireActive = false
		}
	}

	sh.collectPowerUps(s)
}

// collectPowerUps tests every live power-up for collision with the ship:
// same integer column and at or below the ship row.
func (sh *Ship) collectPowerUps(s *State) {
	for _, p := range s.PowerUps {
		if !p.alive {
			continue
		}
		if int(sh.X) == int(p.X) && p.Y >= ShipRow {
			p.alive = false
			p.activate(sh, s.cfg.Simulation)
		}
	}
}
