// Package game implements the deterministic fixed-timestep simulation that
// turns a contribution grid into a playable-looking space shooter timeline.
// The package is rendering-agnostic: it only mutates entity state; encoders
// consume immutable snapshots taken between ticks.
package game

import (
	"math"
	"math/rand/v2"

	"github.com/vovakirdan/starshot/internal/config"
	"github.com/vovakirdan/starshot/internal/contrib"
)

const (
	// GridWidth is the playfield width in cells, one column per week.
	GridWidth = contrib.NumWeeks
	// ShipRow is the row the ship sits on, just below the grid.
	ShipRow = contrib.NumDays + 3
)

// Score awards. Partial damage never scores; only kills do.
const (
	enemyKillScore = 100
	bossKillScore  = 1000
)

// State owns all live entities and advances them by fixed time deltas.
// Entities removed mid-tick are tombstoned and compacted at tick end, so a
// pass over a collection never revisits an entity removed earlier in the
// same pass.
type State struct {
	Ship       *Ship
	Enemies    []*Enemy
	Boss       *Enemy
	Bullets    []*Bullet
	Explosions []*Explosion
	PowerUps   []*PowerUp
	Stars      []*Star
	Score      int

	cfg config.Config
	rng *rand.Rand

	nextBulletID    int
	nextExplosionID int
}

// NewState builds the initial world from a contribution grid. The single
// highest-level cell becomes the boss; every other non-zero cell becomes a
// regular enemy with health equal to its level. The rng drives world
// randomness only (star placement, explosion angles, power-up drops).
func NewState(grid contrib.Grid, cfg config.Config, rng *rand.Rand) (*State, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	s := &State{
		cfg: cfg,
		rng: rng,
	}
	s.Ship = newShip(cfg.Simulation)
	s.Stars = newStarfield(cfg.Starfield, rng)
	s.spawnEnemies(grid)
	return s, nil
}

func (s *State) spawnEnemies(grid contrib.Grid) {
	bossLevel, bossWeek, bossDay := grid.MaxLevel()
	for wi, week := range grid.Weeks {
		for di, day := range week.Days {
			if day.Level <= 0 {
				continue
			}
			if wi == bossWeek && di == bossDay {
				boss := newBoss(wi, di, max(1, bossLevel*3), s.cfg.Simulation)
				s.Boss = boss
				s.Enemies = append(s.Enemies, boss)
				continue
			}
			s.Enemies = append(s.Enemies, newEnemy(wi, di, day.Level))
		}
	}
}

// Config returns the configuration the state was built with.
func (s *State) Config() config.Config { return s.cfg }

// Advance mutates all owned entities by one tick of dt seconds.
// Update order is fixed: background, ship, enemies, bullets, explosions,
// power-ups. Each pass iterates a stable snapshot of its collection.
func (s *State) Advance(dt float64) {
	for _, star := range s.Stars {
		star.update(s, dt)
	}
	s.Ship.update(s, dt)
	for _, enemy := range snapshot(s.Enemies) {
		if enemy.alive {
			enemy.update(s, dt)
		}
	}
	for _, bullet := range snapshot(s.Bullets) {
		if bullet.alive {
			bullet.update(s, dt)
		}
	}
	for _, explosion := range snapshot(s.Explosions) {
		if explosion.alive {
			explosion.update(s, dt)
		}
	}
	for _, powerUp := range snapshot(s.PowerUps) {
		if powerUp.alive {
			powerUp.update(s, dt)
		}
	}
	s.compact()
}

// Shoot fires a bullet from the ship's current column and starts the
// shot cooldown.
func (s *State) Shoot() {
	s.Bullets = append(s.Bullets, newShipBullet(s.nextBulletID, int(s.Ship.X)))
	s.nextBulletID++
	s.Ship.ShootCooldown = s.cfg.Simulation.ShipShootCooldown
}

// CanTakeAction reports whether the ship is stationary and able to fire.
func (s *State) CanTakeAction() bool {
	return !s.Ship.IsMoving() && s.Ship.CanShoot()
}

// IsComplete reports whether all enemies have been destroyed.
func (s *State) IsComplete() bool {
	return len(s.Enemies) == 0
}

// LiveColumns returns the sorted set of integer columns holding at least
// one live enemy.
func (s *State) LiveColumns() []int {
	seen := make(map[int]bool)
	var cols []int
	for _, e := range s.Enemies {
		if !e.alive {
			continue
		}
		col := e.Col()
		if !seen[col] {
			seen[col] = true
			cols = append(cols, col)
		}
	}
	for i := 1; i < len(cols); i++ {
		for j := i; j > 0 && cols[j] < cols[j-1]; j-- {
			cols[j], cols[j-1] = cols[j-1], cols[j]
		}
	}
	return cols
}

// LowestEnemyInColumn returns the live enemy closest to the ship in the
// given column, or nil if the column is clear.
func (s *State) LowestEnemyInColumn(col int) *Enemy {
	var lowest *Enemy
	for _, e := range s.Enemies {
		if !e.alive || !e.occupiesColumn(col) {
			continue
		}
		if lowest == nil || e.Y > lowest.Y {
			lowest = e
		}
	}
	return lowest
}

// killEnemy tombstones an enemy, awards score and rolls power-up drops.
func (s *State) killEnemy(e *Enemy) {
	e.alive = false
	if e.Kind == EnemyBoss {
		s.Score += bossKillScore
		// The boss always drops exactly one power-up.
		s.spawnPowerUp(e.X, float64(e.Y))
		return
	}
	s.Score += enemyKillScore
	if s.rng.Float64() < s.cfg.Simulation.PowerUpDropChance {
		s.spawnPowerUp(e.X, float64(e.Y))
	}
}

func (s *State) spawnPowerUp(x, y float64) {
	s.PowerUps = append(s.PowerUps, newRapidFirePowerUp(x, y, s.cfg.Simulation))
}

// spawnExplosion creates an explosion with randomized particle angles drawn
// from the world rng stream.
func (s *State) spawnExplosion(x, y float64, large bool) {
	ec := s.cfg.Explosion
	particles, radius, duration := ec.SmallParticles, ec.SmallRadius, ec.SmallDuration
	if large {
		particles, radius, duration = ec.LargeParticles, ec.LargeRadius, ec.LargeDuration
	}
	angles := make([]float64, particles)
	for i := range angles {
		angles[i] = s.rng.Float64() * 2 * math.Pi
	}
	s.Explosions = append(s.Explosions, &Explosion{
		ID:             s.nextExplosionID,
		X:              x,
		Y:              y,
		Duration:       duration,
		MaxRadius:      radius,
		ParticleAngles: angles,
		alive:          true,
	})
	s.nextExplosionID++
}

// compact removes tombstoned entities from all collections.
func (s *State) compact() {
	s.Enemies = compactAlive(s.Enemies, func(e *Enemy) bool { return e.alive })
	s.Bullets = compactAlive(s.Bullets, func(b *Bullet) bool { return b.alive })
	s.Explosions = compactAlive(s.Explosions, func(e *Explosion) bool { return e.alive })
	s.PowerUps = compactAlive(s.PowerUps, func(p *PowerUp) bool { return p.alive })
	if s.Boss != nil && !s.Boss.alive {
		s.Boss = nil
	}
}

func snapshot[T any](items []*T) []*T {
	out := make([]*T, len(items))
	copy(out, items)
	return out
}

func compactAlive[T any](items []*T, alive func(*T) bool) []*T {
	kept := items[:0]
	for _, item := range items {
		if alive(item) {
			kept = append(kept, item)
		}
	}
	// Clear the tail so tombstoned entities can be collected.
	for i := len(kept); i < len(items); i++ {
		items[i] = nil
	}
	return kept
}
