package game

import (
	"fmt"

	"github.com/vovakirdan/starshot/internal/config"
)

// EnemyKind distinguishes regular one-cell enemies from the boss.
type EnemyKind int

const (
	EnemyRegular EnemyKind = iota
	EnemyBoss
)

// Enemy is a destroyable grid cell. Regular enemies never move; the boss
// patrols horizontally and returns fire.
type Enemy struct {
	ID     string
	Kind   EnemyKind
	X      float64
	Y      int
	Health int

	// Boss-only fields.
	WidthCells  int
	HeightCells int
	direction   int
	shootTimer  float64
	moveSpeed   float64
	shootEvery  float64

	alive bool
}

func newEnemy(week, day, health int) *Enemy {
	return &Enemy{
		ID:          fmt.Sprintf("%d-%d", week, day),
		Kind:        EnemyRegular,
		X:           float64(week),
		Y:           day,
		Health:      health,
		WidthCells:  1,
		HeightCells: 1,
		alive:       true,
	}
}

func newBoss(week, day, health int, sim config.SimulationConfig) *Enemy {
	return &Enemy{
		ID:          fmt.Sprintf("boss-%d-%d", week, day),
		Kind:        EnemyBoss,
		X:           float64(week),
		Y:           day,
		Health:      health,
		WidthCells:  3,
		HeightCells: 2,
		direction:   1,
		shootTimer:  sim.BossShootInterval,
		moveSpeed:   sim.BossMoveSpeed,
		shootEvery:  sim.BossShootInterval,
		alive:       true,
	}
}

// Alive reports whether the enemy has not been tombstoned this tick.
func (e *Enemy) Alive() bool { return e.alive }

// Col returns the integer column of the enemy's left edge.
func (e *Enemy) Col() int { return int(e.X) }

// occupiesColumn reports whether the enemy overlaps the given column.
func (e *Enemy) occupiesColumn(col int) bool {
	left := e.Col()
	return col >= left && col < left+e.WidthCells
}

// TakeDamage applies one point of damage and kills the enemy at zero
// health.
func (e *Enemy) TakeDamage(s *State) {
	e.Health--
	if e.Health <= 0 {
		s.killEnemy(e)
	}
}

func (e *Enemy) update(s *State, dt float64) {
	if e.Kind != EnemyBoss {
		return
	}

	e.X += e.moveSpeed * float64(e.direction) * dt
	limit := float64(GridWidth - e.WidthCells)
	if e.X <= 0 {
		e.X = 0
		e.direction = 1
	} else if e.X >= limit {
		e.X = limit
		e.direction = -1
	}

	e.shootTimer -= dt
	if e.shootTimer <= 0 {
		e.shootSpread(s)
		e.shootTimer = e.shootEvery
	}
}

// shootSpread fires the boss's three-bullet spread from its bottom edge.
func (e *Enemy) shootSpread(s *State) {
	bottom := float64(e.Y + e.HeightCells - 1)
	for _, offset := range []float64{0.5, 1.0, 1.5} {
		s.Bullets = append(s.Bullets, newBossBullet(s.nextBulletID, e.X+offset, bottom))
		s.nextBulletID++
	}
}
