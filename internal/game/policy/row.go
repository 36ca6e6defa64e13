package policy

import (
	"iter"
	"math/rand/v2"

	"github.com/vovakirdan/starshot/internal/game"
)

// rowPolicy clears the grid bottom row first: it always targets the live
// enemy closest to the ship, breaking ties toward the left.
type rowPolicy struct{}

func (rowPolicy) Name() string { return "row" }

func (rowPolicy) Actions(st *game.State, _ *rand.Rand) iter.Seq[Action] {
	return func(yield func(Action) bool) {
		for !st.IsComplete() {
			target := nearestToShip(st)
			if target == nil {
				return
			}
			col := target.Col()
			for i := 0; i < target.Health; i++ {
				if !yield(Action{X: col, Shoot: true}) {
					return
				}
			}
		}
	}
}

// nearestToShip returns the live enemy whose bottom edge is lowest,
// preferring smaller columns on ties.
func nearestToShip(st *game.State) *game.Enemy {
	var best *game.Enemy
	consider := func(e *game.Enemy) {
		if e == nil || !e.Alive() {
			return
		}
		if best == nil {
			best = e
			return
		}
		eBottom := e.Y + e.HeightCells - 1
		bestBottom := best.Y + best.HeightCells - 1
		if eBottom > bestBottom || (eBottom == bestBottom && e.Col() < best.Col()) {
			best = e
		}
	}
	for _, e := range st.Enemies {
		consider(e)
	}
	consider(st.Boss)
	return best
}
