package policy

import (
	"iter"
	"math/rand/v2"

	"github.com/vovakirdan/starshot/internal/game"
)

// columnPolicy sweeps the grid column by column from the left edge,
// emptying each column before advancing to the next.
type columnPolicy struct{}

func (columnPolicy) Name() string { return "column" }

func (columnPolicy) Actions(st *game.State, _ *rand.Rand) iter.Seq[Action] {
	return func(yield func(Action) bool) {
		for !st.IsComplete() {
			cols := st.LiveColumns()
			if len(cols) == 0 {
				return
			}
			col := cols[0]
			target := st.LowestEnemyInColumn(col)
			if target == nil {
				return
			}
			for i := 0; i < target.Health; i++ {
				if !yield(Action{X: col, Shoot: true}) {
					return
				}
			}
		}
	}
}
