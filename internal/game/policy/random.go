package policy

import (
	"iter"
	"math/rand/v2"

	"github.com/vovakirdan/starshot/internal/game"
)

// randomPolicy hops between nearby live columns with a weighted pick, which
// reads as organic play: it strongly prefers short hops over staying put or
// crossing the whole grid.
type randomPolicy struct{}

const randomCandidateCount = 8

func (*randomPolicy) Name() string { return "random" }

func (*randomPolicy) Actions(st *game.State, rng *rand.Rand) iter.Seq[Action] {
	return func(yield func(Action) bool) {
		for !st.IsComplete() {
			cols := st.LiveColumns()
			if len(cols) == 0 {
				return
			}
			col := pickColumn(cols, int(st.Ship.X), rng)
			target := st.LowestEnemyInColumn(col)
			if target == nil {
				continue
			}
			for i := 0; i < target.Health; i++ {
				if !yield(Action{X: col, Shoot: true}) {
					return
				}
			}
		}
	}
}

// pickColumn makes a weighted choice among the candidate columns nearest
// to the ship. Staying in place is dull and long treks are slow, so hops
// of one to three columns dominate.
func pickColumn(cols []int, shipCol int, rng *rand.Rand) int {
	candidates := nearestColumns(cols, shipCol, randomCandidateCount)
	total := 0
	weights := make([]int, len(candidates))
	for i, col := range candidates {
		weights[i] = hopWeight(abs(col - shipCol))
		total += weights[i]
	}
	pick := rng.IntN(total)
	for i, w := range weights {
		pick -= w
		if pick < 0 {
			return candidates[i]
		}
	}
	return candidates[len(candidates)-1]
}

func hopWeight(dist int) int {
	switch {
	case dist == 0:
		return 10
	case dist <= 3:
		return 100
	default:
		return 1
	}
}

// nearestColumns returns up to n columns sorted by distance to shipCol,
// ties resolved toward the left. cols must be sorted ascending.
func nearestColumns(cols []int, shipCol, n int) []int {
	sorted := make([]int, len(cols))
	copy(sorted, cols)
	// Insertion sort by (distance, column); candidate sets are tiny.
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0; j-- {
			dj, dp := abs(sorted[j]-shipCol), abs(sorted[j-1]-shipCol)
			if dj < dp || (dj == dp && sorted[j] < sorted[j-1]) {
				sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
			} else {
				break
			}
		}
	}
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
