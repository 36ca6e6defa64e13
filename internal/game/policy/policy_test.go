package policy

import (
	"iter"
	"math/rand/v2"
	"testing"

	"github.com/vovakirdan/starshot/internal/config"
	"github.com/vovakirdan/starshot/internal/contrib"
	"github.com/vovakirdan/starshot/internal/game"
)

func testState(t *testing.T, levels [][]int) *game.State {
	t.Helper()
	grid := contrib.FromLevels("test", levels)
	_, worldRNG := game.SplitSeed(game.DeriveSeed(grid, "test", 20))
	st, err := game.NewState(grid, config.Default(), worldRNG)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	return st
}

func firstActions(p Policy, st *game.State, rng *rand.Rand, n int) []Action {
	var actions []Action
	for a := range p.Actions(st, rng) {
		actions = append(actions, a)
		if len(actions) == n {
			break
		}
	}
	return actions
}

func TestRegistry(t *testing.T) {
	names := Names()
	want := []string{"column", "row", "random"}
	for _, name := range want {
		found := false
		for _, got := range names {
			if got == name {
				found = true
			}
		}
		if !found {
			t.Errorf("Names() = %v, missing %q", names, name)
		}
	}

	for _, name := range names {
		p, err := Create(name)
		if err != nil {
			t.Fatalf("Create(%q): %v", name, err)
		}
		if p.Name() != name {
			t.Errorf("Create(%q).Name() = %q", name, p.Name())
		}
	}

	if _, err := Create("nope"); err == nil {
		t.Fatal("expected error for unknown name")
	}
}

func TestColumnPolicyTargetsLeftmostFirst(t *testing.T) {
	// Enemies in columns 3 (health 1) and 7 (boss, health 12).
	levels := make([][]int, 10)
	for i := range levels {
		levels[i] = []int{0}
	}
	levels[3] = []int{1}
	levels[7] = []int{4}
	st := testState(t, levels)

	p, _ := Create("column")
	actions := firstActions(p, st, nil, 1)
	if len(actions) != 1 || actions[0].X != 3 || !actions[0].Shoot {
		t.Fatalf("first action = %v, want shoot at column 3", actions)
	}
}

func TestColumnPolicyEmptiesColumnHealth(t *testing.T) {
	// Single regular enemy (health 2) plus a far boss; the policy must
	// queue exactly two shots for the health-2 column before retargeting.
	levels := [][]int{{2}, {0}, {0}, {0}, {0}, {0}, {0}, {0}, {0}, {4}}
	st := testState(t, levels)

	p, _ := Create("column")
	next, stop := iter.Pull(p.Actions(st, nil))
	defer stop()

	for i := 0; i < 2; i++ {
		a, ok := next()
		if !ok || a.X != 0 {
			t.Fatalf("action %d = %v, want shoot at column 0", i, a)
		}
	}

	// Both queued shots land and the column clears; the next read must
	// retarget the boss column.
	target := st.LowestEnemyInColumn(0)
	target.TakeDamage(st)
	target.TakeDamage(st)

	a, ok := next()
	if !ok || a.X != 9 {
		t.Fatalf("action after column clear = %v, want column 9", a)
	}
}

func TestRowPolicyTargetsLowestEnemy(t *testing.T) {
	// Column 0 holds a day-1 enemy, column 5 a day-6 enemy. Day 6 is
	// closer to the ship and must be hit first.
	levels := [][]int{
		{0, 1, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 2},
	}
	st := testState(t, levels)

	p, _ := Create("row")
	actions := firstActions(p, st, nil, 1)
	if actions[0].X != 5 {
		t.Fatalf("first action = %v, want the day-6 enemy in column 5", actions[0])
	}
}

func TestRandomPolicyReproducible(t *testing.T) {
	levels := [][]int{{1}, {2}, {0}, {1}, {3}, {0}, {1}}
	run := func() []Action {
		st := testState(t, levels)
		rng := rand.New(rand.NewPCG(7, 11))
		p, _ := Create("random")
		return firstActions(p, st, rng, 5)
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("action %d diverged: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestRandomPolicyShootsLiveColumns(t *testing.T) {
	levels := [][]int{{1}, {0}, {2}, {0}, {3}}
	st := testState(t, levels)
	live := map[int]bool{}
	for _, col := range st.LiveColumns() {
		live[col] = true
	}

	rng := rand.New(rand.NewPCG(3, 5))
	p, _ := Create("random")
	for _, a := range firstActions(p, st, rng, 8) {
		if !a.Shoot {
			t.Fatalf("action %v should shoot", a)
		}
		if !live[a.X] {
			t.Fatalf("action %v targets a column with no enemies", a)
		}
	}
}

func TestNearestColumnsOrdering(t *testing.T) {
	cols := []int{0, 5, 10, 20, 26, 30, 40, 45, 50, 51}
	got := nearestColumns(cols, 26, 8)
	if len(got) != 8 {
		t.Fatalf("got %d candidates, want 8", len(got))
	}
	if got[0] != 26 {
		t.Errorf("closest candidate = %d, want 26", got[0])
	}
	prev := -1
	for _, col := range got {
		d := abs(col - 26)
		if d < prev {
			t.Fatalf("candidates not ordered by distance: %v", got)
		}
		prev = d
	}
}

func TestHopWeights(t *testing.T) {
	cases := []struct {
		dist, want int
	}{
		{0, 10}, {1, 100}, {3, 100}, {4, 1}, {40, 1},
	}
	for _, c := range cases {
		if got := hopWeight(c.dist); got != c.want {
			t.Errorf("hopWeight(%d) = %d, want %d", c.dist, got, c.want)
		}
	}
}
