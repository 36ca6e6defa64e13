package game

import (
	"math/rand/v2"

	"github.com/vovakirdan/starshot/internal/config"
	"github.com/vovakirdan/starshot/internal/contrib"
)

// starSpawnTop is slightly above the viewport so wrapping stars enter from
// the top edge.
const starSpawnTop = -3.0

// starWrapBottom is the y past which a star wraps back to the top.
const starWrapBottom = ShipRow + 4

// Star is one background starfield particle. Brighter stars are closer and
// scroll faster.
type Star struct {
	ID         int
	X          float64
	Y          float64
	Brightness float64
	Size       int

	speed   float64
	wrapRNG *rand.Rand
}

func newStarfield(cfg config.StarfieldConfig, rng *rand.Rand) []*Star {
	stars := make([]*Star, 0, cfg.Count)
	for id := 0; id < cfg.Count; id++ {
		x := uniform(rng, -2, contrib.NumWeeks+2)
		y := uniform(rng, starSpawnTop, ShipRow+4)
		brightness := uniform(rng, 0.2, 1.0)
		// Mostly single-pixel stars, occasionally 2x2.
		size := 1
		if rng.IntN(4) == 3 {
			size = 2
		}
		stars = append(stars, &Star{
			ID:         id,
			X:          x,
			Y:          y,
			Brightness: brightness,
			Size:       size,
			speed:      cfg.SpeedMin + brightness*(cfg.SpeedMax-cfg.SpeedMin),
			wrapRNG:    rng,
		})
	}
	return stars
}

func (st *Star) update(_ *State, dt float64) {
	st.Y += st.speed * dt
	if st.Y > starWrapBottom {
		st.Y = starSpawnTop
		// Randomize x on wrap for variety.
		st.X = uniform(st.wrapRNG, -2, contrib.NumWeeks+2)
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
