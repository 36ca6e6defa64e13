package game

// Explosion is a short-lived particle burst that ages out after its
// configured duration.
type Explosion struct {
	ID             int
	X              float64
	Y              float64
	Elapsed        float64
	Duration       float64
	MaxRadius      float64
	ParticleAngles []float64

	alive bool
}

func (e *Explosion) update(_ *State, dt float64) {
	e.Elapsed += dt
	if e.Elapsed >= e.Duration {
		e.alive = false
	}
}

// Progress returns the normalized [0,1] lifetime fraction.
func (e *Explosion) Progress() float64 {
	if e.Duration <= 0 {
		return 1
	}
	return min(1, max(0, e.Elapsed/e.Duration))
}
