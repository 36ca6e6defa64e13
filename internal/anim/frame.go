// Package anim samples the simulation into an ordered stream of immutable
// frames. Encoders never touch live engine state; they only see the
// snapshots produced here.
package anim

import (
	"github.com/vovakirdan/starshot/internal/game"
)

// Frame is one rendered instant of the simulation. All slices are deep
// copies; a Frame stays valid after the engine ticks on.
type Frame struct {
	TimeMs    int
	Width     int
	Height    int
	Watermark string
	Score     int

	Ship       ShipState
	Stars      []StarState
	Enemies    []EnemyState
	Bullets    []BulletState
	Explosions []ExplosionState
	PowerUps   []PowerUpState
}

// ShipState is the ship's render state.
type ShipState struct {
	X         float64
	Destroyed bool
	RapidFire bool
}

// StarState is one background star's render state.
type StarState struct {
	ID         int
	X          float64
	Y          float64
	Brightness float64
	Size       int
}

// EnemyState is one enemy's render state.
type EnemyState struct {
	ID          string
	Kind        game.EnemyKind
	X           float64
	Y           int
	Health      int
	WidthCells  int
	HeightCells int
}

// BulletState is one projectile's render state.
type BulletState struct {
	ID   int
	Kind game.BulletKind
	X    float64
	Y    float64
}

// ExplosionState is one particle burst's render state. Progress is the
// normalized [0,1] lifetime fraction.
type ExplosionState struct {
	ID             int
	X              float64
	Y              float64
	Progress       float64
	MaxRadius      float64
	ParticleAngles []float64
}

// PowerUpState is one falling drop's render state.
type PowerUpState struct {
	Kind game.PowerUpKind
	X    float64
	Y    float64
}

func snapshotState(st *game.State, timeMs, width, height int, watermark string) Frame {
	f := Frame{
		TimeMs:    timeMs,
		Width:     width,
		Height:    height,
		Watermark: watermark,
		Score:     st.Score,
		Ship: ShipState{
			X:         st.Ship.X,
			Destroyed: st.Ship.Destroyed,
			RapidFire: st.Ship.RapidFireActive,
		},
	}

	f.Stars = make([]StarState, len(st.Stars))
	for i, s := range st.Stars {
		f.Stars[i] = StarState{ID: s.ID, X: s.X, Y: s.Y, Brightness: s.Brightness, Size: s.Size}
	}

	f.Enemies = make([]EnemyState, 0, len(st.Enemies))
	for _, e := range st.Enemies {
		if !e.Alive() {
			continue
		}
		f.Enemies = append(f.Enemies, EnemyState{
			ID:          e.ID,
			Kind:        e.Kind,
			X:           e.X,
			Y:           e.Y,
			Health:      e.Health,
			WidthCells:  e.WidthCells,
			HeightCells: e.HeightCells,
		})
	}

	f.Bullets = make([]BulletState, 0, len(st.Bullets))
	for _, b := range st.Bullets {
		f.Bullets = append(f.Bullets, BulletState{ID: b.ID, Kind: b.Kind, X: b.X, Y: b.Y})
	}

	f.Explosions = make([]ExplosionState, 0, len(st.Explosions))
	for _, e := range st.Explosions {
		angles := make([]float64, len(e.ParticleAngles))
		copy(angles, e.ParticleAngles)
		f.Explosions = append(f.Explosions, ExplosionState{
			ID:             e.ID,
			X:              e.X,
			Y:              e.Y,
			Progress:       e.Progress(),
			MaxRadius:      e.MaxRadius,
			ParticleAngles: angles,
		})
	}

	f.PowerUps = make([]PowerUpState, 0, len(st.PowerUps))
	for _, p := range st.PowerUps {
		f.PowerUps = append(f.PowerUps, PowerUpState{Kind: p.Kind, X: p.X, Y: p.Y})
	}

	return f
}
