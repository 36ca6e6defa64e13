package anim

import (
	"iter"
	"math/rand/v2"

	"github.com/vovakirdan/starshot/internal/config"
	"github.com/vovakirdan/starshot/internal/contrib"
	"github.com/vovakirdan/starshot/internal/game"
	"github.com/vovakirdan/starshot/internal/game/policy"
)

// Animator drives one simulation run and samples a frame after every tick.
// An Animator is single use: Frames consumes the underlying engine state.
type Animator struct {
	st        *game.State
	pol       policy.Policy
	policyRNG *rand.Rand
	cfg       config.Config
	watermark string
	seed      uint64

	frameMs int
	dt      float64
	width   int
	height  int
}

// NewAnimator seeds and builds a simulation run for the given grid and
// policy. The master seed is derived from (grid, policy, fps), so the same
// inputs always produce the same animation.
func NewAnimator(grid contrib.Grid, pol policy.Policy, cfg config.Config, watermark string) (*Animator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fps := cfg.Simulation.FPS
	seed := game.DeriveSeed(grid, pol.Name(), fps)
	policyRNG, worldRNG := game.SplitSeed(seed)

	st, err := game.NewState(grid, cfg, worldRNG)
	if err != nil {
		return nil, err
	}

	step := cfg.Theme.Step()
	return &Animator{
		st:        st,
		pol:       pol,
		policyRNG: policyRNG,
		cfg:       cfg,
		watermark: watermark,
		seed:      seed,
		frameMs:   1000 / fps,
		dt:        1.0 / float64(fps),
		width:     contrib.NumWeeks*step + 2*cfg.Theme.Padding,
		height:    game.ShipRow*step + 2*cfg.Theme.Padding,
	}, nil
}

// Seed returns the derived master seed for this run.
func (a *Animator) Seed() uint64 { return a.seed }

// Score returns the engine score accumulated so far.
func (a *Animator) Score() int { return a.st.Score }

// FrameDuration returns the per-frame duration in milliseconds.
func (a *Animator) FrameDuration() int { return a.frameMs }

// Width returns the canvas width in pixels.
func (a *Animator) Width() int { return a.width }

// Height returns the canvas height in pixels.
func (a *Animator) Height() int { return a.height }

// Frames yields the frame sequence for the whole run: an initial frame,
// then one frame per engine tick while the policy plays out, a bounded
// tail until the grid is clear, and a few trailing frames so the last
// explosions resolve. maxFrames > 0 caps the stream.
func (a *Animator) Frames(maxFrames int) iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		rendered, elapsed := 0, 0
		emit := func() bool {
			if maxFrames > 0 && rendered >= maxFrames {
				return false
			}
			if !yield(snapshotState(a.st, elapsed, a.width, a.height, a.watermark)) {
				return false
			}
			rendered++
			elapsed += a.frameMs
			return true
		}

		if !emit() {
			return
		}

		next, stop := iter.Pull(a.pol.Actions(a.st, a.policyRNG))
		defer stop()
		for {
			action, ok := next()
			if !ok {
				break
			}
			a.st.Ship.MoveTo(action.X)
			for !a.st.CanTakeAction() {
				a.st.Advance(a.dt)
				if !emit() {
					return
				}
			}
			if action.Shoot {
				a.st.Shoot()
				a.st.Advance(a.dt)
				if !emit() {
					return
				}
			}
		}

		// Let in-flight shots land, bounded in case something stalls.
		for ticks := a.cfg.Simulation.ForceStopTicks; ticks > 0 && !a.st.IsComplete(); ticks-- {
			a.st.Advance(a.dt)
			if !emit() {
				return
			}
		}

		for i := 0; i < a.cfg.Simulation.SettleFrames; i++ {
			a.st.Advance(a.dt)
			if !emit() {
				return
			}
		}
	}
}
