package game

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"math/rand/v2"

	"github.com/vovakirdan/starshot/internal/contrib"
)

// DeriveSeed produces a reproducible master seed from the full simulation
// inputs. Identical (grid, policy, fps) triples always yield identical
// rendered animations; changing any of them changes the seed.
func DeriveSeed(grid contrib.Grid, policyName string, fps int) uint64 {
	payload := struct {
		FPS    int     `json:"fps"`
		Policy string  `json:"policy"`
		Weeks  [][]int `json:"weeks"`
	}{
		FPS:    fps,
		Policy: policyName,
		Weeks:  grid.Levels(),
	}
	// json.Marshal of a struct is canonical: field order is fixed.
	encoded, err := json.Marshal(payload)
	if err != nil {
		// Only unmarshalable types can fail here, and the payload has none.
		panic(err)
	}
	digest := sha256.Sum256(encoded)
	return binary.BigEndian.Uint64(digest[:8])
}

// SplitSeed derives two independent sub-streams from a master seed: one
// for policy randomness, one for world randomness. Keeping the streams
// separate means a policy change cannot perturb star placement and vice
// versa.
func SplitSeed(seed uint64) (policyRNG, worldRNG *rand.Rand) {
	master := rand.New(rand.NewPCG(seed, 0x9e3779b97f4a7c15))
	policyRNG = rand.New(rand.NewPCG(master.Uint64(), master.Uint64()))
	worldRNG = rand.New(rand.NewPCG(master.Uint64(), master.Uint64()))
	return policyRNG, worldRNG
}
