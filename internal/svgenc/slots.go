package svgenc

import (
	"cmp"
	"slices"
	"sort"
)

// buildSlotTracks multiplexes transient object identities onto a bounded
// set of reusable animation slots. Each returned track holds one sample per
// frame; nil marks the slot inactive.
//
// With reuseWithinFrame a slot freed this frame can host a new object in
// the same frame (fine for discrete tracks). Without it the release is
// deferred by one frame, so interpolated tracks never blend the tail of one
// object into the head of the next.
func buildSlotTracks[K cmp.Ordered, V any](frameMaps []map[K]V, reuseWithinFrame bool) [][]*V {
	var slotTracks [][]*V
	activeSlots := make(map[K]int)
	var freeSlots []int

	release := func(current map[K]V) {
		var ended []K
		for id := range activeSlots {
			if _, ok := current[id]; !ok {
				ended = append(ended, id)
			}
		}
		for _, id := range ended {
			freeSlots = append(freeSlots, activeSlots[id])
			delete(activeSlots, id)
		}
		sort.Ints(freeSlots)
	}

	for frameIndex, frameMap := range frameMaps {
		if reuseWithinFrame {
			release(frameMap)
		}

		ids := make([]K, 0, len(frameMap))
		for id := range frameMap {
			ids = append(ids, id)
		}
		slices.Sort(ids)

		for _, id := range ids {
			if _, ok := activeSlots[id]; ok {
				continue
			}
			var slot int
			if len(freeSlots) > 0 {
				slot = freeSlots[0]
				freeSlots = freeSlots[1:]
			} else {
				slot = len(slotTracks)
				slotTracks = append(slotTracks, make([]*V, frameIndex))
			}
			activeSlots[id] = slot
		}

		for i := range slotTracks {
			slotTracks[i] = append(slotTracks[i], nil)
		}

		for id, payload := range frameMap {
			value := payload
			slotTracks[activeSlots[id]][frameIndex] = &value
		}

		if !reuseWithinFrame {
			release(frameMap)
		}
	}

	return slotTracks
}
