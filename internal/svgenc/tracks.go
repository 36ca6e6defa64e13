package svgenc

import (
	"math"
	"strings"
)

// point is a 2D sample on a translate track.
type point struct {
	X, Y float64
}

// compressPointsForced drops interior samples that sit on the straight line
// between their neighbors (equal velocity on both sides). Indices in forced
// are always kept, which preserves discontinuities like wrap jumps.
func compressPointsForced(points []point, times []int, forced map[int]bool, eps float64) ([]point, []int) {
	if len(points) <= 2 {
		return points, times
	}

	keep := []int{0}
	for i := 1; i < len(points)-1; i++ {
		if forced[i] {
			keep = append(keep, i)
			continue
		}
		t0, t1, t2 := times[i-1], times[i], times[i+1]
		if t1 == t0 || t2 == t1 {
			keep = append(keep, i)
			continue
		}
		dx1 := (points[i].X - points[i-1].X) / float64(t1-t0)
		dy1 := (points[i].Y - points[i-1].Y) / float64(t1-t0)
		dx2 := (points[i+1].X - points[i].X) / float64(t2-t1)
		dy2 := (points[i+1].Y - points[i].Y) / float64(t2-t1)
		if math.Abs(dx1-dx2) > eps || math.Abs(dy1-dy2) > eps {
			keep = append(keep, i)
		}
	}
	keep = append(keep, len(points)-1)

	outPoints := make([]point, len(keep))
	outTimes := make([]int, len(keep))
	for i, idx := range keep {
		outPoints[i] = points[idx]
		outTimes[i] = times[idx]
	}
	return outPoints, outTimes
}

// compressDiscretePoints removes repeated consecutive points on a discrete
// (step) track. Samples at a duplicated time overwrite the previous value.
func compressDiscretePoints(times []int, points []point) ([]int, []point) {
	if len(times) == 0 || len(points) == 0 || len(times) != len(points) {
		return []int{0}, []point{{}}
	}

	outTimes := []int{times[0]}
	outPoints := []point{points[0]}
	for i := 1; i < len(points); i++ {
		if times[i] == outTimes[len(outTimes)-1] {
			outPoints[len(outPoints)-1] = points[i]
			continue
		}
		if points[i] == outPoints[len(outPoints)-1] {
			continue
		}
		outTimes = append(outTimes, times[i])
		outPoints = append(outPoints, points[i])
	}
	return outTimes, outPoints
}

// compressDiscreteTrack removes repeated consecutive string values.
func compressDiscreteTrack(times []int, values []string) ([]int, []string) {
	if len(times) == 0 || len(values) == 0 || len(times) != len(values) {
		fallback := "#000000"
		if len(values) > 0 {
			fallback = values[0]
		}
		return []int{0}, []string{fallback}
	}

	outTimes := []int{times[0]}
	outValues := []string{values[0]}
	for i := 1; i < len(values); i++ {
		if times[i] == outTimes[len(outTimes)-1] {
			outValues[len(outValues)-1] = values[i]
			continue
		}
		if values[i] == outValues[len(outValues)-1] {
			continue
		}
		outTimes = append(outTimes, times[i])
		outValues = append(outValues, values[i])
	}
	return outTimes, outValues
}

// compressScalarTrack removes consecutive scalar values within eps.
func compressScalarTrack(times []int, values []float64, eps float64) ([]int, []float64) {
	if len(times) == 0 || len(values) == 0 || len(times) != len(values) {
		return []int{0}, []float64{0}
	}

	outTimes := []int{times[0]}
	outValues := []float64{values[0]}
	for i := 1; i < len(values); i++ {
		if times[i] == outTimes[len(outTimes)-1] {
			outValues[len(outValues)-1] = values[i]
			continue
		}
		if math.Abs(values[i]-outValues[len(outValues)-1]) <= eps {
			continue
		}
		outTimes = append(outTimes, times[i])
		outValues = append(outValues, values[i])
	}
	return outTimes, outValues
}

// compressLinearScalarTrack drops interior samples with equal slope on both
// sides, keeping any forced indices.
func compressLinearScalarTrack(times []int, values []float64, forced map[int]bool, eps float64) ([]int, []float64) {
	if len(times) == 0 || len(values) == 0 || len(times) != len(values) {
		return []int{0}, []float64{0}
	}
	if len(times) <= 2 {
		return append([]int(nil), times...), append([]float64(nil), values...)
	}

	keep := []int{0}
	for i := 1; i < len(values)-1; i++ {
		if forced[i] {
			keep = append(keep, i)
			continue
		}
		t0, t1, t2 := times[i-1], times[i], times[i+1]
		if t1 == t0 || t2 == t1 {
			keep = append(keep, i)
			continue
		}
		slope1 := (values[i] - values[i-1]) / float64(t1-t0)
		slope2 := (values[i+1] - values[i]) / float64(t2-t1)
		if math.Abs(slope1-slope2) > eps {
			keep = append(keep, i)
		}
	}
	keep = append(keep, len(values)-1)

	outTimes := make([]int, len(keep))
	outValues := make([]float64, len(keep))
	for i, idx := range keep {
		outTimes[i] = times[idx]
		outValues[i] = values[idx]
	}
	return outTimes, outValues
}

// padTrack guarantees explicit keyframes at t=0 and t=duration so the
// animation loops cleanly, merging samples that land on the same time.
func padTrack[T any](times []int, values []T, durationMs int) ([]int, []T) {
	paddedTimes := append([]int(nil), times...)
	paddedValues := append([]T(nil), values...)
	if paddedTimes[0] > 0 {
		paddedTimes = append([]int{0}, paddedTimes...)
		paddedValues = append([]T{paddedValues[0]}, paddedValues...)
	}
	last := len(paddedTimes) - 1
	if paddedTimes[last] < durationMs {
		paddedTimes = append(paddedTimes, durationMs)
		paddedValues = append(paddedValues, paddedValues[last])
	} else if paddedTimes[last] > durationMs {
		paddedTimes[last] = durationMs
	}

	mergedTimes := []int{paddedTimes[0]}
	mergedValues := []T{paddedValues[0]}
	for i := 1; i < len(paddedTimes); i++ {
		if paddedTimes[i] == mergedTimes[len(mergedTimes)-1] {
			mergedValues[len(mergedValues)-1] = paddedValues[i]
			continue
		}
		mergedTimes = append(mergedTimes, paddedTimes[i])
		mergedValues = append(mergedValues, paddedValues[i])
	}
	return mergedTimes, mergedValues
}

func keyTimes(times []int, totalDurationMs int) string {
	if totalDurationMs <= 0 {
		return "0;1"
	}
	parts := make([]string, len(times))
	for i, t := range times {
		parts[i] = numKeyTime(float64(t) / float64(totalDurationMs))
	}
	return strings.Join(parts, ";")
}

// keyTimesAttr returns the keyTimes attribute, or "" when the track spans
// exactly 0..duration with two keys (the SMIL default).
func keyTimesAttr(times []int, totalDurationMs int) string {
	if len(times) == 2 && times[0] == 0 && times[1] == totalDurationMs {
		return ""
	}
	return `keyTimes="` + keyTimes(times, totalDurationMs) + `"`
}

func hasDistinctStrings(values []string) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values[1:] {
		if v != values[0] {
			return true
		}
	}
	return false
}

func hasDistinctFloats(values []float64, eps float64) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values[1:] {
		if math.Abs(v-values[0]) > eps {
			return true
		}
	}
	return false
}

func hasDistinctPoints(points []point, eps float64) bool {
	if len(points) == 0 {
		return false
	}
	for _, p := range points[1:] {
		if math.Abs(p.X-points[0].X) > eps || math.Abs(p.Y-points[0].Y) > eps {
			return true
		}
	}
	return false
}

// transitionForcedIndices marks both samples around every on/off flip of an
// opacity-like track so compression cannot smear the transition.
func transitionForcedIndices(values []float64, threshold float64) map[int]bool {
	forced := map[int]bool{0: true}
	if len(values) == 0 {
		return forced
	}
	forced[len(values)-1] = true
	for i := 1; i < len(values); i++ {
		prevOn := values[i-1] >= threshold
		currOn := values[i] >= threshold
		if prevOn == currOn {
			continue
		}
		forced[i-1] = true
		forced[i] = true
	}
	return forced
}
