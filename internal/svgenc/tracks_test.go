package svgenc

import (
	"testing"
)

func TestCompactNameSequence(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "a"}, {1, "b"}, {25, "z"}, {26, "A"}, {51, "Z"}, {52, "aa"}, {53, "ab"}, {103, "aZ"}, {104, "ba"},
	}
	for _, c := range cases {
		if got := compactName(c.in); got != c.want {
			t.Errorf("compactName(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestShortHex(t *testing.T) {
	cases := []struct{ in, want string }{
		{"#FFCC00", "#fc0"},
		{"#ffffff", "#fff"},
		{"#0d1117", "#0d1117"},
		{"#39d353", "#39d353"},
	}
	for _, c := range cases {
		if got := shortHex(c.in); got != c.want {
			t.Errorf("shortHex(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNumFormatting(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{13, "13"},
		{13.000000001, "13"},
		{0.5, ".5"},
		{-0.25, "-.25"},
		{1.230000, "1.23"},
		{0.5019607843, ".501961"},
	}
	for _, c := range cases {
		if got := num(c.in); got != c.want {
			t.Errorf("num(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNumStepQuantizes(t *testing.T) {
	if got := numStep(13.0049, 0.01); got != "13" {
		t.Errorf("numStep = %q, want 13", got)
	}
	if got := numStep(13.006, 0.01); got != "13.01" {
		t.Errorf("numStep = %q, want 13.01", got)
	}
}

func TestCompressLinearScalarTrack(t *testing.T) {
	// Constant slope: interior points collapse.
	times := []int{0, 50, 100, 150, 200}
	values := []float64{0, 1, 2, 3, 4}
	ct, cv := compressLinearScalarTrack(times, values, nil, 1e-9)
	if len(ct) != 2 || ct[0] != 0 || ct[1] != 200 || cv[0] != 0 || cv[1] != 4 {
		t.Fatalf("constant slope not collapsed: times=%v values=%v", ct, cv)
	}

	// Slope change at index 2 must survive.
	values = []float64{0, 1, 2, 2, 2}
	ct, cv = compressLinearScalarTrack(times, values, nil, 1e-9)
	if len(ct) != 3 || ct[1] != 100 || cv[1] != 2 {
		t.Fatalf("slope change lost: times=%v values=%v", ct, cv)
	}

	// Forced index kept even on a straight segment.
	values = []float64{0, 1, 2, 3, 4}
	ct, _ = compressLinearScalarTrack(times, values, map[int]bool{2: true}, 1e-9)
	if len(ct) != 3 || ct[1] != 100 {
		t.Fatalf("forced index dropped: times=%v", ct)
	}
}

func TestCompressPointsForcedKeepsWraps(t *testing.T) {
	times := []int{0, 50, 100, 150}
	points := []point{{0, 0}, {0, 5}, {0, -20}, {0, -15}}
	forced := map[int]bool{1: true, 2: true}
	cp, ct := compressPointsForced(points, times, forced, 1e-6)
	if len(cp) != 4 {
		t.Fatalf("wrap keyframes lost: points=%v times=%v", cp, ct)
	}
}

func TestCompressScalarTrackMergesDuplicateTimes(t *testing.T) {
	times := []int{0, 0, 100, 200}
	values := []float64{1, 0, 0, 0}
	ct, cv := compressScalarTrack(times, values, 1e-9)
	if len(ct) != 1 || cv[0] != 0 {
		t.Fatalf("duplicate-time merge wrong: times=%v values=%v", ct, cv)
	}
}

func TestCompressDiscreteTrack(t *testing.T) {
	times := []int{0, 50, 100, 150}
	values := []string{"a", "a", "b", "b"}
	ct, cv := compressDiscreteTrack(times, values)
	if len(ct) != 2 || cv[0] != "a" || cv[1] != "b" || ct[1] != 100 {
		t.Fatalf("discrete compression wrong: times=%v values=%v", ct, cv)
	}
}

func TestPadTrack(t *testing.T) {
	times, values := padTrack([]int{50, 100}, []string{"x", "y"}, 200)
	if times[0] != 0 || values[0] != "x" {
		t.Fatalf("missing leading pad: times=%v values=%v", times, values)
	}
	if times[len(times)-1] != 200 || values[len(values)-1] != "y" {
		t.Fatalf("missing trailing pad: times=%v values=%v", times, values)
	}

	// Overshooting sample is clamped to the loop end.
	times, _ = padTrack([]int{0, 250}, []string{"x", "y"}, 200)
	if times[len(times)-1] != 200 {
		t.Fatalf("overshoot not clamped: times=%v", times)
	}
}

func TestKeyTimesAttrOmittedForDefaultSpan(t *testing.T) {
	if attr := keyTimesAttr([]int{0, 1000}, 1000); attr != "" {
		t.Errorf("default span should omit keyTimes, got %q", attr)
	}
	if attr := keyTimesAttr([]int{0, 500, 1000}, 1000); attr != `keyTimes="0;.5;1"` {
		t.Errorf("keyTimes attr = %q", attr)
	}
}

func TestTransitionForcedIndices(t *testing.T) {
	forced := transitionForcedIndices([]float64{1, 1, 0, 0, 1}, 0.5)
	for _, want := range []int{0, 1, 2, 3, 4} {
		if !forced[want] {
			t.Errorf("index %d should be forced, got %v", want, forced)
		}
	}
	forced = transitionForcedIndices([]float64{1, 1, 1}, 0.5)
	if forced[1] {
		t.Error("steady track should not force interior indices")
	}
}

func TestSlotTracksReuseWithinFrame(t *testing.T) {
	frames := []map[int]string{
		{1: "a1"},
		{2: "b1"}, // object 1 gone; slot 0 free immediately
	}
	tracks := buildSlotTracks(frames, true)
	if len(tracks) != 1 {
		t.Fatalf("expected slot reuse, got %d tracks", len(tracks))
	}
	if *tracks[0][0] != "a1" || *tracks[0][1] != "b1" {
		t.Fatalf("track contents wrong: %v", tracks)
	}
}

func TestSlotTracksDeferredReuse(t *testing.T) {
	frames := []map[int]string{
		{1: "a1"},
		{2: "b1"}, // slot 0 still held for one frame; object 2 gets slot 1
		{2: "b2"},
	}
	tracks := buildSlotTracks(frames, false)
	if len(tracks) != 2 {
		t.Fatalf("expected deferred reuse to allocate a second slot, got %d", len(tracks))
	}
	if tracks[0][1] != nil {
		t.Error("slot 0 should be inactive in frame 1")
	}
	if *tracks[1][1] != "b1" || *tracks[1][2] != "b2" {
		t.Fatalf("slot 1 contents wrong: %v", tracks)
	}
}

func TestSlotTracksUniformLength(t *testing.T) {
	frames := []map[int]int{
		{},
		{1: 10, 2: 20},
		{2: 21},
		{},
	}
	for _, reuse := range []bool{true, false} {
		for i, track := range buildSlotTracks(frames, reuse) {
			if len(track) != len(frames) {
				t.Fatalf("reuse=%v: track %d has %d samples, want %d", reuse, i, len(track), len(frames))
			}
		}
	}
}
