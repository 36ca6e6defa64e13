package svgenc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vovakirdan/starshot/internal/anim"
	"github.com/vovakirdan/starshot/internal/config"
	"github.com/vovakirdan/starshot/internal/contrib"
	"github.com/vovakirdan/starshot/internal/game/policy"
)

func sampleFrames(t *testing.T, levels [][]int) ([]anim.Frame, int) {
	t.Helper()
	pol, err := policy.Create("column")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	a, err := anim.NewAnimator(contrib.FromLevels("test", levels), pol, config.Default(), "starshot demo")
	if err != nil {
		t.Fatalf("NewAnimator: %v", err)
	}
	var frames []anim.Frame
	for f := range a.Frames(120) {
		frames = append(frames, f)
	}
	return frames, a.FrameDuration()
}

func TestEncodeEmptyInput(t *testing.T) {
	out, err := Encode(nil, 50, config.Default().Theme)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty bytes, got %d", len(out))
	}
}

func TestEncodeRejectsMismatchedDimensions(t *testing.T) {
	frames := []anim.Frame{
		{Width: 696, Height: 150},
		{Width: 696, Height: 151},
	}
	if _, err := Encode(frames, 50, config.Default().Theme); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestEncodeProducesCompleteDocument(t *testing.T) {
	frames, frameMs := sampleFrames(t, [][]int{{1}, {0}, {2}, {0}, {0}, {3}, {0}})
	out, err := Encode(frames, frameMs, config.Default().Theme)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	markup := string(out)

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" width="696" height="150"`,
		`<rect id="e"`,
		`<g id="b">`,
		`<g id="s"`,
		"</svg>",
		"starshot demo",
	} {
		if !strings.Contains(markup, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if !strings.HasPrefix(markup, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Error("output missing xml declaration")
	}
}

func TestEncodeDeterministic(t *testing.T) {
	levels := [][]int{{1, 0, 2}, {0, 3, 0}}
	framesA, frameMs := sampleFrames(t, levels)
	framesB, _ := sampleFrames(t, levels)

	theme := config.Default().Theme
	outA, err := Encode(framesA, frameMs, theme)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	outB, err := Encode(framesB, frameMs, theme)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(outA, outB) {
		t.Fatal("identical inputs produced different documents")
	}
}

func TestEncodeMinifiedOutputIsIdempotent(t *testing.T) {
	frames, frameMs := sampleFrames(t, [][]int{{1}, {2}})
	out, err := Encode(frames, frameMs, config.Default().Theme)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if again := Minify(string(out)); again != string(out) {
		t.Fatal("re-minifying encoder output changed it")
	}
}

func TestEncodeOmitsWatermarkWhenEmpty(t *testing.T) {
	pol, _ := policy.Create("column")
	a, err := anim.NewAnimator(contrib.FromLevels("test", [][]int{{1}, {2}}), pol, config.Default(), "")
	if err != nil {
		t.Fatalf("NewAnimator: %v", err)
	}
	var frames []anim.Frame
	for f := range a.Frames(30) {
		frames = append(frames, f)
	}
	out, err := Encode(frames, a.FrameDuration(), config.Default().Theme)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.Contains(string(out), "<text") {
		t.Error("watermark text present despite empty watermark")
	}
}

func TestShipSymbolElements(t *testing.T) {
	elements := shipSymbolElements(config.Default().Theme)
	if len(elements) == 0 {
		t.Fatal("ship silhouette rasterized to nothing")
	}
	for _, el := range elements {
		if !strings.HasPrefix(el, "<rect ") || !strings.Contains(el, `height="1"`) {
			t.Fatalf("unexpected silhouette element %q", el)
		}
	}
}

func TestBulletShapeElements(t *testing.T) {
	theme := config.Default().Theme
	shapes := bulletShapeElements(theme, theme.Bullet)
	// Trail segments plus the four core layers.
	if len(shapes) != theme.BulletTrailLength+4 {
		t.Fatalf("got %d shapes, want %d", len(shapes), theme.BulletTrailLength+4)
	}
}

func TestBuildPaletteClassMaps(t *testing.T) {
	fills := map[string]int{"#26a641": 10, "#39d353": 1}
	strokes := map[string]int{"#fcd34d": 5}
	fillPalette, strokePalette := buildPaletteClassMaps(fills, strokes)

	// Most used color gets the shortest name.
	if fillPalette["#26a641"] != "a" {
		t.Errorf("fill class = %q, want a", fillPalette["#26a641"])
	}
	if strokePalette["#fcd34d"] != "b" {
		t.Errorf("stroke class = %q, want b", strokePalette["#fcd34d"])
	}

	seen := map[string]bool{}
	for _, class := range fillPalette {
		seen[class] = true
	}
	for _, class := range strokePalette {
		if seen[class] {
			t.Errorf("class %q assigned twice", class)
		}
	}
}
