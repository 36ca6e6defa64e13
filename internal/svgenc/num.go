// Package svgenc encodes frame snapshots into a compact animated SVG. The
// output is a single self-contained document: keyframe tracks are
// simplified, transient objects are multiplexed onto reusable slots, and
// repeated attribute values are aliased through XML entities.
package svgenc

import (
	"math"
	"strconv"
	"strings"

	"github.com/vovakirdan/starshot/internal/config"
)

const nameDigits = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// compactName converts an index to a short base-52 identifier: a..zA..Z,
// then aa, ab and so on (bijective numeration, so "a" follows "Z" as "aa").
func compactName(value int) string {
	base := len(nameDigits)
	if value == 0 {
		return string(nameDigits[0])
	}
	var out []byte
	current := value
	for current >= 0 {
		out = append(out, nameDigits[current%base])
		current = current/base - 1
		if current < 0 {
			break
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

// shortHex collapses "#rrggbb" to "#rgb" when each channel repeats.
func shortHex(color string) string {
	lower := strings.ToLower(color)
	if len(lower) == 7 && lower[1] == lower[2] && lower[3] == lower[4] && lower[5] == lower[6] {
		return "#" + string(lower[1]) + string(lower[3]) + string(lower[5])
	}
	return lower
}

func hexColor(c config.Color) string {
	return shortHex(c.Hex())
}

// num formats a float with at most six decimals, trailing zeros and the
// leading zero of proper fractions stripped.
func num(v float64) string {
	return trimNumber(v, 6)
}

// numKeyTime formats keyTimes fractions with at most five decimals.
func numKeyTime(v float64) string {
	return trimNumber(v, 5)
}

func trimNumber(v float64, decimals int) string {
	if math.Abs(v-math.Round(v)) < 1e-9 {
		return strconv.Itoa(int(math.Round(v)))
	}
	text := strconv.FormatFloat(v, 'f', decimals, 64)
	text = strings.TrimRight(text, "0")
	text = strings.TrimRight(text, ".")
	if strings.HasPrefix(text, "0.") && len(text) > 2 {
		text = text[1:]
	} else if strings.HasPrefix(text, "-0.") && len(text) > 3 {
		text = "-" + text[2:]
	}
	if text == "" {
		return "0"
	}
	return text
}

func roundTo(value, step float64) float64 {
	if step <= 0 {
		return value
	}
	return math.Round(value/step) * step
}

// numStep quantizes before formatting, trading sub-step precision for
// shorter markup.
func numStep(value, step float64) string {
	return num(roundTo(value, step))
}

// blendHex composites a foreground color over the background at the given
// alpha and returns the short hex form.
func blendHex(fg, bg config.Color, alpha float64) string {
	a := min(1.0, max(0.0, alpha))
	blended := config.Color{
		R: uint8(math.Round(float64(fg.R)*a + float64(bg.R)*(1.0-a))),
		G: uint8(math.Round(float64(fg.G)*a + float64(bg.G)*(1.0-a))),
		B: uint8(math.Round(float64(fg.B)*a + float64(bg.B)*(1.0-a))),
	}
	return hexColor(blended)
}

// grayHex returns the short hex gray for a [0,1] brightness.
func grayHex(brightness float64) string {
	v := max(0, min(255, int(255*brightness)))
	c := uint8(v)
	return hexColor(config.Color{R: c, G: c, B: c})
}
