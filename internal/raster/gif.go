package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
)

// EncodeGIF packs rendered frames into an animated GIF that loops forever.
// The delay is uniform across frames; GIF stores it in hundredths of a
// second, so durations below 10ms collapse to the minimum representable
// delay.
func EncodeGIF(frames []image.Image, frameDurationMs int) ([]byte, error) {
	if len(frames) == 0 {
		return []byte{}, nil
	}
	if frameDurationMs <= 0 {
		return nil, fmt.Errorf("raster: frame duration must be positive, got %dms", frameDurationMs)
	}

	delay := frameDurationMs / 10
	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(frames)),
		Delay:     make([]int, 0, len(frames)),
		LoopCount: 0,
	}
	for _, frame := range frames {
		out.Image = append(out.Image, toPaletted(frame))
		out.Delay = append(out.Delay, delay)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, out); err != nil {
		return nil, fmt.Errorf("raster: encode gif: %w", err)
	}
	return buf.Bytes(), nil
}

// toPaletted quantizes one frame. Scenes drawn from the theme palette
// typically use far fewer than 256 distinct colors, so an exact palette is
// built first; only when a frame overflows that does it fall back to a
// fixed palette with nearest-color mapping.
func toPaletted(src image.Image) *image.Paletted {
	bounds := src.Bounds()
	if exact := exactPalette(src); exact != nil {
		dst := image.NewPaletted(bounds, exact)
		draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
		return dst
	}
	dst := image.NewPaletted(bounds, palette.Plan9)
	draw.FloydSteinberg.Draw(dst, bounds, src, bounds.Min)
	return dst
}

func exactPalette(src image.Image) color.Palette {
	bounds := src.Bounds()
	seen := make(map[color.RGBA]struct{}, 64)
	pal := make(color.Palette, 0, 64)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := src.At(x, y).RGBA()
			c := color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
			if _, ok := seen[c]; ok {
				continue
			}
			if len(pal) == 256 {
				return nil
			}
			seen[c] = struct{}{}
			pal = append(pal, c)
		}
	}
	return pal
}
