package svgenc

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/vovakirdan/starshot/internal/config"
)

// Ship silhouette raster canvas. The anchor is the nose tip so the symbol
// can be positioned by the ship's center x.
const (
	shipCanvasW = 48
	shipCanvasH = 32
	shipAnchorX = 24
	shipAnchorY = 6
	shipWingW   = 8
)

// shipSymbolElements rasterizes the ship silhouette once and run-length
// encodes each pixel row into 1px-high rects. The hull is solid; the wing
// membranes are half-transparent.
func shipSymbolElements(theme config.ThemeConfig) []string {
	h := float64(theme.CellSize)
	cx := float64(shipAnchorX)
	yTop := float64(shipAnchorY)

	ship := theme.Ship
	solid := color.NRGBA{R: ship.R, G: ship.G, B: ship.B, A: 255}
	membrane := color.NRGBA{R: ship.R, G: ship.G, B: ship.B, A: 128}

	dc := gg.NewContext(shipCanvasW, shipCanvasH)

	// Left wing membrane and edge.
	dc.MoveTo(cx-2, yTop+h*0.5)
	dc.LineTo(cx-shipWingW, yTop+h*0.8)
	dc.LineTo(cx-shipWingW, yTop+h)
	dc.LineTo(cx-2, yTop+h*0.7)
	dc.ClosePath()
	dc.SetColor(membrane)
	dc.Fill()
	dc.SetColor(solid)
	dc.DrawRectangle(cx-shipWingW-1, yTop+h*0.5, 2, h*0.5+1)
	dc.Fill()

	// Right wing membrane and edge.
	dc.MoveTo(cx+2, yTop+h*0.5)
	dc.LineTo(cx+shipWingW, yTop+h*0.8)
	dc.LineTo(cx+shipWingW, yTop+h)
	dc.LineTo(cx+2, yTop+h*0.7)
	dc.ClosePath()
	dc.SetColor(membrane)
	dc.Fill()
	dc.SetColor(solid)
	dc.DrawRectangle(cx+shipWingW, yTop+h*0.5, 2, h*0.5+1)
	dc.Fill()

	// Hull.
	dc.MoveTo(cx, yTop)
	dc.LineTo(cx-3, yTop+h*0.7)
	dc.LineTo(cx, yTop+h)
	dc.LineTo(cx+3, yTop+h*0.7)
	dc.ClosePath()
	dc.SetColor(solid)
	dc.Fill()

	return rasterRunRects(dc)
}

// rasterRunRects scans the rasterized canvas row by row and merges equal
// alpha runs. Alpha is quantized to the two levels the silhouette uses so
// antialiased edge pixels do not fragment the runs.
func rasterRunRects(dc *gg.Context) []string {
	img := dc.Image()
	alphaAt := func(x, y int) uint8 {
		_, _, _, a := img.At(x, y).RGBA()
		switch a8 := uint8(a >> 8); {
		case a8 < 64:
			return 0
		case a8 < 192:
			return 128
		default:
			return 255
		}
	}

	var elements []string
	for y := 0; y < shipCanvasH; y++ {
		for x := 0; x < shipCanvasW; {
			alpha := alphaAt(x, y)
			if alpha == 0 {
				x++
				continue
			}
			start := x
			for x < shipCanvasW && alphaAt(x, y) == alpha {
				x++
			}
			runWidth := x - start
			localX := start - shipAnchorX
			localY := y - shipAnchorY
			if alpha == 255 {
				elements = append(elements,
					fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="1"/>`, localX, localY, runWidth))
			} else {
				elements = append(elements,
					fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="1" fill-opacity="%s"/>`,
						localX, localY, runWidth, num(float64(alpha)/255)))
			}
		}
	}
	return elements
}
