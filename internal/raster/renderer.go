// Package raster draws frame snapshots into bitmap images and packs them
// into an animated GIF. It is the pixel-based sibling of the vector
// encoder, sharing the same frame stream and theme.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/vovakirdan/starshot/internal/anim"
	"github.com/vovakirdan/starshot/internal/config"
	"github.com/vovakirdan/starshot/internal/game"
)

// Renderer draws one frame snapshot at a time. It is stateless between
// frames; all animation state lives in the snapshots.
type Renderer struct {
	theme config.ThemeConfig
}

func NewRenderer(theme config.ThemeConfig) *Renderer {
	return &Renderer{theme: theme}
}

// RenderFrame rasterizes a single snapshot.
func (r *Renderer) RenderFrame(f anim.Frame) image.Image {
	dc := gg.NewContext(f.Width, f.Height)
	dc.SetColor(rgb(r.theme.Background))
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	r.drawStars(dc, f)
	r.drawEnemies(dc, f)
	r.drawExplosions(dc, f)
	r.drawBullets(dc, f)
	r.drawPowerUps(dc, f)
	r.drawShip(dc, f)
	r.drawScore(dc, f)
	if f.Watermark != "" {
		r.drawWatermark(dc, f)
	}
	return dc.Image()
}

func (r *Renderer) drawStars(dc *gg.Context, f anim.Frame) {
	for _, star := range f.Stars {
		x, y := r.theme.CellPosition(star.X, star.Y)
		v := uint8(max(0, min(255, int(255*star.Brightness))))
		dc.SetColor(color.NRGBA{R: v, G: v, B: v, A: 255})
		dc.DrawRectangle(x, y, float64(star.Size), float64(star.Size))
		dc.Fill()
	}
}

func (r *Renderer) drawEnemies(dc *gg.Context, f anim.Frame) {
	for _, enemy := range f.Enemies {
		x, y := r.theme.CellPosition(enemy.X, float64(enemy.Y))
		w := float64(enemy.WidthCells * r.theme.CellSize)
		h := float64(enemy.HeightCells * r.theme.CellSize)
		radius := 2.0
		if enemy.Kind == game.EnemyBoss {
			radius = 4.0
		}
		dc.SetColor(rgb(r.theme.EnemyColor(enemy.Health)))
		dc.DrawRoundedRectangle(x, y, w, h, radius)
		dc.Fill()
	}
}

// drawExplosions places one particle square per angle, pushed outward by
// the burst progress and fading toward the background.
func (r *Renderer) drawExplosions(dc *gg.Context, f anim.Frame) {
	half := float64(r.theme.CellSize) / 2
	for _, ex := range f.Explosions {
		cx, cy := r.theme.CellPosition(ex.X, ex.Y)
		cx += half
		cy += half
		fade := max(0.0, 1.0-ex.Progress)
		size := float64(int((1-ex.Progress*0.5)*3) + 1)
		dc.SetColor(blend(r.theme.Bullet, r.theme.Background, fade))
		for _, angle := range ex.ParticleAngles {
			px := cx + math.Cos(angle)*ex.MaxRadius*ex.Progress
			py := cy + math.Sin(angle)*ex.MaxRadius*ex.Progress
			dc.DrawRectangle(px-size/2, py-size/2, size, size)
		}
		dc.Fill()
	}
}

func (r *Renderer) drawBullets(dc *gg.Context, f anim.Frame) {
	for _, b := range f.Bullets {
		bulletColor := r.theme.Bullet
		trailDir := 1.0
		if b.Kind == game.BulletBoss {
			bulletColor = r.theme.BossBullet
			trailDir = -1.0
		}
		for i := 0; i < r.theme.BulletTrailLength; i++ {
			trailY := b.Y + trailDir*float64(i+1)*r.theme.BulletTrailGap
			fade := float64(i+1) / float64(r.theme.BulletTrailLength) / 2
			r.drawBulletLayer(dc, bulletColor, b.X, trailY, fade, 0)
		}
		r.drawBulletLayer(dc, bulletColor, b.X, b.Y, 0.3, 0.6)
		r.drawBulletLayer(dc, bulletColor, b.X, b.Y, 0.4, 0.4)
		r.drawBulletLayer(dc, bulletColor, b.X, b.Y, 0.5, 0.2)
		r.drawBulletLayer(dc, bulletColor, b.X, b.Y, 1.0, 0)
	}
}

func (r *Renderer) drawBulletLayer(dc *gg.Context, c config.Color, cellX, cellY, fade, offset float64) {
	x, y := r.theme.CellPosition(cellX, cellY)
	x += float64(r.theme.CellSize / 2)
	y += float64(r.theme.CellSize / 2)
	rx := 0.5 + offset
	ry := 4.0 + offset
	dc.SetColor(blend(c, r.theme.Background, fade))
	dc.DrawRectangle(x-rx, y-ry, 2*rx, 2*ry)
	dc.Fill()
}

func (r *Renderer) drawPowerUps(dc *gg.Context, f anim.Frame) {
	size := float64(r.theme.CellSize) * 0.7
	for _, p := range f.PowerUps {
		x, y := r.theme.CellPosition(p.X, p.Y)
		dc.SetColor(rgb(r.theme.PowerUp))
		dc.DrawRectangle(x, y, size, size)
		dc.Fill()
		dc.SetColor(color.White)
		dc.SetLineWidth(1)
		dc.DrawRectangle(x, y, size, size)
		dc.Stroke()
	}
}

func (r *Renderer) drawShip(dc *gg.Context, f anim.Frame) {
	if f.Ship.Destroyed {
		return
	}
	x, y := r.theme.CellPosition(f.Ship.X, game.ShipRow)
	h := float64(r.theme.CellSize)
	centerX := x + h/2
	const wingWidth = 8

	solid := rgb(r.theme.Ship)
	membrane := nrgba(r.theme.Ship, 128)

	// Left wing membrane and edge.
	dc.MoveTo(centerX-2, y+h*0.5)
	dc.LineTo(centerX-wingWidth, y+h*0.8)
	dc.LineTo(centerX-wingWidth, y+h)
	dc.LineTo(centerX-2, y+h*0.7)
	dc.ClosePath()
	dc.SetColor(membrane)
	dc.Fill()
	dc.SetColor(solid)
	dc.DrawRectangle(centerX-wingWidth-1, y+h*0.5, 2, h*0.5+1)
	dc.Fill()

	// Right wing membrane and edge.
	dc.MoveTo(centerX+2, y+h*0.5)
	dc.LineTo(centerX+wingWidth, y+h*0.8)
	dc.LineTo(centerX+wingWidth, y+h)
	dc.LineTo(centerX+2, y+h*0.7)
	dc.ClosePath()
	dc.SetColor(membrane)
	dc.Fill()
	dc.SetColor(solid)
	dc.DrawRectangle(centerX+wingWidth, y+h*0.5, 2, h*0.5+1)
	dc.Fill()

	// Hull.
	dc.MoveTo(centerX, y)
	dc.LineTo(centerX-3, y+h*0.7)
	dc.LineTo(centerX, y+h)
	dc.LineTo(centerX+3, y+h*0.7)
	dc.ClosePath()
	dc.SetColor(solid)
	dc.Fill()
}

func (r *Renderer) drawScore(dc *gg.Context, f anim.Frame) {
	dc.SetColor(color.White)
	dc.DrawString(fmt.Sprintf("Score: %d", f.Score), 5, 15)
}

func (r *Renderer) drawWatermark(dc *gg.Context, f anim.Frame) {
	dc.SetColor(color.NRGBA{R: 100, G: 100, B: 100, A: 128})
	w, _ := dc.MeasureString(f.Watermark)
	dc.DrawString(f.Watermark, float64(f.Width)-w-5, float64(f.Height)-5)
}

func rgb(c config.Color) color.Color {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

func nrgba(c config.Color, a uint8) color.Color {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}

func blend(fg, bg config.Color, alpha float64) color.Color {
	a := min(1.0, max(0.0, alpha))
	return color.NRGBA{
		R: uint8(math.Round(float64(fg.R)*a + float64(bg.R)*(1.0-a))),
		G: uint8(math.Round(float64(fg.G)*a + float64(bg.G)*(1.0-a))),
		B: uint8(math.Round(float64(fg.B)*a + float64(bg.B)*(1.0-a))),
		A: 255,
	}
}
