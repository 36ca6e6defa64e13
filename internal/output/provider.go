// Package output turns a contribution grid and a targeting policy into
// encoded animation bytes. The target format is chosen from the output
// path's extension; each format consumes the same frame stream.
package output

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/vovakirdan/starshot/internal/anim"
	"github.com/vovakirdan/starshot/internal/config"
	"github.com/vovakirdan/starshot/internal/contrib"
	"github.com/vovakirdan/starshot/internal/game/policy"
	"github.com/vovakirdan/starshot/internal/raster"
	"github.com/vovakirdan/starshot/internal/svgenc"
)

// Format identifies an animation container.
type Format string

const (
	FormatSVG Format = "svg"
	FormatGIF Format = "gif"
)

// FormatForPath resolves the output format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return FormatSVG, nil
	case ".gif":
		return FormatGIF, nil
	default:
		return "", fmt.Errorf("output: unsupported extension %q (want .svg or .gif)", filepath.Ext(path))
	}
}

// Request describes one render run.
type Request struct {
	Grid      contrib.Grid
	Policy    string
	Config    config.Config
	Watermark string
	MaxFrames int
}

// Result carries the encoded bytes plus run statistics for logging and
// history recording.
type Result struct {
	Data   []byte
	Format Format
	Frames int
	Score  int
	Seed   uint64
}

// Render simulates the run and encodes it in the requested format. An
// empty frame stream yields empty bytes, not an error.
func Render(req Request, format Format) (Result, error) {
	pol, err := policy.Create(req.Policy)
	if err != nil {
		return Result{}, err
	}
	a, err := anim.NewAnimator(req.Grid, pol, req.Config, req.Watermark)
	if err != nil {
		return Result{}, err
	}

	var frames []anim.Frame
	for f := range a.Frames(req.MaxFrames) {
		frames = append(frames, f)
	}

	var data []byte
	switch format {
	case FormatSVG:
		data, err = svgenc.Encode(frames, a.FrameDuration(), req.Config.Theme)
	case FormatGIF:
		r := raster.NewRenderer(req.Config.Theme)
		images := make([]image.Image, len(frames))
		for i, f := range frames {
			images[i] = r.RenderFrame(f)
		}
		data, err = raster.EncodeGIF(images, a.FrameDuration())
	default:
		err = fmt.Errorf("output: unknown format %q", format)
	}
	if err != nil {
		return Result{}, err
	}

	return Result{
		Data:   data,
		Format: format,
		Frames: len(frames),
		Score:  a.Score(),
		Seed:   a.Seed(),
	}, nil
}
