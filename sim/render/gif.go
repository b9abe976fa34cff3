package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/soc-sim/sandpile/sim"
)

const paletteSize = 64

// Endpoints of the sequential blue colour map used for heights.
var (
	bluesLow  = color.RGBA{R: 247, G: 251, B: 255, A: 255}
	bluesHigh = color.RGBA{R: 8, G: 48, B: 107, A: 255}
)

// GIFRenderer writes snapshots as frames of an animated GIF.
type GIFRenderer struct {
	Path  string // output file
	FPS   int    // frames per second (default 15)
	Scale int    // pixels per lattice site (default 16)
}

// NewGIFRenderer returns a renderer with the default frame rate and scale.
func NewGIFRenderer(path string) *GIFRenderer {
	return &GIFRenderer{Path: path, FPS: 15, Scale: 16}
}

func (r *GIFRenderer) RenderSnapshots(snapshots []sim.Snapshot, maxHeight int) error {
	if len(snapshots) == 0 {
		return errors.New("no snapshots to render")
	}
	anim := r.Animate(snapshots, maxHeight)

	f, err := os.Create(r.Path)
	if err != nil {
		return fmt.Errorf("creating video file: %w", err)
	}
	if err := gif.EncodeAll(f, anim); err != nil {
		f.Close()
		return fmt.Errorf("encoding video: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing video file: %w", err)
	}
	logrus.Infof("Wrote %d frames to %s", len(snapshots), r.Path)
	return nil
}

// Animate builds the in-memory GIF for the snapshots.
func (r *GIFRenderer) Animate(snapshots []sim.Snapshot, maxHeight int) *gif.GIF {
	fps, scale := r.FPS, r.Scale
	if fps <= 0 {
		fps = 15
	}
	if scale <= 0 {
		scale = 16
	}
	pal := bluesPalette()
	delay := 100 / fps
	if delay < 1 {
		delay = 1
	}
	anim := &gif.GIF{
		Image: make([]*image.Paletted, 0, len(snapshots)),
		Delay: make([]int, 0, len(snapshots)),
	}
	for _, shot := range snapshots {
		anim.Image = append(anim.Image, frame(shot.Grid, maxHeight, scale, pal))
		anim.Delay = append(anim.Delay, delay)
	}
	return anim
}

func frame(g *sim.Grid, maxHeight, scale int, pal color.Palette) *image.Paletted {
	n := g.Size()
	img := image.NewPaletted(image.Rect(0, 0, n*scale, n*scale), pal)
	for x, row := range g.Rows() {
		for y, h := range row {
			idx := uint8(ColorIndex(h, maxHeight))
			for py := x * scale; py < (x+1)*scale; py++ {
				for px := y * scale; px < (y+1)*scale; px++ {
					img.SetColorIndex(px, py, idx)
				}
			}
		}
	}
	return img
}

// ColorIndex maps a height onto the palette, clamping to [0, maxHeight].
func ColorIndex(h, maxHeight int) int {
	if maxHeight <= 0 || h <= 0 {
		return 0
	}
	if h >= maxHeight {
		return paletteSize - 1
	}
	return h * (paletteSize - 1) / maxHeight
}

func bluesPalette() color.Palette {
	pal := make(color.Palette, paletteSize)
	for i := range pal {
		t := float64(i) / float64(paletteSize-1)
		pal[i] = color.RGBA{
			R: lerp(bluesLow.R, bluesHigh.R, t),
			G: lerp(bluesLow.G, bluesHigh.G, t),
			B: lerp(bluesLow.B, bluesHigh.B, t),
			A: 255,
		}
	}
	return pal
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}
