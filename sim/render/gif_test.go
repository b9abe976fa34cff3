package render

import (
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soc-sim/sandpile/sim"
)

func snapshots(t *testing.T, n int) []sim.Snapshot {
	t.Helper()
	seq := sim.NewSnapshotSequence()
	g, err := sim.NewGrid(3)
	require.NoError(t, err)
	for step := 0; step < n; step++ {
		g.PlaceGrain(sim.Coord{X: step % 3, Y: 1})
		seq.Capture(step, g)
	}
	return seq.All()
}

func TestColorIndex_Clamps(t *testing.T) {
	assert.Equal(t, 0, ColorIndex(-2, 4))
	assert.Equal(t, 0, ColorIndex(0, 4))
	assert.Equal(t, paletteSize-1, ColorIndex(4, 4))
	assert.Equal(t, paletteSize-1, ColorIndex(9, 4))
	assert.Equal(t, 0, ColorIndex(3, 0), "zero max height maps everything to the lowest colour")
	assert.Equal(t, (paletteSize-1)/2, ColorIndex(2, 4))
}

func TestColorIndex_Monotonic(t *testing.T) {
	prev := -1
	for h := 0; h <= 10; h++ {
		idx := ColorIndex(h, 10)
		assert.GreaterOrEqual(t, idx, prev)
		prev = idx
	}
}

func TestAnimate_OneFramePerSnapshot(t *testing.T) {
	// GIVEN five snapshots of a 3x3 grid
	shots := snapshots(t, 5)
	r := &GIFRenderer{FPS: 20, Scale: 2}

	// WHEN animated
	anim := r.Animate(shots, 4)

	// THEN there is one frame and one delay per snapshot at the requested scale
	require.Len(t, anim.Image, 5)
	assert.Equal(t, []int{5, 5, 5, 5, 5}, anim.Delay)
	assert.Equal(t, 6, anim.Image[0].Bounds().Dx())
	assert.Equal(t, 6, anim.Image[0].Bounds().Dy())
}

func TestAnimate_PixelsFollowHeights(t *testing.T) {
	g, err := sim.NewGrid(2)
	require.NoError(t, err)
	g.SetHeight(sim.Coord{X: 1, Y: 0}, 4)
	r := &GIFRenderer{Scale: 1}

	anim := r.Animate([]sim.Snapshot{{Step: 0, Grid: g}}, 4)

	img := anim.Image[0]
	// rows are X, columns are Y
	assert.Equal(t, uint8(paletteSize-1), img.ColorIndexAt(0, 1))
	assert.Equal(t, uint8(0), img.ColorIndexAt(1, 0))
}

func TestRenderSnapshots_WritesDecodableGIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sandpile.gif")
	r := NewGIFRenderer(path)

	require.NoError(t, r.RenderSnapshots(snapshots(t, 3), 4))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Len(t, decoded.Image, 3)
}

func TestRenderSnapshots_EmptyIsError(t *testing.T) {
	r := NewGIFRenderer(filepath.Join(t.TempDir(), "x.gif"))
	assert.Error(t, r.RenderSnapshots(nil, 4))
}
