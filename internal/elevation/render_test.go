package elevation

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgeline-geo/elevation-cli/internal/boundary"
	"github.com/ridgeline-geo/elevation-cli/internal/fips"
	"github.com/ridgeline-geo/elevation-cli/internal/zonal"
)

func renderSurface(t *testing.T) *Surface {
	t.Helper()
	g := boundary.Geography{
		GEOID: "24005", Name: "Baltimore", NameLSAD: "Baltimore County", StateFIPS: "24",
		Geom: boxGeom(-76.8, 39.2, -76.2, 39.8),
	}
	raster := fillRaster(120)
	samples, mean, ok := zonal.Crop(raster, g.Geom)
	require.True(t, ok)

	return &Surface{
		GEOID:      g.GEOID,
		Name:       g.DisplayName(),
		Level:      fips.LevelCounty,
		Zoom:       10,
		Resolution: "5.3 arc seconds",
		Mean:       mean,
		Samples:    samples,
		Raster:     raster,
		Geography:  g,
	}
}

func TestRenderMap(t *testing.T) {
	img, err := RenderMap(renderSurface(t), MapOptions{Width: 200})
	require.NoError(t, err)

	bounds := img.Bounds()
	assert.Equal(t, 200, bounds.Dx())
	assert.Greater(t, bounds.Dy(), 48, "header band plus surface")

	// The ramp must have painted something besides the white background.
	painted := false
	for y := bounds.Min.Y; y < bounds.Max.Y && !painted; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r != 0xffff || g != 0xffff || b != 0xffff {
				painted = true
				break
			}
		}
	}
	assert.True(t, painted)
}

func TestRenderMap_EmptySurface(t *testing.T) {
	_, err := RenderMap(&Surface{}, MapOptions{})
	assert.Error(t, err)
}

func TestWriteMapPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMapPNG(&buf, renderSurface(t), MapOptions{Width: 160}))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 160, img.Bounds().Dx())
}

func TestRampColor(t *testing.T) {
	low := rampColor(0)
	high := rampColor(1)
	assert.Equal(t, color.RGBA{R: 26, G: 102, B: 46, A: 255}, low)
	assert.Equal(t, color.RGBA{R: 245, G: 244, B: 242, A: 255}, high)

	// Out-of-range inputs clamp instead of wrapping.
	assert.Equal(t, low, rampColor(-3))
	assert.Equal(t, high, rampColor(7))
}
