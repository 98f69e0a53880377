package terrain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectUnproject_RoundTrip(t *testing.T) {
	coords := [][2]float64{
		{0, 0},
		{-76.6, 39.3},   // Maryland
		{-120.5, 43.9},  // Oregon
		{-179.9, -85.0}, // near the mercator clip
	}
	for _, c := range coords {
		x, y := Project(c[0], c[1])
		lon, lat := Unproject(x, y)
		assert.InDelta(t, c[0], lon, 1e-9)
		assert.InDelta(t, c[1], lat, 1e-9)
	}
}

func TestProject_Origin(t *testing.T) {
	x, y := Project(0, 0)
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)
}

func TestTileForLonLat(t *testing.T) {
	// The whole world is tile 0/0/0.
	assert.Equal(t, Tile{Z: 0, X: 0, Y: 0}, TileForLonLat(-76.6, 39.3, 0))

	// At zoom 1, the origin sits at the corner of the four tiles; the
	// positive quadrant convention puts (0, 0) in tile (1, 1).
	assert.Equal(t, Tile{Z: 1, X: 1, Y: 1}, TileForLonLat(0, 0, 1))

	// Western hemisphere, northern latitude.
	tile := TileForLonLat(-76.6, 39.3, 8)
	assert.Equal(t, 8, tile.Z)
	assert.Equal(t, 73, tile.X)
	assert.Equal(t, 97, tile.Y)
}

func TestTileForLonLat_Clamped(t *testing.T) {
	tile := TileForLonLat(180, -89.99, 4)
	assert.LessOrEqual(t, tile.X, 15)
	assert.LessOrEqual(t, tile.Y, 15)
}

func TestMercatorBounds(t *testing.T) {
	minX, minY, maxX, maxY := (Tile{Z: 0, X: 0, Y: 0}).MercatorBounds()
	assert.InDelta(t, -originShift, minX, 1e-6)
	assert.InDelta(t, -originShift, minY, 1e-6)
	assert.InDelta(t, originShift, maxX, 1e-6)
	assert.InDelta(t, originShift, maxY, 1e-6)

	// A tile's bounds must contain the projected coordinate that chose it.
	lon, lat := -76.6, 39.3
	tile := TileForLonLat(lon, lat, 10)
	x, y := Project(lon, lat)
	minX, minY, maxX, maxY = tile.MercatorBounds()
	assert.True(t, x >= minX && x <= maxX)
	assert.True(t, y >= minY && y <= maxY)
}

func TestCellSize_HalvesPerZoom(t *testing.T) {
	for z := 0; z < MaxZoom; z++ {
		coarse := (Tile{Z: z}).CellSize()
		fine := (Tile{Z: z + 1}).CellSize()
		assert.InDelta(t, coarse/2, fine, 1e-9)
	}
	// Zoom 0: whole world across one 256px tile.
	assert.InDelta(t, 2*math.Pi*earthRadius/256, (Tile{Z: 0}).CellSize(), 1e-6)
}

func TestRangeForBBox(t *testing.T) {
	tr := RangeForBBox(-79.5, 37.9, -75.0, 39.8, 8)
	assert.Equal(t, 8, tr.Z)
	assert.LessOrEqual(t, tr.MinX, tr.MaxX)
	assert.LessOrEqual(t, tr.MinY, tr.MaxY)
	assert.Equal(t, tr.Count(), len(tr.Tiles()))

	// Every corner of the box must fall inside the range.
	for _, c := range [][2]float64{{-79.5, 37.9}, {-75.0, 39.8}, {-79.5, 39.8}, {-75.0, 37.9}} {
		tile := TileForLonLat(c[0], c[1], 8)
		assert.GreaterOrEqual(t, tile.X, tr.MinX)
		assert.LessOrEqual(t, tile.X, tr.MaxX)
		assert.GreaterOrEqual(t, tile.Y, tr.MinY)
		assert.LessOrEqual(t, tile.Y, tr.MaxY)
	}
}
