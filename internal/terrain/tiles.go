package terrain

import "math"

// tileSize is the pixel width/height of a terrain tile.
const tileSize = 256

// Tile identifies a single slippy-map tile at a zoom level.
type Tile struct {
	Z, X, Y int
}

// TileForLonLat returns the tile containing the given lon/lat at a zoom level.
func TileForLonLat(lon, lat float64, zoom int) Tile {
	n := float64(int(1) << zoom)
	latRad := lat * math.Pi / 180

	x := int((lon + 180) / 360 * n)
	y := int((1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2 * n)

	// Clamp to the valid tile range; points at the antimeridian or pole edge
	// land exactly on n.
	max := int(n) - 1
	if x < 0 {
		x = 0
	}
	if x > max {
		x = max
	}
	if y < 0 {
		y = 0
	}
	if y > max {
		y = max
	}

	return Tile{Z: zoom, X: x, Y: y}
}

// MercatorBounds returns the tile's extent in web-mercator meters as
// (minX, minY, maxX, maxY).
func (t Tile) MercatorBounds() (minX, minY, maxX, maxY float64) {
	n := float64(int(1) << t.Z)
	span := 2 * originShift / n

	minX = -originShift + float64(t.X)*span
	maxX = minX + span
	maxY = originShift - float64(t.Y)*span
	minY = maxY - span
	return minX, minY, maxX, maxY
}

// CellSize returns the ground size of one pixel at this tile's zoom, in
// web-mercator meters.
func (t Tile) CellSize() float64 {
	n := float64(int(1) << t.Z)
	return 2 * originShift / n / tileSize
}

// TileRange is an inclusive rectangle of tiles at one zoom level.
type TileRange struct {
	Z              int
	MinX, MaxX     int
	MinY, MaxY     int
}

// Count returns the number of tiles in the range.
func (r TileRange) Count() int {
	return (r.MaxX - r.MinX + 1) * (r.MaxY - r.MinY + 1)
}

// Tiles enumerates every tile in the range, row-major.
func (r TileRange) Tiles() []Tile {
	tiles := make([]Tile, 0, r.Count())
	for y := r.MinY; y <= r.MaxY; y++ {
		for x := r.MinX; x <= r.MaxX; x++ {
			tiles = append(tiles, Tile{Z: r.Z, X: x, Y: y})
		}
	}
	return tiles
}

// RangeForBBox returns the tile range covering a lon/lat bounding box at a
// zoom level.
func RangeForBBox(minLon, minLat, maxLon, maxLat float64, zoom int) TileRange {
	// Tile Y grows southward, so the north-west corner gives the minimum
	// tile coordinates.
	nw := TileForLonLat(minLon, maxLat, zoom)
	se := TileForLonLat(maxLon, minLat, zoom)
	return TileRange{Z: zoom, MinX: nw.X, MaxX: se.X, MinY: nw.Y, MaxY: se.Y}
}
