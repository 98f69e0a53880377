// Package terrain acquires gridded elevation surfaces from a terrarium-encoded
// tile service and exposes them as rasters usable for point sampling and
// zonal aggregation.
package terrain

import "math"

// Spherical web-mercator constants (EPSG:3857).
const (
	earthRadius = 6378137.0
	originShift = math.Pi * earthRadius
)

// MaxZoom is the finest tile zoom level the service publishes.
const MaxZoom = 16

// Project converts geographic lon/lat degrees to web-mercator meters.
// Boundary polygons ship in NAD83 (EPSG:4269); at cartographic scales the
// NAD83/WGS84 difference is below one raster cell, so both are projected
// with the spherical formulas.
func Project(lon, lat float64) (x, y float64) {
	x = earthRadius * lon * math.Pi / 180
	y = earthRadius * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))
	return x, y
}

// Unproject converts web-mercator meters back to lon/lat degrees.
func Unproject(x, y float64) (lon, lat float64) {
	lon = x / earthRadius * 180 / math.Pi
	lat = (2*math.Atan(math.Exp(y/earthRadius)) - math.Pi/2) * 180 / math.Pi
	return lon, lat
}
