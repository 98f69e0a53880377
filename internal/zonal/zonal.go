package zonal

import (
	"math"

	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/ridgeline-geo/elevation-cli/internal/terrain"
)

// Zone is one polygon entering zonal aggregation. The GEOID is carried
// through to the output untouched; it is never derived from geometry.
type Zone struct {
	GEOID string
	Geom  *geom.MultiPolygon
}

// ZoneMean is the zonal mean for one zone. Valid is false when no raster
// cell with data fell inside the polygon; the mean is then undefined and
// must propagate as missing, never as zero.
type ZoneMean struct {
	GEOID string
	Mean  float64
	Cells int
	Valid bool
}

// MeanByZone computes, for each zone, the arithmetic mean of all raster cells
// whose center falls inside the zone's polygon, excluding no-data cells.
// Output order matches input order. Means are full precision; rounding is an
// output-boundary concern.
func MeanByZone(r *terrain.Raster, zones []Zone) []ZoneMean {
	log := zap.L().With(zap.String("component", "zonal.mean"))

	out := make([]ZoneMean, 0, len(zones))
	for _, zone := range zones {
		zm := ZoneMean{GEOID: zone.GEOID}
		if zone.Geom != nil {
			zm.Mean, zm.Cells, zm.Valid = meanInZone(r, projectMultiPolygon(zone.Geom))
		}
		if !zm.Valid {
			log.Debug("zone has no raster coverage", zap.String("geoid", zone.GEOID))
		}
		out = append(out, zm)
	}
	return out
}

// meanInZone scans the raster cells overlapping the zone's bounding box and
// averages those whose center the zone contains.
func meanInZone(r *terrain.Raster, pz projectedZone) (mean float64, cells int, valid bool) {
	minCol, minRow, maxCol, maxRow, ok := cellWindow(r, pz)
	if !ok {
		return 0, 0, false
	}

	var sum float64
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			x, y := r.CellCenter(col, row)
			if !pz.contains(x, y) {
				continue
			}
			v, ok := r.At(col, row)
			if !ok {
				continue
			}
			sum += v
			cells++
		}
	}

	if cells == 0 {
		return 0, 0, false
	}
	return sum / float64(cells), cells, true
}

// cellWindow clamps a zone's mercator bounding box to raster grid indices.
// ok is false when the box misses the raster entirely.
func cellWindow(r *terrain.Raster, pz projectedZone) (minCol, minRow, maxCol, maxRow int, ok bool) {
	rMinX, rMinY, rMaxX, rMaxY := r.Bounds()
	if pz.maxX < rMinX || pz.minX > rMaxX || pz.maxY < rMinY || pz.minY > rMaxY {
		return 0, 0, 0, 0, false
	}

	minCol = int(math.Floor((pz.minX - r.OriginX) / r.Cell))
	maxCol = int(math.Floor((pz.maxX - r.OriginX) / r.Cell))
	minRow = int(math.Floor((r.OriginY - pz.maxY) / r.Cell))
	maxRow = int(math.Floor((r.OriginY - pz.minY) / r.Cell))

	minCol = max(minCol, 0)
	minRow = max(minRow, 0)
	maxCol = min(maxCol, r.Width-1)
	maxRow = min(maxRow, r.Height-1)

	if minCol > maxCol || minRow > maxRow {
		return 0, 0, 0, 0, false
	}
	return minCol, minRow, maxCol, maxRow, true
}

// Point is a keyed lon/lat location to sample.
type Point struct {
	Key string
	Lon float64
	Lat float64
}

// PointSample is the raster value at a point. Valid is false outside raster
// coverage or on a no-data cell; that is a missing value, not an error.
type PointSample struct {
	Key       string
	Elevation float64
	Valid     bool
}

// SamplePoints returns the nearest-cell raster value at each point. Points
// are given in geographic lon/lat and reprojected onto the raster grid
// before lookup.
func SamplePoints(r *terrain.Raster, points []Point) []PointSample {
	out := make([]PointSample, 0, len(points))
	for _, p := range points {
		x, y := terrain.Project(p.Lon, p.Lat)
		v, ok := r.Sample(x, y)
		out = append(out, PointSample{Key: p.Key, Elevation: v, Valid: ok})
	}
	return out
}
