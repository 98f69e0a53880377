// Package zonal computes zonal (per-polygon) and point statistics over an
// elevation raster, with explicit reprojection between the geographic
// coordinates of polygons and points and the raster's mercator grid.
package zonal

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"

	"github.com/ridgeline-geo/elevation-cli/internal/terrain"
)

// projectedPolygon is one polygon of a zone with all rings projected to the
// raster's mercator plane. Ring 0 is the shell; the rest are holes.
type projectedPolygon struct {
	rings [][]float64
}

// projectedZone caches a zone's projected rings and mercator bounding box.
type projectedZone struct {
	polygons               []projectedPolygon
	minX, minY, maxX, maxY float64
}

// projectMultiPolygon projects every ring of a lon/lat multipolygon into
// mercator meters and records the overall bounding box.
func projectMultiPolygon(mp *geom.MultiPolygon) projectedZone {
	pz := projectedZone{
		minX: 1e308, minY: 1e308,
		maxX: -1e308, maxY: -1e308,
	}

	for i := 0; i < mp.NumPolygons(); i++ {
		poly := mp.Polygon(i)
		pp := projectedPolygon{rings: make([][]float64, 0, poly.NumLinearRings())}

		for j := 0; j < poly.NumLinearRings(); j++ {
			flat := poly.LinearRing(j).FlatCoords()
			stride := poly.Layout().Stride()

			ring := make([]float64, 0, len(flat)/stride*2)
			for k := 0; k+1 < len(flat); k += stride {
				x, y := terrain.Project(flat[k], flat[k+1])
				ring = append(ring, x, y)

				if j == 0 {
					if x < pz.minX {
						pz.minX = x
					}
					if x > pz.maxX {
						pz.maxX = x
					}
					if y < pz.minY {
						pz.minY = y
					}
					if y > pz.maxY {
						pz.maxY = y
					}
				}
			}
			pp.rings = append(pp.rings, ring)
		}
		pz.polygons = append(pz.polygons, pp)
	}

	return pz
}

// contains reports whether the mercator point (x, y) lies inside the zone:
// inside some polygon's shell and outside that polygon's holes.
func (pz projectedZone) contains(x, y float64) bool {
	if x < pz.minX || x > pz.maxX || y < pz.minY || y > pz.maxY {
		return false
	}

	pt := geom.Coord{x, y}
	for _, poly := range pz.polygons {
		if len(poly.rings) == 0 || !xy.IsPointInRing(geom.XY, pt, poly.rings[0]) {
			continue
		}
		inHole := false
		for _, hole := range poly.rings[1:] {
			if xy.IsPointInRing(geom.XY, pt, hole) {
				inHole = true
				break
			}
		}
		if !inHole {
			return true
		}
	}
	return false
}
