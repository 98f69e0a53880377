package zonal

import (
	"github.com/twpayne/go-geom"

	"github.com/ridgeline-geo/elevation-cli/internal/terrain"
)

// Sample is one retained cell of a cropped surface. X and Y are the cell
// center in geographic lon/lat degrees.
type Sample struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Elevation float64 `json:"elevation"`
}

// Crop masks the raster to the polygon using an exact (not bounding-box)
// containment test and returns the retained cells as flat samples with
// no-data cells removed, plus the unrounded arithmetic mean over them.
// ok is false when the mask retains nothing.
func Crop(r *terrain.Raster, mp *geom.MultiPolygon) (samples []Sample, mean float64, ok bool) {
	if mp == nil {
		return nil, 0, false
	}

	pz := projectMultiPolygon(mp)
	minCol, minRow, maxCol, maxRow, inWindow := cellWindow(r, pz)
	if !inWindow {
		return nil, 0, false
	}

	var sum float64
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			x, y := r.CellCenter(col, row)
			if !pz.contains(x, y) {
				continue
			}
			v, has := r.At(col, row)
			if !has {
				continue
			}
			lon, lat := terrain.Unproject(x, y)
			samples = append(samples, Sample{X: lon, Y: lat, Elevation: v})
			sum += v
		}
	}

	if len(samples) == 0 {
		return nil, 0, false
	}
	return samples, sum / float64(len(samples)), true
}
