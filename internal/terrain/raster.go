package terrain

import "math"

// Raster is a regular grid of elevation samples in web-mercator meters
// (EPSG:3857). The origin is the upper-left corner; rows grow southward.
// Cells without data hold NaN.
type Raster struct {
	// OriginX, OriginY locate the outer corner of cell (0, 0).
	OriginX, OriginY float64
	// Cell is the square cell edge length in mercator meters.
	Cell float64
	// Width and Height are the grid dimensions in cells.
	Width, Height int

	values []float64
}

// NewRaster allocates a raster with every cell set to no-data.
func NewRaster(originX, originY, cell float64, width, height int) *Raster {
	values := make([]float64, width*height)
	for i := range values {
		values[i] = math.NaN()
	}
	return &Raster{
		OriginX: originX,
		OriginY: originY,
		Cell:    cell,
		Width:   width,
		Height:  height,
		values:  values,
	}
}

// Set writes an elevation value at grid position (col, row).
func (r *Raster) Set(col, row int, v float64) {
	if col < 0 || col >= r.Width || row < 0 || row >= r.Height {
		return
	}
	r.values[row*r.Width+col] = v
}

// At returns the value at grid position (col, row). The second return is
// false outside the grid or on a no-data cell.
func (r *Raster) At(col, row int) (float64, bool) {
	if col < 0 || col >= r.Width || row < 0 || row >= r.Height {
		return 0, false
	}
	v := r.values[row*r.Width+col]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Index returns the grid position containing the mercator coordinate (x, y).
// The second return is false outside the raster extent.
func (r *Raster) Index(x, y float64) (col, row int, ok bool) {
	col = int(math.Floor((x - r.OriginX) / r.Cell))
	row = int(math.Floor((r.OriginY - y) / r.Cell))
	if col < 0 || col >= r.Width || row < 0 || row >= r.Height {
		return 0, 0, false
	}
	return col, row, true
}

// Sample returns the nearest-cell elevation at the mercator coordinate (x, y).
// The second return is false outside the extent or on a no-data cell.
func (r *Raster) Sample(x, y float64) (float64, bool) {
	col, row, ok := r.Index(x, y)
	if !ok {
		return 0, false
	}
	return r.At(col, row)
}

// CellCenter returns the mercator coordinate of the center of cell (col, row).
func (r *Raster) CellCenter(col, row int) (x, y float64) {
	x = r.OriginX + (float64(col)+0.5)*r.Cell
	y = r.OriginY - (float64(row)+0.5)*r.Cell
	return x, y
}

// Bounds returns the raster extent in mercator meters as
// (minX, minY, maxX, maxY).
func (r *Raster) Bounds() (minX, minY, maxX, maxY float64) {
	minX = r.OriginX
	maxY = r.OriginY
	maxX = r.OriginX + float64(r.Width)*r.Cell
	minY = r.OriginY - float64(r.Height)*r.Cell
	return minX, minY, maxX, maxY
}

// ValidCount returns the number of cells holding data.
func (r *Raster) ValidCount() int {
	var n int
	for _, v := range r.values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// MinMax returns the smallest and largest data values. The third return is
// false when the raster holds no data at all.
func (r *Raster) MinMax() (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, v := range r.values {
		if math.IsNaN(v) {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return min, max, true
}
