package elevation

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ridgeline-geo/elevation-cli/internal/terrain"
	"github.com/ridgeline-geo/elevation-cli/internal/zonal"
)

// MapOptions sizes the rendered map.
type MapOptions struct {
	Width  int // surface width in pixels (default 800)
	Header int // title band height in pixels (default 48)
}

func (o MapOptions) withDefaults() MapOptions {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Header <= 0 {
		o.Header = 48
	}
	return o
}

// RenderMap draws the cropped elevation surface as a color-ramped map with
// the geography outline and a title band. Cells outside the polygon stay
// white.
func RenderMap(s *Surface, opts MapOptions) (image.Image, error) {
	if s == nil || len(s.Samples) == 0 {
		return nil, eris.New("elevation: nothing to render")
	}
	opts = opts.withDefaults()

	// Frame the polygon's mercator bounding box.
	b := s.Geography.Geom.Bounds()
	minX, minY := terrain.Project(b.Min(0), b.Min(1))
	maxX, maxY := terrain.Project(b.Max(0), b.Max(1))
	if maxX <= minX || maxY <= minY {
		return nil, eris.New("elevation: degenerate geometry extent")
	}

	scale := (maxX - minX) / float64(opts.Width)
	height := int(math.Ceil((maxY - minY) / scale))
	if height < 1 {
		height = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Header+height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	lo, hi := sampleRange(s.Samples)

	// Each sample covers one raster cell; paint it as a square.
	cellPx := int(math.Ceil(s.Raster.Cell/scale)) + 1
	for _, sm := range s.Samples {
		x, y := terrain.Project(sm.X, sm.Y)
		px := int((x - minX) / scale)
		py := opts.Header + int((maxY-y)/scale)
		c := rampColor(normalize(sm.Elevation, lo, hi))
		fillSquare(img, px-cellPx/2, py-cellPx/2, cellPx, c)
	}

	drawOutline(img, s.Geography.Geom, minX, maxY, scale, opts.Header)

	title := fmt.Sprintf("%s (%s)", s.Name, s.GEOID)
	subtitle := fmt.Sprintf("mean elevation %.0f m | source resolution %s (zoom %d)", s.Mean, s.Resolution, s.Zoom)
	drawLabel(img, 8, 18, title)
	drawLabel(img, 8, 36, subtitle)

	return img, nil
}

// WriteMapPNG renders the surface and encodes it as PNG.
func WriteMapPNG(w io.Writer, s *Surface, opts MapOptions) error {
	img, err := RenderMap(s, opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return eris.Wrap(err, "elevation: encode map png")
	}
	return nil
}

func sampleRange(samples []zonal.Sample) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range samples {
		lo = math.Min(lo, s.Elevation)
		hi = math.Max(hi, s.Elevation)
	}
	return lo, hi
}

// normalize maps an elevation into [0, 1] over the surface's range. A flat
// surface maps to the middle of the ramp.
func normalize(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0.5
	}
	return (v - lo) / (hi - lo)
}

// hypsometric ramp stops: deep green through tan and brown to near-white.
var rampStops = []struct {
	t       float64
	r, g, b uint8
}{
	{0.00, 26, 102, 46},
	{0.25, 110, 160, 74},
	{0.50, 222, 202, 138},
	{0.75, 158, 109, 62},
	{1.00, 245, 244, 242},
}

func rampColor(t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))
	for i := 1; i < len(rampStops); i++ {
		a, b := rampStops[i-1], rampStops[i]
		if t > b.t {
			continue
		}
		f := (t - a.t) / (b.t - a.t)
		return color.RGBA{
			R: uint8(float64(a.r) + f*(float64(b.r)-float64(a.r))),
			G: uint8(float64(a.g) + f*(float64(b.g)-float64(a.g))),
			B: uint8(float64(a.b) + f*(float64(b.b)-float64(a.b))),
			A: 255,
		}
	}
	last := rampStops[len(rampStops)-1]
	return color.RGBA{R: last.r, G: last.g, B: last.b, A: 255}
}

func fillSquare(img *image.RGBA, x, y, size int, c color.RGBA) {
	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			px, py := x+dx, y+dy
			if image.Pt(px, py).In(img.Bounds()) {
				img.SetRGBA(px, py, c)
			}
		}
	}
}

// drawOutline traces every polygon ring in dark gray.
func drawOutline(img *image.RGBA, mp *geom.MultiPolygon, minX, maxY, scale float64, yOff int) {
	stroke := color.RGBA{R: 60, G: 60, B: 60, A: 255}
	toPixel := func(lon, lat float64) (int, int) {
		x, y := terrain.Project(lon, lat)
		return int((x - minX) / scale), yOff + int((maxY-y)/scale)
	}

	for i := 0; i < mp.NumPolygons(); i++ {
		poly := mp.Polygon(i)
		for j := 0; j < poly.NumLinearRings(); j++ {
			ring := poly.LinearRing(j).Coords()
			for k := 1; k < len(ring); k++ {
				x0, y0 := toPixel(ring[k-1][0], ring[k-1][1])
				x1, y1 := toPixel(ring[k][0], ring[k][1])
				drawLine(img, x0, y0, x1, y1, stroke)
			}
		}
	}
}

// drawLine rasterizes a segment by stepping along its longer axis.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	steps := max(abs(x1-x0), abs(y1-y0))
	if steps == 0 {
		if image.Pt(x0, y0).In(img.Bounds()) {
			img.SetRGBA(x0, y0, c)
		}
		return
	}
	for i := 0; i <= steps; i++ {
		f := float64(i) / float64(steps)
		px := x0 + int(math.Round(f*float64(x1-x0)))
		py := y0 + int(math.Round(f*float64(y1-y0)))
		if image.Pt(px, py).In(img.Bounds()) {
			img.SetRGBA(px, py, c)
		}
	}
}

func drawLabel(img *image.RGBA, x, y int, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 20, G: 20, B: 20, A: 255}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
