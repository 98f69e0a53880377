package terrain

import (
	"image"
	"image/png"
	"io"

	"github.com/rotisserie/eris"
)

// terrariumOffset is the encoding offset: rgb (0,0,0) maps to -32768 m.
const terrariumOffset = 32768.0

// voidElevation is the floor of the terrarium range; tiles encode missing
// coverage as the offset itself, far below any real terrain.
const voidElevation = -32767.0

// DecodeTerrarium decodes a terrarium-encoded PNG tile into per-pixel
// elevations in meters, row-major. Pixels at the void floor are NaN-equivalent
// and reported through the mask (false = no data).
func DecodeTerrarium(r io.Reader) (values []float64, mask []bool, w, h int, err error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, nil, 0, 0, eris.Wrap(err, "terrain: decode terrarium png")
	}

	bounds := img.Bounds()
	w, h = bounds.Dx(), bounds.Dy()
	values = make([]float64, w*h)
	mask = make([]bool, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			red, green, blue := rgb8(img, bounds.Min.X+x, bounds.Min.Y+y)
			elev := float64(red)*256 + float64(green) + float64(blue)/256 - terrariumOffset

			i := y*w + x
			if elev <= voidElevation {
				continue // no data, mask stays false
			}
			values[i] = elev
			mask[i] = true
		}
	}

	return values, mask, w, h, nil
}

// rgb8 reads a pixel as 8-bit channels regardless of the underlying image model.
func rgb8(img image.Image, x, y int) (r, g, b uint8) {
	r32, g32, b32, _ := img.At(x, y).RGBA()
	return uint8(r32 >> 8), uint8(g32 >> 8), uint8(b32 >> 8)
}
