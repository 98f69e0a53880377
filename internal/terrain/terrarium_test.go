package terrain

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeTerrarium builds a terrarium PNG from integer elevations. A nil entry
// (math sentinel voidValue) encodes the void floor.
const voidValue = -32768

func encodeTerrarium(t *testing.T, w, h int, elevations []int) *bytes.Buffer {
	t.Helper()
	require.Len(t, elevations, w*h)

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := elevations[y*w+x] + 32768
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(v / 256),
				G: uint8(v % 256),
				B: 0,
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestDecodeTerrarium_RoundTrip(t *testing.T) {
	elevations := []int{0, 182, -12, 4421}
	buf := encodeTerrarium(t, 2, 2, elevations)

	values, mask, w, h, err := DecodeTerrarium(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, w)
	assert.Equal(t, 2, h)

	for i, want := range elevations {
		require.True(t, mask[i], i)
		assert.InDelta(t, float64(want), values[i], 1e-9)
	}
}

func TestDecodeTerrarium_Void(t *testing.T) {
	buf := encodeTerrarium(t, 2, 1, []int{voidValue, 7})

	values, mask, _, _, err := DecodeTerrarium(buf)
	require.NoError(t, err)

	assert.False(t, mask[0], "void floor is no data")
	assert.True(t, mask[1])
	assert.InDelta(t, 7.0, values[1], 1e-9)
}

func TestDecodeTerrarium_InvalidPNG(t *testing.T) {
	_, _, _, _, err := DecodeTerrarium(bytes.NewReader([]byte("not a png")))
	assert.Error(t, err)
}
