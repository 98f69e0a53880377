package terrain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNominalResolution_Endpoints(t *testing.T) {
	coarsest, err := NominalResolution(0)
	require.NoError(t, err)
	assert.Equal(t, "1.5 arc degrees", coarsest)

	finest, err := NominalResolution(16)
	require.NoError(t, err)
	assert.Equal(t, "1/9 arc seconds", finest)
}

func TestNominalResolution_Total(t *testing.T) {
	// Every zoom in [0, 16] must resolve.
	for zoom := 0; zoom <= MaxZoom; zoom++ {
		s, err := NominalResolution(zoom)
		require.NoError(t, err, zoom)
		assert.NotEmpty(t, s, zoom)
	}
	assert.Len(t, nominalResolutions, 17)
}

func TestNominalResolution_OutOfRange(t *testing.T) {
	_, err := NominalResolution(-1)
	assert.Error(t, err)

	_, err = NominalResolution(17)
	assert.Error(t, err)
}

func TestValidZoom(t *testing.T) {
	assert.True(t, ValidZoom(0))
	assert.True(t, ValidZoom(8))
	assert.True(t, ValidZoom(16))
	assert.False(t, ValidZoom(-1))
	assert.False(t, ValidZoom(17))
}
