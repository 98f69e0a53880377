package terrain

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/ridgeline-geo/elevation-cli/internal/fetcher"
)

func testPolygon(t *testing.T) *geom.Polygon {
	t.Helper()
	return geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{-76.7, 39.2}, {-76.5, 39.2}, {-76.5, 39.4}, {-76.7, 39.4}, {-76.7, 39.2},
	}})
}

// uniformTileServer serves terrarium tiles where every pixel has the given
// elevation, and counts requests.
func uniformTileServer(t *testing.T, elevation int, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	elevations := make([]int, tileSize*tileSize)
	for i := range elevations {
		elevations[i] = elevation
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(encodeTerrarium(t, tileSize, tileSize, elevations).Bytes())
	}))
}

func newTestClient(srvURL string) *Client {
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{Timeout: 10 * time.Second, MaxRetries: 1})
	return NewClient(f, ClientOptions{BaseURL: srvURL, Concurrency: 2})
}

func TestClient_Acquire(t *testing.T) {
	var calls atomic.Int32
	srv := uniformTileServer(t, 250, &calls)
	defer srv.Close()

	c := newTestClient(srv.URL)
	raster, err := c.Acquire(context.Background(), testPolygon(t), 5)
	require.NoError(t, err)

	assert.Positive(t, raster.ValidCount())
	assert.Positive(t, calls.Load())

	// Any point inside the requested box samples the uniform value.
	x, y := Project(-76.6, 39.3)
	v, ok := raster.Sample(x, y)
	require.True(t, ok)
	assert.InDelta(t, 250.0, v, 1e-9)
}

func TestClient_Acquire_MultiTileMosaic(t *testing.T) {
	srv := uniformTileServer(t, 42, nil)
	defer srv.Close()

	// A higher zoom forces the box across several tiles.
	c := newTestClient(srv.URL)
	raster, err := c.Acquire(context.Background(), testPolygon(t), 12)
	require.NoError(t, err)

	tr := RangeForBBox(-76.7, 39.2, -76.5, 39.4, 12)
	assert.Greater(t, tr.Count(), 1)
	assert.Equal(t, (tr.MaxX-tr.MinX+1)*tileSize, raster.Width)
	assert.Equal(t, (tr.MaxY-tr.MinY+1)*tileSize, raster.Height)

	// Both box corners land on data.
	for _, corner := range [][2]float64{{-76.7, 39.2}, {-76.5, 39.4}} {
		x, y := Project(corner[0], corner[1])
		v, ok := raster.Sample(x, y)
		require.True(t, ok)
		assert.InDelta(t, 42.0, v, 1e-9)
	}
}

func TestClient_Acquire_InvalidZoom(t *testing.T) {
	c := NewClient(nil, ClientOptions{})
	_, err := c.Acquire(context.Background(), testPolygon(t), 17)
	assert.Error(t, err)

	_, err = c.Acquire(context.Background(), testPolygon(t), -1)
	assert.Error(t, err)
}

func TestClient_Acquire_ServiceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Acquire(context.Background(), testPolygon(t), 5)
	assert.Error(t, err)
}

func TestClient_Acquire_NilGeometry(t *testing.T) {
	c := NewClient(nil, ClientOptions{})
	_, err := c.Acquire(context.Background(), nil, 5)
	assert.Error(t, err)
}
