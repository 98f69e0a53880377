package terrain

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ridgeline-geo/elevation-cli/internal/fetcher"
)

// DefaultTileURL is the public terrarium tile endpoint.
const DefaultTileURL = "https://s3.amazonaws.com/elevation-tiles-prod/terrarium"

// ClientOptions configures the tile client.
type ClientOptions struct {
	BaseURL     string // tile endpoint root; {base}/{z}/{x}/{y}.png
	Concurrency int    // parallel tile downloads (default 8)
}

// Client fetches terrain tiles and mosaics them into a single raster.
type Client struct {
	fetcher fetcher.Fetcher
	opts    ClientOptions
}

// NewClient creates a tile client. A nil fetcher gets a default HTTP fetcher.
func NewClient(f fetcher.Fetcher, opts ClientOptions) *Client {
	if f == nil {
		f = fetcher.NewHTTPFetcher(fetcher.HTTPOptions{Timeout: 2 * time.Minute})
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultTileURL
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	return &Client{fetcher: f, opts: opts}
}

// Acquire fetches every tile covering the geometry's bounding box at the
// given zoom and mosaics them into one raster. The geometry is in geographic
// lon/lat; the result raster is in web-mercator meters.
func (c *Client) Acquire(ctx context.Context, g geom.T, zoom int) (*Raster, error) {
	if !ValidZoom(zoom) {
		return nil, eris.Errorf("terrain: zoom %d outside [0, %d]", zoom, MaxZoom)
	}
	if g == nil {
		return nil, eris.New("terrain: nil covering geometry")
	}

	b := g.Bounds()
	if b == nil || b.IsEmpty() {
		return nil, eris.New("terrain: empty covering geometry")
	}

	tr := RangeForBBox(b.Min(0), b.Min(1), b.Max(0), b.Max(1), zoom)
	tiles := tr.Tiles()

	log := zap.L().With(
		zap.String("component", "terrain.client"),
		zap.Int("zoom", zoom),
	)
	log.Info("acquiring elevation raster",
		zap.Int("tiles", len(tiles)),
		zap.Float64("min_lon", b.Min(0)),
		zap.Float64("min_lat", b.Min(1)),
		zap.Float64("max_lon", b.Max(0)),
		zap.Float64("max_lat", b.Max(1)),
	)

	// Mosaic grid: one contiguous raster spanning the whole tile range.
	nwMinX, _, _, nwMaxY := (Tile{Z: zoom, X: tr.MinX, Y: tr.MinY}).MercatorBounds()
	cell := (Tile{Z: zoom}).CellSize()
	width := (tr.MaxX - tr.MinX + 1) * tileSize
	height := (tr.MaxY - tr.MinY + 1) * tileSize
	raster := NewRaster(nwMinX, nwMaxY, cell, width, height)

	// Tiles write disjoint cell blocks, so the fan-out needs no locking.
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(c.opts.Concurrency)

	for _, tile := range tiles {
		tile := tile
		eg.Go(func() error {
			return c.fetchTile(egCtx, tile, tr, raster)
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if raster.ValidCount() == 0 {
		return nil, eris.New("terrain: service returned no elevation coverage for requested area")
	}

	log.Debug("raster assembled",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("valid_cells", raster.ValidCount()),
	)

	return raster, nil
}

// fetchTile downloads and decodes one tile and writes it into the mosaic.
func (c *Client) fetchTile(ctx context.Context, tile Tile, tr TileRange, raster *Raster) error {
	url := fmt.Sprintf("%s/%d/%d/%d.png", c.opts.BaseURL, tile.Z, tile.X, tile.Y)

	body, err := c.fetcher.Download(ctx, url)
	if err != nil {
		return eris.Wrapf(err, "terrain: fetch tile %d/%d/%d", tile.Z, tile.X, tile.Y)
	}
	defer body.Close() //nolint:errcheck

	values, mask, w, h, err := DecodeTerrarium(body)
	if err != nil {
		return eris.Wrapf(err, "terrain: tile %d/%d/%d", tile.Z, tile.X, tile.Y)
	}

	colOff := (tile.X - tr.MinX) * tileSize
	rowOff := (tile.Y - tr.MinY) * tileSize
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			if !mask[row*w+col] {
				continue
			}
			raster.Set(colOff+col, rowOff+row, values[row*w+col])
		}
	}

	return nil
}
