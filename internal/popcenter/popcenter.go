// Package popcenter loads the census population-weighted mean center tables.
// The tables are static reference data keyed by FIPS component codes; a
// center's identity is reconstructed by concatenating those codes, which is
// the documented normalization joining centers to geography GEOIDs.
package popcenter

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ridgeline-geo/elevation-cli/internal/fetcher"
	"github.com/ridgeline-geo/elevation-cli/internal/fips"
)

// Default CenPop 2020 mean-center table locations.
const (
	DefaultCountyURL = "https://www2.census.gov/geo/docs/reference/cenpop2020/county/CenPop2020_Mean_CO.txt"
	DefaultTractURL  = "https://www2.census.gov/geo/docs/reference/cenpop2020/tract/CenPop2020_Mean_TR.txt"
)

// Center is the population-weighted center of one geography.
type Center struct {
	StateFIPS  string
	CountyFIPS string
	TractCE    string // empty for county-level centers
	Population int
	Lat        float64
	Lon        float64
}

// GEOID derives the center's composite key by concatenating its component
// codes in (state, county, tract) order.
func (c Center) GEOID() string {
	return fips.ComposeGEOID(c.StateFIPS, c.CountyFIPS, c.TractCE)
}

// LoaderOptions configures the table locations. Mirror, when set, is an FTP
// fetcher tried against the census mirror host after a failed primary fetch.
type LoaderOptions struct {
	CountyURL string
	TractURL  string
	Mirror    fetcher.Fetcher
}

// Loader fetches and parses mean-center tables.
type Loader struct {
	fetcher fetcher.Fetcher
	opts    LoaderOptions
}

// NewLoader creates a Loader. A nil fetcher gets a default HTTP fetcher.
func NewLoader(f fetcher.Fetcher, opts LoaderOptions) *Loader {
	if f == nil {
		f = fetcher.NewHTTPFetcher(fetcher.HTTPOptions{Timeout: 2 * time.Minute})
	}
	if opts.CountyURL == "" {
		opts.CountyURL = DefaultCountyURL
	}
	if opts.TractURL == "" {
		opts.TractURL = DefaultTractURL
	}
	return &Loader{fetcher: f, opts: opts}
}

// CountyCenters loads county mean centers for one state.
// County rows: STATEFP, COUNTYFP, COUNAME, STNAME, POPULATION, LATITUDE, LONGITUDE.
func (l *Loader) CountyCenters(ctx context.Context, stateFIPS string) ([]Center, error) {
	return l.load(ctx, l.opts.CountyURL, 7, func(row []string) (Center, bool, error) {
		if row[0] != stateFIPS {
			return Center{}, false, nil
		}
		c, err := parseCenter(row[0], row[1], "", row[4], row[5], row[6])
		return c, err == nil, err
	})
}

// TractCenters loads tract mean centers for one state, optionally narrowed
// to a single 3-digit county code.
// Tract rows: STATEFP, COUNTYFP, TRACTCE, POPULATION, LATITUDE, LONGITUDE.
func (l *Loader) TractCenters(ctx context.Context, stateFIPS, countyFIPS string) ([]Center, error) {
	return l.load(ctx, l.opts.TractURL, 6, func(row []string) (Center, bool, error) {
		if row[0] != stateFIPS {
			return Center{}, false, nil
		}
		if countyFIPS != "" && row[1] != countyFIPS {
			return Center{}, false, nil
		}
		c, err := parseCenter(row[0], row[1], row[2], row[3], row[4], row[5])
		return c, err == nil, err
	})
}

// fetch downloads the table, falling back to the census FTP mirror when one
// is configured and the primary host fails.
func (l *Loader) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	body, err := l.fetcher.Download(ctx, url)
	if err == nil {
		return body, nil
	}
	if l.opts.Mirror == nil {
		return nil, eris.Wrapf(err, "popcenter: fetch %s", url)
	}
	mirrorURL, mirrorErr := fetcher.MirrorURL(url)
	if mirrorErr != nil {
		return nil, eris.Wrapf(err, "popcenter: fetch %s (no mirror for this host)", url)
	}

	zap.L().Warn("primary fetch failed, trying ftp mirror",
		zap.String("component", "popcenter.loader"),
		zap.String("url", url),
		zap.Error(err),
	)
	body, err = l.opts.Mirror.Download(ctx, mirrorURL)
	if err != nil {
		return nil, eris.Wrapf(err, "popcenter: mirror fetch %s", mirrorURL)
	}
	return body, nil
}

// load streams the CSV table and applies a per-row filter/parse function.
func (l *Loader) load(ctx context.Context, url string, minFields int, parse func([]string) (Center, bool, error)) ([]Center, error) {
	body, err := l.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	// Cancelling the stream on early return unblocks the CSV goroutine,
	// which otherwise sits on a full row channel until the request context
	// ends.
	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	rowCh, errCh := fetcher.StreamCSV(streamCtx, body, fetcher.CSVOptions{
		HasHeader: true,
		TrimSpace: true,
	})

	var centers []Center
	for row := range rowCh {
		if len(row) < minFields {
			return nil, eris.Errorf("popcenter: malformed row with %d fields in %s", len(row), url)
		}
		c, keep, err := parse(row)
		if err != nil {
			return nil, err
		}
		if keep {
			centers = append(centers, c)
		}
	}
	if err := <-errCh; err != nil {
		return nil, eris.Wrapf(err, "popcenter: parse %s", url)
	}

	zap.L().Debug("population centers loaded",
		zap.String("component", "popcenter.loader"),
		zap.String("url", url),
		zap.Int("centers", len(centers)),
	)

	return centers, nil
}

// parseCenter builds a Center from raw column values.
func parseCenter(state, county, tract, pop, lat, lon string) (Center, error) {
	population, err := strconv.Atoi(pop)
	if err != nil {
		return Center{}, eris.Wrapf(err, "popcenter: parse population %q", pop)
	}
	latitude, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return Center{}, eris.Wrapf(err, "popcenter: parse latitude %q", lat)
	}
	longitude, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return Center{}, eris.Wrapf(err, "popcenter: parse longitude %q", lon)
	}
	return Center{
		StateFIPS:  state,
		CountyFIPS: county,
		TractCE:    tract,
		Population: population,
		Lat:        latitude,
		Lon:        longitude,
	}, nil
}
