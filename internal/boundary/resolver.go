package boundary

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ridgeline-geo/elevation-cli/internal/fetcher"
	"github.com/ridgeline-geo/elevation-cli/internal/fips"
)

// ResolverOptions configures the boundary resolver.
type ResolverOptions struct {
	BaseURL string // printf pattern with the year; default DefaultBaseURL
	TempDir string // scratch space for archive downloads
}

// Resolver downloads boundary archives and filters them to requested
// geographies. Archives are fetched fresh per call and discarded; nothing is
// cached across invocations.
type Resolver struct {
	fetcher fetcher.Fetcher
	opts    ResolverOptions
}

// NewResolver creates a Resolver. A nil fetcher gets a default HTTP fetcher.
func NewResolver(f fetcher.Fetcher, opts ResolverOptions) *Resolver {
	if f == nil {
		f = fetcher.NewHTTPFetcher(fetcher.HTTPOptions{Timeout: 5 * time.Minute})
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	return &Resolver{fetcher: f, opts: opts}
}

// Resolve returns the single geography whose GEOID equals the identifier.
// Returns ErrNoMatch when the published archive holds no such GEOID.
func (r *Resolver) Resolve(ctx context.Context, level fips.Level, geoid string, year int, res string) (Geography, error) {
	// Tract archives are per-state; the state prefix of the GEOID selects it.
	stateFIPS := ""
	if level == fips.LevelTract {
		stateFIPS = geoid[:fips.StateWidth]
	}

	geographies, err := r.fetchLayer(ctx, level, year, res, stateFIPS)
	if err != nil {
		return Geography{}, err
	}

	for _, g := range geographies {
		if g.GEOID == geoid {
			return g, nil
		}
	}
	return Geography{}, eris.Wrapf(ErrNoMatch, "level %s geoid %s year %d resolution %s", level, geoid, year, res)
}

// ResolveState returns all sub-geographies of a state at the given level.
// For tracts, a non-empty 3-digit countyFIPS narrows the set by GEOID prefix;
// the post-filter keeps both paths shaped identically.
func (r *Resolver) ResolveState(ctx context.Context, level fips.Level, stateFIPS, countyFIPS string, year int, res string) ([]Geography, error) {
	if level != fips.LevelCounty && level != fips.LevelTract {
		return nil, eris.Errorf("boundary: level %q has no state sub-geographies", level)
	}

	geographies, err := r.fetchLayer(ctx, level, year, res, stateFIPS)
	if err != nil {
		return nil, err
	}

	prefix := stateFIPS
	if level == fips.LevelTract && countyFIPS != "" {
		prefix = fips.ComposeGEOID(stateFIPS, countyFIPS, "")
	}

	var matched []Geography
	for _, g := range geographies {
		if strings.HasPrefix(g.GEOID, prefix) {
			matched = append(matched, g)
		}
	}

	if len(matched) == 0 {
		return nil, eris.Wrapf(ErrNoMatch, "level %s state %s year %d resolution %s", level, stateFIPS, year, res)
	}
	return matched, nil
}

// fetchLayer downloads, extracts, and parses one boundary archive.
func (r *Resolver) fetchLayer(ctx context.Context, level fips.Level, year int, res, stateFIPS string) ([]Geography, error) {
	url, err := archiveURL(r.opts.BaseURL, level, year, res, stateFIPS)
	if err != nil {
		return nil, err
	}

	log := zap.L().With(
		zap.String("component", "boundary.resolver"),
		zap.String("level", string(level)),
		zap.Int("year", year),
	)
	log.Info("downloading boundary archive", zap.String("url", url))

	scratch, err := os.MkdirTemp(r.opts.TempDir, "boundary-*")
	if err != nil {
		return nil, eris.Wrap(err, "boundary: create scratch dir")
	}
	defer func() { _ = os.RemoveAll(scratch) }()

	zipPath := filepath.Join(scratch, "layer.zip")
	if _, err := r.fetcher.DownloadToFile(ctx, url, zipPath); err != nil {
		return nil, eris.Wrapf(err, "boundary: download %s", url)
	}

	if _, err := fetcher.ExtractZIP(zipPath, scratch); err != nil {
		return nil, eris.Wrapf(err, "boundary: extract %s", url)
	}

	shpPath, err := fetcher.FindByExt(scratch, ".shp")
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: archive %s", url)
	}

	geographies, err := ParseShapefile(shpPath)
	if err != nil {
		return nil, err
	}

	log.Debug("boundary layer parsed", zap.Int("geographies", len(geographies)))
	return geographies, nil
}
