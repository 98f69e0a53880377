// Package elevation composes geography resolution, raster acquisition, and
// zonal statistics into the two service operations: a single-geography
// elevation surface and a per-sub-geography batch across a state.
package elevation

import (
	"context"
	"math"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/ridgeline-geo/elevation-cli/internal/boundary"
	"github.com/ridgeline-geo/elevation-cli/internal/fips"
	"github.com/ridgeline-geo/elevation-cli/internal/popcenter"
	"github.com/ridgeline-geo/elevation-cli/internal/terrain"
	"github.com/ridgeline-geo/elevation-cli/internal/zonal"
)

// Resolver resolves FIPS identifiers to boundary polygons.
type Resolver interface {
	Resolve(ctx context.Context, level fips.Level, geoid string, year int, res string) (boundary.Geography, error)
	ResolveState(ctx context.Context, level fips.Level, stateFIPS, countyFIPS string, year int, res string) ([]boundary.Geography, error)
}

// Acquirer fetches an elevation raster covering a geometry's bounding box.
type Acquirer interface {
	Acquire(ctx context.Context, g geom.T, zoom int) (*terrain.Raster, error)
}

// CenterSource loads population-weighted mean centers.
type CenterSource interface {
	CountyCenters(ctx context.Context, stateFIPS string) ([]popcenter.Center, error)
	TractCenters(ctx context.Context, stateFIPS, countyFIPS string) ([]popcenter.Center, error)
}

// Service runs the elevation pipeline. Each stage fails fast; no partial
// results cross the service boundary except missing per-record values in
// batch output.
type Service struct {
	resolver Resolver
	acquirer Acquirer
	centers  CenterSource
	log      *zap.Logger
}

// NewService wires the pipeline stages.
func NewService(r Resolver, a Acquirer, c CenterSource) *Service {
	return &Service{
		resolver: r,
		acquirer: a,
		centers:  c,
		log:      zap.L().With(zap.String("component", "elevation.service")),
	}
}

// GetElevation resolves one geography, acquires terrain over it, and crops
// the raster to the polygon.
func (s *Service) GetElevation(ctx context.Context, req LookupRequest) (*Surface, error) {
	level, err := fips.ParseLevel(req.Level)
	if err != nil {
		return nil, eris.Wrap(ErrInvalidInput, err.Error())
	}
	if !fips.ValidGEOID(level, req.GEOID) {
		return nil, eris.Wrapf(ErrInvalidInput, "geoid %q is not a %d-digit %s identifier", req.GEOID, level.Width(), level)
	}
	if err := validateCommon(req.Year, req.Resolution, req.Zoom); err != nil {
		return nil, err
	}

	label, err := terrain.NominalResolution(req.Zoom)
	if err != nil {
		return nil, eris.Wrap(ErrInvalidInput, err.Error())
	}

	g, err := s.resolver.Resolve(ctx, level, req.GEOID, req.Year, req.Resolution)
	if err != nil {
		if eris.Is(err, boundary.ErrNoMatch) {
			return nil, eris.Wrapf(ErrNotFound, "%s %s (vintage %d)", level, req.GEOID, req.Year)
		}
		return nil, eris.Wrap(ErrRetrieval, err.Error())
	}

	raster, err := s.acquirer.Acquire(ctx, g.Geom, req.Zoom)
	if err != nil {
		return nil, eris.Wrap(ErrRetrieval, err.Error())
	}

	samples, mean, ok := zonal.Crop(raster, g.Geom)
	if !ok {
		return nil, eris.Wrapf(ErrNoCoverage, "%s %s at zoom %d", level, req.GEOID, req.Zoom)
	}

	name := g.DisplayName()
	if level == fips.LevelState {
		full, nameErr := fips.StateName(g.StateFIPS)
		if nameErr != nil {
			return nil, eris.Wrapf(ErrNotFound, "state %s", g.StateFIPS)
		}
		name = full
	}

	s.log.Info("elevation surface computed",
		zap.String("geoid", g.GEOID),
		zap.Int("samples", len(samples)),
		zap.Float64("mean", mean),
	)

	return &Surface{
		GEOID:      g.GEOID,
		Name:       name,
		Level:      level,
		Zoom:       req.Zoom,
		Resolution: label,
		Mean:       mean,
		Samples:    samples,
		Raster:     raster,
		Geography:  g,
	}, nil
}

// GetElevationBatch computes, for every sub-geography of a state, the
// elevation at its population center and the zonal mean of its polygon.
// Output membership is the intersection of the resolved geographies and the
// population-center table: a center whose derived key matches no resolved
// polygon is dropped, and a resolved geography absent from the table yields
// no record. A resolved geography whose polygon catches no raster cells
// keeps its record with the zonal mean missing rather than zero.
func (s *Service) GetElevationBatch(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	level, err := fips.ParseLevel(req.Level)
	if err != nil {
		return nil, eris.Wrap(ErrInvalidInput, err.Error())
	}
	if level == fips.LevelState {
		return nil, eris.Wrap(ErrInvalidInput, "batch mode enumerates sub-geographies; level must be county or tract")
	}
	if !fips.ValidStateCode(req.StateFIPS) {
		return nil, eris.Wrapf(ErrInvalidInput, "state %q is not a 2-digit FIPS code", req.StateFIPS)
	}
	if req.CountyFIPS != "" && !fips.ValidCountyCode(req.CountyFIPS) {
		return nil, eris.Wrapf(ErrInvalidInput, "county %q is not a 3-digit FIPS code", req.CountyFIPS)
	}
	if err := validateCommon(req.Year, req.Resolution, req.Zoom); err != nil {
		return nil, err
	}

	label, err := terrain.NominalResolution(req.Zoom)
	if err != nil {
		return nil, eris.Wrap(ErrInvalidInput, err.Error())
	}

	stateName, err := fips.StateName(req.StateFIPS)
	if err != nil {
		return nil, eris.Wrapf(ErrNotFound, "state %s", req.StateFIPS)
	}

	centers, err := s.loadCenters(ctx, level, req.StateFIPS, req.CountyFIPS)
	if err != nil {
		return nil, err
	}

	geographies, err := s.resolver.ResolveState(ctx, level, req.StateFIPS, req.CountyFIPS, req.Year, req.Resolution)
	if err != nil {
		if eris.Is(err, boundary.ErrNoMatch) {
			return nil, eris.Wrapf(ErrNotFound, "no %s geographies in state %s (vintage %d)", level, req.StateFIPS, req.Year)
		}
		return nil, eris.Wrap(ErrRetrieval, err.Error())
	}

	raster, err := s.acquirer.Acquire(ctx, coverageGeometry(geographies), req.Zoom)
	if err != nil {
		return nil, eris.Wrap(ErrRetrieval, err.Error())
	}

	records := s.assemble(raster, centers, geographies)

	s.log.Info("batch assembled",
		zap.String("state", req.StateFIPS),
		zap.String("level", string(level)),
		zap.Int("records", len(records)),
	)

	return &BatchResult{
		StateFIPS:  req.StateFIPS,
		StateName:  stateName,
		Level:      level,
		Zoom:       req.Zoom,
		Resolution: label,
		Records:    records,
	}, nil
}

// loadCenters fetches the scoped population-center table. An empty scope is
// NotFound: without center entries there is nothing to report.
func (s *Service) loadCenters(ctx context.Context, level fips.Level, stateFIPS, countyFIPS string) ([]popcenter.Center, error) {
	var (
		centers []popcenter.Center
		err     error
	)
	if level == fips.LevelCounty {
		centers, err = s.centers.CountyCenters(ctx, stateFIPS)
	} else {
		centers, err = s.centers.TractCenters(ctx, stateFIPS, countyFIPS)
	}
	if err != nil {
		return nil, eris.Wrap(ErrRetrieval, err.Error())
	}
	if len(centers) == 0 {
		return nil, eris.Wrapf(ErrNotFound, "no %s population centers for state %s county %q", level, stateFIPS, countyFIPS)
	}
	return centers, nil
}

// assemble intersects the center list with the resolved geographies by
// GEOID, joins zonal means and point samples onto the surviving rows, and
// rounds elevations to whole meters.
func (s *Service) assemble(raster *terrain.Raster, centers []popcenter.Center, geographies []boundary.Geography) []Record {
	zones := make([]zonal.Zone, 0, len(geographies))
	byGEOID := make(map[string]boundary.Geography, len(geographies))
	for _, g := range geographies {
		zones = append(zones, zonal.Zone{GEOID: g.GEOID, Geom: g.Geom})
		byGEOID[g.GEOID] = g
	}

	meanFor := make(map[string]zonal.ZoneMean, len(zones))
	for _, zm := range zonal.MeanByZone(raster, zones) {
		meanFor[zm.GEOID] = zm
	}

	points := make([]zonal.Point, 0, len(centers))
	for _, c := range centers {
		points = append(points, zonal.Point{Key: c.GEOID(), Lon: c.Lon, Lat: c.Lat})
	}
	sampleFor := make(map[string]zonal.PointSample, len(points))
	for _, ps := range zonal.SamplePoints(raster, points) {
		sampleFor[ps.Key] = ps
	}

	records := make([]Record, 0, len(centers))
	for _, c := range centers {
		geoid := c.GEOID()
		g, ok := byGEOID[geoid]
		if !ok {
			// Statewide center tables can list geographies the narrower
			// resolved set does not contain.
			s.log.Debug("population center without resolved geography", zap.String("geoid", geoid))
			continue
		}
		rec := Record{GEOID: geoid, Name: g.Name, NameLSAD: g.NameLSAD}

		if ps, ok := sampleFor[geoid]; ok && ps.Valid {
			rec.ElevationPopCenter = roundMeters(ps.Elevation)
		}
		if zm, ok := meanFor[geoid]; ok && zm.Valid {
			rec.ElevationMean = roundMeters(zm.Mean)
		}

		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].GEOID < records[j].GEOID })
	return records
}

// validateCommon checks the request fields shared by both modes.
func validateCommon(year int, res string, zoom int) error {
	if year <= 0 {
		return eris.Wrapf(ErrInvalidInput, "boundary vintage %d", year)
	}
	if !boundary.ValidResolution(res) {
		return eris.Wrapf(ErrInvalidInput, "boundary resolution %q (want 500k, 5m, or 20m)", res)
	}
	if !terrain.ValidZoom(zoom) {
		return eris.Wrapf(ErrInvalidInput, "zoom %d outside [0, %d]", zoom, terrain.MaxZoom)
	}
	return nil
}

// coverageGeometry is the combined bounding box of all geographies, as a
// polygon the acquirer can take a tile range over.
func coverageGeometry(geographies []boundary.Geography) geom.T {
	b := geom.NewBounds(geom.XY)
	for _, g := range geographies {
		if g.Geom != nil {
			b = b.Extend(g.Geom)
		}
	}
	return b.Polygon()
}

// roundMeters rounds an elevation to whole meters at the output boundary.
func roundMeters(v float64) *int {
	n := int(math.Round(v))
	return &n
}
