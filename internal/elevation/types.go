package elevation

import (
	"github.com/ridgeline-geo/elevation-cli/internal/boundary"
	"github.com/ridgeline-geo/elevation-cli/internal/fips"
	"github.com/ridgeline-geo/elevation-cli/internal/terrain"
	"github.com/ridgeline-geo/elevation-cli/internal/zonal"
)

// LookupRequest asks for the elevation surface of one geography.
type LookupRequest struct {
	Level      string `json:"level"`      // state | county | tract
	GEOID      string `json:"geoid"`      // fixed-width FIPS identifier
	Year       int    `json:"year"`       // boundary vintage
	Resolution string `json:"resolution"` // boundary detail: 500k | 5m | 20m
	Zoom       int    `json:"zoom"`       // terrain tile zoom, 0..16
}

// BatchRequest asks for per-sub-geography elevation across one state.
type BatchRequest struct {
	Level      string `json:"level"`                 // county | tract
	StateFIPS  string `json:"state"`                 // 2-digit state code
	CountyFIPS string `json:"county,omitempty"`      // optional 3-digit tract scope
	Year       int    `json:"year"`
	Resolution string `json:"resolution"`
	Zoom       int    `json:"zoom"`
}

// Surface is the single-geography result: the cropped elevation samples,
// their unrounded mean, and everything a renderer needs.
type Surface struct {
	GEOID      string         `json:"geoid"`
	Name       string         `json:"name"`
	Level      fips.Level     `json:"level"`
	Zoom       int            `json:"zoom"`
	Resolution string         `json:"resolution"` // nominal source resolution label
	Mean       float64        `json:"mean"`
	Samples    []zonal.Sample `json:"samples"`

	Raster    *terrain.Raster    `json:"-"`
	Geography boundary.Geography `json:"-"`
}

// Record is one batch output row. Elevations are rounded to whole meters
// here at the output boundary; nil means the value is missing, which is
// distinct from zero.
type Record struct {
	GEOID              string `json:"geoid"`
	Name               string `json:"name"`
	NameLSAD           string `json:"name_lsad,omitempty"`
	ElevationPopCenter *int   `json:"elevation_pop_center"`
	ElevationMean      *int   `json:"elevation_mean"`
}

// BatchResult is the batch-mode output: one record per resolved
// sub-geography with a population-center entry, ordered by GEOID.
type BatchResult struct {
	StateFIPS  string     `json:"state"`
	StateName  string     `json:"state_name"`
	Level      fips.Level `json:"level"`
	Zoom       int        `json:"zoom"`
	Resolution string     `json:"resolution"`
	Records    []Record   `json:"records"`
}
