// Package boundary resolves FIPS-identified geographies to polygon geometry
// using the census cartographic boundary shapefile archives.
package boundary

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/ridgeline-geo/elevation-cli/internal/fips"
)

// ErrNoMatch is returned when no geography in the published archive matches
// the requested identifier. Callers distinguish this from transport failures.
var ErrNoMatch = eris.New("boundary: no matching geography")

// Geography is one resolved administrative polygon with its identifying
// attributes. Geometry is geographic lon/lat (NAD83).
type Geography struct {
	GEOID      string
	Name       string // NAME attribute
	NameLSAD   string // NAMELSAD attribute; empty at state level
	StateFIPS  string
	CountyFIPS string // empty at state level
	TractCE    string // empty above tract level
	Geom       *geom.MultiPolygon
}

// DisplayName returns the most descriptive available name.
func (g Geography) DisplayName() string {
	if g.NameLSAD != "" {
		return g.NameLSAD
	}
	return g.Name
}

// Level infers the geography's level from its GEOID width.
func (g Geography) Level() fips.Level {
	switch len(g.GEOID) {
	case fips.TractWidth:
		return fips.LevelTract
	case fips.CountyWidth:
		return fips.LevelCounty
	default:
		return fips.LevelState
	}
}

// Cartographic boundary resolutions published by the census bureau.
const (
	Resolution500k = "500k"
	Resolution5m   = "5m"
	Resolution20m  = "20m"
)

// ValidResolution reports whether res names a published boundary detail level.
func ValidResolution(res string) bool {
	switch res {
	case Resolution500k, Resolution5m, Resolution20m:
		return true
	default:
		return false
	}
}
