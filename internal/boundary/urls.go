package boundary

import (
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/ridgeline-geo/elevation-cli/internal/fips"
)

// DefaultBaseURL is the cartographic boundary archive root.
const DefaultBaseURL = "https://www2.census.gov/geo/tiger/GENZ%d/shp"

// archiveURL builds the download URL for a level's boundary archive. State
// and county layers are national files; tract layers are published per state.
func archiveURL(baseURL string, level fips.Level, year int, res, stateFIPS string) (string, error) {
	base := fmt.Sprintf(baseURL, year)

	switch level {
	case fips.LevelState:
		return fmt.Sprintf("%s/cb_%d_us_state_%s.zip", base, year, res), nil
	case fips.LevelCounty:
		return fmt.Sprintf("%s/cb_%d_us_county_%s.zip", base, year, res), nil
	case fips.LevelTract:
		if stateFIPS == "" {
			return "", eris.New("boundary: tract archive requires a state FIPS code")
		}
		return fmt.Sprintf("%s/cb_%d_%s_tract_%s.zip", base, year, stateFIPS, res), nil
	default:
		return "", eris.Errorf("boundary: no archive for level %q", level)
	}
}
