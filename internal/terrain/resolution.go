package terrain

import "github.com/rotisserie/eris"

// nominalResolutions maps tile zoom to the nominal ground resolution of the
// source data, for display only. The tile service decides the actual output
// resolution; downstream computation never consumes these strings.
var nominalResolutions = map[int]string{
	0:  "1.5 arc degrees",
	1:  "45 arc minutes",
	2:  "22.5 arc minutes",
	3:  "11 arc minutes",
	4:  "5.6 arc minutes",
	5:  "2.8 arc minutes",
	6:  "1.4 arc minutes",
	7:  "42 arc seconds",
	8:  "21 arc seconds",
	9:  "10.5 arc seconds",
	10: "5.3 arc seconds",
	11: "2.6 arc seconds",
	12: "1.3 arc seconds",
	13: "2/3 arc seconds",
	14: "1/3 arc seconds",
	15: "1/5 arc seconds",
	16: "1/9 arc seconds",
}

// NominalResolution returns the human-readable resolution label for a zoom
// level in [0, 16].
func NominalResolution(zoom int) (string, error) {
	s, ok := nominalResolutions[zoom]
	if !ok {
		return "", eris.Errorf("terrain: zoom %d outside [0, %d]", zoom, MaxZoom)
	}
	return s, nil
}

// ValidZoom reports whether zoom is within the supported range.
func ValidZoom(zoom int) bool {
	return zoom >= 0 && zoom <= MaxZoom
}
