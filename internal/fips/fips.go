// Package fips models US FIPS geographic identifiers: levels, fixed-width
// GEOID validation, and composite-key derivation from component codes.
package fips

import (
	"github.com/rotisserie/eris"
)

// Level identifies an administrative geography level.
type Level string

// Supported geography levels.
const (
	LevelState  Level = "state"
	LevelCounty Level = "county"
	LevelTract  Level = "tract"
)

// GEOID digit widths per level.
const (
	StateWidth  = 2
	CountyWidth = 5
	TractWidth  = 11
)

// ParseLevel parses a level string.
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case LevelState, LevelCounty, LevelTract:
		return Level(s), nil
	default:
		return "", eris.Errorf("fips: unknown level %q (want state, county, or tract)", s)
	}
}

// Width returns the GEOID digit width for the level.
func (l Level) Width() int {
	switch l {
	case LevelState:
		return StateWidth
	case LevelCounty:
		return CountyWidth
	case LevelTract:
		return TractWidth
	default:
		return 0
	}
}

// ValidGEOID reports whether s is a well-formed GEOID for the level:
// the exact digit width, digits only.
func ValidGEOID(level Level, s string) bool {
	if len(s) != level.Width() {
		return false
	}
	return allDigits(s)
}

// ValidStateCode reports whether s is a well-formed 2-digit state FIPS code.
func ValidStateCode(s string) bool {
	return len(s) == StateWidth && allDigits(s)
}

// ValidCountyCode reports whether s is a well-formed 3-digit county code
// (the county component without its state prefix).
func ValidCountyCode(s string) bool {
	return len(s) == 3 && allDigits(s)
}

// ComposeGEOID concatenates component codes into a GEOID. Codes must already
// be zero-padded to their fixed widths; components are never reformatted.
// Pass empty strings for levels below the target (county "" means a state
// GEOID, tract "" means a county GEOID).
func ComposeGEOID(state, county, tract string) string {
	return state + county + tract
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
