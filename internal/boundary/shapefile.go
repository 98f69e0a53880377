package boundary

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// attribute columns read from boundary shapefiles; absent columns yield "".
var attrColumns = []string{"GEOID", "NAME", "NAMELSAD", "STATEFP", "COUNTYFP", "TRACTCE"}

// ParseShapefile reads a cartographic boundary shapefile into geographies.
// Records without a GEOID or usable polygon geometry are skipped.
func ParseShapefile(shpPath string) ([]Geography, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	// Build field name → index map.
	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToUpper(name)] = i
	}

	var geographies []Geography
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()

		attrs := make(map[string]string, len(attrColumns))
		for _, col := range attrColumns {
			idx, ok := fieldIdx[col]
			if !ok {
				continue
			}
			val := strings.TrimRight(reader.Attribute(idx), "\x00")
			attrs[col] = strings.TrimSpace(val)
		}

		if attrs["GEOID"] == "" {
			skipped++
			continue
		}

		mp, convErr := shapeToMultiPolygon(shape)
		if convErr != nil || mp == nil {
			skipped++
			continue
		}

		geographies = append(geographies, Geography{
			GEOID:      attrs["GEOID"],
			Name:       attrs["NAME"],
			NameLSAD:   attrs["NAMELSAD"],
			StateFIPS:  attrs["STATEFP"],
			CountyFIPS: attrs["COUNTYFP"],
			TractCE:    attrs["TRACTCE"],
			Geom:       mp,
		})
	}

	if skipped > 0 {
		zap.L().Debug("boundary: skipped shapefile records",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
		)
	}

	return geographies, nil
}

// shapeToMultiPolygon converts a shapefile polygon into a multipolygon,
// grouping rings by orientation: shapefile outer rings wind clockwise
// (negative shoelace area), holes counter-clockwise.
func shapeToMultiPolygon(s shp.Shape) (*geom.MultiPolygon, error) {
	poly, ok := s.(*shp.Polygon)
	if !ok || poly == nil || poly.NumParts == 0 || len(poly.Points) == 0 {
		return nil, eris.New("boundary: record has no polygon geometry")
	}

	var coords [][][]geom.Coord
	for i := int32(0); i < poly.NumParts; i++ {
		start := poly.Parts[i]
		end := int32(len(poly.Points))
		if i+1 < poly.NumParts {
			end = poly.Parts[i+1]
		}
		if end-start < 4 {
			continue // degenerate ring
		}

		ring := make([]geom.Coord, 0, end-start)
		for j := start; j < end; j++ {
			ring = append(ring, geom.Coord{poly.Points[j].X, poly.Points[j].Y})
		}

		if signedArea(ring) <= 0 || len(coords) == 0 {
			// Outer ring starts a new polygon. A leading counter-clockwise
			// ring in a malformed file is still treated as a shell.
			coords = append(coords, [][]geom.Coord{ring})
		} else {
			last := len(coords) - 1
			coords[last] = append(coords[last], ring)
		}
	}

	if len(coords) == 0 {
		return nil, eris.New("boundary: record has only degenerate rings")
	}

	mp := geom.NewMultiPolygon(geom.XY)
	if _, err := mp.SetCoords(coords); err != nil {
		return nil, eris.Wrap(err, "boundary: build multipolygon")
	}
	return mp, nil
}

// signedArea is the shoelace area of a ring: positive counter-clockwise.
func signedArea(ring []geom.Coord) float64 {
	var area float64
	for i := 0; i < len(ring)-1; i++ {
		area += ring[i][0]*ring[i+1][1] - ring[i+1][0]*ring[i][1]
	}
	return area / 2
}
