package boundary

import (
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

// cwRing returns a clockwise (shapefile outer) unit-square ring offset to
// (x0, y0).
func cwRing(x0, y0, size float64) []shp.Point {
	return []shp.Point{
		{X: x0, Y: y0},
		{X: x0, Y: y0 + size},
		{X: x0 + size, Y: y0 + size},
		{X: x0 + size, Y: y0},
		{X: x0, Y: y0},
	}
}

// ccwRing returns a counter-clockwise (shapefile hole) ring.
func ccwRing(x0, y0, size float64) []shp.Point {
	return []shp.Point{
		{X: x0, Y: y0},
		{X: x0 + size, Y: y0},
		{X: x0 + size, Y: y0 + size},
		{X: x0, Y: y0 + size},
		{X: x0, Y: y0},
	}
}

func polygonShape(rings ...[]shp.Point) *shp.Polygon {
	return (*shp.Polygon)(shp.NewPolyLine(rings))
}

func TestShapeToMultiPolygon_SingleRing(t *testing.T) {
	mp, err := shapeToMultiPolygon(polygonShape(cwRing(-77, 39, 1)))
	require.NoError(t, err)
	assert.Equal(t, 1, mp.NumPolygons())
	assert.Equal(t, 1, mp.Polygon(0).NumLinearRings())
}

func TestShapeToMultiPolygon_ShellWithHole(t *testing.T) {
	mp, err := shapeToMultiPolygon(polygonShape(
		cwRing(-77, 39, 2),
		ccwRing(-76.5, 39.5, 0.5),
	))
	require.NoError(t, err)
	require.Equal(t, 1, mp.NumPolygons())
	assert.Equal(t, 2, mp.Polygon(0).NumLinearRings())
}

func TestShapeToMultiPolygon_TwoShells(t *testing.T) {
	mp, err := shapeToMultiPolygon(polygonShape(
		cwRing(-77, 39, 1),
		cwRing(-75, 38, 1),
	))
	require.NoError(t, err)
	assert.Equal(t, 2, mp.NumPolygons())
}

func TestShapeToMultiPolygon_Degenerate(t *testing.T) {
	_, err := shapeToMultiPolygon(polygonShape([]shp.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}}))
	assert.Error(t, err)

	_, err = shapeToMultiPolygon(nil)
	assert.Error(t, err)
}

func TestSignedArea(t *testing.T) {
	cw := ringCoords(cwRing(0, 0, 1))
	ccw := ringCoords(ccwRing(0, 0, 1))
	assert.Negative(t, signedArea(cw))
	assert.Positive(t, signedArea(ccw))
}

func ringCoords(pts []shp.Point) []geom.Coord {
	out := make([]geom.Coord, len(pts))
	for i, p := range pts {
		out[i] = geom.Coord{p.X, p.Y}
	}
	return out
}
