package render

import (
	"image/color"
	"strings"
	"testing"

	kml "github.com/twpayne/go-kml"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airspacelab/airspace-viewer/internal/airspace"
	"github.com/airspacelab/airspace-viewer/pkg/logger"
)

func squareAirspace(name, class string, lower, upper airspace.Altitude) airspace.Airspace {
	return airspace.Airspace{
		Name:       name,
		Class:      class,
		LowerBound: lower,
		UpperBound: upper,
		Geometry: airspace.PolygonGeometry{Segments: []airspace.Segment{
			airspace.GeometryPoint{Lat: 46.0, Lng: 8.0},
			airspace.GeometryPoint{Lat: 46.1, Lng: 8.0},
			airspace.GeometryPoint{Lat: 46.1, Lng: 8.1},
			airspace.GeometryPoint{Lat: 46.0, Lng: 8.1},
		}},
	}
}

func TestKMLGroundTouchingExtrudes(t *testing.T) {
	k := NewKML(logger.NewNop())

	doc, skips, err := k.Project([]airspace.Airspace{squareAirspace("AMBRI", "E",
		airspace.Altitude{Type: airspace.Ground},
		airspace.Altitude{Type: airspace.FeetAMSL, Value: 1000.0},
	)})

	require.NoError(t, err)
	assert.Empty(t, skips)

	// One extruded polygon at the ceiling; the viewer drops the walls
	// down to the terrain.
	assert.Equal(t, 1, strings.Count(doc, "<Polygon>"))
	assert.NotContains(t, doc, "<MultiGeometry>")
	assert.Contains(t, doc, "<extrude>1</extrude>")
	assert.Contains(t, doc, "<altitudeMode>absolute</altitudeMode>")
	assert.Contains(t, doc, ",304.8")

	// Class E fill color in aabbggrr order.
	assert.Contains(t, doc, "<color>ff631ee9</color>")
	assert.Contains(t, doc, "<name>AMBRI</name>")
	assert.Contains(t, doc, "Lower: GND")
	assert.Contains(t, doc, "Upper: 305 m AMSL")
}

func TestKMLElevatedBuildsWalls(t *testing.T) {
	k := NewKML(logger.NewNop())

	doc, skips, err := k.Project([]airspace.Airspace{squareAirspace("HIGH BOX", "C",
		airspace.Altitude{Type: airspace.FeetAMSL, Value: 500.0},
		airspace.Altitude{Type: airspace.FeetAMSL, Value: 1000.0},
	)})

	require.NoError(t, err)
	assert.Empty(t, skips)

	// Top face, bottom face and one wall per edge of the closed square.
	assert.Contains(t, doc, "<MultiGeometry>")
	assert.Equal(t, 6, strings.Count(doc, "<Polygon>"))
	assert.NotContains(t, doc, "<extrude>")
	assert.Contains(t, doc, ",152.4")
	assert.Contains(t, doc, ",304.8")
}

func TestKMLElevatedCircle(t *testing.T) {
	k := NewKML(logger.NewNop())

	doc, skips, err := k.Project([]airspace.Airspace{{
		Name:       "SHOOTING AREA",
		Class:      "Danger",
		LowerBound: airspace.Altitude{Type: airspace.FeetAMSL, Value: 2000.0},
		UpperBound: airspace.Altitude{Type: airspace.FlightLevel, Value: 100.0},
		Geometry:   airspace.CircleGeometry{Center: airspace.GeometryPoint{Lat: 46.74, Lng: 8.11}, Radius: 4.0},
	}})

	require.NoError(t, err)
	assert.Empty(t, skips)

	// 36 edges of the approximated circle plus top and bottom faces.
	assert.Equal(t, 38, strings.Count(doc, "<Polygon>"))
	assert.Contains(t, doc, ",3048")
}

func TestKMLLineObstacle(t *testing.T) {
	k := NewKML(logger.NewNop())

	doc, skips, err := k.Project([]airspace.Airspace{{
		Name:       "CABLE",
		Class:      "GliderProhibited",
		LowerBound: airspace.Altitude{Type: airspace.Ground},
		UpperBound: airspace.Altitude{Type: airspace.FeetAGL, Value: 300.0},
		Geometry: airspace.PolygonGeometry{Segments: []airspace.Segment{
			airspace.GeometryPoint{Lat: 46.0, Lng: 8.0},
			airspace.GeometryPoint{Lat: 46.05, Lng: 8.02},
		}},
	}})

	require.NoError(t, err)
	assert.Empty(t, skips)
	assert.Contains(t, doc, "<LineString>")
	assert.Contains(t, doc, "<tessellate>1</tessellate>")
	assert.Contains(t, doc, "<color>ff0000ff</color>")
	assert.Equal(t, 0, strings.Count(doc, "<Polygon>"))
}

func TestKMLSkips(t *testing.T) {
	k := NewKML(logger.NewNop())

	doc, skips, err := k.Project([]airspace.Airspace{
		{Name: "LONE POINT", Geometry: airspace.PolygonGeometry{Segments: []airspace.Segment{
			airspace.GeometryPoint{Lat: 46.0, Lng: 8.0},
		}}},
		{Name: "BAD CIRCLE", Geometry: airspace.CircleGeometry{}},
		{Name: "NO GEOMETRY"},
	})

	require.NoError(t, err)
	require.Len(t, skips, 3)
	assert.Equal(t, Skip{Name: "LONE POINT", Reason: "insufficient points"}, skips[0])
	assert.Equal(t, Skip{Name: "BAD CIRCLE", Reason: "invalid circle"}, skips[1])
	assert.Equal(t, Skip{Name: "NO GEOMETRY", Reason: "unknown geometry"}, skips[2])

	// The document stays well formed with every input dropped.
	assert.True(t, strings.HasPrefix(doc, "<?xml"))
	assert.Contains(t, doc, "<name>Airspaces</name>")
	assert.NotContains(t, doc, "<Placemark>")
}

func TestKMLAltitudeMapping(t *testing.T) {
	tests := []struct {
		name     string
		alt      airspace.Altitude
		wantMode kml.AltitudeModeEnum
		wantAlt  float64
	}{
		{"ground", airspace.Altitude{Type: airspace.Ground}, kml.AltitudeModeRelativeToGround, 0},
		{"feet amsl", airspace.Altitude{Type: airspace.FeetAMSL, Value: 1000.0}, kml.AltitudeModeAbsolute, 304.8},
		{"feet agl", airspace.Altitude{Type: airspace.FeetAGL, Value: 1500.0}, kml.AltitudeModeRelativeToGround, 457.2},
		{"flight level", airspace.Altitude{Type: airspace.FlightLevel, Value: 100.0}, kml.AltitudeModeAbsolute, 3048},
		{"flight level from string", airspace.Altitude{Type: airspace.FlightLevel, Value: "130"}, kml.AltitudeModeAbsolute, 3962.4},
		{"unlimited", airspace.Altitude{Type: airspace.Unlimited}, kml.AltitudeModeAbsolute, 60000},
		{"other", airspace.Altitude{Type: airspace.Other, Value: "by NOTAM"}, kml.AltitudeModeAbsolute, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, alt := kmlAltitude(tt.alt)
			assert.Equal(t, tt.wantMode, mode)
			assert.InDelta(t, tt.wantAlt, alt, 1e-9)
		})
	}
}

func TestKMLTouchesGround(t *testing.T) {
	tests := []struct {
		name string
		alt  airspace.Altitude
		want bool
	}{
		{"ground", airspace.Altitude{Type: airspace.Ground}, true},
		{"agl zero", airspace.Altitude{Type: airspace.FeetAGL, Value: 0.0}, true},
		{"agl negative", airspace.Altitude{Type: airspace.FeetAGL, Value: -50.0}, true},
		{"agl positive", airspace.Altitude{Type: airspace.FeetAGL, Value: 100.0}, false},
		{"amsl zero", airspace.Altitude{Type: airspace.FeetAMSL, Value: 0.0}, false},
		{"unlimited", airspace.Altitude{Type: airspace.Unlimited}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, touchesGround(tt.alt))
		})
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		want color.RGBA
	}{
		{"rgb", "#2196f3", color.RGBA{R: 0x21, G: 0x96, B: 0xf3, A: 0xff}},
		{"rgb without hash", "2196f3", color.RGBA{R: 0x21, G: 0x96, B: 0xf3, A: 0xff}},
		{"argb", "#80ff5722", color.RGBA{A: 0x80, R: 0xff, G: 0x57, B: 0x22}},
		{"not hex", "#zzzzzz", kmlOpaqueRed},
		{"wrong length", "#12345", kmlOpaqueRed},
		{"empty", "", kmlOpaqueRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseHexColor(tt.hex))
		})
	}
}
