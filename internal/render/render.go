// Package render projects typed airspaces into output geometries: 2D
// GeoJSON features for web maps and 3D extruded KML volumes for earth
// viewers. Both projectors borrow the airspace collection read-only and
// allocate fresh output structures.
//
// Projection never fails as a whole: airspaces that cannot produce a
// geometry are dropped from the output and reported as Skips.
package render

import (
	"fmt"
	"math"

	"github.com/airspacelab/airspace-viewer/internal/airspace"
	"github.com/airspacelab/airspace-viewer/internal/units"
	"github.com/airspacelab/airspace-viewer/pkg/logger"
)

// Skip records one airspace that produced no output geometry, with the
// reason it was dropped.
type Skip struct {
	Name   string
	Reason string
}

// Drop reasons reported in Skips.
const (
	reasonInsufficientPoints = "insufficient points"
	reasonInvalidCircle      = "invalid circle"
	reasonUnknownGeometry    = "unknown geometry"
)

// Line obstacles: a 2-point "polygon" marks a cable, power line or
// similar obstacle, rendered as a red line instead of an area.
const (
	lineObstacleColor  = "#FF0000"
	lineObstacleSuffix = " - Line Obstacle"
)

const (
	// circleSegments is the number of vertices used to approximate a
	// circle, one every 10 degrees.
	circleSegments = 36

	// metersPerDegree is the equirectangular approximation of one degree
	// of latitude.
	metersPerDegree = 111320.0
)

// description is the short "{name} ({class})" label shared by both
// projectors.
func description(a airspace.Airspace) string {
	return fmt.Sprintf("%s (%s)", a.Name, a.Class)
}

// circleRing approximates a circle as a closed ring of circleSegments+1
// points starting due north of the center, the last point repeating the
// first. Longitude steps are scaled by the cosine of the center latitude.
func circleRing(c airspace.CircleGeometry) []airspace.GeometryPoint {
	radiusDeg := units.NMToMeters(c.Radius) / metersPerDegree

	ring := make([]airspace.GeometryPoint, 0, circleSegments+1)
	for i := 0; i < circleSegments; i++ {
		angle := float64(i) * 10 * math.Pi / 180
		ring = append(ring, airspace.GeometryPoint{
			Lat: c.Center.Lat + radiusDeg*math.Cos(angle),
			Lng: c.Center.Lng + radiusDeg*math.Sin(angle)/math.Cos(c.Center.Lat*math.Pi/180),
		})
	}
	return append(ring, ring[0])
}

// outlinePoints extracts the point vertices of a polygon outline in
// winding order. Arc segments are not geometrized; they are skipped with
// a warning.
func outlinePoints(log *logger.Logger, name string, poly airspace.PolygonGeometry) []airspace.GeometryPoint {
	if poly.HasArcs() {
		log.Warn("Skipping arc segments (not implemented)",
			logger.String("airspace", name))
	}
	return poly.Points()
}

// closeRing appends the first point when the outline does not already
// end where it starts.
func closeRing(points []airspace.GeometryPoint) []airspace.GeometryPoint {
	if points[0] != points[len(points)-1] {
		return append(points, points[0])
	}
	return points
}
