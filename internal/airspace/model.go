// Package airspace defines the typed airspace model and the conversion
// from raw parsed OpenAir records into it.
package airspace

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/airspacelab/airspace-viewer/internal/units"
)

// AltitudeType identifies the reference frame of an altitude bound.
type AltitudeType int

const (
	Ground AltitudeType = iota
	FeetAMSL
	FeetAGL
	FlightLevel
	Unlimited
	Other
)

// altitudeTypeNames maps the type strings used by parser records to
// altitude types.
var altitudeTypeNames = map[string]AltitudeType{
	"Gnd":         Ground,
	"FeetAmsl":    FeetAMSL,
	"FeetAgl":     FeetAGL,
	"FlightLevel": FlightLevel,
	"Unlimited":   Unlimited,
	"Other":       Other,
}

// String returns the record-level name of the altitude type.
func (t AltitudeType) String() string {
	switch t {
	case Ground:
		return "Gnd"
	case FeetAMSL:
		return "FeetAmsl"
	case FeetAGL:
		return "FeetAgl"
	case FlightLevel:
		return "FlightLevel"
	case Unlimited:
		return "Unlimited"
	default:
		return "Other"
	}
}

// Altitude is one vertical bound of an airspace. Value holds the numeric
// feet for FeetAMSL/FeetAGL and the raw parsed value for FlightLevel and
// Other; it is ignored for Ground and Unlimited. Altitudes are not
// mutated after conversion.
type Altitude struct {
	Type  AltitudeType
	Value any
}

// Num returns the altitude value as a number, best effort. Missing or
// unparseable values yield 0.
func (a Altitude) Num() float64 {
	f, _ := toFloat(a.Value)
	return f
}

// Text renders the altitude the way it is labeled on aviation maps.
// Feet are converted to whole meters, rounded to the nearest integer.
func (a Altitude) Text() string {
	switch a.Type {
	case Ground:
		return "GND"
	case FeetAMSL:
		return fmt.Sprintf("%d m AMSL", int(math.Round(units.FeetToMeters(a.Num()))))
	case FeetAGL:
		return fmt.Sprintf("%d m AGL", int(math.Round(units.FeetToMeters(a.Num()))))
	case FlightLevel:
		return fmt.Sprintf("FL %s", a.displayValue())
	case Unlimited:
		return "Unlimited"
	default:
		return fmt.Sprintf("?(%s)", a.displayValue())
	}
}

// displayValue formats the raw value for display without trailing zeros.
func (a Altitude) displayValue() string {
	switch v := a.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// toFloat coerces the numeric shapes that show up in raw records.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// GeometryPoint is one vertex of an airspace outline.
type GeometryPoint struct {
	Lat float64
	Lng float64
}

// ArcDirection is the sweep direction of an arc.
type ArcDirection int

const (
	Clockwise ArcDirection = iota
	CounterClockwise
)

// String returns the record-level direction name.
func (d ArcDirection) String() string {
	if d == CounterClockwise {
		return "CCW"
	}
	return "CW"
}

// GeometryArc is an arc between two explicit points around a center.
// Arcs are carried through the model but skipped by every projector.
type GeometryArc struct {
	Center    GeometryPoint
	Start     GeometryPoint
	End       GeometryPoint
	Direction ArcDirection
}

// GeometryArcSegment is a center/radius/angle arc. Like GeometryArc it is
// preserved in the model but never rendered.
type GeometryArcSegment struct {
	Center     GeometryPoint
	Radius     float64 // nautical miles
	StartAngle float64 // degrees
	EndAngle   float64 // degrees
	Direction  ArcDirection
}

// Segment is one element of a polygon outline.
type Segment interface {
	segment()
}

func (GeometryPoint) segment()      {}
func (GeometryArc) segment()        {}
func (GeometryArcSegment) segment() {}

// PolygonGeometry is an ordered airspace outline. Segment order is the
// winding order of the polygon and is preserved from the source file.
type PolygonGeometry struct {
	Segments []Segment
}

// Points returns the point segments in outline order, skipping arcs.
func (p PolygonGeometry) Points() []GeometryPoint {
	pts := make([]GeometryPoint, 0, len(p.Segments))
	for _, s := range p.Segments {
		if pt, ok := s.(GeometryPoint); ok {
			pts = append(pts, pt)
		}
	}
	return pts
}

// HasArcs reports whether the outline contains arc segments.
func (p PolygonGeometry) HasArcs() bool {
	for _, s := range p.Segments {
		switch s.(type) {
		case GeometryArc, GeometryArcSegment:
			return true
		}
	}
	return false
}

// CircleGeometry is a circular airspace described by a center and a
// radius in nautical miles. A renderable circle needs Radius > 0.
type CircleGeometry struct {
	Center GeometryPoint
	Radius float64
}

// Geometry is the shape of an airspace: PolygonGeometry or CircleGeometry.
type Geometry interface {
	geometry()
}

func (PolygonGeometry) geometry() {}
func (CircleGeometry) geometry()  {}

// Airspace is one normalized airspace volume. Class is an open vocabulary:
// any label found in the source file round-trips unchanged. Airspaces are
// immutable once converted; reloads replace the whole collection.
type Airspace struct {
	Name       string
	Class      string
	LowerBound Altitude
	UpperBound Altitude
	Geometry   Geometry
}
