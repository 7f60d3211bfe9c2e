package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	kml "github.com/twpayne/go-kml"

	"github.com/airspacelab/airspace-viewer/internal/airspace"
	"github.com/airspacelab/airspace-viewer/internal/units"
	"github.com/airspacelab/airspace-viewer/pkg/logger"
)

// unlimitedCeilingMeters stands in for Unlimited upper bounds, well
// above any real traffic.
const unlimitedCeilingMeters = 60000.0

// kmlOpaqueRed is the fallback for colors that fail to parse.
var kmlOpaqueRed = color.RGBA{R: 0xff, A: 0xff}

// KML projects airspaces into a KML document of 3D volumes between
// their lower and upper bounds.
type KML struct {
	logger *logger.Logger
}

// NewKML creates a new KML projector.
func NewKML(logger *logger.Logger) *KML {
	return &KML{
		logger: logger.Named("kml"),
	}
}

// Project renders airspaces as an indented KML document string, one
// placemark per airspace in input order. Airspaces without a usable
// geometry are dropped and reported in the returned Skips.
func (k *KML) Project(airspaces []airspace.Airspace) (string, []Skip, error) {
	doc := kml.Document(kml.Name("Airspaces"))
	var skips []Skip

	for _, a := range airspaces {
		placemark, skip := k.placemark(a)
		if skip != nil {
			skips = append(skips, *skip)
			k.logger.Warn("Skipped airspace",
				logger.String("name", skip.Name),
				logger.String("reason", skip.Reason))
			continue
		}
		doc.Add(placemark)
	}

	var buf strings.Builder
	if err := kml.KML(doc).WriteIndent(&buf, "", "  "); err != nil {
		return "", skips, fmt.Errorf("failed to encode KML document: %w", err)
	}

	k.logger.Info("Converted airspaces to KML",
		logger.Int("placemarks", len(airspaces)-len(skips)),
		logger.Int("skipped", len(skips)))

	return buf.String(), skips, nil
}

func (k *KML) placemark(a airspace.Airspace) (kml.Element, *Skip) {
	switch geom := a.Geometry.(type) {
	case airspace.PolygonGeometry:
		return k.outline(a, outlinePoints(k.logger, a.Name, geom))
	case airspace.CircleGeometry:
		if geom.Radius <= 0 {
			return nil, &Skip{Name: a.Name, Reason: reasonInvalidCircle}
		}
		return k.outline(a, circleRing(geom))
	default:
		return nil, &Skip{Name: a.Name, Reason: reasonUnknownGeometry}
	}
}

func (k *KML) outline(a airspace.Airspace, points []airspace.GeometryPoint) (kml.Element, *Skip) {
	switch {
	case len(points) > 2:
		return k.volume(a, closeRing(points)), nil
	case len(points) == 2:
		return k.lineObstacle(a, points), nil
	default:
		return nil, &Skip{Name: a.Name, Reason: reasonInsufficientPoints}
	}
}

// volume renders one airspace as a 3D solid over the closed ring.
// Airspaces whose lower bound touches the ground become a single
// extruded polygon at the upper bound and the viewer drops the walls to
// the terrain. Elevated airspaces need explicit geometry: a top face, a
// bottom face and one wall per ring edge.
func (k *KML) volume(a airspace.Airspace, ring []airspace.GeometryPoint) kml.Element {
	upperMode, upperAlt := kmlAltitude(a.UpperBound)

	if touchesGround(a.LowerBound) {
		return kml.Placemark(
			kml.Name(a.Name),
			kml.Description(describe(a)),
			k.style(a.Class),
			kml.Polygon(
				kml.Extrude(true),
				kml.AltitudeMode(upperMode),
				kml.OuterBoundaryIs(kml.LinearRing(
					kml.Coordinates(ringCoordinates(ring, upperAlt)...),
				)),
			),
		)
	}

	lowerMode, lowerAlt := kmlAltitude(a.LowerBound)

	solid := kml.MultiGeometry(
		face(ring, upperAlt, upperMode),
		face(ring, lowerAlt, lowerMode),
	)
	// A polygon carries a single altitude mode, so the walls use the
	// upper bound's.
	for i := 0; i < len(ring)-1; i++ {
		solid.Add(wall(ring[i], ring[i+1], lowerAlt, upperAlt, upperMode))
	}

	return kml.Placemark(
		kml.Name(a.Name),
		kml.Description(describe(a)),
		k.style(a.Class),
		solid,
	)
}

// lineObstacle renders a 2-point outline as a red line following the
// terrain. Two vertices leave nothing to extrude.
func (k *KML) lineObstacle(a airspace.Airspace, points []airspace.GeometryPoint) kml.Element {
	return kml.Placemark(
		kml.Name(a.Name),
		kml.Description(describe(a)),
		kml.Style(
			kml.LineStyle(kml.Color(kmlOpaqueRed), kml.Width(2)),
		),
		kml.LineString(
			kml.Tessellate(true),
			kml.Coordinates(
				kml.Coordinate{Lon: points[0].Lng, Lat: points[0].Lat},
				kml.Coordinate{Lon: points[1].Lng, Lat: points[1].Lat},
			),
		),
	)
}

// face builds one horizontal polygon of the solid at the given altitude.
func face(ring []airspace.GeometryPoint, alt float64, mode kml.AltitudeModeEnum) kml.Element {
	return kml.Polygon(
		kml.AltitudeMode(mode),
		kml.OuterBoundaryIs(kml.LinearRing(
			kml.Coordinates(ringCoordinates(ring, alt)...),
		)),
	)
}

// wall builds the rectangle connecting one ring edge between the lower
// and upper altitudes. The fifth coordinate closes the quad's own ring.
func wall(from, to airspace.GeometryPoint, lowerAlt, upperAlt float64, mode kml.AltitudeModeEnum) kml.Element {
	return kml.Polygon(
		kml.AltitudeMode(mode),
		kml.OuterBoundaryIs(kml.LinearRing(
			kml.Coordinates(
				kml.Coordinate{Lon: from.Lng, Lat: from.Lat, Alt: lowerAlt},
				kml.Coordinate{Lon: to.Lng, Lat: to.Lat, Alt: lowerAlt},
				kml.Coordinate{Lon: to.Lng, Lat: to.Lat, Alt: upperAlt},
				kml.Coordinate{Lon: from.Lng, Lat: from.Lat, Alt: upperAlt},
				kml.Coordinate{Lon: from.Lng, Lat: from.Lat, Alt: lowerAlt},
			),
		)),
	)
}

func ringCoordinates(ring []airspace.GeometryPoint, alt float64) []kml.Coordinate {
	coords := make([]kml.Coordinate, 0, len(ring))
	for _, p := range ring {
		coords = append(coords, kml.Coordinate{Lon: p.Lng, Lat: p.Lat, Alt: alt})
	}
	return coords
}

// style builds the shared line and fill style in the airspace's class
// color.
func (k *KML) style(class string) kml.Element {
	c := parseHexColor(airspace.ColorForClass(class))
	return kml.Style(
		kml.LineStyle(kml.Color(c), kml.Width(1)),
		kml.PolyStyle(kml.Color(c)),
	)
}

// describe builds the placemark description with both altitude bounds.
func describe(a airspace.Airspace) string {
	return fmt.Sprintf("%s\nLower: %s\nUpper: %s",
		description(a), a.LowerBound.Text(), a.UpperBound.Text())
}

// kmlAltitude maps an altitude bound to a KML altitude mode and a height
// in meters. Heights relative to mean sea level are absolute; heights
// above ground are relative to the terrain.
func kmlAltitude(a airspace.Altitude) (kml.AltitudeModeEnum, float64) {
	switch a.Type {
	case airspace.Ground:
		return kml.AltitudeModeRelativeToGround, 0
	case airspace.FeetAMSL:
		return kml.AltitudeModeAbsolute, units.FeetToMeters(a.Num())
	case airspace.FeetAGL:
		return kml.AltitudeModeRelativeToGround, units.FeetToMeters(a.Num())
	case airspace.FlightLevel:
		return kml.AltitudeModeAbsolute, units.FeetToMeters(a.Num() * 100)
	case airspace.Unlimited:
		return kml.AltitudeModeAbsolute, unlimitedCeilingMeters
	default:
		return kml.AltitudeModeAbsolute, 0
	}
}

// touchesGround reports whether a lower bound sits on the terrain.
func touchesGround(a airspace.Altitude) bool {
	switch a.Type {
	case airspace.Ground:
		return true
	case airspace.FeetAGL:
		return a.Num() <= 0
	default:
		return false
	}
}

// parseHexColor converts a CSS #RRGGBB or #AARRGGBB color into the RGBA
// value KML styles are built from. Malformed values fall back to opaque
// red rather than failing the document.
func parseHexColor(s string) color.RGBA {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 6 {
		hex = "ff" + hex
	}
	if len(hex) != 8 {
		return kmlOpaqueRed
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return kmlOpaqueRed
	}
	return color.RGBA{
		A: uint8(v >> 24),
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}
}
