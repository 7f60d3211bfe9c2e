package render

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/airspacelab/airspace-viewer/internal/airspace"
	"github.com/airspacelab/airspace-viewer/pkg/logger"
)

// GeoJSON projects airspaces onto 2D map features. Altitude bounds
// survive only as display properties.
type GeoJSON struct {
	logger *logger.Logger
}

// NewGeoJSON creates a new GeoJSON projector.
func NewGeoJSON(logger *logger.Logger) *GeoJSON {
	return &GeoJSON{
		logger: logger.Named("geojson"),
	}
}

// Project converts airspaces into a FeatureCollection, one feature per
// airspace in input order. Airspaces without a usable geometry are
// dropped and reported in the returned Skips; the collection itself is
// always well formed.
func (g *GeoJSON) Project(airspaces []airspace.Airspace) (*geojson.FeatureCollection, []Skip) {
	fc := geojson.NewFeatureCollection()
	var skips []Skip

	for _, a := range airspaces {
		feature, skip := g.feature(a)
		if skip != nil {
			skips = append(skips, *skip)
			g.logger.Warn("Skipped airspace",
				logger.String("name", skip.Name),
				logger.String("reason", skip.Reason))
			continue
		}
		fc.Append(feature)
	}

	g.logger.Info("Converted airspaces to GeoJSON",
		logger.Int("features", len(fc.Features)),
		logger.Int("skipped", len(skips)))

	return fc, skips
}

func (g *GeoJSON) feature(a airspace.Airspace) (*geojson.Feature, *Skip) {
	switch geom := a.Geometry.(type) {
	case airspace.PolygonGeometry:
		return g.polygonFeature(a, geom)
	case airspace.CircleGeometry:
		return g.circleFeature(a, geom)
	default:
		return nil, &Skip{Name: a.Name, Reason: reasonUnknownGeometry}
	}
}

func (g *GeoJSON) polygonFeature(a airspace.Airspace, poly airspace.PolygonGeometry) (*geojson.Feature, *Skip) {
	points := outlinePoints(g.logger, a.Name, poly)

	switch {
	case len(points) > 2:
		ring := make(orb.Ring, 0, len(points)+1)
		for _, p := range points {
			ring = append(ring, orb.Point{p.Lng, p.Lat})
		}
		if ring[0] != ring[len(ring)-1] {
			ring = append(ring, ring[0])
		}

		f := geojson.NewFeature(orb.Polygon{ring})
		f.Properties = properties(a)
		return f, nil

	case len(points) == 2:
		// Two vertices cannot bound an area; OpenAir files use such
		// degenerate polygons for line obstacles.
		line := orb.LineString{
			{points[0].Lng, points[0].Lat},
			{points[1].Lng, points[1].Lat},
		}

		f := geojson.NewFeature(line)
		f.Properties = properties(a)
		f.Properties["description"] = description(a) + lineObstacleSuffix
		f.Properties["color"] = lineObstacleColor
		f.Properties["geometryType"] = "line"
		return f, nil

	default:
		return nil, &Skip{Name: a.Name, Reason: reasonInsufficientPoints}
	}
}

func (g *GeoJSON) circleFeature(a airspace.Airspace, c airspace.CircleGeometry) (*geojson.Feature, *Skip) {
	if c.Radius <= 0 {
		return nil, &Skip{Name: a.Name, Reason: reasonInvalidCircle}
	}

	points := circleRing(c)
	ring := make(orb.Ring, 0, len(points))
	for _, p := range points {
		ring = append(ring, orb.Point{p.Lng, p.Lat})
	}

	f := geojson.NewFeature(orb.Polygon{ring})
	f.Properties = properties(a)
	return f, nil
}

// properties builds the display properties attached to every feature.
func properties(a airspace.Airspace) geojson.Properties {
	return geojson.Properties{
		"name":        a.Name,
		"class":       a.Class,
		"lowerBound":  a.LowerBound.Text(),
		"upperBound":  a.UpperBound.Text(),
		"description": description(a),
		"color":       airspace.ColorForClass(a.Class),
	}
}
