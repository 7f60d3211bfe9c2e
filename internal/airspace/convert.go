package airspace

// FromRaw converts one raw parser record into a typed Airspace. The
// conversion is total: unknown or missing fields fall back to documented
// defaults instead of failing.
//
// Defaults: missing name/class become empty strings, a missing lower bound
// becomes Ground, a missing upper bound becomes Unlimited, and missing
// geometry becomes an empty polygon. An altitude mapping whose type string
// is absent or unrecognized becomes Other with the raw value preserved.
func FromRaw(raw map[string]any) Airspace {
	return Airspace{
		Name:       rawString(raw["name"]),
		Class:      rawString(raw["class"]),
		LowerBound: altitudeFromRaw(raw["lowerBound"], Ground),
		UpperBound: altitudeFromRaw(raw["upperBound"], Unlimited),
		Geometry:   geometryFromRaw(raw["geom"]),
	}
}

// FromRawAll converts a batch of raw records, preserving input order.
func FromRawAll(raw []map[string]any) []Airspace {
	airspaces := make([]Airspace, 0, len(raw))
	for _, record := range raw {
		airspaces = append(airspaces, FromRaw(record))
	}
	return airspaces
}

func rawString(v any) string {
	s, _ := v.(string)
	return s
}

func altitudeFromRaw(v any, def AltitudeType) Altitude {
	m, ok := v.(map[string]any)
	if !ok {
		return Altitude{Type: def}
	}

	typeStr, _ := m["type"].(string)
	altType, known := altitudeTypeNames[typeStr]
	if !known {
		altType = Other
	}

	switch altType {
	case FeetAMSL, FeetAGL:
		// Numeric coercion is best effort: non-numeric values become 0.
		f, _ := toFloat(m["val"])
		return Altitude{Type: altType, Value: f}
	case FlightLevel, Other:
		// Keep the raw value for display.
		return Altitude{Type: altType, Value: m["val"]}
	default:
		return Altitude{Type: altType}
	}
}

func geometryFromRaw(v any) Geometry {
	m, ok := v.(map[string]any)
	if !ok {
		return PolygonGeometry{}
	}

	if geomType, _ := m["type"].(string); geomType == "Circle" {
		return circleFromRaw(m)
	}
	return polygonFromRaw(m)
}

func circleFromRaw(m map[string]any) CircleGeometry {
	center, ok := pointFromRaw(m["centerpoint"])
	if !ok {
		// A circle without a resolvable center cannot be rendered; zero
		// the radius so the projectors drop it as invalid.
		return CircleGeometry{}
	}

	radius, _ := toFloat(m["radius"])
	return CircleGeometry{Center: center, Radius: radius}
}

func polygonFromRaw(m map[string]any) PolygonGeometry {
	rawSegments, _ := m["segments"].([]any)
	segments := make([]Segment, 0, len(rawSegments))

	for _, rawSegment := range rawSegments {
		seg, ok := rawSegment.(map[string]any)
		if !ok {
			continue
		}

		segType, _ := seg["type"].(string)
		switch segType {
		case "", "Point":
			lat, _ := toFloat(seg["lat"])
			lng, _ := toFloat(seg["lng"])
			segments = append(segments, GeometryPoint{Lat: lat, Lng: lng})

		case "Arc":
			center, _ := pointFromRaw(seg["center"])
			start, _ := pointFromRaw(seg["start"])
			end, _ := pointFromRaw(seg["end"])
			segments = append(segments, GeometryArc{
				Center:    center,
				Start:     start,
				End:       end,
				Direction: directionFromRaw(seg["direction"]),
			})

		case "ArcSegment":
			center, _ := pointFromRaw(seg["center"])
			radius, _ := toFloat(seg["radius"])
			startAngle, _ := toFloat(seg["start_angle"])
			endAngle, _ := toFloat(seg["end_angle"])
			segments = append(segments, GeometryArcSegment{
				Center:     center,
				Radius:     radius,
				StartAngle: startAngle,
				EndAngle:   endAngle,
				Direction:  directionFromRaw(seg["direction"]),
			})
		}
	}

	return PolygonGeometry{Segments: segments}
}

// pointFromRaw normalizes the coordinate shapes parsers emit, either a
// lat/lng mapping or a [lat, lng] pair, into a GeometryPoint.
func pointFromRaw(v any) (GeometryPoint, bool) {
	switch p := v.(type) {
	case map[string]any:
		lat, latOK := toFloat(p["lat"])
		lng, lngOK := toFloat(p["lng"])
		if !latOK || !lngOK {
			return GeometryPoint{}, false
		}
		return GeometryPoint{Lat: lat, Lng: lng}, true

	case []any:
		if len(p) < 2 {
			return GeometryPoint{}, false
		}
		lat, latOK := toFloat(p[0])
		lng, lngOK := toFloat(p[1])
		if !latOK || !lngOK {
			return GeometryPoint{}, false
		}
		return GeometryPoint{Lat: lat, Lng: lng}, true

	case []float64:
		if len(p) < 2 {
			return GeometryPoint{}, false
		}
		return GeometryPoint{Lat: p[0], Lng: p[1]}, true

	default:
		return GeometryPoint{}, false
	}
}

func directionFromRaw(v any) ArcDirection {
	if s, _ := v.(string); s == "CCW" {
		return CounterClockwise
	}
	return Clockwise
}
