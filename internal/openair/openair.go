// Package openair reads OpenAir airspace definition files into raw
// untyped records.
//
// A raw record is a mapping with "name", "class", "lowerBound",
// "upperBound" and "geom" keys. Altitude bounds are mappings with a
// "type" string (Gnd, FeetAmsl, FeetAgl, FlightLevel, Unlimited, Other)
// and an optional "val". Geometry is either
//
//	{"type": "Polygon", "segments": [{"type": "Point", "lat": ..., "lng": ...}, ...]}
//
// with Arc/ArcSegment entries for the arc records, or
//
//	{"type": "Circle", "centerpoint": [lat, lng], "radius": nauticalMiles}
//
// Downstream code normalizes these records into the typed airspace model;
// parsers stay deliberately untyped so alternative OpenAir readers can be
// dropped in behind the Parser interface.
package openair

// RawAirspace is one untyped airspace record as produced by a Parser.
type RawAirspace = map[string]any

// Parser turns an OpenAir file into raw airspace records. Implementations
// fail on malformed files; they never return partial results.
type Parser interface {
	Parse(path string) ([]RawAirspace, error)
}
