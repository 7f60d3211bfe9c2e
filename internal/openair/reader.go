package openair

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/airspacelab/airspace-viewer/pkg/logger"
)

// FileParser is the built-in OpenAir reader. It understands the record
// types that describe simple polygon and circle airspaces (AC, AN, AL,
// AH, DP, DC, DA, DB and the V X / V D variable assignments) and ignores
// unknown record codes. Variable assignments persist until reassigned,
// matching how OpenAir files are written.
type FileParser struct {
	logger *logger.Logger
}

// NewFileParser creates a new OpenAir file parser.
func NewFileParser(log *logger.Logger) *FileParser {
	return &FileParser{
		logger: log.Named("openair"),
	}
}

// pending accumulates one airspace block until the next AC record or EOF.
type pending struct {
	name     string
	class    string
	lower    map[string]any
	upper    map[string]any
	segments []any
	circle   map[string]any
}

// Parse reads an OpenAir file and returns its raw airspace records in
// file order. Malformed records fail the whole parse.
func (p *FileParser) Parse(path string) ([]RawAirspace, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open airspace file: %w", err)
	}
	defer file.Close()

	p.logger.Debug("Parsing OpenAir file", logger.String("path", path))

	var (
		records   []RawAirspace
		current   *pending
		center    *[2]float64 // set by V X=
		direction = "CW"      // set by V D=
		lineno    int
	)

	flush := func() {
		if current == nil {
			return
		}
		records = append(records, current.record())
		current = nil
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "*") {
			continue
		}

		code, rest := splitRecord(line)
		switch code {
		case "AC":
			flush()
			current = &pending{class: className(rest)}

		case "AN":
			if current == nil {
				current = &pending{}
			}
			current.name = rest

		case "AL":
			if current == nil {
				current = &pending{}
			}
			current.lower = parseAltitude(rest)

		case "AH":
			if current == nil {
				current = &pending{}
			}
			current.upper = parseAltitude(rest)

		case "DP":
			if current == nil {
				current = &pending{}
			}
			lat, lng, err := parseCoordinate(rest)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineno, err)
			}
			current.segments = append(current.segments, map[string]any{
				"type": "Point",
				"lat":  lat,
				"lng":  lng,
			})

		case "DC":
			if current == nil {
				current = &pending{}
			}
			if center == nil {
				return nil, fmt.Errorf("line %d: DC record before any V X= center", lineno)
			}
			radius, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: malformed circle radius %q", lineno, rest)
			}
			current.circle = map[string]any{
				"type":        "Circle",
				"centerpoint": []any{center[0], center[1]},
				"radius":      radius,
			}

		case "DA":
			if current == nil {
				current = &pending{}
			}
			if center == nil {
				return nil, fmt.Errorf("line %d: DA record before any V X= center", lineno)
			}
			seg, err := parseArcSegment(rest, *center, direction)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineno, err)
			}
			current.segments = append(current.segments, seg)

		case "DB":
			if current == nil {
				current = &pending{}
			}
			if center == nil {
				return nil, fmt.Errorf("line %d: DB record before any V X= center", lineno)
			}
			seg, err := parseArc(rest, *center, direction)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineno, err)
			}
			current.segments = append(current.segments, seg)

		case "V":
			name, value, ok := strings.Cut(rest, "=")
			if !ok {
				return nil, fmt.Errorf("line %d: malformed variable assignment %q", lineno, rest)
			}
			switch strings.TrimSpace(name) {
			case "X":
				lat, lng, err := parseCoordinate(value)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineno, err)
				}
				center = &[2]float64{lat, lng}
			case "D":
				if strings.TrimSpace(value) == "-" {
					direction = "CCW"
				} else {
					direction = "CW"
				}
			}
			// Other variables (width, zoom, ...) are not material here.

		default:
			// Unknown record codes (AT, AY, SP, SB, TO, TC, ...) are
			// label and style extensions; skip them.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read airspace file: %w", err)
	}
	flush()

	p.logger.Info("Parsed OpenAir file",
		logger.String("path", path),
		logger.Int("airspaces", len(records)),
	)

	return records, nil
}

// record assembles the raw mapping for one completed block.
func (b *pending) record() RawAirspace {
	record := RawAirspace{
		"name":  b.name,
		"class": b.class,
	}
	if b.lower != nil {
		record["lowerBound"] = b.lower
	}
	if b.upper != nil {
		record["upperBound"] = b.upper
	}
	if b.circle != nil {
		record["geom"] = b.circle
	} else {
		segments := b.segments
		if segments == nil {
			segments = []any{}
		}
		record["geom"] = map[string]any{
			"type":     "Polygon",
			"segments": segments,
		}
	}
	return record
}

// splitRecord splits a line into its record code and payload.
func splitRecord(line string) (code, rest string) {
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		return line[:i], strings.TrimSpace(line[i+1:])
	}
	return line, ""
}

// classNames expands short AC codes into the class vocabulary the color
// table uses. Unknown codes pass through unchanged; class is an open
// vocabulary end to end.
var classNames = map[string]string{
	"R":  "Restricted",
	"Q":  "Danger",
	"P":  "Prohibited",
	"GP": "GliderProhibited",
	"W":  "WaveWindow",
}

func className(code string) string {
	if name, ok := classNames[code]; ok {
		return name
	}
	return code
}

var (
	coordinateRe = regexp.MustCompile(`^([0-9][0-9.:]*)\s*([NSns])[\s,]*([0-9][0-9.:]*)\s*([EWew])$`)
	feetRe       = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)\s*(?:FT|F)?\s*([A-Z]*)$`)
	flightRe     = regexp.MustCompile(`^FL\s*([0-9]+(?:\.[0-9]+)?)$`)
)

// parseAltitude maps an OpenAir altitude string to a raw bound mapping.
// Strings it cannot classify keep their text under the Other type, so
// values like "ByNOTAM" still display.
func parseAltitude(s string) map[string]any {
	text := strings.TrimSpace(s)
	upper := strings.ToUpper(text)

	switch upper {
	case "GND", "SFC", "0":
		return map[string]any{"type": "Gnd"}
	case "UNLIM", "UNLIMITED", "UNL", "UNLTD":
		return map[string]any{"type": "Unlimited"}
	}

	if m := flightRe.FindStringSubmatch(upper); m != nil {
		level, _ := strconv.ParseFloat(m[1], 64)
		return map[string]any{"type": "FlightLevel", "val": level}
	}

	if m := feetRe.FindStringSubmatch(upper); m != nil {
		feet, _ := strconv.ParseFloat(m[1], 64)
		switch m[2] {
		case "", "MSL", "AMSL", "ALT":
			return map[string]any{"type": "FeetAmsl", "val": feet}
		case "AGL", "GND", "SFC", "ASFC":
			return map[string]any{"type": "FeetAgl", "val": feet}
		}
	}

	return map[string]any{"type": "Other", "val": text}
}

// parseCoordinate parses an OpenAir coordinate like "46:57:47 N 008:16:20 E"
// (also decimal-minute and decimal-degree variants) into decimal degrees.
func parseCoordinate(s string) (lat, lng float64, err error) {
	m := coordinateRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, fmt.Errorf("malformed coordinate %q", s)
	}

	lat, err = parseDMS(m[1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed latitude in %q: %w", s, err)
	}
	lng, err = parseDMS(m[3])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed longitude in %q: %w", s, err)
	}

	if strings.EqualFold(m[2], "S") {
		lat = -lat
	}
	if strings.EqualFold(m[4], "W") {
		lng = -lng
	}
	return lat, lng, nil
}

// parseDMS parses "46:57:47", "46:57.783" or "46.963" into decimal degrees.
func parseDMS(s string) (float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("too many components in %q", s)
	}

	total := 0.0
	divisor := 1.0
	for _, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0, fmt.Errorf("bad component %q", part)
		}
		total += v / divisor
		divisor *= 60
	}
	return total, nil
}

// parseArcSegment parses a DA payload: "radius,angleStart,angleEnd" with
// the radius in nautical miles and angles in degrees.
func parseArcSegment(s string, center [2]float64, direction string) (map[string]any, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("malformed DA record %q", s)
	}

	values := make([]float64, 3)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("malformed DA record %q", s)
		}
		values[i] = v
	}

	return map[string]any{
		"type":        "ArcSegment",
		"center":      []any{center[0], center[1]},
		"radius":      values[0],
		"start_angle": values[1],
		"end_angle":   values[2],
		"direction":   direction,
	}, nil
}

// parseArc parses a DB payload: "coordinate1,coordinate2".
func parseArc(s string, center [2]float64, direction string) (map[string]any, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("malformed DB record %q", s)
	}

	startLat, startLng, err := parseCoordinate(parts[0])
	if err != nil {
		return nil, err
	}
	endLat, endLng, err := parseCoordinate(parts[1])
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"type":      "Arc",
		"center":    []any{center[0], center[1]},
		"start":     []any{startLat, startLng},
		"end":       []any{endLat, endLng},
		"direction": direction,
	}, nil
}
