package airspace

// DefaultColor is used for classes without an entry in the color table.
const DefaultColor = "#999999" // Grey

// classColors maps airspace classes to display colors. The same table
// drives the map legend, the GeoJSON feature colors and the KML styles.
var classColors = map[string]string{
	"A":                "#2196f3", // Blue
	"B":                "#00bcd4", // Cyan
	"C":                "#3f51b5", // Indigo
	"D":                "#9c27b0", // Purple
	"E":                "#e91e63", // Pink
	"CTR":              "#f44336", // Red
	"Restricted":       "#ffc107", // Amber
	"Danger":           "#4caf50", // Green
	"Prohibited":       "#ff5722", // Deep Orange
	"GliderProhibited": "#ff5722", // Deep Orange
	"WaveWindow":       "#607d8b", // Blue Grey
}

// ColorForClass returns the display color for an airspace class, falling
// back to DefaultColor for unknown classes.
func ColorForClass(class string) string {
	if color, ok := classColors[class]; ok {
		return color
	}
	return DefaultColor
}

// LegendEntry is one row of the class color legend.
type LegendEntry struct {
	Class string `json:"class"`
	Color string `json:"color"`
	Name  string `json:"name"`
}

// Legend returns the color legend rows in a stable order.
func Legend() []LegendEntry {
	classes := []string{
		"A", "B", "C", "D", "E",
		"CTR", "Restricted", "Danger", "Prohibited", "GliderProhibited", "WaveWindow",
	}
	entries := make([]LegendEntry, 0, len(classes))
	for _, class := range classes {
		entries = append(entries, LegendEntry{
			Class: class,
			Color: classColors[class],
			Name:  "Class " + class,
		})
	}
	return entries
}
