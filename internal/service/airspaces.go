// Package service owns the loaded airspace data: a single cache slot
// holding the most recently parsed file alongside its projections.
package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/paulmach/orb/geojson"

	"github.com/airspacelab/airspace-viewer/internal/airspace"
	"github.com/airspacelab/airspace-viewer/internal/openair"
	"github.com/airspacelab/airspace-viewer/internal/render"
	"github.com/airspacelab/airspace-viewer/pkg/logger"
)

// ErrNothingToExport is returned by ExportKML when no airspaces are
// loaded and the default file yields none either.
var ErrNothingToExport = errors.New("no airspaces loaded to export")

// Stats summarizes the currently cached airspaces.
type Stats struct {
	Total   int            `json:"total_airspaces"`
	ByClass map[string]int `json:"classes"`
}

// Airspaces serves parsed airspace data out of a single cache slot. One
// file is loaded at a time; loading another file replaces the slot as a
// whole.
type Airspaces struct {
	parser      openair.Parser
	geo         *render.GeoJSON
	kml         *render.KML
	defaultPath string
	logger      *logger.Logger

	mu   sync.RWMutex
	slot *slot
}

// slot is one loaded file. Slots are replaced, never mutated in place,
// so readers can hold the contents without a lock.
type slot struct {
	path      string
	display   string
	airspaces []airspace.Airspace
	geojson   *geojson.FeatureCollection
}

// New creates the airspace service around a parser and the two
// projectors. defaultPath is the file loaded when nothing else is.
func New(parser openair.Parser, geo *render.GeoJSON, kml *render.KML, defaultPath string, logger *logger.Logger) *Airspaces {
	return &Airspaces{
		parser:      parser,
		geo:         geo,
		kml:         kml,
		defaultPath: defaultPath,
		logger:      logger.Named("airspace-svc"),
	}
}

// Load parses the file at path, projects it to GeoJSON and replaces the
// cache slot. An empty path means the default file. A path that is
// already loaded is served from the cache without reparsing; a missing
// non-default path falls back to the default file. Load never fails:
// when parsing does, the slot holds an empty, well-formed collection
// and the problem is logged.
func (s *Airspaces) Load(path string) ([]airspace.Airspace, *geojson.FeatureCollection) {
	if path == "" {
		path = s.defaultPath
	}

	if cached, ok := s.cachedFor(path); ok {
		return cached.airspaces, cached.geojson
	}

	if _, err := os.Stat(path); err != nil && path != s.defaultPath {
		s.logger.Warn("Airspace file does not exist, using default",
			logger.String("path", path),
			logger.String("default", s.defaultPath))
		path = s.defaultPath
		if cached, ok := s.cachedFor(path); ok {
			return cached.airspaces, cached.geojson
		}
	}

	loaded, err := s.parseFile(path, filepath.Base(path))
	if err != nil {
		s.logger.Error("Failed to load airspace file",
			logger.String("path", path),
			logger.Error(err))
		loaded = &slot{
			airspaces: []airspace.Airspace{},
			geojson:   geojson.NewFeatureCollection(),
		}
	}

	s.replace(loaded)
	return loaded.airspaces, loaded.geojson
}

// LoadUpload parses an uploaded file and replaces the cache slot on
// success. On failure the previous slot is left untouched and the error
// is returned to the caller. displayName is the name the upload was
// submitted under, not the temporary path.
func (s *Airspaces) LoadUpload(path, displayName string) error {
	loaded, err := s.parseFile(path, displayName)
	if err != nil {
		s.logger.Error("Failed to load uploaded file",
			logger.String("file", displayName),
			logger.Error(err))
		return err
	}

	s.replace(loaded)
	return nil
}

// Reset clears the cache slot; the next read loads the default file.
func (s *Airspaces) Reset() {
	s.mu.Lock()
	s.slot = nil
	s.mu.Unlock()

	s.logger.Info("Reset to default airspace data")
}

// Cached returns the current airspaces and their GeoJSON projection,
// loading the default file first when nothing is cached.
func (s *Airspaces) Cached() ([]airspace.Airspace, *geojson.FeatureCollection) {
	s.mu.RLock()
	current := s.slot
	s.mu.RUnlock()

	if current != nil {
		return current.airspaces, current.geojson
	}
	return s.Load(s.defaultPath)
}

// ExportKML renders the cached airspaces as a KML document, loading the
// default file first when nothing is cached.
func (s *Airspaces) ExportKML() (string, error) {
	airspaces, _ := s.Cached()
	if len(airspaces) == 0 {
		return "", ErrNothingToExport
	}

	doc, skips, err := s.kml.Project(airspaces)
	if err != nil {
		return "", fmt.Errorf("failed to render KML: %w", err)
	}
	if len(skips) > 0 {
		s.logger.Warn("Airspaces skipped during KML export",
			logger.Int("skipped", len(skips)))
	}
	return doc, nil
}

// Stats counts the cached airspaces by class. It reports on the cache
// as it stands and never triggers a load.
func (s *Airspaces) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{ByClass: map[string]int{}}
	if s.slot == nil {
		return stats
	}

	stats.Total = len(s.slot.airspaces)
	for _, a := range s.slot.airspaces {
		stats.ByClass[a.Class]++
	}
	return stats
}

// CurrentFile returns the display name of the loaded file, or the
// default file's name when nothing is loaded.
func (s *Airspaces) CurrentFile() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.slot != nil && s.slot.display != "" {
		return s.slot.display
	}
	return filepath.Base(s.defaultPath)
}

// parseFile runs the pipeline for one file: raw records, typed
// conversion, GeoJSON projection.
func (s *Airspaces) parseFile(path, display string) (*slot, error) {
	records, err := s.parser.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse airspace file: %w", err)
	}

	airspaces := airspace.FromRawAll(records)
	fc, skips := s.geo.Project(airspaces)

	s.logger.Info("Loaded airspace file",
		logger.String("file", display),
		logger.Int("airspaces", len(airspaces)),
		logger.Int("features", len(fc.Features)),
		logger.Int("skipped", len(skips)))

	return &slot{
		path:      path,
		display:   display,
		airspaces: airspaces,
		geojson:   fc,
	}, nil
}

func (s *Airspaces) cachedFor(path string) (*slot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.slot != nil && s.slot.path == path {
		return s.slot, true
	}
	return nil, false
}

func (s *Airspaces) replace(loaded *slot) {
	s.mu.Lock()
	s.slot = loaded
	s.mu.Unlock()
}
