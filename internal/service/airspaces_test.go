package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airspacelab/airspace-viewer/internal/openair"
	"github.com/airspacelab/airspace-viewer/internal/render"
	"github.com/airspacelab/airspace-viewer/pkg/logger"
)

// fakeParser serves canned records per path and records every call.
type fakeParser struct {
	records map[string][]openair.RawAirspace
	errs    map[string]error
	calls   []string
}

func (p *fakeParser) Parse(path string) ([]openair.RawAirspace, error) {
	p.calls = append(p.calls, path)
	if err := p.errs[path]; err != nil {
		return nil, err
	}
	records, ok := p.records[path]
	if !ok {
		return nil, fmt.Errorf("no records for %s", path)
	}
	return records, nil
}

func rawPolygon(name, class string) openair.RawAirspace {
	return openair.RawAirspace{
		"name":       name,
		"class":      class,
		"lowerBound": map[string]any{"type": "Gnd"},
		"upperBound": map[string]any{"type": "FeetAmsl", "val": 3000.0},
		"geom": map[string]any{
			"type": "Polygon",
			"segments": []any{
				map[string]any{"type": "Point", "lat": 46.0, "lng": 8.0},
				map[string]any{"type": "Point", "lat": 46.1, "lng": 8.0},
				map[string]any{"type": "Point", "lat": 46.1, "lng": 8.1},
			},
		},
	}
}

func newTestService(t *testing.T) (*Airspaces, *fakeParser, string) {
	t.Helper()

	defaultPath := filepath.Join(t.TempDir(), "default.txt")
	require.NoError(t, os.WriteFile(defaultPath, []byte("* airspace data"), 0o644))

	parser := &fakeParser{
		records: map[string][]openair.RawAirspace{
			defaultPath: {rawPolygon("ALPHA TMA", "D"), rawPolygon("BRAVO CTR", "CTR")},
		},
		errs: map[string]error{},
	}

	log := logger.NewNop()
	svc := New(parser, render.NewGeoJSON(log), render.NewKML(log), defaultPath, log)
	return svc, parser, defaultPath
}

func TestLoadDefault(t *testing.T) {
	svc, parser, defaultPath := newTestService(t)

	airspaces, fc := svc.Load("")

	require.Len(t, airspaces, 2)
	assert.Equal(t, "ALPHA TMA", airspaces[0].Name)
	assert.Len(t, fc.Features, 2)
	assert.Equal(t, []string{defaultPath}, parser.calls)
	assert.Equal(t, "default.txt", svc.CurrentFile())
}

func TestLoadMemoized(t *testing.T) {
	svc, parser, defaultPath := newTestService(t)

	_, fc1 := svc.Load(defaultPath)
	_, fc2 := svc.Load(defaultPath)
	_, fc3 := svc.Load("")

	// The same path is served from the slot without reparsing.
	assert.Same(t, fc1, fc2)
	assert.Same(t, fc1, fc3)
	assert.Len(t, parser.calls, 1)
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	svc, parser, defaultPath := newTestService(t)

	airspaces, _ := svc.Load(filepath.Join(t.TempDir(), "ghost.txt"))

	require.Len(t, airspaces, 2)
	assert.Equal(t, []string{defaultPath}, parser.calls)
	assert.Equal(t, "default.txt", svc.CurrentFile())
}

func TestLoadFailureCachesEmpty(t *testing.T) {
	svc, parser, defaultPath := newTestService(t)
	parser.errs[defaultPath] = errors.New("line 3: invalid coordinate")

	airspaces, fc := svc.Load("")

	assert.Empty(t, airspaces)
	require.NotNil(t, fc)
	assert.Empty(t, fc.Features)

	// The failure is cached as a loaded-but-empty slot, not as absence.
	stats := svc.Stats()
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, "default.txt", svc.CurrentFile())

	// A later load retries the file instead of reusing the empty slot.
	svc.Load("")
	assert.Len(t, parser.calls, 2)
}

func TestLoadUploadReplaces(t *testing.T) {
	svc, parser, _ := newTestService(t)
	_, original := svc.Load("")

	uploadPath := filepath.Join(t.TempDir(), "upload-1b2c3d.txt")
	parser.records[uploadPath] = []openair.RawAirspace{rawPolygon("CUSTOM AREA", "A")}

	require.NoError(t, svc.LoadUpload(uploadPath, "custom.txt"))

	airspaces, fc := svc.Cached()
	require.Len(t, airspaces, 1)
	assert.Equal(t, "CUSTOM AREA", airspaces[0].Name)
	assert.NotSame(t, original, fc)
	assert.Equal(t, "custom.txt", svc.CurrentFile())
}

func TestLoadUploadFailureKeepsCache(t *testing.T) {
	svc, parser, _ := newTestService(t)
	_, original := svc.Load("")

	uploadPath := filepath.Join(t.TempDir(), "upload-broken.txt")
	parser.errs[uploadPath] = errors.New("line 1: unknown record")

	err := svc.LoadUpload(uploadPath, "broken.txt")
	require.Error(t, err)

	// Unlike Load, a failed upload must not disturb the current data.
	_, fc := svc.Cached()
	assert.Same(t, original, fc)
	assert.Equal(t, "default.txt", svc.CurrentFile())
	assert.Equal(t, 2, svc.Stats().Total)
}

func TestReset(t *testing.T) {
	svc, parser, _ := newTestService(t)
	svc.Load("")

	svc.Reset()

	// Reset empties the slot without touching the parser.
	assert.Equal(t, 0, svc.Stats().Total)
	assert.Equal(t, "default.txt", svc.CurrentFile())
	assert.Len(t, parser.calls, 1)

	// The next read lazily reloads the default file.
	airspaces, _ := svc.Cached()
	assert.Len(t, airspaces, 2)
	assert.Len(t, parser.calls, 2)
}

func TestStatsNeverLoads(t *testing.T) {
	svc, parser, _ := newTestService(t)

	stats := svc.Stats()

	assert.Equal(t, 0, stats.Total)
	assert.Empty(t, stats.ByClass)
	assert.Empty(t, parser.calls)
}

func TestStatsByClass(t *testing.T) {
	svc, parser, defaultPath := newTestService(t)
	parser.records[defaultPath] = []openair.RawAirspace{
		rawPolygon("ONE", "A"),
		rawPolygon("TWO", "A"),
		rawPolygon("THREE", "CTR"),
	}

	svc.Load("")
	stats := svc.Stats()

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, map[string]int{"A": 2, "CTR": 1}, stats.ByClass)
}

func TestCachedLazyLoads(t *testing.T) {
	svc, parser, defaultPath := newTestService(t)

	airspaces, fc := svc.Cached()

	assert.Len(t, airspaces, 2)
	assert.Len(t, fc.Features, 2)
	assert.Equal(t, []string{defaultPath}, parser.calls)
}

func TestExportKML(t *testing.T) {
	svc, _, _ := newTestService(t)

	doc, err := svc.ExportKML()

	require.NoError(t, err)
	assert.Contains(t, doc, "<kml")
	assert.Contains(t, doc, "<Placemark>")
	assert.Contains(t, doc, "<name>ALPHA TMA</name>")
}

func TestExportKMLNothingLoaded(t *testing.T) {
	svc, parser, defaultPath := newTestService(t)
	parser.errs[defaultPath] = errors.New("line 9: invalid altitude")

	_, err := svc.ExportKML()

	assert.ErrorIs(t, err, ErrNothingToExport)
}
