package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/airspacelab/airspace-viewer/internal/airspace"
	"github.com/airspacelab/airspace-viewer/internal/config"
	"github.com/airspacelab/airspace-viewer/internal/service"
	"github.com/airspacelab/airspace-viewer/pkg/logger"
)

// Handler contains the API route handlers
type Handler struct {
	airspaces *service.Airspaces
	config    *config.Config
	logger    *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(airspaces *service.Airspaces, config *config.Config, logger *logger.Logger) *Handler {
	return &Handler{
		airspaces: airspaces,
		config:    config,
		logger:    logger.Named("api-handler"),
	}
}

// GetAirspaces returns the loaded airspaces as a GeoJSON
// FeatureCollection, loading the default file on first access.
func (h *Handler) GetAirspaces(w http.ResponseWriter, r *http.Request) {
	_, fc := h.airspaces.Cached()
	h.writeGeoJSON(w, fc)
}

// GetStats returns airspace counts by class for whatever is currently
// cached. It never triggers a load.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.airspaces.Stats())
}

// GetCurrentFile returns the name of the loaded file and how many
// airspaces it holds.
func (h *Handler) GetCurrentFile(w http.ResponseWriter, r *http.Request) {
	airspaces, _ := h.airspaces.Cached()
	h.writeJSON(w, http.StatusOK, map[string]any{
		"current_file":   h.airspaces.CurrentFile(),
		"airspace_count": len(airspaces),
	})
}

// GetLegend returns the class color legend.
func (h *Handler) GetLegend(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, airspace.Legend())
}

// ExportKML returns the loaded airspaces as a downloadable KML document.
func (h *Handler) ExportKML(w http.ResponseWriter, r *http.Request) {
	doc, err := h.airspaces.ExportKML()
	if err != nil {
		if errors.Is(err, service.ErrNothingToExport) {
			h.writeJSONError(w, http.StatusNotFound, "No airspaces to export")
			return
		}
		h.logger.Error("Failed to export KML", logger.Error(err))
		h.writeJSONError(w, http.StatusInternalServerError, "Failed to export KML")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.google-earth.kml+xml")
	w.Header().Set("Content-Disposition", "attachment; filename=airspaces.kml")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, doc); err != nil {
		h.logger.Error("Failed to write KML response", logger.Error(err))
	}
}

// UploadAirspaceFile replaces the loaded data with an uploaded OpenAir
// file. The upload is staged to a temporary file that is removed again
// on every path out of this handler.
func (h *Handler) UploadAirspaceFile(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.config.Airspace.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		h.writeJSONError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Upload exceeds the %d MB limit", h.config.Airspace.MaxUploadSizeMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeJSONError(w, http.StatusBadRequest, "No file selected")
		return
	}
	defer file.Close()

	if !h.config.Airspace.AllowedFile(header.Filename) {
		h.writeJSONError(w, http.StatusBadRequest,
			"Invalid file type. Please upload .txt, .air, or .openair files.")
		return
	}

	tmpPath, err := h.stageUpload(file, header.Filename)
	if err != nil {
		h.logger.Error("Failed to stage uploaded file", logger.Error(err))
		h.writeJSONError(w, http.StatusInternalServerError, "Failed to store uploaded file")
		return
	}
	defer func() {
		if err := os.Remove(tmpPath); err != nil {
			h.logger.Warn("Failed to remove staged upload",
				logger.String("path", tmpPath),
				logger.Error(err))
		}
	}()

	if err := h.airspaces.LoadUpload(tmpPath, header.Filename); err != nil {
		h.writeJSONError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("Error parsing file: %v", err))
		return
	}

	airspaces, _ := h.airspaces.Cached()
	h.writeJSON(w, http.StatusOK, map[string]any{
		"message":        fmt.Sprintf("Successfully loaded %d airspaces from %s", len(airspaces), header.Filename),
		"current_file":   header.Filename,
		"airspace_count": len(airspaces),
	})
}

// ResetAirspaces drops the uploaded data and returns to the default
// file, which is reloaded lazily on the next read.
func (h *Handler) ResetAirspaces(w http.ResponseWriter, r *http.Request) {
	h.airspaces.Reset()
	h.writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Reset to default airspace data",
		"current_file": h.airspaces.CurrentFile(),
	})
}

// GetHealth returns the health status of the API
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Airspace Viewer is running",
	})
}

// stageUpload copies an upload into the configured directory under a
// unique name and returns its path.
func (h *Handler) stageUpload(file multipart.File, filename string) (string, error) {
	dir := h.config.Airspace.UploadDir
	if dir == "" {
		dir = os.TempDir()
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	path := filepath.Join(dir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	return path, nil
}
