package api

import (
	"encoding/json"
	"net/http"

	"github.com/paulmach/orb/geojson"

	"github.com/airspacelab/airspace-viewer/pkg/logger"
)

// writeJSON writes data as a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", logger.Error(err))
	}
}

// writeJSONError writes an error message as a JSON response.
func (h *Handler) writeJSONError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeGeoJSON writes a FeatureCollection with the GeoJSON media type.
func (h *Handler) writeGeoJSON(w http.ResponseWriter, fc *geojson.FeatureCollection) {
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(fc); err != nil {
		h.logger.Error("Failed to encode GeoJSON response", logger.Error(err))
	}
}
