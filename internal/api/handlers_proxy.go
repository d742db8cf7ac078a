package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/amani-care/report-backend/internal/places"
	"github.com/amani-care/report-backend/internal/report"
)

// PlacesClient is the POI lookup collaborator.
type PlacesClient interface {
	Nearest(ctx context.Context, lat, lng float64, radius int) ([]places.Place, error)
}

// InstructionsGenerator is the generative-text collaborator.
type InstructionsGenerator interface {
	ForCategory(ctx context.Context, category string) (string, error)
}

const defaultSearchRadius = 5000 // meters

func nearestServicesHandler(client PlacesClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
		lng, lngErr := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
		if latErr != nil || lngErr != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "lat and lng query parameters are required")
			return
		}

		radius := defaultSearchRadius
		if raw := r.URL.Query().Get("radius"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				writeError(w, http.StatusBadRequest, "validation_error", "radius must be a positive integer")
				return
			}
			radius = n
		}

		result, err := client.Nearest(r.Context(), lat, lng, radius)
		if err != nil {
			handleUpstreamError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func instructionsHandler(gen InstructionsGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req InstructionsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if !report.ValidCategory(req.Category) {
			writeError(w, http.StatusBadRequest, "validation_error", "unknown incident category")
			return
		}

		text, err := gen.ForCategory(r.Context(), req.Category)
		if err != nil {
			handleUpstreamError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, InstructionsResponse{
			Category:     req.Category,
			Instructions: text,
		})
	}
}

func handleUpstreamError(w http.ResponseWriter, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		writeError(w, http.StatusGatewayTimeout, "upstream_timeout", "upstream service did not respond in time")
		return
	}
	writeError(w, http.StatusBadGateway, "upstream_error", err.Error())
}
