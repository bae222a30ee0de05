// Package api implements the hosted Connectoscope REST API.
// It provides analysis submission and read endpoints backed by Postgres
// and blob storage.
package api

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/connectoscope/connectoscope/internal/ingestion"
)

// Handler is the top-level API handler for the hosted Connectoscope service.
type Handler struct {
	db  *sql.DB
	svc *ingestion.Service
}

// NewHandler creates a new API handler.
func NewHandler(db *sql.DB, svc *ingestion.Service) *Handler {
	return &Handler{
		db:  db,
		svc: svc,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Write endpoints (auth-protected)
	mux.HandleFunc("POST /api/v1/analyses", h.handleCreateAnalysis)

	// Read endpoints
	mux.HandleFunc("GET /api/v1/analyses", h.handleListAnalyses)
	mux.HandleFunc("GET /api/v1/analyses/{runID}", h.handleGetAnalysis)
	mux.HandleFunc("GET /api/v1/analyses/{runID}/bundle", h.handleGetBundle)
	mux.HandleFunc("GET /api/v1/analyses/{runID}/matrix", h.handleGetMatrix)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
