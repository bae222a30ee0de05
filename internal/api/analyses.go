package api

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/connectoscope/connectoscope/internal/ingestion"
	"github.com/connectoscope/connectoscope/pkg/matrix"
	"github.com/connectoscope/connectoscope/pkg/params"
)

// analysisRequest is the JSON body for POST /api/v1/analyses.
type analysisRequest struct {
	Subject  string `json:"subject"`
	Atlas    string `json:"atlas"`
	Source   string `json:"source"`
	Matrix   string `json:"matrix"`   // headerless numeric CSV text
	Measures string `json:"measures"` // measures parameter file text
}

type analysisResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}

func (h *Handler) handleCreateAnalysis(w http.ResponseWriter, r *http.Request) {
	// Support gzip-compressed request bodies; large connectomes add up.
	var body io.Reader = r.Body
	if r.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid gzip body: "+err.Error())
			return
		}
		defer gz.Close()
		body = gz
	}

	var req analysisRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Matrix) == "" {
		writeError(w, http.StatusBadRequest, "matrix is required")
		return
	}
	if strings.TrimSpace(req.Measures) == "" {
		writeError(w, http.StatusBadRequest, "measures is required")
		return
	}

	runID, err := h.svc.Process(r.Context(), ingestion.AnalysisRequest{
		Subject:  req.Subject,
		Atlas:    req.Atlas,
		Source:   req.Source,
		Matrix:   []byte(req.Matrix),
		Measures: req.Measures,
	})
	if err != nil {
		status := http.StatusInternalServerError
		// Input problems surface from validation and parsing, not the pipeline.
		if isInputError(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, analysisResponse{RunID: runID, Status: ingestion.StatusCompleted})
}

// isInputError reports whether err stems from the request payload rather
// than the pipeline, matching the exported parse and validation sentinels.
func isInputError(err error) bool {
	return errors.Is(err, params.ErrMalformedLine) ||
		errors.Is(err, params.ErrMalformedRange) ||
		errors.Is(err, matrix.ErrMalformedTable) ||
		errors.Is(err, matrix.ErrNotSquare) ||
		errors.Is(err, matrix.ErrNonFinite) ||
		errors.Is(err, matrix.ErrNegativeWeight)
}

func (h *Handler) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	runs, err := h.svc.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []ingestion.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (h *Handler) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("runID")

	run, err := h.svc.GetRun(r.Context(), runID)
	if err != nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (h *Handler) handleGetBundle(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("runID")

	bundle, err := h.svc.GetBundle(r.Context(), runID)
	if err != nil {
		writeError(w, http.StatusNotFound, "bundle not found")
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

func (h *Handler) handleGetMatrix(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("runID")

	data, err := h.svc.GetMatrix(r.Context(), runID)
	if err != nil {
		writeError(w, http.StatusNotFound, "matrix not found")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
