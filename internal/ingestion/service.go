package ingestion

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/connectoscope/connectoscope/pkg/matrix"
	"github.com/connectoscope/connectoscope/pkg/metrics"
	"github.com/connectoscope/connectoscope/pkg/params"
)

// RunStatus represents the lifecycle of an analysis run.
const (
	StatusQueued    = "QUEUED"
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// AnalysisRequest describes one connectome to analyze.
type AnalysisRequest struct {
	Subject  string
	Atlas    string
	Source   string // origin of the matrix, e.g. an upload name or path
	Matrix   []byte // headerless numeric CSV
	Measures string // measures parameter file text
}

// Run is one catalog row of the analysis run table.
type Run struct {
	ID        string  `json:"id"`
	Subject   string  `json:"subject"`
	Atlas     string  `json:"atlas"`
	Source    string  `json:"source"`
	Status    string  `json:"status"`
	Error     *string `json:"error,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// Service orchestrates the analysis pipeline: it validates the input,
// runs the metric engine, and records run state in the catalog while
// bundles and source matrices go to blob storage.
type Service struct {
	db      *sql.DB
	storage StorageClient
}

// NewService creates a new analysis Service.
func NewService(db *sql.DB, storage StorageClient) *Service {
	return &Service{
		db:      db,
		storage: storage,
	}
}

// CreateRun inserts a new queued run and returns its ID.
func (s *Service) CreateRun(ctx context.Context, req AnalysisRequest) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, subject, atlas, source, status)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, req.Subject, req.Atlas, req.Source, StatusQueued,
	)
	if err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}
	return id, nil
}

// UpdateRunStatus updates the status and optional error message.
func (s *Service) UpdateRunStatus(ctx context.Context, id, status string, errMsg *string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = $1, error_message = $2, updated_at = now() WHERE id = $3`,
		status, errMsg, id,
	)
	if err != nil {
		return fmt.Errorf("update run status: %w", err)
	}
	return nil
}

// GetRun loads one catalog row.
func (s *Service) GetRun(ctx context.Context, id string) (*Run, error) {
	var r Run
	err := s.db.QueryRowContext(ctx,
		`SELECT id, subject, atlas, source, status, error_message, created_at, updated_at
		 FROM runs WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.Subject, &r.Atlas, &r.Source, &r.Status, &r.Error, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return &r, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Service) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, subject, atlas, source, status, error_message, created_at, updated_at
		 FROM runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Subject, &r.Atlas, &r.Source, &r.Status,
			&r.Error, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetBundle retrieves the stored bundle for a completed run.
func (s *Service) GetBundle(ctx context.Context, id string) (*metrics.Bundle, error) {
	data, err := s.storage.GetBundle(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load bundle %s: %w", id, err)
	}
	var b metrics.Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("unmarshal bundle %s: %w", id, err)
	}
	return &b, nil
}

// GetMatrix retrieves the source matrix CSV stored for a run.
func (s *Service) GetMatrix(ctx context.Context, id string) ([]byte, error) {
	data, err := s.storage.GetMatrix(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load matrix %s: %w", id, err)
	}
	return data, nil
}

// Process runs the full analysis pipeline for one connectome.
// A failure in any step marks the run FAILED and is returned; the caller
// decides whether the batch continues.
func (s *Service) Process(ctx context.Context, req AnalysisRequest) (runID string, err error) {
	runID, err = s.CreateRun(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}

	if err = s.UpdateRunStatus(ctx, runID, StatusRunning, nil); err != nil {
		return runID, fmt.Errorf("update status to running: %w", err)
	}

	// On failure, mark the run as failed
	defer func() {
		if err != nil {
			errMsg := err.Error()
			if updateErr := s.UpdateRunStatus(ctx, runID, StatusFailed, &errMsg); updateErr != nil {
				log.Printf("failed to update run status: %v", updateErr)
			}
		}
	}()

	bundle, err := Analyze(req)
	if err != nil {
		return runID, err
	}
	bundle.ID = runID

	data, err := json.Marshal(bundle)
	if err != nil {
		return runID, fmt.Errorf("marshal bundle: %w", err)
	}
	if err = s.storage.PutBundle(ctx, runID, data); err != nil {
		return runID, fmt.Errorf("store bundle: %w", err)
	}
	if err = s.storage.PutMatrix(ctx, runID, req.Matrix); err != nil {
		return runID, fmt.Errorf("store matrix: %w", err)
	}

	if err = s.UpdateRunStatus(ctx, runID, StatusCompleted, nil); err != nil {
		return runID, fmt.Errorf("finalize run: %w", err)
	}

	log.Printf("run %s completed: subject=%s atlas=%s nodes=%d failed_metrics=%d",
		runID, req.Subject, req.Atlas, bundle.Nodes, len(bundle.Failed))
	return runID, nil
}

// Analyze validates the request's matrix, resolves its measures, and
// computes the standard suite. It is the storage-free core of Process,
// shared with the CLI.
func Analyze(req AnalysisRequest) (*metrics.Bundle, error) {
	ps, err := params.Parse(strings.NewReader(req.Measures))
	if err != nil {
		return nil, fmt.Errorf("parse measures: %w", err)
	}

	rows, err := matrix.ReadCSV(bytes.NewReader(req.Matrix))
	if err != nil {
		return nil, fmt.Errorf("read matrix: %w", err)
	}
	m, _, err := matrix.Validate(rows)
	if err != nil {
		return nil, fmt.Errorf("validate matrix: %w", err)
	}

	engine := metrics.NewEngine(metrics.StandardMetrics()...)
	bundle, err := engine.Run(metrics.NewWorkspace(m), ps)
	if err != nil {
		return nil, fmt.Errorf("run metrics: %w", err)
	}

	bundle.Subject = req.Subject
	bundle.Atlas = req.Atlas
	bundle.Source = req.Source
	return bundle, nil
}
