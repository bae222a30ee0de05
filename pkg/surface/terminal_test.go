package surface_test

import (
	"bytes"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/connectoscope/connectoscope/pkg/metrics"
	"github.com/connectoscope/connectoscope/pkg/surface"
)

func sampleBundle() *metrics.Bundle {
	return &metrics.Bundle{
		Subject:    "sub-01",
		Atlas:      "desikan",
		Nodes:      4,
		ComputedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Results: map[string]metrics.Value{
			"density":         metrics.Scalar(2.0 / 3),
			"CPL":             metrics.Scalar(4.0 / 3),
			"degree":          metrics.Vector([]float64{2, 2, 2, 2}),
			"distance_matrix": metrics.MatrixValue([][]float64{{0, 1}, {1, 0}}),
		},
		Failed: map[string]string{
			"transitivity": "insufficient graph size: transitivity requires at least one connected triplet",
		},
	}
}

func TestTerminalRenderer_BasicOutput(t *testing.T) {
	// Set NO_COLOR to avoid ANSI codes in test comparison
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	r := &surface.TerminalRenderer{}
	var buf bytes.Buffer

	if err := r.Render(&buf, sampleBundle()); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	output := buf.String()

	// Check header
	if !strings.Contains(output, "4 nodes") {
		t.Error("expected node count in header")
	}
	if !strings.Contains(output, "subject sub-01") {
		t.Error("expected subject in header")
	}
	if !strings.Contains(output, "atlas desikan") {
		t.Error("expected atlas in header")
	}

	// Scalars print directly, vectors are summarized
	if !strings.Contains(output, "CPL") {
		t.Error("expected CPL measure")
	}
	if !strings.Contains(output, "vector[4], mean 2") {
		t.Error("expected degree vector summary")
	}

	// Failed metrics are listed
	if !strings.Contains(output, "Failed:") {
		t.Error("expected Failed section")
	}
	if !strings.Contains(output, "transitivity") {
		t.Error("expected failed metric key")
	}
}

func TestTerminalRenderer_EmptyBundle(t *testing.T) {
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	r := &surface.TerminalRenderer{}
	var buf bytes.Buffer

	bundle := &metrics.Bundle{Nodes: 4, Results: map[string]metrics.Value{}}
	if err := r.Render(&buf, bundle); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if !strings.Contains(buf.String(), "No measures computed") {
		t.Error("expected 'No measures computed' message")
	}
}

func TestTerminalRenderer_InfiniteEntriesExcludedFromSummary(t *testing.T) {
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	r := &surface.TerminalRenderer{}
	var buf bytes.Buffer

	bundle := &metrics.Bundle{
		Nodes: 2,
		Results: map[string]metrics.Value{
			"distance_matrix": metrics.MatrixValue([][]float64{
				{0, math.Inf(1)},
				{math.Inf(1), 0},
			}),
		},
	}
	if err := r.Render(&buf, bundle); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if strings.Contains(buf.String(), "+Inf") {
		t.Error("unreachable sentinels must not leak into the summary")
	}
}

func TestTerminalRenderer_ColorRespected(t *testing.T) {
	// Without NO_COLOR, output should have ANSI codes
	os.Unsetenv("NO_COLOR")

	r := &surface.TerminalRenderer{}
	var buf bytes.Buffer

	if err := r.Render(&buf, sampleBundle()); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if !strings.Contains(buf.String(), "\033[") {
		t.Error("expected ANSI escape codes when NO_COLOR is not set")
	}
}
