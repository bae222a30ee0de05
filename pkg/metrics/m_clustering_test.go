package metrics_test

import (
	"errors"
	"math"
	"testing"

	"github.com/connectoscope/connectoscope/pkg/matrix"
	"github.com/connectoscope/connectoscope/pkg/metrics"
)

func TestClusteringCompleteTriangle(t *testing.T) {
	ws := metrics.NewWorkspace(triangle3(1))
	got := computeOne(t, &metrics.ClusteringMetric{}, ws)

	cc, ok := got["node_CC"].Vec()
	if !ok {
		t.Fatal("expected vector for node_CC")
	}
	for i, c := range cc {
		if math.Abs(c-1) > 1e-12 {
			t.Errorf("node %d: expected CC 1, got %v", i, c)
		}
	}
}

func TestClusteringRingHasNoTriangles(t *testing.T) {
	ws := metrics.NewWorkspace(ring4())
	got := computeOne(t, &metrics.ClusteringMetric{}, ws)

	cc, _ := got["node_CC"].Vec()
	for i, c := range cc {
		if c != 0 {
			t.Errorf("node %d: ring has no triangles, got CC %v", i, c)
		}
	}
}

func TestTransitivityCompleteTriangle(t *testing.T) {
	ws := metrics.NewWorkspace(triangle3(1))
	got := computeOne(t, &metrics.TransitivityMetric{}, ws)

	raw, _ := got["node_transitivity"].Float()
	if math.Abs(raw-1) > 1e-12 {
		t.Errorf("expected transitivity 1 for unit triangle, got %v", raw)
	}
	norm, _ := got["node_transitivity_normMat"].Float()
	if math.Abs(norm-1) > 1e-12 {
		t.Errorf("expected normalized transitivity 1, got %v", norm)
	}
}

func TestTransitivityNormalizedStaysInUnitRange(t *testing.T) {
	// Raw weights far above 1 push the raw ratio past 1; the normalized
	// variant must stay a valid ratio.
	ws := metrics.NewWorkspace(triangle3(8))
	got := computeOne(t, &metrics.TransitivityMetric{}, ws)

	raw, _ := got["node_transitivity"].Float()
	if raw <= 1 {
		t.Errorf("expected raw transitivity above 1 for weight 8, got %v", raw)
	}

	norm, _ := got["node_transitivity_normMat"].Float()
	if norm < 0 || norm > 1 {
		t.Errorf("normalized transitivity must lie in [0,1], got %v", norm)
	}
}

func TestTransitivityNoTriplets(t *testing.T) {
	// Three nodes, one edge: no node has two neighbors.
	m := matrix.Matrix{
		{0, 1, 0},
		{1, 0, 0},
		{0, 0, 0},
	}
	ws := metrics.NewWorkspace(m)
	_, err := (&metrics.TransitivityMetric{}).Compute(ws)
	if !errors.Is(err, metrics.ErrInsufficientGraphSize) {
		t.Errorf("expected ErrInsufficientGraphSize, got %v", err)
	}
}

func TestLocalEfficiencyCompleteTriangle(t *testing.T) {
	ws := metrics.NewWorkspace(triangle3(1))
	got := computeOne(t, &metrics.LocalEfficiencyMetric{}, ws)

	eff, ok := got["local_eff"].Vec()
	if !ok {
		t.Fatal("expected vector for local_eff")
	}
	for i, e := range eff {
		if math.Abs(e-1) > 1e-12 {
			t.Errorf("node %d: expected local efficiency 1, got %v", i, e)
		}
	}
}

func TestLocalEfficiencyLeafNodesZero(t *testing.T) {
	// Path graph: end nodes have a single neighbor, so their neighborhood
	// cannot route anything.
	m := matrix.Matrix{
		{0, 1, 0},
		{1, 0, 1},
		{0, 1, 0},
	}
	ws := metrics.NewWorkspace(m)
	got := computeOne(t, &metrics.LocalEfficiencyMetric{}, ws)

	eff, _ := got["local_eff"].Vec()
	if eff[0] != 0 || eff[2] != 0 {
		t.Errorf("leaf nodes must have zero local efficiency, got %v", eff)
	}
	// The middle node's two neighbors are not connected to each other.
	if eff[1] != 0 {
		t.Errorf("disconnected neighborhood must have zero efficiency, got %v", eff[1])
	}
}
