package metrics_test

import (
	"errors"
	"math"
	"testing"

	"github.com/connectoscope/connectoscope/pkg/matrix"
	"github.com/connectoscope/connectoscope/pkg/metrics"
)

func TestBetweennessPathGraph(t *testing.T) {
	// a - b - c: every a<->c shortest path crosses b.
	m := matrix.Matrix{
		{0, 1, 0},
		{1, 0, 1},
		{0, 1, 0},
	}
	ws := metrics.NewWorkspace(m)
	got := computeOne(t, &metrics.BetweennessMetric{}, ws)

	nbc, ok := got["node_BC"].Vec()
	if !ok {
		t.Fatal("expected vector for node_BC")
	}
	// 2 ordered pairs cross b; normalization (N-1)(N-2) = 2.
	want := []float64{0, 1, 0}
	for i := range want {
		if math.Abs(nbc[i]-want[i]) > 1e-12 {
			t.Errorf("node %d: expected BC %v, got %v", i, want[i], nbc[i])
		}
	}

	ebc, ok := got["edge_BC_matrix"].Mat()
	if !ok {
		t.Fatal("expected matrix for edge_BC_matrix")
	}
	// Each edge carries 2 ordered shortest paths per direction, /2 norm.
	if math.Abs(ebc[0][1]+ebc[1][0]-2) > 1e-12 {
		t.Errorf("edge a-b: expected combined EBC 2, got %v", ebc[0][1]+ebc[1][0])
	}
	if ebc[0][2] != 0 || ebc[2][0] != 0 {
		t.Error("absent edge must carry no betweenness")
	}
}

func TestBetweennessWeightedDetour(t *testing.T) {
	// Strong edges are short: the a-c "shortcut" of weight 0.1 (length 10)
	// is longer than the two-hop route through b (length 2), so b still
	// carries all a<->c shortest paths.
	m := matrix.Matrix{
		{0, 1, 0.1},
		{1, 0, 1},
		{0.1, 1, 0},
	}
	ws := metrics.NewWorkspace(m)
	got := computeOne(t, &metrics.BetweennessMetric{}, ws)

	nbc, _ := got["node_BC"].Vec()
	if math.Abs(nbc[1]-1) > 1e-12 {
		t.Errorf("expected hub BC 1, got %v", nbc[1])
	}
}

func TestBetweennessDisconnected(t *testing.T) {
	// Two components: an edge pair and an isolated node. No node lies
	// between any reachable pair.
	m := matrix.Matrix{
		{0, 1, 0},
		{1, 0, 0},
		{0, 0, 0},
	}
	ws := metrics.NewWorkspace(m)
	got := computeOne(t, &metrics.BetweennessMetric{}, ws)

	nbc, _ := got["node_BC"].Vec()
	for i, b := range nbc {
		if b != 0 {
			t.Errorf("node %d: expected zero BC, got %v", i, b)
		}
	}
}

func TestBetweennessTooSmall(t *testing.T) {
	ws := metrics.NewWorkspace(matrix.Matrix{{0, 1}, {1, 0}})
	_, err := (&metrics.BetweennessMetric{}).Compute(ws)
	if !errors.Is(err, metrics.ErrInsufficientGraphSize) {
		t.Errorf("expected ErrInsufficientGraphSize, got %v", err)
	}
}
