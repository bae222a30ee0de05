package metrics_test

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/connectoscope/connectoscope/pkg/matrix"
	"github.com/connectoscope/connectoscope/pkg/metrics"
	"github.com/connectoscope/connectoscope/pkg/params"
)

func standardParams(t *testing.T) params.ParameterSet {
	t.Helper()
	ps, err := params.Parse(strings.NewReader("flag_standard_measures=1\n"))
	if err != nil {
		t.Fatalf("parsing params: %v", err)
	}
	return ps
}

// End-to-end over a 4-node unit-weight ring.
func TestEngineStandardMeasuresRing(t *testing.T) {
	ws := metrics.NewWorkspace(ring4())
	engine := metrics.NewEngine(metrics.StandardMetrics()...)

	bundle, err := engine.Run(ws, standardParams(t))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(bundle.Failed) != 0 {
		t.Fatalf("expected no failed metrics, got %v", bundle.Failed)
	}

	wantKeys := []string{
		"degree", "density", "strength",
		"edge_BC_matrix", "node_BC",
		"distance_matrix", "CPL", "global_eff", "local_eff",
		"node_CC", "node_transitivity", "node_transitivity_normMat",
	}
	for _, k := range wantKeys {
		if _, ok := bundle.Results[k]; !ok {
			t.Errorf("missing result %q", k)
		}
	}
	if len(bundle.Results) != len(wantKeys) {
		t.Errorf("expected %d results, got %d", len(wantKeys), len(bundle.Results))
	}

	deg, _ := bundle.Results["degree"].Vec()
	for i, d := range deg {
		if d != 2 {
			t.Errorf("node %d: expected degree 2, got %v", i, d)
		}
	}

	density, _ := bundle.Results["density"].Float()
	if math.Abs(density-2.0/3) > 1e-4 {
		t.Errorf("expected density 0.6667, got %v", density)
	}

	cpl, _ := bundle.Results["CPL"].Float()
	if math.Abs(cpl-4.0/3) > 1e-12 {
		t.Errorf("expected CPL 4/3, got %v", cpl)
	}
}

func TestEngineFlagDisabled(t *testing.T) {
	ws := metrics.NewWorkspace(ring4())
	engine := metrics.NewEngine(metrics.StandardMetrics()...)

	ps, err := params.Parse(strings.NewReader("flag_standard_measures=0\n"))
	if err != nil {
		t.Fatalf("parsing params: %v", err)
	}

	bundle, err := engine.Run(ws, ps)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(bundle.Results) != 0 {
		t.Errorf("expected no results with the flag off, got %d", len(bundle.Results))
	}
}

func TestEngineSubsetIsOrderIndependent(t *testing.T) {
	ws := metrics.NewWorkspace(ring4())
	ps := standardParams(t)

	full, err := metrics.NewEngine(metrics.StandardMetrics()...).Run(ws, ps)
	if err != nil {
		t.Fatalf("full run: %v", err)
	}
	subset, err := metrics.NewEngine(&metrics.CharPathMetric{}, &metrics.DensityMetric{}).Run(ws, ps)
	if err != nil {
		t.Fatalf("subset run: %v", err)
	}

	for _, key := range []string{"CPL", "density"} {
		a, _ := full.Results[key].Float()
		b, _ := subset.Results[key].Float()
		if a != b {
			t.Errorf("%s: subset value %v differs from full run %v", key, b, a)
		}
	}
}

func TestEngineIsolatesMetricFailures(t *testing.T) {
	// Two nodes: path metrics work, triplet metrics cannot.
	ws := metrics.NewWorkspace(matrix.Matrix{
		{0, 1},
		{1, 0},
	})
	engine := metrics.NewEngine(metrics.StandardMetrics()...)

	bundle, err := engine.Run(ws, standardParams(t))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, ok := bundle.Results["degree"]; !ok {
		t.Error("degree should succeed on a 2-node graph")
	}
	if _, ok := bundle.Results["CPL"]; !ok {
		t.Error("CPL should succeed on a connected 2-node graph")
	}
	for _, key := range []string{"betweenness", "local_efficiency", "clustering", "transitivity"} {
		if _, ok := bundle.Failed[key]; !ok {
			t.Errorf("expected %s in failed metrics, got %v", key, bundle.Failed)
		}
	}
	if _, ok := bundle.Results["node_CC"]; ok {
		t.Error("failed metric must not leave partial results")
	}
}

func TestBundleRoundTrip(t *testing.T) {
	ws := metrics.NewWorkspace(matrix.Matrix{
		{0, 1, 0},
		{1, 0, 0},
		{0, 0, 0},
	})
	engine := metrics.NewEngine(&metrics.DistanceMetric{}, &metrics.DegreeMetric{})

	bundle, err := engine.Run(ws, standardParams(t))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	bundle.Subject = "sub-01"
	bundle.Atlas = "desikan"

	path := filepath.Join(t.TempDir(), "bundle.json")
	if err := metrics.SaveBundle(path, bundle); err != nil {
		t.Fatalf("SaveBundle: %v", err)
	}
	loaded, err := metrics.LoadBundle(path)
	if err != nil {
		t.Fatalf("LoadBundle: %v", err)
	}

	if loaded.Subject != "sub-01" || loaded.Atlas != "desikan" {
		t.Error("provenance must survive the round trip")
	}

	d, ok := loaded.Results["distance_matrix"].Mat()
	if !ok {
		t.Fatal("expected distance_matrix to load as a matrix")
	}
	if !math.IsInf(d[0][2], 1) {
		t.Errorf("unreachable sentinel must survive serialization, got %v", d[0][2])
	}
	if d[0][1] != 1 {
		t.Errorf("expected distance 1, got %v", d[0][1])
	}

	deg, ok := loaded.Results["degree"].Vec()
	if !ok {
		t.Fatal("expected degree to load as a vector")
	}
	if deg[2] != 0 {
		t.Errorf("expected isolated node degree 0, got %v", deg[2])
	}
}
