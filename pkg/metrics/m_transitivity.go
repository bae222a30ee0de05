package metrics

import (
	"fmt"

	"github.com/connectoscope/connectoscope/pkg/matrix"
)

// TransitivityMetric is the global ratio of closed triangles to connected
// triplets. The raw variant is only a valid ratio when weights already
// lie in [0,1], so a second variant is always computed over the
// normalized matrix.
type TransitivityMetric struct{}

func (m *TransitivityMetric) Key() string  { return "transitivity" }
func (m *TransitivityMetric) Name() string { return "Transitivity" }

func (m *TransitivityMetric) Compute(ws *Workspace) ([]Measure, error) {
	if ws.N < 3 {
		return nil, fmt.Errorf("%w: transitivity requires at least 3 nodes, got %d",
			ErrInsufficientGraphSize, ws.N)
	}

	deg := degrees(ws)
	triplets := 0.0
	for _, k := range deg {
		triplets += k * (k - 1)
	}
	if triplets == 0 {
		return nil, fmt.Errorf("%w: transitivity requires at least one connected triplet",
			ErrInsufficientGraphSize)
	}

	return []Measure{
		{Name: "node_transitivity", Value: Scalar(transitivity(ws.Weights, triplets))},
		{Name: "node_transitivity_normMat", Value: Scalar(transitivity(ws.Normalized, triplets))},
	}, nil
}

func transitivity(w matrix.Matrix, triplets float64) float64 {
	closed := 0.0
	for _, c := range triangleCycles(w) {
		closed += c
	}
	return closed / triplets
}
