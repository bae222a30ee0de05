package metrics

import "fmt"

// DensityMetric is the ratio of existing edges to the maximum possible
// edges of an undirected simple graph on N nodes: 2E / (N(N-1)). Each
// undirected pair is counted once, from the upper triangle.
type DensityMetric struct{}

func (m *DensityMetric) Key() string  { return "density" }
func (m *DensityMetric) Name() string { return "Density" }

func (m *DensityMetric) Compute(ws *Workspace) ([]Measure, error) {
	if ws.N < 2 {
		return nil, fmt.Errorf("%w: density requires at least 2 nodes, got %d",
			ErrInsufficientGraphSize, ws.N)
	}

	edges := 0.0
	for i := 0; i < ws.N; i++ {
		for j := i + 1; j < ws.N; j++ {
			if ws.Weights[i][j] != 0 {
				edges++
			}
		}
	}

	density := 2 * edges / (float64(ws.N) * float64(ws.N-1))
	return []Measure{{Name: "density", Value: Scalar(density)}}, nil
}
