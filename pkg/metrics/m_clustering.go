package metrics

import (
	"fmt"
	"math"

	"github.com/connectoscope/connectoscope/pkg/matrix"
)

// ClusteringMetric computes the weighted clustering coefficient per node:
// the geometric-mean weight of triangles through the node, normalized by
// the number of possible neighbor pairs k(k-1).
type ClusteringMetric struct{}

func (m *ClusteringMetric) Key() string  { return "clustering" }
func (m *ClusteringMetric) Name() string { return "Clustering coefficient" }

func (m *ClusteringMetric) Compute(ws *Workspace) ([]Measure, error) {
	if ws.N < 3 {
		return nil, fmt.Errorf("%w: clustering coefficient requires at least 3 nodes, got %d",
			ErrInsufficientGraphSize, ws.N)
	}

	cyc3 := triangleCycles(ws.Weights)
	deg := degrees(ws)

	cc := make([]float64, ws.N)
	for i := range cc {
		if cyc3[i] != 0 {
			cc[i] = cyc3[i] / (deg[i] * (deg[i] - 1))
		}
	}
	return []Measure{{Name: "node_CC", Value: Vector(cc)}}, nil
}

// triangleCycles returns, per node, the sum of geometric-mean weights of
// all closed 3-cycles through it: diag((W^(1/3))^3).
func triangleCycles(w matrix.Matrix) []float64 {
	n := w.N()
	root := make(matrix.Matrix, n)
	for i, row := range w {
		root[i] = make([]float64, n)
		for j, x := range row {
			root[i][j] = math.Cbrt(x)
		}
	}

	cyc3 := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if root[i][j] == 0 {
				continue
			}
			for k := 0; k < n; k++ {
				cyc3[i] += root[i][j] * root[j][k] * root[k][i]
			}
		}
	}
	return cyc3
}
