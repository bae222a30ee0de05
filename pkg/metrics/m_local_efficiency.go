package metrics

import (
	"fmt"
	"math"

	"github.com/connectoscope/connectoscope/pkg/matrix"
)

// LocalEfficiencyMetric computes, per node, the efficiency of the
// subgraph induced by its immediate neighbors: inverse shortest paths
// inside the neighborhood over cube-rooted lengths, weighted by the
// cube-rooted strengths of the node's own connections. Captures how well
// a neighborhood routes around its hub.
type LocalEfficiencyMetric struct{}

func (m *LocalEfficiencyMetric) Key() string  { return "local_efficiency" }
func (m *LocalEfficiencyMetric) Name() string { return "Local efficiency" }

func (m *LocalEfficiencyMetric) Compute(ws *Workspace) ([]Measure, error) {
	if ws.N < 3 {
		return nil, fmt.Errorf("%w: local efficiency requires at least 3 nodes, got %d",
			ErrInsufficientGraphSize, ws.N)
	}

	eff := make([]float64, ws.N)
	for u := 0; u < ws.N; u++ {
		// Neighborhood: any node connected to u in either direction.
		var nbrs []int
		for v := 0; v < ws.N; v++ {
			if v != u && (ws.Weights[u][v] != 0 || ws.Weights[v][u] != 0) {
				nbrs = append(nbrs, v)
			}
		}
		if len(nbrs) < 2 {
			continue // a single neighbor cannot route anywhere
		}

		// Symmetrized cube-rooted connection strengths u <-> neighbors.
		sw := make([]float64, len(nbrs))
		for a, v := range nbrs {
			sw[a] = math.Cbrt(ws.Weights[u][v]) + math.Cbrt(ws.Weights[v][u])
		}

		// Cube-rooted length subgraph over the neighborhood.
		sub := make(matrix.Matrix, len(nbrs))
		for a, v := range nbrs {
			sub[a] = make([]float64, len(nbrs))
			for b, w := range nbrs {
				sub[a][b] = math.Cbrt(ws.Lengths[v][w])
			}
		}

		inv := inverseDistances(sub)

		numer := 0.0
		for a := range nbrs {
			for b := range nbrs {
				numer += sw[a] * sw[b] * (inv[a][b] + inv[b][a])
			}
		}
		numer /= 2
		if numer == 0 {
			continue
		}

		// Degree terms: sa in {0,1,2} per neighbor, denominator is the
		// number of ordered neighbor pairs weighted by connection
		// multiplicity.
		saSum, saSq := 0.0, 0.0
		for _, v := range nbrs {
			sa := 0.0
			if ws.Weights[u][v] != 0 {
				sa++
			}
			if ws.Weights[v][u] != 0 {
				sa++
			}
			saSum += sa
			saSq += sa * sa
		}
		denom := saSum*saSum - saSq
		if denom != 0 {
			eff[u] = numer / denom
		}
	}

	return []Measure{{Name: "local_eff", Value: Vector(eff)}}, nil
}
