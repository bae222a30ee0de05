package metrics

import (
	"fmt"
	"math"
)

// BetweennessMetric computes weighted edge and node betweenness
// centrality over the length matrix: for every ordered pair of distinct
// nodes, the fraction of shortest paths traversing each edge (and, by
// aggregation of path dependencies, each intermediate node). Both outputs
// are normalized by (N-1)(N-2), the maximum number of shortest paths not
// involving the node's own endpoints.
type BetweennessMetric struct{}

func (m *BetweennessMetric) Key() string  { return "betweenness" }
func (m *BetweennessMetric) Name() string { return "Betweenness centrality" }

func (m *BetweennessMetric) Compute(ws *Workspace) ([]Measure, error) {
	if ws.N < 3 {
		return nil, fmt.Errorf("%w: betweenness centrality requires at least 3 nodes, got %d",
			ErrInsufficientGraphSize, ws.N)
	}

	ebc, nbc := edgeBetweenness(ws)

	norm := float64(ws.N-1) * float64(ws.N-2)
	for i := range nbc {
		nbc[i] /= norm
		for j := range ebc[i] {
			ebc[i][j] /= norm
		}
	}

	return []Measure{
		{Name: "edge_BC_matrix", Value: MatrixValue(ebc)},
		{Name: "node_BC", Value: Vector(nbc)},
	}, nil
}

// edgeBetweenness runs a Brandes-style accumulation from every source:
// a weighted shortest-path search tracks path counts and predecessor
// sets, then dependencies are back-propagated from the farthest settled
// node toward the source, crediting each predecessor edge.
func edgeBetweenness(ws *Workspace) (ebc [][]float64, nbc []float64) {
	n := ws.N
	nbc = make([]float64, n)
	ebc = make([][]float64, n)
	for i := range ebc {
		ebc[i] = make([]float64, n)
	}

	for u := 0; u < n; u++ {
		dist := make([]float64, n)
		for i := range dist {
			dist[i] = math.Inf(1)
		}
		dist[u] = 0

		paths := make([]float64, n) // shortest-path counts
		paths[u] = 1

		pred := make([][]bool, n) // pred[w][v]: v precedes w on a shortest path
		for i := range pred {
			pred[i] = make([]bool, n)
		}

		unsettled := make([]bool, n)
		for i := range unsettled {
			unsettled[i] = true
		}

		// Remaining edge lengths; columns into settled nodes are cleared
		// so they are never relaxed again.
		g := ws.Lengths.Clone()

		order := make([]int, n) // settlement order, farthest at index 0
		q := n - 1

		frontier := []int{u}
		for {
			for _, v := range frontier {
				unsettled[v] = false
				order[q] = v
				q--
				for w := 0; w < n; w++ {
					g[w][v] = 0
				}
				for w := 0; w < n; w++ {
					l := g[v][w]
					if l == 0 {
						continue
					}
					switch d := dist[v] + l; {
					case d < dist[w]:
						dist[w] = d
						paths[w] = paths[v]
						for x := range pred[w] {
							pred[w][x] = false
						}
						pred[w][v] = true
					case d == dist[w]:
						paths[w] += paths[v]
						pred[w][v] = true
					}
				}
			}

			minDist := math.Inf(1)
			any := false
			for w := 0; w < n; w++ {
				if unsettled[w] {
					any = true
					if dist[w] < minDist {
						minDist = dist[w]
					}
				}
			}
			if !any {
				break
			}
			if math.IsInf(minDist, 1) {
				// Remaining nodes are unreachable from u; they carry no
				// path dependencies but still occupy settlement slots.
				idx := 0
				for w := 0; w < n; w++ {
					if math.IsInf(dist[w], 1) {
						order[idx] = w
						idx++
					}
				}
				break
			}

			frontier = frontier[:0]
			for w := 0; w < n; w++ {
				if unsettled[w] && dist[w] == minDist {
					frontier = append(frontier, w)
				}
			}
		}

		// Back-propagate dependencies, skipping the source itself.
		dep := make([]float64, n)
		for i := 0; i < n-1; i++ {
			w := order[i]
			nbc[w] += dep[w]
			for v := 0; v < n; v++ {
				if !pred[w][v] {
					continue
				}
				d := (1 + dep[w]) * paths[v] / paths[w]
				dep[v] += d
				ebc[v][w] += d
			}
		}
	}

	return ebc, nbc
}
