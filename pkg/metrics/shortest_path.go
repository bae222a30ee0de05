package metrics

import (
	"container/heap"
	"math"

	"github.com/connectoscope/connectoscope/pkg/matrix"
)

// nodeItem is one (node, distance) entry in the Dijkstra priority queue.
type nodeItem struct {
	node int
	dist float64
}

// nodePQ is a min-heap over tentative distances.
type nodePQ []nodeItem

func (pq nodePQ) Len() int            { return len(pq) }
func (pq nodePQ) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq nodePQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *nodePQ) Push(x any)         { *pq = append(*pq, x.(nodeItem)) }
func (pq *nodePQ) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// dijkstraFrom computes single-source shortest-path distances over a
// length matrix (0 = no edge, positive = traversable length). It uses a
// lazy decrease-key strategy: duplicates are pushed and stale entries
// skipped on extraction. Unreachable nodes end at +Inf.
func dijkstraFrom(lengths matrix.Matrix, src int) []float64 {
	n := lengths.N()
	dist := make([]float64, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[src] = 0

	visited := make([]bool, n)
	pq := make(nodePQ, 0, n)
	heap.Init(&pq)
	heap.Push(&pq, nodeItem{node: src, dist: 0})

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(nodeItem)
		v := item.node
		if visited[v] {
			continue // stale duplicate
		}
		visited[v] = true

		for w, l := range lengths[v] {
			if l == 0 || visited[w] {
				continue
			}
			if d := dist[v] + l; d < dist[w] {
				dist[w] = d
				heap.Push(&pq, nodeItem{node: w, dist: d})
			}
		}
	}
	return dist
}

// allPairsDistances runs Dijkstra from every source node. Entry (i,j) is
// the minimum total length from i to j, +Inf when unreachable, 0 on the
// diagonal.
func allPairsDistances(lengths matrix.Matrix) matrix.Matrix {
	n := lengths.N()
	d := make(matrix.Matrix, n)
	for i := 0; i < n; i++ {
		d[i] = dijkstraFrom(lengths, i)
	}
	return d
}

// inverseDistances computes 1/d over all-pairs shortest paths of a length
// matrix, with unreachable pairs contributing 0 and a zero diagonal.
func inverseDistances(lengths matrix.Matrix) matrix.Matrix {
	d := allPairsDistances(lengths)
	n := d.N()
	inv := make(matrix.Matrix, n)
	for i := 0; i < n; i++ {
		inv[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			if i == j || math.IsInf(d[i][j], 1) {
				continue
			}
			inv[i][j] = 1 / d[i][j]
		}
	}
	return inv
}
