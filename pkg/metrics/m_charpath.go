package metrics

import (
	"fmt"
	"math"
)

// CharPathMetric averages all finite pairwise shortest-path distances.
// Unreachable pairs are excluded from the average rather than counted as
// zero, so disconnected components never deflate the result.
type CharPathMetric struct{}

func (m *CharPathMetric) Key() string  { return "charpath" }
func (m *CharPathMetric) Name() string { return "Characteristic path length" }

func (m *CharPathMetric) Compute(ws *Workspace) ([]Measure, error) {
	if ws.N < 2 {
		return nil, fmt.Errorf("%w: characteristic path length requires at least 2 nodes, got %d",
			ErrInsufficientGraphSize, ws.N)
	}

	d := ws.Distances()
	sum, count := 0.0, 0
	for i := 0; i < ws.N; i++ {
		for j := 0; j < ws.N; j++ {
			if i == j || math.IsInf(d[i][j], 1) {
				continue
			}
			sum += d[i][j]
			count++
		}
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: characteristic path length requires at least one reachable pair",
			ErrInsufficientGraphSize)
	}

	cpl := sum / float64(count)
	return []Measure{{Name: "CPL", Value: Scalar(cpl)}}, nil
}

// GlobalEfficiencyMetric averages the inverse pairwise shortest-path
// distances. Unreachable pairs contribute 0 (1/Inf), so the measure stays
// well-defined on disconnected graphs.
type GlobalEfficiencyMetric struct{}

func (m *GlobalEfficiencyMetric) Key() string  { return "global_efficiency" }
func (m *GlobalEfficiencyMetric) Name() string { return "Global efficiency" }

func (m *GlobalEfficiencyMetric) Compute(ws *Workspace) ([]Measure, error) {
	if ws.N < 2 {
		return nil, fmt.Errorf("%w: global efficiency requires at least 2 nodes, got %d",
			ErrInsufficientGraphSize, ws.N)
	}

	d := ws.Distances()
	sum := 0.0
	for i := 0; i < ws.N; i++ {
		for j := 0; j < ws.N; j++ {
			if i == j || math.IsInf(d[i][j], 1) {
				continue
			}
			sum += 1 / d[i][j]
		}
	}

	eff := sum / (float64(ws.N) * float64(ws.N-1))
	return []Measure{{Name: "global_eff", Value: Scalar(eff)}}, nil
}
