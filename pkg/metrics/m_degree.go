package metrics

import "fmt"

// DegreeMetric counts nonzero incident edges per node. The diagonal is
// ignored, so self-weights never inflate a node's degree.
type DegreeMetric struct{}

func (m *DegreeMetric) Key() string  { return "degree" }
func (m *DegreeMetric) Name() string { return "Degree" }

func (m *DegreeMetric) Compute(ws *Workspace) ([]Measure, error) {
	if ws.N == 0 {
		return nil, fmt.Errorf("%w: degree requires a non-empty matrix", ErrInsufficientGraphSize)
	}

	deg := make([]float64, ws.N)
	for i, row := range ws.Weights {
		for _, w := range row {
			if w != 0 {
				deg[i]++
			}
		}
	}
	return []Measure{{Name: "degree", Value: Vector(deg)}}, nil
}

// degrees is the shared binary-degree helper used by the triplet metrics.
func degrees(ws *Workspace) []float64 {
	deg := make([]float64, ws.N)
	for i, row := range ws.Weights {
		for _, w := range row {
			if w != 0 {
				deg[i]++
			}
		}
	}
	return deg
}
