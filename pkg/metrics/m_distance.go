package metrics

import "fmt"

// DistanceMetric exposes the all-pairs weighted shortest-path matrix.
// Unreachable pairs hold the +Inf sentinel, never 0.
type DistanceMetric struct{}

func (m *DistanceMetric) Key() string  { return "distance" }
func (m *DistanceMetric) Name() string { return "Shortest-path distance matrix" }

func (m *DistanceMetric) Compute(ws *Workspace) ([]Measure, error) {
	if ws.N == 0 {
		return nil, fmt.Errorf("%w: distance matrix requires a non-empty matrix", ErrInsufficientGraphSize)
	}

	d := ws.Distances()
	out := make([][]float64, ws.N)
	for i, row := range d {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}
	return []Measure{{Name: "distance_matrix", Value: MatrixValue(out)}}, nil
}
