package metrics

import "fmt"

// StrengthMetric sums the incident edge weights per node.
type StrengthMetric struct{}

func (m *StrengthMetric) Key() string  { return "strength" }
func (m *StrengthMetric) Name() string { return "Strength" }

func (m *StrengthMetric) Compute(ws *Workspace) ([]Measure, error) {
	if ws.N == 0 {
		return nil, fmt.Errorf("%w: strength requires a non-empty matrix", ErrInsufficientGraphSize)
	}

	str := make([]float64, ws.N)
	for i, row := range ws.Weights {
		for _, w := range row {
			str[i] += w
		}
	}
	return []Measure{{Name: "strength", Value: Vector(str)}}, nil
}
