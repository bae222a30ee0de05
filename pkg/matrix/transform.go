package matrix

// ToLengths derives the length matrix used by shortest-path algorithms:
// each nonzero weight w becomes 1/w, so stronger connections read as
// shorter distances. Zero entries stay zero, the "no edge" sentinel.
func ToLengths(m Matrix) Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = make([]float64, len(row))
		for j, w := range row {
			if w != 0 {
				out[i][j] = 1 / w
			}
		}
	}
	return out
}

// ToNormalized scales all weights into [0,1] by dividing by the matrix
// maximum. Relative ordering is preserved; an all-zero matrix normalizes
// to a copy of itself. Required by transitivity, whose triangle/triplet
// ratio is only meaningful for weights in [0,1].
func ToNormalized(m Matrix) Matrix {
	max := m.Max()
	if max == 0 {
		return m.Clone()
	}
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = make([]float64, len(row))
		for j, w := range row {
			out[i][j] = w / max
		}
	}
	return out
}
