// Package matrix defines the core connectivity-matrix data model for
// Connectoscope. A connectivity matrix is a square, non-negative, finite
// weighted adjacency matrix over brain regions; these types are the shared
// vocabulary across all analysis modules.
package matrix

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNotSquare reports a table whose row and column counts differ.
	ErrNotSquare = errors.New("matrix is not square")
	// ErrNonFinite reports a NaN or infinite entry.
	ErrNonFinite = errors.New("matrix contains a non-finite entry")
	// ErrNegativeWeight reports a negative connection weight.
	ErrNegativeWeight = errors.New("matrix contains a negative weight")
	// ErrMalformedTable reports input that could not be read as a
	// numeric table at all.
	ErrMalformedTable = errors.New("malformed numeric table")
)

// Matrix is a dense square weighted adjacency matrix. Entry (i,j) is the
// connection weight between node i and node j; zero means no edge.
// Matrices are treated as immutable once validated; every derivation
// returns a fresh value.
type Matrix [][]float64

// N returns the node count.
func (m Matrix) N() int { return len(m) }

// Clone returns a deep copy of the matrix.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}
	return out
}

// Max returns the largest entry, or 0 for an empty matrix.
func (m Matrix) Max() float64 {
	max := 0.0
	for _, row := range m {
		for _, w := range row {
			if w > max {
				max = w
			}
		}
	}
	return max
}

// Validate checks that a raw numeric table is a well-formed connectivity
// matrix: square, finite, non-negative. On success it returns the table
// unchanged together with the node count; it never coerces entries.
func Validate(rows [][]float64) (Matrix, int, error) {
	n := len(rows)
	for i, row := range rows {
		if len(row) != n {
			return nil, 0, fmt.Errorf("%w: %d rows but row %d has %d columns",
				ErrNotSquare, n, i, len(row))
		}
		for j, w := range row {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, 0, fmt.Errorf("%w: entry (%d,%d) = %v", ErrNonFinite, i, j, w)
			}
			if w < 0 {
				return nil, 0, fmt.Errorf("%w: entry (%d,%d) = %v", ErrNegativeWeight, i, j, w)
			}
		}
	}
	return Matrix(rows), n, nil
}
