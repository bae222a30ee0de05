// Package metrics implements the Connectoscope weighted graph-metrics
// engine. It computes the standard battery of connectome measures
// (degree, density, strength, betweenness centrality, shortest paths,
// efficiency, clustering, transitivity) over a validated connectivity
// matrix and assembles them into a named result bundle.
package metrics

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/connectoscope/connectoscope/pkg/matrix"
)

// ErrInsufficientGraphSize reports a metric whose graph-size precondition
// is violated (empty matrix, too few nodes for triplet-based measures,
// no reachable pairs for path averages).
var ErrInsufficientGraphSize = errors.New("insufficient graph size")

// FlagStandardMeasures is the parameter-file key that enables the full
// standard measures suite when set to 1.
const FlagStandardMeasures = "flag_standard_measures"

// Workspace is the immutable per-run view a metric computes over: the
// zero-diagonal weight matrix plus its derived length and normalized
// matrices. Derivations happen once at construction; metrics share them
// read-only, so any parallel scheduling over metrics is safe.
type Workspace struct {
	// Weights is the connectivity matrix with the diagonal zeroed
	// (self-loops are ignored by every measure).
	Weights matrix.Matrix
	// Lengths holds inverted weights for shortest-path algorithms.
	Lengths matrix.Matrix
	// Normalized holds weights scaled into [0,1] for transitivity.
	Normalized matrix.Matrix
	// N is the node count.
	N int

	distOnce sync.Once
	dist     matrix.Matrix
}

// NewWorkspace derives the working matrices from a validated
// connectivity matrix. The input is never mutated.
func NewWorkspace(m matrix.Matrix) *Workspace {
	w := m.Clone()
	for i := range w {
		w[i][i] = 0
	}
	return &Workspace{
		Weights:    w,
		Lengths:    matrix.ToLengths(w),
		Normalized: matrix.ToNormalized(w),
		N:          w.N(),
	}
}

// Distances returns the all-pairs weighted shortest-path matrix over the
// length matrix, computing it on first use. Unreachable pairs hold +Inf.
func (ws *Workspace) Distances() matrix.Matrix {
	ws.distOnce.Do(func() {
		ws.dist = allPairsDistances(ws.Lengths)
	})
	return ws.dist
}

// Bundle is the named mapping of metric name to result value produced by
// one engine run over one connectivity matrix. Immutable once assembled.
type Bundle struct {
	ID         string           `json:"id,omitempty"`
	Subject    string           `json:"subject,omitempty"`
	Atlas      string           `json:"atlas,omitempty"`
	Source     string           `json:"source,omitempty"`
	Nodes      int              `json:"nodes"`
	ComputedAt time.Time        `json:"computed_at"`
	Results    map[string]Value `json:"results"`
	// Failed maps metric keys to the failure that kept them out of
	// Results. Independent metrics still compute.
	Failed map[string]string `json:"failed,omitempty"`
}

// Measure is one named result emitted by a metric.
type Measure struct {
	Name  string
	Value Value
}

type valueKind int

const (
	valueScalar valueKind = iota
	valueVector
	valueMatrix
)

// Value is a tagged scalar / node-vector / node-pair-matrix result.
// JSON encoding is the bare number, array, or array of arrays; +Inf
// (the unreachable-pair sentinel) encodes as null and decodes back.
type Value struct {
	kind valueKind
	num  float64
	vec  []float64
	mat  [][]float64
}

// Scalar wraps a single number.
func Scalar(x float64) Value { return Value{kind: valueScalar, num: x} }

// Vector wraps a node-indexed vector.
func Vector(v []float64) Value { return Value{kind: valueVector, vec: v} }

// MatrixValue wraps a node-pair-indexed matrix.
func MatrixValue(m [][]float64) Value { return Value{kind: valueMatrix, mat: m} }

// Float returns the scalar payload and whether the value is a scalar.
func (v Value) Float() (float64, bool) { return v.num, v.kind == valueScalar }

// Vec returns the vector payload and whether the value is a vector.
func (v Value) Vec() ([]float64, bool) { return v.vec, v.kind == valueVector }

// Mat returns the matrix payload and whether the value is a matrix.
func (v Value) Mat() ([][]float64, bool) { return v.mat, v.kind == valueMatrix }

func appendJSONFloat(b []byte, f float64) []byte {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return append(b, "null"...)
	}
	return strconv.AppendFloat(b, f, 'g', -1, 64)
}

func appendJSONVector(b []byte, v []float64) []byte {
	b = append(b, '[')
	for i, f := range v {
		if i > 0 {
			b = append(b, ',')
		}
		b = appendJSONFloat(b, f)
	}
	return append(b, ']')
}

// MarshalJSON emits the bare numeric payload.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case valueScalar:
		return appendJSONFloat(nil, v.num), nil
	case valueVector:
		return appendJSONVector(nil, v.vec), nil
	case valueMatrix:
		b := []byte{'['}
		for i, row := range v.mat {
			if i > 0 {
				b = append(b, ',')
			}
			b = appendJSONVector(b, row)
		}
		return append(b, ']'), nil
	}
	return nil, fmt.Errorf("unknown value kind %d", v.kind)
}

// UnmarshalJSON sniffs the payload shape: number → scalar, array of
// numbers → vector, array of arrays → matrix. null entries decode to +Inf.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty value payload")
	}

	if trimmed[0] != '[' {
		var p *float64
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return fmt.Errorf("decoding scalar value: %w", err)
		}
		*v = Scalar(deref(p))
		return nil
	}

	var rows [][]*float64
	if err := json.Unmarshal(trimmed, &rows); err == nil {
		mat := make([][]float64, len(rows))
		for i, row := range rows {
			mat[i] = make([]float64, len(row))
			for j, p := range row {
				mat[i][j] = deref(p)
			}
		}
		*v = MatrixValue(mat)
		return nil
	}

	var flat []*float64
	if err := json.Unmarshal(trimmed, &flat); err != nil {
		return fmt.Errorf("decoding vector value: %w", err)
	}
	vec := make([]float64, len(flat))
	for i, p := range flat {
		vec[i] = deref(p)
	}
	*v = Vector(vec)
	return nil
}

func deref(p *float64) float64 {
	if p == nil {
		return math.Inf(1)
	}
	return *p
}
