// Package params parses the measures parameter file that drives a
// connectome analysis run. The format is line-oriented `label=values`,
// where values are comma-separated numbers, strings, or arithmetic
// range expansions of the form (start;step;end).
package params

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrMalformedLine reports a non-comment line without exactly one '='.
	ErrMalformedLine = errors.New("malformed parameter line")
	// ErrMalformedRange reports a parenthesized token that is not a valid
	// (start;step;end) range.
	ErrMalformedRange = errors.New("malformed range token")
)

// Kind discriminates the variants a resolved Value can hold.
type Kind int

const (
	// KindNumber is a single float64.
	KindNumber Kind = iota
	// KindString is a single literal string.
	KindString
	// KindList is an ordered list of scalar values.
	KindList
)

// Value is one resolved parameter value: a number, a string, or an
// ordered list of those. Lists with exactly one element are collapsed
// to the bare scalar at parse time, matching the legacy reader; use the
// accessors below instead of depending on the collapse.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
	List []Value
}

// Number returns the value as a float64 and whether it is one.
func (v Value) Number() (float64, bool) {
	if v.Kind == KindNumber {
		return v.Num, true
	}
	return 0, false
}

// Text returns the value as a string literal and whether it is one.
func (v Value) Text() (string, bool) {
	if v.Kind == KindString {
		return v.Str, true
	}
	return "", false
}

// Values returns the value as a list, lifting a collapsed scalar back
// into a one-element slice.
func (v Value) Values() []Value {
	if v.Kind == KindList {
		return v.List
	}
	return []Value{v}
}

// Numbers returns all numeric elements of the value, in order.
func (v Value) Numbers() []float64 {
	elems := v.Values()
	nums := make([]float64, 0, len(elems))
	for _, e := range elems {
		if n, ok := e.Number(); ok {
			nums = append(nums, n)
		}
	}
	return nums
}

// ParameterSet maps parameter labels to their resolved values.
// Immutable after Parse; unknown labels are stored and tolerated.
type ParameterSet map[string]Value

// Flag reports whether label resolves to the scalar number 1.
func (ps ParameterSet) Flag(label string) bool {
	v, ok := ps[label]
	if !ok {
		return false
	}
	n, ok := v.Number()
	return ok && n == 1
}

// Parse reads a parameter file from r and resolves every line.
// Lines starting with '#' and blank lines are skipped. Every other line
// must contain exactly one '='; the right-hand side is a comma-separated
// value list where each token resolves, in order, to a number, a range
// expansion, or a literal string.
func Parse(r io.Reader) (ParameterSet, error) {
	ps := make(ParameterSet)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.Count(line, "=") != 1 {
			return nil, fmt.Errorf("%w: line %d: expected exactly one '=', got %q",
				ErrMalformedLine, lineNo, line)
		}

		eq := strings.Index(line, "=")
		label := line[:eq]

		var resolved []Value
		for _, token := range strings.Split(line[eq+1:], ",") {
			vals, err := resolveToken(token)
			if err != nil {
				return nil, fmt.Errorf("line %d, label %q: %w", lineNo, label, err)
			}
			resolved = append(resolved, vals...)
		}

		// Legacy collapse: a single-element list is stored bare.
		if len(resolved) == 1 {
			ps[label] = resolved[0]
		} else {
			ps[label] = Value{Kind: KindList, List: resolved}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading parameter source: %w", err)
	}

	return ps, nil
}

// ParseFile opens path and parses it with Parse.
func ParseFile(path string) (ParameterSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening parameter file: %w", err)
	}
	defer f.Close()

	ps, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ps, nil
}

// resolveToken resolves one comma-separated token to its values.
// Resolution is an explicit three-way decision: numeric scalar, range
// expansion, or literal string.
func resolveToken(token string) ([]Value, error) {
	trimmed := strings.TrimSpace(token)

	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return []Value{{Kind: KindNumber, Num: n}}, nil
	}

	if strings.HasPrefix(trimmed, "(") {
		nums, err := expandRange(trimmed)
		if err != nil {
			return nil, err
		}
		vals := make([]Value, len(nums))
		for i, n := range nums {
			vals[i] = Value{Kind: KindNumber, Num: n}
		}
		return vals, nil
	}

	return []Value{{Kind: KindString, Str: trimmed}}, nil
}

// expandRange expands a "(start;step;end)" token into the arithmetic
// sequence start, start+step, ... up to and including end (when end is
// expressible as start + k*step). The element count is ceil(end/step),
// matching the legacy arange(start, end+start, step) construction. That
// construction has a quirk worth knowing: with start=0 the upper bound
// degenerates to end itself, which arange excludes, so (0;0.5;2) yields
// 0, 0.5, 1, 1.5 without the 2.
func expandRange(token string) ([]float64, error) {
	if !strings.HasSuffix(token, ")") {
		return nil, fmt.Errorf("%w: %q: missing closing parenthesis", ErrMalformedRange, token)
	}

	fields := strings.Split(token[1:len(token)-1], ";")
	if len(fields) != 3 {
		return nil, fmt.Errorf("%w: %q: expected (start;step;end), got %d fields",
			ErrMalformedRange, token, len(fields))
	}

	var parts [3]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: field %d is not numeric", ErrMalformedRange, token, i+1)
		}
		parts[i] = n
	}

	start, step, end := parts[0], parts[1], parts[2]
	if step == 0 {
		return nil, fmt.Errorf("%w: %q: step must be nonzero", ErrMalformedRange, token)
	}

	// Small epsilon guards against float noise in end/step landing just
	// above an integer boundary.
	count := int(math.Ceil(end/step - 1e-9))
	if count < 0 {
		count = 0
	}

	seq := make([]float64, count)
	for k := 0; k < count; k++ {
		seq[k] = start + float64(k)*step
	}
	return seq, nil
}
