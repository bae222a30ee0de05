package matrix_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/connectoscope/connectoscope/pkg/matrix"
)

func TestValidateAccepts(t *testing.T) {
	rows := [][]float64{
		{0, 1, 0.5},
		{1, 0, 2},
		{0.5, 2, 0},
	}

	m, n, err := matrix.Validate(rows)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if n != 3 {
		t.Errorf("expected n=3, got %d", n)
	}
	// Returned unchanged, no coercion
	if m[0][2] != 0.5 || m[1][2] != 2 {
		t.Error("expected entries returned unchanged")
	}
}

func TestValidateNotSquare(t *testing.T) {
	rows := [][]float64{
		{0, 1, 0, 0},
		{1, 0, 1, 0},
		{0, 1, 0, 1},
	}
	_, _, err := matrix.Validate(rows)
	if !errors.Is(err, matrix.ErrNotSquare) {
		t.Errorf("expected ErrNotSquare, got %v", err)
	}
}

func TestValidateNegativeWeight(t *testing.T) {
	rows := [][]float64{
		{0, -1},
		{-1, 0},
	}
	_, _, err := matrix.Validate(rows)
	if !errors.Is(err, matrix.ErrNegativeWeight) {
		t.Errorf("expected ErrNegativeWeight, got %v", err)
	}
}

func TestValidateNonFinite(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1)} {
		rows := [][]float64{
			{0, bad},
			{1, 0},
		}
		_, _, err := matrix.Validate(rows)
		if !errors.Is(err, matrix.ErrNonFinite) {
			t.Errorf("entry %v: expected ErrNonFinite, got %v", bad, err)
		}
	}
}

func TestToLengths(t *testing.T) {
	m := matrix.Matrix{
		{0, 2, 0},
		{2, 0, 4},
		{0, 4, 0},
	}
	l := matrix.ToLengths(m)

	if l[0][1] != 0.5 {
		t.Errorf("expected 1/2, got %v", l[0][1])
	}
	if l[1][2] != 0.25 {
		t.Errorf("expected 1/4, got %v", l[1][2])
	}
	if l[0][2] != 0 {
		t.Errorf("zero entries must stay zero, got %v", l[0][2])
	}
	if m[0][1] != 2 {
		t.Error("source matrix must not be mutated")
	}
}

func TestToNormalized(t *testing.T) {
	m := matrix.Matrix{
		{0, 4, 2},
		{4, 0, 8},
		{2, 8, 0},
	}
	n := matrix.ToNormalized(m)

	if n[1][2] != 1 {
		t.Errorf("max entry should normalize to 1, got %v", n[1][2])
	}
	if n[0][2] != 0.25 {
		t.Errorf("expected 2/8, got %v", n[0][2])
	}
	if m[1][2] != 8 {
		t.Error("source matrix must not be mutated")
	}
}

func TestToNormalizedIdentityOnUnitRange(t *testing.T) {
	m := matrix.Matrix{
		{0, 1, 0.25},
		{1, 0, 0.5},
		{0.25, 0.5, 0},
	}
	n := matrix.ToNormalized(m)
	for i := range m {
		for j := range m[i] {
			if math.Abs(n[i][j]-m[i][j]) > 1e-12 {
				t.Errorf("entry (%d,%d): expected identity, got %v", i, j, n[i][j])
			}
		}
	}
}

func TestToNormalizedAllZero(t *testing.T) {
	m := matrix.Matrix{{0, 0}, {0, 0}}
	n := matrix.ToNormalized(m)
	if n[0][1] != 0 || n[1][0] != 0 {
		t.Error("all-zero matrix should normalize to itself")
	}
}

func TestReadCSV(t *testing.T) {
	src := "0,1,0.5\n1,0,2\n0.5,2,0\n"
	rows, err := matrix.ReadCSV(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(rows) != 3 || len(rows[1]) != 3 {
		t.Fatalf("unexpected shape: %d rows", len(rows))
	}
	if rows[1][2] != 2 {
		t.Errorf("expected 2 at (1,2), got %v", rows[1][2])
	}
}

func TestReadCSVRejectsNonNumeric(t *testing.T) {
	src := "0,1\nx,0\n"
	_, err := matrix.ReadCSV(strings.NewReader(src))
	if err == nil {
		t.Fatal("expected parse error for non-numeric field")
	}
	if !errors.Is(err, matrix.ErrMalformedTable) {
		t.Errorf("expected ErrMalformedTable, got %v", err)
	}
}
