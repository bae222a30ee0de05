package surface

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/connectoscope/connectoscope/pkg/metrics"
)

// TerminalRenderer renders a metric bundle as colored terminal output.
// Scalar measures print directly; vectors and matrices are summarized.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorBold  = "\033[1m"
	colorDim   = "\033[2m"
)

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func red(s string) string {
	if noColor() {
		return s
	}
	return colorRed + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, bundle *metrics.Bundle) error {
	// Header
	header := fmt.Sprintf("Connectoscope: %d nodes", bundle.Nodes)
	if bundle.Subject != "" {
		header += fmt.Sprintf(", subject %s", bundle.Subject)
	}
	if bundle.Atlas != "" {
		header += fmt.Sprintf(", atlas %s", bundle.Atlas)
	}
	fmt.Fprintf(w, "%s\n\n", bold(header))

	if len(bundle.Results) == 0 {
		fmt.Fprintln(w, "No measures computed (standard measures flag not set).")
		return nil
	}

	names := make([]string, 0, len(bundle.Results))
	for name := range bundle.Results {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "Measures:")
	for _, name := range names {
		fmt.Fprintf(w, "  %-28s %s\n", name, describeValue(bundle.Results[name]))
	}
	fmt.Fprintln(w)

	if len(bundle.Failed) > 0 {
		keys := make([]string, 0, len(bundle.Failed))
		for k := range bundle.Failed {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprintln(w, "Failed:")
		for _, k := range keys {
			fmt.Fprintf(w, "  %s %s: %s\n", red("✗"), bold(k), dim(bundle.Failed[k]))
		}
		fmt.Fprintln(w)
	}

	return nil
}

// describeValue formats a scalar directly and summarizes vectors and
// matrices by shape and finite mean.
func describeValue(v metrics.Value) string {
	if x, ok := v.Float(); ok {
		return fmt.Sprintf("%.6g", x)
	}
	if vec, ok := v.Vec(); ok {
		return fmt.Sprintf("vector[%d], mean %.6g", len(vec), finiteMean(vec))
	}
	if mat, ok := v.Mat(); ok {
		sum, count := 0.0, 0
		for _, row := range mat {
			m := finiteMean(row)
			if !math.IsNaN(m) {
				sum += m
				count++
			}
		}
		mean := math.NaN()
		if count > 0 {
			mean = sum / float64(count)
		}
		return fmt.Sprintf("matrix[%dx%d], row mean %.6g", len(mat), len(mat), mean)
	}
	return "?"
}

func finiteMean(v []float64) float64 {
	sum, count := 0.0, 0
	for _, x := range v {
		if math.IsInf(x, 0) || math.IsNaN(x) {
			continue
		}
		sum += x
		count++
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}
