package metrics

import (
	"fmt"
	"time"

	"github.com/connectoscope/connectoscope/pkg/params"
)

// Metric is the interface every graph measure implements.
type Metric interface {
	// Key returns the machine-readable metric identifier, used for
	// failure reporting.
	Key() string
	// Name returns the human-readable metric name.
	Name() string
	// Compute evaluates the metric over the workspace and returns its
	// named measures. Compute must be pure over the workspace.
	Compute(ws *Workspace) ([]Measure, error)
}

// Engine runs configured metrics against a workspace and assembles a
// Bundle keyed by measure name.
type Engine struct {
	metrics []Metric
}

// NewEngine creates an engine with the given metrics.
func NewEngine(metrics ...Metric) *Engine {
	return &Engine{metrics: metrics}
}

// Run evaluates the suite, gated by the standard-measures flag in the
// parameter set. Each metric is isolated: a precondition failure lands in
// Bundle.Failed without aborting independent metrics. Results for the
// metrics present are identical regardless of which other metrics were
// requested.
func (e *Engine) Run(ws *Workspace, ps params.ParameterSet) (*Bundle, error) {
	if ws == nil {
		return nil, fmt.Errorf("workspace is nil")
	}

	bundle := &Bundle{
		Nodes:      ws.N,
		ComputedAt: time.Now().UTC(),
		Results:    make(map[string]Value),
	}

	if !ps.Flag(FlagStandardMeasures) {
		return bundle, nil
	}

	for _, m := range e.metrics {
		measures, err := m.Compute(ws)
		if err != nil {
			if bundle.Failed == nil {
				bundle.Failed = make(map[string]string)
			}
			bundle.Failed[m.Key()] = err.Error()
			continue
		}
		for _, meas := range measures {
			bundle.Results[meas.Name] = meas.Value
		}
	}

	return bundle, nil
}
