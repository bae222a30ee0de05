// Package surface defines output rendering interfaces for Connectoscope
// results. Implementations handle different output targets: terminal, JSON.
package surface

import (
	"io"

	"github.com/connectoscope/connectoscope/pkg/metrics"
)

// Renderer produces formatted output from a metric bundle.
type Renderer interface {
	// Render writes the formatted bundle to the writer.
	Render(w io.Writer, bundle *metrics.Bundle) error
}
