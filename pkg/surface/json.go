package surface

import (
	"encoding/json"
	"io"

	"github.com/connectoscope/connectoscope/pkg/metrics"
)

// JSONRenderer marshals a bundle to indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, bundle *metrics.Bundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(bundle)
}
