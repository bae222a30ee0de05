package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/connectoscope/connectoscope/pkg/matrix"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <matrix.csv>",
		Short: "Check that a CSV file is a valid connectivity matrix",
		Long: `Reads a headerless numeric CSV and verifies it is square with finite,
non-negative weights. Exits non-zero with the offending entry on failure.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
	return cmd
}

func runValidate(path string) error {
	rows, err := matrix.LoadCSV(path)
	if err != nil {
		return err
	}

	m, n, err := matrix.Validate(rows)
	if err != nil {
		return err
	}

	edges := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if m[i][j] != 0 {
				edges++
			}
		}
	}

	fmt.Fprintf(os.Stdout, "%s: OK\n", path)
	fmt.Fprintf(os.Stdout, "  Nodes:      %d\n", n)
	fmt.Fprintf(os.Stdout, "  Edges:      %d\n", edges)
	fmt.Fprintf(os.Stdout, "  Max weight: %g\n", m.Max())
	return nil
}
