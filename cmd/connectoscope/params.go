package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/connectoscope/connectoscope/pkg/params"
)

func newParamsCmd() *cobra.Command {
	var outputFmt string

	cmd := &cobra.Command{
		Use:   "params <measures.txt>",
		Short: "Parse a measures parameter file and print the resolved values",
		Long: `Resolves every line of a measures file, expanding (start;step;end) ranges,
and prints the result. Useful for checking what a run would actually enable.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParams(args[0], outputFmt)
		},
	}

	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")

	return cmd
}

func runParams(path, outputFmt string) error {
	ps, err := params.ParseFile(path)
	if err != nil {
		return err
	}

	if outputFmt == "json" {
		return dumpJSON(ps)
	}

	labels := make([]string, 0, len(ps))
	for label := range ps {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		fmt.Fprintf(os.Stdout, "%s = %s\n", label, formatValue(ps[label]))
	}
	return nil
}

func formatValue(v params.Value) string {
	if s, ok := v.Text(); ok {
		return s
	}
	if n, ok := v.Number(); ok {
		return fmt.Sprintf("%g", n)
	}
	parts := make([]string, 0, len(v.Values()))
	for _, e := range v.Values() {
		parts = append(parts, formatValue(e))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
