// Package main provides the connectoscope CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "connectoscope",
		Short: "Graph-theoretical measures for brain connectivity matrices",
		Long: `Connectoscope reads weighted connectivity matrices, computes the standard
suite of network measures, and writes result bundles.`,
		Version: version,
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newValidateCmd(),
		newParamsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
