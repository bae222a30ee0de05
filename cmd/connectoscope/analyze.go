package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/connectoscope/connectoscope/internal/ingestion"
	"github.com/connectoscope/connectoscope/pkg/config"
	"github.com/connectoscope/connectoscope/pkg/matrix"
	"github.com/connectoscope/connectoscope/pkg/metrics"
	"github.com/connectoscope/connectoscope/pkg/params"
	"github.com/connectoscope/connectoscope/pkg/surface"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		pattern      string
		subject      string
		atlas        string
		measuresFile string
		outputDir    string
		outputFmt    string
	)

	cmd := &cobra.Command{
		Use:   "analyze <matrix.csv | directory>",
		Short: "Compute the standard measure suite for one or more connectomes",
		Long: `Reads headerless numeric CSV connectivity matrices, computes the measures
enabled in the measures file, and writes one result bundle per matrix.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(analyzeOpts{
				input:        args[0],
				pattern:      pattern,
				subject:      subject,
				atlas:        atlas,
				measuresFile: measuresFile,
				outputDir:    outputDir,
				outputFmt:    outputFmt,
			})
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "Glob pattern for matrix files in directory mode")
	cmd.Flags().StringVar(&subject, "subject", "", "Subject identifier (default: parent directory name)")
	cmd.Flags().StringVar(&atlas, "atlas", "", "Atlas / parcellation name recorded in bundles")
	cmd.Flags().StringVar(&measuresFile, "measures", "", "Path to the measures parameter file")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for result bundles (default: ~/.cache/connectoscope/bundles)")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")

	return cmd
}

type analyzeOpts struct {
	input        string
	pattern      string
	subject      string
	atlas        string
	measuresFile string
	outputDir    string
	outputFmt    string
}

func runAnalyze(opts analyzeOpts) error {
	cfg := loadConfig()
	pattern := firstNonEmpty(opts.pattern, cfg.Analysis.Pattern)
	atlas := firstNonEmpty(opts.atlas, cfg.Analysis.Atlas)
	outputDir := firstNonEmpty(opts.outputDir, config.BundleDir())

	info, err := os.Stat(opts.input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	var inputs []string
	measuresPath := opts.measuresFile
	if info.IsDir() {
		inputs, err = ingestion.DiscoverInputs(opts.input, pattern)
		if err != nil {
			return fmt.Errorf("discovering inputs: %w", err)
		}
		if len(inputs) == 0 {
			return fmt.Errorf("no matrices matching %q under %s", pattern, opts.input)
		}
		// The measures file conventionally sits next to the data.
		if measuresPath == "" {
			measuresPath = filepath.Join(opts.input, cfg.Analysis.MeasuresFile)
		}
	} else {
		inputs = []string{opts.input}
		if measuresPath == "" {
			measuresPath = filepath.Join(filepath.Dir(opts.input), cfg.Analysis.MeasuresFile)
		}
	}

	ps, err := params.ParseFile(measuresPath)
	if err != nil {
		return fmt.Errorf("parsing measures file: %w", err)
	}

	engine := metrics.NewEngine(metrics.StandardMetrics()...)

	var failed int
	for _, path := range inputs {
		if err := analyzeOne(engine, ps, path, opts, atlas, outputDir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", path, err)
			failed++
		}
	}

	if failed == len(inputs) {
		return fmt.Errorf("all %d inputs failed", len(inputs))
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d inputs failed\n", failed, len(inputs))
	}
	return nil
}

func analyzeOne(engine *metrics.Engine, ps params.ParameterSet, path string, opts analyzeOpts, atlas, outputDir string) error {
	rows, err := matrix.LoadCSV(path)
	if err != nil {
		return err
	}
	m, _, err := matrix.Validate(rows)
	if err != nil {
		return err
	}

	bundle, err := engine.Run(metrics.NewWorkspace(m), ps)
	if err != nil {
		return err
	}

	bundle.ID = uuid.NewString()
	bundle.Subject = firstNonEmpty(opts.subject, filepath.Base(filepath.Dir(path)))
	bundle.Atlas = atlas
	bundle.Source = path

	outPath := filepath.Join(outputDir, bundle.ID+".json")
	if err := metrics.SaveBundle(outPath, bundle); err != nil {
		return fmt.Errorf("saving bundle: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Bundle saved: %s\n", outPath)

	switch opts.outputFmt {
	case "json":
		renderer := &surface.JSONRenderer{}
		if err := renderer.Render(os.Stdout, bundle); err != nil {
			return fmt.Errorf("rendering: %w", err)
		}
	default:
		renderer := &surface.TerminalRenderer{}
		if err := renderer.Render(os.Stdout, bundle); err != nil {
			return fmt.Errorf("rendering: %w", err)
		}
	}
	return nil
}

func loadConfig() *config.Config {
	cwd, err := os.Getwd()
	if err != nil {
		return config.DefaultConfig()
	}
	cfgFile := config.FindConfigFile(cwd)
	if cfgFile == "" {
		return config.DefaultConfig()
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		return config.DefaultConfig()
	}
	return cfg
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// dumpJSON writes indented JSON to stdout.
func dumpJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
