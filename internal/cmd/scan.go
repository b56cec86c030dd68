package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dativo-io/shroud/internal/config"
	"github.com/dativo-io/shroud/internal/engine"
	"github.com/dativo-io/shroud/internal/pipeline"
)

var (
	scanIn      string
	scanOut     string
	scanRules   string
	scanWorkers int
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Classify and redact a delimited record file",
	Long: `Scan reads rows with record_id and data_json columns, runs each
field map through the classification and redaction engine, and writes
record_id, redacted_data_json, is_pii rows. Use "-" for stdin/stdout.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanIn, "in", "", "input file (required, \"-\" for stdin)")
	scanCmd.Flags().StringVar(&scanOut, "out", "-", "output file (\"-\" for stdout)")
	scanCmd.Flags().StringVar(&scanRules, "rules", "", "recognizer rules file layered over the embedded defaults")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 0, "worker goroutines (default from config)")
	_ = scanCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, _ []string) error {
	ctx, span := tracer.Start(cmd.Context(), "scan")
	defer span.End()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if scanRules == "" {
		scanRules = cfg.RulesFile
	}
	if scanWorkers <= 0 {
		scanWorkers = cfg.Workers
	}

	var opts []engine.Option
	if scanRules != "" {
		opts = append(opts, engine.WithRulesFile(scanRules))
	}
	eng, err := engine.New(opts...)
	if err != nil {
		return err
	}

	in, closeIn, err := openInput(scanIn)
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := openOutput(scanOut)
	if err != nil {
		return err
	}

	stats, err := pipeline.Run(ctx, in, out, eng, scanWorkers)
	if err != nil {
		_ = closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "OK: %d records, %d pii, %d malformed\n",
		stats.Records, stats.PII, stats.Malformed)
	return nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output: %w", err)
	}
	return f, f.Close, nil
}
