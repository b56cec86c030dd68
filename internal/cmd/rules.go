package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dativo-io/shroud/internal/engine"
)

var rulesShowFile string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and validate recognizer rules",
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a recognizer rules file",
	Long:  "Validates a rules file against the recognizer schema and compiles it over the embedded defaults",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, span := tracer.Start(cmd.Context(), "rules.validate")
		defer span.End()

		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading rules file: %w", err)
		}

		if err := engine.ValidateRecognizerDocument(data); err != nil {
			log.Error().Err(err).Str("file", path).Msg("rules_validation_failed")
			fmt.Fprintf(cmd.ErrOrStderr(), "✗ Validation failed: %s\n", path)
			return fmt.Errorf("validation failed: %w", err)
		}

		// Compiling over the defaults catches bad regexes and unknown
		// kinds that a purely structural schema check cannot.
		if _, err := engine.New(engine.WithRulesFile(path)); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "✗ Compilation failed: %s\n", path)
			return fmt.Errorf("rules compilation failed: %w", err)
		}

		file, err := engine.LoadRecognizerFile(path)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Rules valid: %s\n", path)
		fmt.Fprintf(cmd.OutOrStdout(), "  Recognizers: %d\n", len(file.Recognizers))
		return nil
	},
}

var rulesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the merged recognizer set",
	Long:  "Prints the effective recognizers after layering an optional rules file over the embedded defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, span := tracer.Start(cmd.Context(), "rules.show")
		defer span.End()

		defaults, err := engine.DefaultRecognizers()
		if err != nil {
			return err
		}

		layers := [][]engine.RecognizerConfig{defaults}
		if rulesShowFile != "" {
			file, err := engine.LoadRecognizerFile(rulesShowFile)
			if err != nil {
				return err
			}
			if file != nil {
				layers = append(layers, file.Recognizers)
			}
		}

		merged := engine.MergeRecognizers(layers...)
		out, err := yaml.Marshal(engine.RecognizerFile{Recognizers: merged})
		if err != nil {
			return fmt.Errorf("rendering recognizers: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rulesShowCmd.Flags().StringVar(&rulesShowFile, "rules", "", "recognizer rules file layered over the embedded defaults")

	rulesCmd.AddCommand(rulesValidateCmd)
	rulesCmd.AddCommand(rulesShowCmd)
	rootCmd.AddCommand(rulesCmd)
}
