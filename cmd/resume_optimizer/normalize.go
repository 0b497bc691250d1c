package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-optimizer/internal/normalize"
	"github.com/jonathan/resume-optimizer/internal/resume"
	"github.com/jonathan/resume-optimizer/internal/schemas"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Convert a canonical resume record to a template layout",
	Long:  "Reads a canonical resume record (JSON) and prints the record shaped for the given template.",
	RunE:  runNormalize,
}

var (
	normalizeInput    string
	normalizeTemplate string
)

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeInput, "in", "i", "", "Path to the canonical record JSON file (required)")
	normalizeCmd.Flags().StringVarP(&normalizeTemplate, "template", "t", schemas.Canonical, "Target template ID")

	_ = normalizeCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	data, err := os.ReadFile(normalizeInput)
	if err != nil {
		return fmt.Errorf("failed to read record: %w", err)
	}

	// A record that is not a JSON object normalizes to the template defaults.
	var record any
	if parsed, err := resume.Parse(data); err != nil {
		a.logger.Warn().Err(err).Msg("input is not valid JSON, using an empty record")
	} else {
		record = parsed
	}
	if err := normalize.Inspect(record); err != nil {
		a.logger.Warn().Err(err).Msg("record replaced by template defaults")
	}

	view, err := normalize.Normalize(record, normalizeTemplate)
	if err != nil {
		return err
	}
	if err := schemas.Validate(normalizeTemplate, view); err != nil {
		a.logger.Warn().Err(err).Msg("normalized record does not match template schema")
	}

	out, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
