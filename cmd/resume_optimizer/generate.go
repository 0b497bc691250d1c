package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-optimizer/internal/ingestion"
	"github.com/jonathan/resume-optimizer/internal/observability"
	"github.com/jonathan/resume-optimizer/internal/pipeline"
	"github.com/jonathan/resume-optimizer/internal/rendering"
	"github.com/jonathan/resume-optimizer/internal/resume"
	"github.com/jonathan/resume-optimizer/internal/schemas"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// cliRequester identifies CLI runs in the cache.
const cliRequester = "cli"

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Rewrite a resume into a template",
	Long: "Extracts a structured record from the resume, rewrites it for the job description " +
		"and prints it in the layout of the chosen template, as JSON or LaTeX.",
	RunE: runGenerate,
}

var (
	generateResumeFile      string
	generateJobFile         string
	generateSuggestionsFile string
	generateTemplate        string
	generateLaTeX           bool
	generateTemplateFile    string
	generateOutputFile      string
	generateVerbose         bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateResumeFile, "resume", "r", "", "Path to the resume file (required)")
	generateCmd.Flags().StringVarP(&generateJobFile, "job", "j", "", "Path to the job description file (required)")
	generateCmd.Flags().StringVarP(&generateSuggestionsFile, "suggestions", "s", "", "Path to a suggestions text file (optional)")
	generateCmd.Flags().StringVarP(&generateTemplate, "template", "t", schemas.Canonical, "Template ID")
	generateCmd.Flags().BoolVar(&generateLaTeX, "latex", false, "Print LaTeX instead of JSON")
	generateCmd.Flags().StringVar(&generateTemplateFile, "template-file", "", "Custom LaTeX template to render with (implies --latex)")
	generateCmd.Flags().StringVarP(&generateOutputFile, "out", "o", "", "Write output to this file instead of stdout")
	generateCmd.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Print progress and a record summary")

	_ = generateCmd.MarkFlagRequired("resume")
	_ = generateCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	if !schemas.Known(generateTemplate) {
		return &schemas.UnknownTemplateError{ID: generateTemplate}
	}

	resumeBytes, err := os.ReadFile(generateResumeFile)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}
	jobText, jobMeta, err := ingestion.IngestFromFile(generateJobFile)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}
	var suggestions string
	if generateSuggestionsFile != "" {
		data, err := os.ReadFile(generateSuggestionsFile)
		if err != nil {
			return fmt.Errorf("failed to read suggestions: %w", err)
		}
		suggestions = string(data)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	printer := observability.NewPrinter(cmd.ErrOrStderr())
	var opts []pipeline.Option
	if generateVerbose {
		printer.PrintDocument("JOB DESCRIPTION", jobMeta)
		opts = append(opts, pipeline.WithProgress(printer.PrintEvent))
	}
	svc, err := a.service(cmd.Context(), a.embedder(), opts...)
	if err != nil {
		return err
	}

	resp, err := svc.Generate(cmd.Context(), &types.GenerateRequest{
		RequesterID:    cliRequester,
		Filename:       filepath.Base(generateResumeFile),
		ResumeFile:     resumeBytes,
		JobDescription: jobText,
		AISuggestions:  suggestions,
		TemplateID:     generateTemplate,
	})
	if err != nil {
		return err
	}
	record, _ := resp.Record.(*resume.Map)
	if generateVerbose {
		printer.PrintRecord("GENERATED RECORD", record)
	}

	var output string
	switch {
	case generateTemplateFile != "":
		output, err = rendering.RenderLaTeXFile(generateTemplateFile, generateTemplate, record)
		if err != nil {
			return err
		}
	case generateLaTeX:
		output = resp.LaTeX
	default:
		data, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
		output = string(data) + "\n"
	}

	if generateOutputFile != "" {
		if err := os.WriteFile(generateOutputFile, []byte(output), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), output)
	return err
}
