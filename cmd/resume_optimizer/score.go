package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-optimizer/internal/ingestion"
	"github.com/jonathan/resume-optimizer/internal/observability"
	"github.com/jonathan/resume-optimizer/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume against a job description",
	Long:  "Computes the 0-100 match score between a resume file (.pdf, .docx, .html, .txt, .md) and a job description file.",
	RunE:  runScore,
}

var (
	scoreResumeFile string
	scoreJobFile    string
	scoreMode       string
	scoreVerbose    bool
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreResumeFile, "resume", "r", "", "Path to the resume file (required)")
	scoreCmd.Flags().StringVarP(&scoreJobFile, "job", "j", "", "Path to the job description file (required)")
	scoreCmd.Flags().StringVarP(&scoreMode, "mode", "m", string(scoring.ModeRaw), "Scoring mode: raw or optimized")
	scoreCmd.Flags().BoolVarP(&scoreVerbose, "verbose", "v", false, "Print the score breakdown")

	_ = scoreCmd.MarkFlagRequired("resume")
	_ = scoreCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	mode, ok := scoring.ParseMode(scoreMode)
	if !ok {
		return fmt.Errorf("invalid mode %q: must be raw or optimized", scoreMode)
	}

	resumeText, resumeMeta, err := ingestion.IngestFromFile(scoreResumeFile)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}
	jobText, jobMeta, err := ingestion.IngestFromFile(scoreJobFile)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.scorer(a.embedder()).Explain(cmd.Context(), resumeText, jobText, mode)
	if err != nil {
		return err
	}

	if scoreVerbose {
		printer := observability.NewPrinter(cmd.OutOrStdout())
		printer.PrintDocument("RESUME", resumeMeta)
		printer.PrintDocument("JOB DESCRIPTION", jobMeta)
		printer.PrintScore(res)
		return nil
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%.2f\n", res.Score)
	return err
}
