// Package extraction turns free resume text into a structured record with a
// two-step protocol against the generation service: a literal extraction
// followed by a tone and keyword rewrite of the extracted values.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/prompts"
	"github.com/jonathan/resume-optimizer/internal/resume"
	"github.com/rs/zerolog"
)

// Extractor runs extraction, rewrite and suggestion prompts.
type Extractor struct {
	gen    llm.Generator
	logger zerolog.Logger
}

// New creates an Extractor.
func New(gen llm.Generator, logger zerolog.Logger) *Extractor {
	return &Extractor{gen: gen, logger: logger}
}

// Request carries the inputs of a full generation.
type Request struct {
	ResumeText     string
	JobDescription string
	Suggestions    string
	// SchemaExample is the JSON structure the model fills in.
	SchemaExample string
}

// Result is a generated record. When the rewrite step failed, Record is the
// extracted record and RewriteErr says why.
type Result struct {
	Record     *resume.Map
	Rewritten  bool
	RewriteErr error
}

// Generate runs extraction then rewrite. Only an extraction failure or an
// unreachable service during extraction is returned as an error.
func (e *Extractor) Generate(ctx context.Context, req Request) (*Result, error) {
	base, err := e.Extract(ctx, req.ResumeText, req.SchemaExample)
	if err != nil {
		return nil, err
	}

	rewritten, err := e.Rewrite(ctx, base, req.JobDescription, req.Suggestions)
	if err != nil {
		e.logger.Warn().Err(err).Msg("rewrite failed, using extracted record")
		return &Result{Record: base, RewriteErr: err}, nil
	}
	return &Result{Record: rewritten, Rewritten: true}, nil
}

// Extract fills example with information from resumeText.
func (e *Extractor) Extract(ctx context.Context, resumeText, example string) (*resume.Map, error) {
	if strings.TrimSpace(example) == "" {
		example = "{}"
	}
	user, err := prompts.Render(prompts.ResumeFile, "extraction-user", map[string]string{
		"Structure":  example,
		"ResumeText": resumeText,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build extraction prompt: %w", err)
	}
	messages := []llm.Message{
		llm.System(prompts.MustGet(prompts.ResumeFile, "extraction-system")),
		llm.User(user),
	}

	raw := e.gen.Generate(ctx, messages, true)
	if llm.IsSentinel(raw, true) {
		return nil, &llm.GenerationUnavailableError{Step: "extraction"}
	}

	record, err := parseRecord(raw)
	if err != nil {
		return nil, &ExtractionError{Message: "model output is not a JSON object", Raw: raw, Cause: err}
	}
	e.logger.Debug().Int("fields", record.Len()).Msg("extraction complete")
	return record, nil
}

// Rewrite asks the model to polish the string values of record for the job.
// The reply is accepted only where it keeps the record's structure.
func (e *Extractor) Rewrite(ctx context.Context, record *resume.Map, jobDescription, suggestions string) (*resume.Map, error) {
	body, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, &RewriteError{Message: "failed to encode record", Cause: err}
	}
	if strings.TrimSpace(suggestions) == "" {
		suggestions = "(none)"
	}
	user, err := prompts.Render(prompts.ResumeFile, "rewrite-user", map[string]string{
		"JobDescription": jobDescription,
		"Suggestions":    suggestions,
		"Record":         string(body),
	})
	if err != nil {
		return nil, &RewriteError{Message: "failed to build rewrite prompt", Cause: err}
	}
	messages := []llm.Message{
		llm.System(prompts.MustGet(prompts.ResumeFile, "rewrite-system")),
		llm.User(user),
	}

	raw := e.gen.Generate(ctx, messages, true)
	if llm.IsSentinel(raw, true) {
		return nil, &RewriteError{Message: "generation unavailable", Raw: raw, Cause: &llm.GenerationUnavailableError{Step: "rewrite"}}
	}

	candidate, err := parseRecord(raw)
	if err != nil {
		return nil, &RewriteError{Message: "model output is not a JSON object", Raw: raw, Cause: err}
	}

	merged, deviations := conform(record, candidate)
	if deviations > 0 {
		e.logger.Warn().Int("deviations", deviations).Msg("rewrite changed record structure, kept extracted values there")
	}
	return merged.(*resume.Map), nil
}

// Suggest asks for short improvement suggestions for resumeText against the job.
func (e *Extractor) Suggest(ctx context.Context, resumeText, jobDescription string) (string, error) {
	user, err := prompts.Render(prompts.ResumeFile, "suggestions-user", map[string]string{
		"ResumeText":     resumeText,
		"JobDescription": jobDescription,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build suggestions prompt: %w", err)
	}
	messages := []llm.Message{
		llm.System(prompts.MustGet(prompts.ResumeFile, "suggestions-system")),
		llm.User(user),
	}

	raw := e.gen.Generate(ctx, messages, false)
	if llm.IsSentinel(raw, false) {
		return "", &llm.GenerationUnavailableError{Step: "suggestions"}
	}
	return strings.TrimSpace(raw), nil
}

func parseRecord(raw string) (*resume.Map, error) {
	repaired, err := llm.RepairJSON(raw)
	if err != nil {
		return nil, err
	}
	return resume.ParseMap([]byte(repaired))
}

// conform overlays candidate onto base without changing base's shape: keys,
// list lengths and value kinds come from base, strings may come from
// candidate. It returns the merged value and the number of places where
// candidate did not fit.
func conform(base, candidate any) (any, int) {
	switch b := base.(type) {
	case *resume.Map:
		c, ok := candidate.(*resume.Map)
		if !ok {
			return b.Clone(), 1
		}
		out := resume.NewMap()
		deviations := 0
		for _, k := range b.Keys() {
			bv, _ := b.Get(k)
			cv, ok := c.Get(k)
			if !ok {
				out.Set(k, resume.CloneValue(bv))
				deviations++
				continue
			}
			v, d := conform(bv, cv)
			out.Set(k, v)
			deviations += d
		}
		for _, k := range c.Keys() {
			if _, ok := b.Get(k); !ok {
				deviations++
			}
		}
		return out, deviations
	case []any:
		c, ok := candidate.([]any)
		if !ok || len(c) != len(b) {
			return resume.CloneValue(b), 1
		}
		out := make([]any, len(b))
		deviations := 0
		for i := range b {
			v, d := conform(b[i], c[i])
			out[i] = v
			deviations += d
		}
		return out, deviations
	case string:
		if c, ok := candidate.(string); ok {
			return c, 0
		}
		return b, 1
	default:
		return base, 0
	}
}
