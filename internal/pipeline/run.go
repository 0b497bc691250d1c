// Package pipeline provides the high-level orchestration of the optimize and
// generate flows.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/jonathan/resume-optimizer/internal/cache"
	"github.com/jonathan/resume-optimizer/internal/extraction"
	"github.com/jonathan/resume-optimizer/internal/ingestion"
	"github.com/jonathan/resume-optimizer/internal/normalize"
	"github.com/jonathan/resume-optimizer/internal/rendering"
	"github.com/jonathan/resume-optimizer/internal/resume"
	"github.com/jonathan/resume-optimizer/internal/schemas"
	"github.com/jonathan/resume-optimizer/internal/scoring"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// Step names reported through ProgressEvent.
const (
	StepIngest    = "ingest"
	StepScore     = "score"
	StepSuggest   = "suggest"
	StepCache     = "cache"
	StepGenerate  = "generate"
	StepNormalize = "normalize"
	StepRender    = "render"
)

// ProgressEvent represents a progress update during a flow.
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when flow progress occurs.
type ProgressCallback func(event ProgressEvent)

// Service runs the optimize and generate flows over shared scorer, extractor
// and cache. It is safe for concurrent use.
type Service struct {
	scorer    *scoring.Scorer
	extractor *extraction.Extractor
	cache     *cache.Cache
	inflight  singleflight.Group
	logger    zerolog.Logger
	progress  ProgressCallback
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithProgress registers a progress callback.
func WithProgress(cb ProgressCallback) Option {
	return func(s *Service) { s.progress = cb }
}

// NewService creates a Service. A nil cache gets an in-memory one.
func NewService(scorer *scoring.Scorer, extractor *extraction.Extractor, c *cache.Cache, opts ...Option) *Service {
	s := &Service{
		scorer:    scorer,
		extractor: extractor,
		cache:     c,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = cache.New(nil, cache.WithLogger(s.logger))
	}
	return s
}

func (s *Service) emit(step, message string, content any) {
	if s.progress != nil {
		s.progress(ProgressEvent{Step: step, Message: message, Content: content})
	}
}

// Score explains the match between two texts in the given mode.
func (s *Service) Score(ctx context.Context, resumeText, jobDescription string, mode scoring.Mode) (*scoring.Result, error) {
	return s.scorer.Explain(ctx, resumeText, jobDescription, mode)
}

// Optimize scores the uploaded resume, asks for suggestions and scores the
// resume again with the suggestions appended. Raw scoring and suggestion
// generation run concurrently.
func (s *Service) Optimize(ctx context.Context, req *types.OptimizeRequest) (*types.OptimizeResponse, error) {
	text, err := ingestion.Extract(req.Filename, req.ResumeFile)
	if err != nil {
		return nil, err
	}
	s.emit(StepIngest, fmt.Sprintf("extracted %d characters from %s", len(text), req.Filename),
		ingestion.NewMetadata(req.Filename, req.ResumeFile, text))

	var (
		raw         float64
		suggestions string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		score, err := s.scorer.Score(gctx, text, req.JobDescription, scoring.ModeRaw)
		if err != nil {
			return fmt.Errorf("raw scoring failed: %w", err)
		}
		raw = score
		return nil
	})
	g.Go(func() error {
		out, err := s.extractor.Suggest(gctx, text, req.JobDescription)
		if err != nil {
			return err
		}
		suggestions = out
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.emit(StepScore, fmt.Sprintf("raw score %.2f", raw), raw)
	s.emit(StepSuggest, "suggestions generated", suggestions)

	optimized, err := s.scorer.Score(ctx, text+"\n\n"+suggestions, req.JobDescription, scoring.ModeOptimized)
	if err != nil {
		return nil, fmt.Errorf("optimized scoring failed: %w", err)
	}
	s.emit(StepScore, fmt.Sprintf("optimized score %.2f", optimized), optimized)

	s.logger.Info().
		Str("requester", req.RequesterID).
		Float64("match_score", raw).
		Float64("optimized_score", optimized).
		Msg("optimize complete")

	return &types.OptimizeResponse{
		MatchScore:     raw,
		OptimizedScore: optimized,
		AISuggestions:  suggestions,
		ResumeText:     text,
	}, nil
}

// Generate returns the resume in the layout of req.TemplateID, rendered to
// LaTeX. The canonical record comes from the cache when the request's
// fingerprint was seen before; otherwise it is generated once, even under
// concurrent identical requests, and stored.
func (s *Service) Generate(ctx context.Context, req *types.GenerateRequest) (*types.GenerateResponse, error) {
	if !schemas.Known(req.TemplateID) {
		return nil, &schemas.UnknownTemplateError{ID: req.TemplateID}
	}

	key := cache.Fingerprint(req.RequesterID, req.ResumeFile, req.JobDescription, req.AISuggestions)
	record, source := s.cache.Lookup(ctx, req.RequesterID, key)
	cached := source != cache.Miss
	s.emit(StepCache, fmt.Sprintf("cache lookup: %s", source), nil)

	if !cached {
		// Joined callers must not inherit the first caller's cancellation;
		// each caller still stops waiting when its own ctx is done.
		detached := context.WithoutCancel(ctx)
		ch := s.inflight.DoChan(key, func() (any, error) {
			return s.generateRecord(detached, req, key)
		})
		var res singleflight.Result
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res = <-ch:
		}
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug().Str("requester", req.RequesterID).Msg("joined in-flight generation")
		}
		// the record may be shared with other callers
		record = res.Val.(*resume.Map).Clone()
	}

	view, err := normalize.Normalize(record, req.TemplateID)
	if err != nil {
		return nil, err
	}
	if err := schemas.Validate(req.TemplateID, view); err != nil {
		s.logger.Warn().Err(err).Str("template", req.TemplateID).Msg("normalized record does not match template schema")
	}
	s.emit(StepNormalize, "normalized for "+req.TemplateID, view)

	latex, err := rendering.RenderLaTeX(req.TemplateID, view)
	if err != nil {
		return nil, err
	}
	s.emit(StepRender, fmt.Sprintf("rendered %d bytes of LaTeX", len(latex)), nil)

	return &types.GenerateResponse{
		TemplateID: req.TemplateID,
		Record:     view,
		LaTeX:      latex,
		Cached:     cached,
	}, nil
}

// generateRecord runs the two-step generation and stores the canonical
// record. A store failure is logged; the record is still returned.
func (s *Service) generateRecord(ctx context.Context, req *types.GenerateRequest, key string) (*resume.Map, error) {
	text, err := ingestion.Extract(req.Filename, req.ResumeFile)
	if err != nil {
		return nil, err
	}
	s.emit(StepIngest, fmt.Sprintf("extracted %d characters from %s", len(text), req.Filename),
		ingestion.NewMetadata(req.Filename, req.ResumeFile, text))

	example, err := schemas.Example(schemas.Canonical)
	if err != nil {
		return nil, err
	}
	result, err := s.extractor.Generate(ctx, extraction.Request{
		ResumeText:     text,
		JobDescription: req.JobDescription,
		Suggestions:    req.AISuggestions,
		SchemaExample:  example,
	})
	if err != nil {
		return nil, err
	}
	s.emit(StepGenerate, fmt.Sprintf("record generated (rewritten: %t)", result.Rewritten), nil)

	if err := normalize.Inspect(result.Record); err != nil {
		s.logger.Warn().Err(err).Msg("generated record replaced by defaults")
	}
	record := normalize.Canonicalize(result.Record)

	if err := s.cache.Put(ctx, req.RequesterID, key, record); err != nil {
		s.logger.Warn().Err(err).Str("requester", req.RequesterID).Msg("cache store write failed")
	}
	return record, nil
}

// ClearCache removes every cached record of requesterID.
func (s *Service) ClearCache(ctx context.Context, requesterID string) (int, error) {
	n, err := s.cache.InvalidateFor(ctx, requesterID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	s.logger.Info().Str("requester", requesterID).Int("removed", n).Msg("cache cleared")
	return n, nil
}
