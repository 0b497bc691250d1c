// Package scoring computes a 0-100 compatibility score between a resume and
// a job description from sentence embeddings and domain keywords.
package scoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/embedding"
	"github.com/rs/zerolog"
)

// EmbeddingError is returned when neither sentence-level nor whole-document
// embedding succeeded.
type EmbeddingError struct {
	Message string
	Cause   error
}

func (e *EmbeddingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *EmbeddingError) Unwrap() error {
	return e.Cause
}

// Result is the full breakdown of one score computation.
type Result struct {
	Mode       Mode     `json:"mode"`
	Base       float64  `json:"base_similarity"`
	Fallback   bool     `json:"document_fallback"`
	Domain     string   `json:"domain,omitempty"`
	Matched    []string `json:"matched_keywords,omitempty"`
	Boost      float64  `json:"keyword_boost"`
	Combined   float64  `json:"combined"`
	Compressed float64  `json:"compressed"`
	Score      float64  `json:"score"`
	Adjusted   bool     `json:"display_adjusted"`
}

// Scorer computes match scores. It is safe for concurrent use.
type Scorer struct {
	embedder embedding.Embedder
	splitter *Splitter
	domains  []Domain
	shaper   Shaper
	logger   zerolog.Logger
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithDomains replaces the domain table. Order decides ties.
func WithDomains(domains []Domain) Option {
	return func(s *Scorer) {
		if len(domains) > 0 {
			s.domains = domains
		}
	}
}

// WithShaper replaces the display-shaping stage.
func WithShaper(shaper Shaper) Option {
	return func(s *Scorer) {
		if shaper != nil {
			s.shaper = shaper
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scorer) { s.logger = logger }
}

// WithSplitter shares a sentence splitter between scorers.
func WithSplitter(splitter *Splitter) Option {
	return func(s *Scorer) {
		if splitter != nil {
			s.splitter = splitter
		}
	}
}

// New creates a Scorer backed by embedder.
func New(embedder embedding.Embedder, opts ...Option) *Scorer {
	s := &Scorer{
		embedder: embedder,
		splitter: NewSplitter(),
		domains:  DefaultDomains,
		shaper:   DisplayOverrides,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score returns the display score for the pair in the given mode.
func (s *Scorer) Score(ctx context.Context, resumeText, jobDescription string, mode Mode) (float64, error) {
	res, err := s.Explain(ctx, resumeText, jobDescription, mode)
	if err != nil {
		return 0, err
	}
	return res.Score, nil
}

// Explain computes the score and returns every intermediate value. Empty or
// whitespace-only input scores 0 without calling the embedder.
func (s *Scorer) Explain(ctx context.Context, resumeText, jobDescription string, mode Mode) (*Result, error) {
	res := &Result{Mode: mode}
	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jobDescription) == "" {
		return res, nil
	}

	base, fallback, err := s.baseSimilarity(ctx, resumeText, jobDescription)
	if err != nil {
		return nil, err
	}
	res.Base = base
	res.Fallback = fallback

	if domain, ok := DetectDomain(jobDescription, s.domains); ok {
		res.Domain = domain.Name
		res.Boost, res.Matched = KeywordBoost(resumeText, jobDescription, domain)
	}

	res.Combined = Combine(res.Base, res.Boost)
	res.Compressed = Compress(res.Combined)
	shaped := s.shaper(res.Compressed, mode)
	res.Adjusted = shaped != res.Compressed
	res.Score = Finalize(shaped)

	s.logger.Debug().
		Str("mode", string(mode)).
		Str("domain", res.Domain).
		Float64("base", res.Base).
		Strs("matched", res.Matched).
		Float64("combined", res.Combined).
		Bool("adjusted", res.Adjusted).
		Float64("score", res.Score).
		Msg("match score computed")
	return res, nil
}

// baseSimilarity averages, over resume sentences, the best cosine against any
// job-description sentence. If the sentence batch fails it compares whole
// documents instead.
func (s *Scorer) baseSimilarity(ctx context.Context, resumeText, jobDescription string) (float64, bool, error) {
	resumeSents := s.splitter.Split(resumeText)
	jdSents := s.splitter.Split(jobDescription)

	base, err := s.sentenceSimilarity(ctx, resumeSents, jdSents)
	if err == nil {
		return base, false, nil
	}
	s.logger.Warn().Err(err).Msg("sentence embedding failed, comparing whole documents")

	vecs, docErr := s.embedder.Embed(ctx, []string{resumeText, jobDescription})
	if docErr != nil {
		return 0, true, &EmbeddingError{Message: "failed to embed documents", Cause: docErr}
	}
	if len(vecs) != 2 {
		return 0, true, &EmbeddingError{Message: fmt.Sprintf("expected 2 document embeddings, got %d", len(vecs))}
	}
	return embedding.Cosine(vecs[0], vecs[1]), true, nil
}

func (s *Scorer) sentenceSimilarity(ctx context.Context, resumeSents, jdSents []string) (float64, error) {
	if len(resumeSents) == 0 || len(jdSents) == 0 {
		return 0, fmt.Errorf("no sentences to embed")
	}
	batch := make([]string, 0, len(resumeSents)+len(jdSents))
	batch = append(batch, resumeSents...)
	batch = append(batch, jdSents...)

	vecs, err := s.embedder.Embed(ctx, batch)
	if err != nil {
		return 0, err
	}
	if len(vecs) != len(batch) {
		return 0, fmt.Errorf("expected %d sentence embeddings, got %d", len(batch), len(vecs))
	}
	return MeanMaxSimilarity(vecs[:len(resumeSents)], vecs[len(resumeSents):]), nil
}

// MeanMaxSimilarity returns the mean over rows of the best cosine similarity
// against any column vector.
func MeanMaxSimilarity(rows, cols [][]float32) float64 {
	if len(rows) == 0 || len(cols) == 0 {
		return 0
	}
	var sum float64
	for _, r := range rows {
		best := embedding.Cosine(r, cols[0])
		for _, c := range cols[1:] {
			if sim := embedding.Cosine(r, c); sim > best {
				best = sim
			}
		}
		sum += best
	}
	return sum / float64(len(rows))
}
