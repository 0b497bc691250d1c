package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-optimizer/internal/cache"
	"github.com/jonathan/resume-optimizer/internal/embedding"
	"github.com/jonathan/resume-optimizer/internal/extraction"
	"github.com/jonathan/resume-optimizer/internal/ingestion"
	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/resume"
	"github.com/jonathan/resume-optimizer/internal/schemas"
	"github.com/jonathan/resume-optimizer/internal/scoring"
	"github.com/jonathan/resume-optimizer/internal/types"
)

const (
	resumeText = "Experienced Python developer with 5 years in data analysis and cloud computing"
	jobText    = "Looking for a cloud computing expert with AWS experience"

	extractedJSON = `{"name":"Ada Lovelace","contact":{"Email":"ada@example.com"},"summary":"Python developer.",
		"experience":[{"role":"Developer","company":"Acme | 2020 - 2024 | Berlin","duties":["Built pipelines"]}],
		"skills":{"Languages":["Python","Go"]}}`
	rewrittenJSON = `{"name":"Ada Lovelace","contact":{"Email":"ada@example.com"},"summary":"Cloud-focused Python engineer.",
		"experience":[{"role":"Software Engineer","company":"Acme | 2020 - 2024 | Berlin","duties":["Engineered AWS data pipelines"]}],
		"skills":{"Languages":["Python","Go"]}}`
)

// routingGenerator answers by prompt kind and counts calls. It is safe for
// concurrent use.
type routingGenerator struct {
	extraction  string
	rewrite     string
	suggestions string

	mu    sync.Mutex
	calls map[string]int
}

func newGenerator() *routingGenerator {
	return &routingGenerator{
		extraction:  extractedJSON,
		rewrite:     rewrittenJSON,
		suggestions: "- Mention AWS certifications",
		calls:       map[string]int{},
	}
}

func (g *routingGenerator) Generate(_ context.Context, messages []llm.Message, jsonMode bool) string {
	system := messages[0].Content
	kind := "suggestions"
	switch {
	case strings.Contains(system, "data extraction"):
		kind = "extraction"
	case strings.Contains(system, "resume writer"):
		kind = "rewrite"
	}

	g.mu.Lock()
	g.calls[kind]++
	g.mu.Unlock()

	reply := map[string]string{
		"extraction":  g.extraction,
		"rewrite":     g.rewrite,
		"suggestions": g.suggestions,
	}[kind]
	if reply == "" {
		return llm.Sentinel(jsonMode)
	}
	return reply
}

func (g *routingGenerator) count(kind string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[kind]
}

func constantEmbedder() embedding.Func {
	return func(_ context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = []float32{1, 0}
		}
		return out, nil
	}
}

func newTestService(gen llm.Generator, store cache.Store) *Service {
	scorer := scoring.New(constantEmbedder())
	extractor := extraction.New(gen, zerolog.Nop())
	return NewService(scorer, extractor, cache.New(store))
}

func generateRequest(templateID string) *types.GenerateRequest {
	return &types.GenerateRequest{
		RequesterID:    "user-1",
		Filename:       "resume.txt",
		ResumeFile:     []byte(resumeText),
		JobDescription: jobText,
		AISuggestions:  "- Mention AWS",
		TemplateID:     templateID,
	}
}

func TestOptimize_ScoresBeforeAndAfterSuggestions(t *testing.T) {
	gen := newGenerator()
	svc := newTestService(gen, nil)

	resp, err := svc.Optimize(context.Background(), &types.OptimizeRequest{
		RequesterID:    "user-1",
		Filename:       "resume.txt",
		ResumeFile:     []byte(resumeText),
		JobDescription: jobText,
	})
	require.NoError(t, err)

	// identical embeddings: 75 similarity points plus half the Cloud keywords
	assert.Equal(t, 87.5, resp.MatchScore)
	// the suggestions add "aws": 100 compresses to 92.5
	assert.Equal(t, 92.5, resp.OptimizedScore)
	assert.Equal(t, "- Mention AWS certifications", resp.AISuggestions)
	assert.Equal(t, resumeText, resp.ResumeText)
	assert.Equal(t, 1, gen.count("suggestions"))
}

func TestOptimize_SuggestionsUnavailable(t *testing.T) {
	gen := newGenerator()
	gen.suggestions = ""
	svc := newTestService(gen, nil)

	_, err := svc.Optimize(context.Background(), &types.OptimizeRequest{
		RequesterID: "u", Filename: "resume.txt", ResumeFile: []byte(resumeText), JobDescription: jobText,
	})
	var unavailable *llm.GenerationUnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestOptimize_UnsupportedFormat(t *testing.T) {
	svc := newTestService(newGenerator(), nil)

	_, err := svc.Optimize(context.Background(), &types.OptimizeRequest{
		RequesterID: "u", Filename: "resume.odt", ResumeFile: []byte("x"), JobDescription: jobText,
	})
	var unsupported *ingestion.UnsupportedFormatError
	assert.ErrorAs(t, err, &unsupported)
}

func TestGenerate_RendersRewrittenRecord(t *testing.T) {
	gen := newGenerator()
	svc := newTestService(gen, nil)

	var steps []string
	var ingested *ingestion.Metadata
	svc.progress = func(e ProgressEvent) {
		steps = append(steps, e.Step)
		if e.Step == StepIngest {
			ingested, _ = e.Content.(*ingestion.Metadata)
		}
	}

	resp, err := svc.Generate(context.Background(), generateRequest(schemas.Template1))
	require.NoError(t, err)
	require.NotNil(t, ingested)
	assert.Equal(t, "resume.txt", ingested.Filename)
	assert.Equal(t, len(resumeText), ingested.Bytes)

	assert.False(t, resp.Cached)
	assert.Equal(t, schemas.Template1, resp.TemplateID)
	record := resp.Record.(*resume.Map)
	assert.Equal(t, "Cloud-focused Python engineer.", record.Text("summary"))
	assert.Contains(t, resp.LaTeX, "Ada Lovelace")
	assert.Contains(t, resp.LaTeX, "Engineered AWS data pipelines")
	assert.Equal(t, []string{StepCache, StepIngest, StepGenerate, StepNormalize, StepRender}, steps)
}

func TestGenerate_SecondRequestIsCached(t *testing.T) {
	gen := newGenerator()
	svc := newTestService(gen, nil)
	ctx := context.Background()

	_, err := svc.Generate(ctx, generateRequest(schemas.Template1))
	require.NoError(t, err)

	// same inputs, different layout: the canonical record is reused
	resp, err := svc.Generate(ctx, generateRequest(schemas.Template4))
	require.NoError(t, err)
	assert.True(t, resp.Cached)
	assert.Equal(t, 1, gen.count("extraction"))
	assert.Equal(t, 1, gen.count("rewrite"))

	record := resp.Record.(*resume.Map)
	assert.Equal(t, "Cloud-focused Python engineer.", record.Text("profile_summary"))
}

func TestGenerate_DifferentSuggestionsMiss(t *testing.T) {
	gen := newGenerator()
	svc := newTestService(gen, nil)
	ctx := context.Background()

	_, err := svc.Generate(ctx, generateRequest(schemas.Template1))
	require.NoError(t, err)

	req := generateRequest(schemas.Template1)
	req.AISuggestions = "- something else"
	resp, err := svc.Generate(ctx, req)
	require.NoError(t, err)
	assert.False(t, resp.Cached)
	assert.Equal(t, 2, gen.count("extraction"))
}

func TestGenerate_RewriteFailureFallsBackToExtraction(t *testing.T) {
	gen := newGenerator()
	gen.rewrite = "I cannot help with that"
	svc := newTestService(gen, nil)

	resp, err := svc.Generate(context.Background(), generateRequest(schemas.Template1))
	require.NoError(t, err)

	record := resp.Record.(*resume.Map)
	assert.Equal(t, "Python developer.", record.Text("summary"))
}

func TestGenerate_ExtractionFailure(t *testing.T) {
	gen := newGenerator()
	gen.extraction = "<<< not json >>>"
	svc := newTestService(gen, nil)

	_, err := svc.Generate(context.Background(), generateRequest(schemas.Template1))
	var extractionErr *extraction.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "<<< not json >>>", extractionErr.Raw)
	assert.Equal(t, 0, gen.count("rewrite"))
}

func TestGenerate_UnknownTemplate(t *testing.T) {
	gen := newGenerator()
	svc := newTestService(gen, nil)

	_, err := svc.Generate(context.Background(), generateRequest("template9"))
	var unknown *schemas.UnknownTemplateError
	assert.ErrorAs(t, err, &unknown)
	assert.Equal(t, 0, gen.count("extraction"))
}

// failingStore loses every write, leaving only the last slot.
type failingStore struct{}

func (failingStore) Get(context.Context, string) (*resume.Map, bool, error) {
	return nil, false, errors.New("store down")
}
func (failingStore) Put(context.Context, string, string, *resume.Map) error {
	return errors.New("store down")
}
func (failingStore) DeleteRequester(context.Context, string) (int, error) { return 0, nil }

func TestGenerate_LastSlotServesWhenStoreFails(t *testing.T) {
	gen := newGenerator()
	svc := newTestService(gen, failingStore{})
	ctx := context.Background()

	_, err := svc.Generate(ctx, generateRequest(schemas.Template2))
	require.NoError(t, err)

	resp, err := svc.Generate(ctx, generateRequest(schemas.Template2))
	require.NoError(t, err)
	assert.True(t, resp.Cached)
	assert.Equal(t, 1, gen.count("extraction"))
}

func TestGenerate_ConcurrentIdenticalRequests(t *testing.T) {
	gen := newGenerator()
	svc := newTestService(gen, nil)

	const workers = 8
	results := make([]*types.GenerateResponse, workers)
	errs := make([]error, workers)
	var started atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			started.Add(1)
			results[i], errs[i] = svc.Generate(context.Background(), generateRequest(schemas.Template3))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(workers), started.Load())
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0].LaTeX, results[i].LaTeX)
	}
	assert.LessOrEqual(t, gen.count("extraction"), workers)
	assert.GreaterOrEqual(t, gen.count("extraction"), 1)
}

// gatedGenerator holds extraction until release is closed and records
// whether the context it was given had been cancelled by then.
type gatedGenerator struct {
	*routingGenerator
	entered chan struct{}
	release chan struct{}
	once    sync.Once
	ctxErr  atomic.Value
}

func (g *gatedGenerator) Generate(ctx context.Context, messages []llm.Message, jsonMode bool) string {
	if strings.Contains(messages[0].Content, "data extraction") {
		g.once.Do(func() { close(g.entered) })
		<-g.release
		if err := ctx.Err(); err != nil {
			g.ctxErr.Store(err)
			return llm.Sentinel(jsonMode)
		}
	}
	return g.routingGenerator.Generate(ctx, messages, jsonMode)
}

func TestGenerate_FirstCallerCancelDoesNotFailJoinedCallers(t *testing.T) {
	gen := &gatedGenerator{
		routingGenerator: newGenerator(),
		entered:          make(chan struct{}),
		release:          make(chan struct{}),
	}
	svc := newTestService(gen, nil)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Generate(firstCtx, generateRequest(schemas.Template1))
		firstErr <- err
	}()
	<-gen.entered

	type outcome struct {
		resp *types.GenerateResponse
		err  error
	}
	second := make(chan outcome, 1)
	go func() {
		resp, err := svc.Generate(context.Background(), generateRequest(schemas.Template1))
		second <- outcome{resp, err}
	}()

	cancelFirst()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	time.Sleep(20 * time.Millisecond)
	close(gen.release)

	got := <-second
	require.NoError(t, got.err)
	assert.Contains(t, got.resp.LaTeX, "Engineered AWS data pipelines")
	assert.Nil(t, gen.ctxErr.Load(), "shared generation must not see the first caller's cancellation")
	assert.Equal(t, 1, gen.count("extraction"))
}

func TestClearCache_ForcesRegeneration(t *testing.T) {
	gen := newGenerator()
	svc := newTestService(gen, nil)
	ctx := context.Background()

	_, err := svc.Generate(ctx, generateRequest(schemas.Template1))
	require.NoError(t, err)

	removed, err := svc.ClearCache(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	resp, err := svc.Generate(ctx, generateRequest(schemas.Template1))
	require.NoError(t, err)
	assert.False(t, resp.Cached)
	assert.Equal(t, 2, gen.count("extraction"))
}

func TestScore_ReturnsBreakdown(t *testing.T) {
	svc := newTestService(newGenerator(), nil)

	res, err := svc.Score(context.Background(), resumeText, jobText, scoring.ModeRaw)
	require.NoError(t, err)
	assert.Equal(t, "Cloud Computing", res.Domain)
	assert.Equal(t, 87.5, res.Score)
}
