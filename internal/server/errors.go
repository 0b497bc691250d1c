package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-optimizer/internal/embedding"
	"github.com/jonathan/resume-optimizer/internal/extraction"
	"github.com/jonathan/resume-optimizer/internal/ingestion"
	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/schemas"
	"github.com/jonathan/resume-optimizer/internal/scoring"
)

// ValidationError indicates request validation failure
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// Error classes callers can tell apart.
const (
	ClassClient   = "client"
	ClassUpstream = "upstream"
	ClassInternal = "internal"
)

// Classify returns the error class of err.
func Classify(err error) string {
	var (
		validation   *ValidationError
		fieldErrs    validator.ValidationErrors
		unknown      *schemas.UnknownTemplateError
		unsupported  *ingestion.UnsupportedFormatError
		document     *ingestion.DocumentError
		maxBytes     *http.MaxBytesError
		unavailable  *llm.GenerationUnavailableError
		extractErr   *extraction.ExtractionError
		embeddingErr *scoring.EmbeddingError
		loadErr      *embedding.LoadError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &fieldErrs), errors.As(err, &unknown),
		errors.As(err, &unsupported), errors.As(err, &document), errors.As(err, &maxBytes):
		return ClassClient
	case errors.As(err, &unavailable), errors.As(err, &extractErr),
		errors.As(err, &embeddingErr), errors.As(err, &loadErr):
		return ClassUpstream
	default:
		return ClassInternal
	}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch Classify(err) {
	case ClassClient:
		return http.StatusBadRequest
	case ClassUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
