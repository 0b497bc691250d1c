// Package types provides the request and response payloads exchanged with API callers.
package types

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// OptimizeRequest is the input of the optimize flow: a resume upload scored
// against a job description.
type OptimizeRequest struct {
	RequesterID    string `json:"-" validate:"required"`
	Filename       string `json:"-" validate:"required"`
	ResumeFile     []byte `json:"-" validate:"required"`
	JobDescription string `json:"jobDescription" validate:"required"`
}

// Validate validates the OptimizeRequest using the validator.
func (r *OptimizeRequest) Validate() error {
	return validate.Struct(r)
}

// OptimizeResponse reports the raw score, the suggestions and the score the
// resume would reach with them applied.
type OptimizeResponse struct {
	MatchScore     float64 `json:"match_score"`
	OptimizedScore float64 `json:"optimized_score"`
	AISuggestions  string  `json:"ai_suggestions"`
	ResumeText     string  `json:"resume_text"`
}

// GenerateRequest is the input of the generate flow.
type GenerateRequest struct {
	RequesterID    string `json:"-" validate:"required"`
	Filename       string `json:"-" validate:"required"`
	ResumeFile     []byte `json:"-" validate:"required"`
	JobDescription string `json:"jobDescription" validate:"required"`
	AISuggestions  string `json:"aiSuggestions"`
	TemplateID     string `json:"templateId" validate:"required,oneof=template1 template2 template3 template4"`
}

// Validate validates the GenerateRequest using the validator.
func (r *GenerateRequest) Validate() error {
	return validate.Struct(r)
}

// GenerateResponse carries the normalized record and its LaTeX rendering.
type GenerateResponse struct {
	TemplateID string `json:"template_id"`
	Record     any    `json:"record"`
	LaTeX      string `json:"latex"`
	Cached     bool   `json:"cached"`
}

// ScoreRequest scores plain text without an upload. An empty resume is
// valid and scores 0.
type ScoreRequest struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description" validate:"required"`
	Mode           string `json:"mode,omitempty" validate:"omitempty,oneof=raw optimized"`
}

// Validate validates the ScoreRequest using the validator.
func (r *ScoreRequest) Validate() error {
	return validate.Struct(r)
}

// ScoreResponse is a score with its breakdown.
type ScoreResponse struct {
	Score     float64 `json:"score"`
	Breakdown any     `json:"breakdown"`
}

// ClearCacheResponse reports how many cached records were removed.
type ClearCacheResponse struct {
	Removed int `json:"removed"`
}
