package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRequest_Validation(t *testing.T) {
	valid := func() GenerateRequest {
		return GenerateRequest{
			RequesterID:    "user-1",
			Filename:       "resume.pdf",
			ResumeFile:     []byte("%PDF"),
			JobDescription: "Looking for a Go engineer",
			TemplateID:     "template2",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*GenerateRequest)
		wantErr bool
		errMsg  string
	}{
		{name: "valid request", mutate: func(*GenerateRequest) {}},
		{name: "suggestions optional", mutate: func(r *GenerateRequest) { r.AISuggestions = "" }},
		{name: "missing requester", mutate: func(r *GenerateRequest) { r.RequesterID = "" }, wantErr: true, errMsg: "RequesterID"},
		{name: "missing file", mutate: func(r *GenerateRequest) { r.ResumeFile = nil }, wantErr: true, errMsg: "ResumeFile"},
		{name: "missing job description", mutate: func(r *GenerateRequest) { r.JobDescription = "" }, wantErr: true, errMsg: "required"},
		{name: "missing template", mutate: func(r *GenerateRequest) { r.TemplateID = "" }, wantErr: true, errMsg: "required"},
		{name: "unknown template", mutate: func(r *GenerateRequest) { r.TemplateID = "template9" }, wantErr: true, errMsg: "oneof"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOptimizeRequest_Validation(t *testing.T) {
	req := OptimizeRequest{RequesterID: "u", Filename: "cv.txt", ResumeFile: []byte("x"), JobDescription: "jd"}
	assert.NoError(t, req.Validate())

	req.Filename = ""
	assert.Error(t, req.Validate())
}

func TestScoreRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     ScoreRequest
		wantErr bool
	}{
		{"default mode", ScoreRequest{ResumeText: "r", JobDescription: "j"}, false},
		{"raw", ScoreRequest{ResumeText: "r", JobDescription: "j", Mode: "raw"}, false},
		{"optimized", ScoreRequest{ResumeText: "r", JobDescription: "j", Mode: "optimized"}, false},
		{"empty resume", ScoreRequest{JobDescription: "j"}, false},
		{"unknown mode", ScoreRequest{ResumeText: "r", JobDescription: "j", Mode: "boosted"}, true},
		{"missing job description", ScoreRequest{ResumeText: "r"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOptimizeResponse_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(OptimizeResponse{MatchScore: 65, OptimizedScore: 78, AISuggestions: "- add AWS"})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Contains(t, m, "match_score")
	assert.Contains(t, m, "optimized_score")
	assert.Contains(t, m, "ai_suggestions")
	assert.Contains(t, m, "resume_text")
}
