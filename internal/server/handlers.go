package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/logging"
	"github.com/jonathan/resume-optimizer/internal/scoring"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// requesterID returns the caller identity or a ValidationError.
func requesterID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.Header.Get(HeaderRequesterID))
	if id == "" {
		return "", &ValidationError{Field: HeaderRequesterID, Message: "header is required"}
	}
	return id, nil
}

// upload holds the multipart fields shared by optimize and generate.
type upload struct {
	requester string
	filename  string
	data      []byte
}

// readUpload parses the multipart form and reads the resumeFile part.
func readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	requester, err := requesterID(r)
	if err != nil {
		return nil, err
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return nil, err
		}
		return nil, &ValidationError{Field: "body", Message: "expected multipart/form-data: " + err.Error()}
	}

	file, header, err := r.FormFile("resumeFile")
	if err != nil {
		return nil, &ValidationError{Field: "resumeFile", Message: "file is required"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, &ValidationError{Field: "resumeFile", Message: "could not read upload: " + err.Error()}
	}
	return &upload{requester: requester, filename: header.Filename, data: data}, nil
}

// handleScore scores plain text passed as JSON.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	requester, err := requesterID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req types.ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, &ValidationError{Field: "body", Message: "invalid JSON: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	mode := scoring.ModeRaw
	if req.Mode != "" {
		mode, _ = scoring.ParseMode(req.Mode)
	}

	res, err := s.service.Score(r.Context(), req.ResumeText, req.JobDescription, mode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	logging.FromContext(r.Context()).Debug().Str("requester", requester).Float64("score", res.Score).Msg("scored text")
	s.jsonResponse(w, http.StatusOK, types.ScoreResponse{Score: res.Score, Breakdown: res})
}

// handleOptimize scores an uploaded resume and suggests improvements.
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	up, err := readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	req := &types.OptimizeRequest{
		RequesterID:    up.requester,
		Filename:       up.filename,
		ResumeFile:     up.data,
		JobDescription: r.FormValue("jobDescription"),
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	resp, err := s.service.Optimize(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleGenerate produces the templated resume.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	up, err := readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	req := &types.GenerateRequest{
		RequesterID:    up.requester,
		Filename:       up.filename,
		ResumeFile:     up.data,
		JobDescription: r.FormValue("jobDescription"),
		AISuggestions:  r.FormValue("aiSuggestions"),
		TemplateID:     r.FormValue("templateId"),
	}
	if req.TemplateID == "" {
		req.TemplateID = "template1"
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	resp, err := s.service.Generate(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleClearCache drops the caller's cached records.
func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	requester, err := requesterID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	removed, err := s.service.ClearCache(r.Context(), requester)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.ClearCacheResponse{Removed: removed})
}
