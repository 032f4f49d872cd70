package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
	"github.com/custodia-labs/campus-assistant/internal/logger"
)

// Response messages.
const (
	msgEmptyQuestion     = "Question cannot be empty"
	msgNotReady          = "Service initializing. Please try again in 30 seconds."
	msgRebuildInProgress = "Index rebuild already in progress"
	msgInvalidBody       = "Invalid request body"
	msgGeneration        = "An error occurred: answer generation failed"
	msgEmptyCorpus       = "An error occurred: none of the pages could be fetched"
	msgInternal          = "An error occurred: internal error"
	statusSuccess        = "success"
)

// QuestionRequest is the body of POST /ask.
type QuestionRequest struct {
	Question string `json:"question"`
}

// AnswerResponse is the body of a successful POST /ask.
type AnswerResponse struct {
	Answer  []string        `json:"answer"`
	Sources []domain.Source `json:"sources"`
	Status  string          `json:"status"`
}

// ScrapeRequest is the body of POST /rebuild. An empty URL list rebuilds
// the configured corpus.
type ScrapeRequest struct {
	URLs []string `json:"urls"`
}

// RebuildResponse is the body of a successful POST /rebuild.
type RebuildResponse struct {
	Status     string `json:"status"`
	ChunkCount int    `json:"chunk_count"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Index  string `json:"index"`
}

// ErrorResponse carries the message of a failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req QuestionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, msgInvalidBody)
		return
	}

	logger.Debug("POST /ask %q", req.Question)
	ans, err := s.ports.Answer.Answer(r.Context(), req.Question)
	if err != nil {
		status, detail := errorStatus(err)
		if status == http.StatusInternalServerError {
			logger.Error("answer: %v", err)
		}
		writeError(w, status, detail)
		return
	}

	writeJSON(w, http.StatusOK, AnswerResponse{
		Answer:  ans.Points,
		Sources: ans.Sources,
		Status:  statusSuccess,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Index:  s.ports.Index.State().String(),
	})
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, msgInvalidBody)
		return
	}

	logger.Info("POST /rebuild (%d url(s))", len(req.URLs))
	if err := s.ports.Index.Rebuild(r.Context(), req.URLs); err != nil {
		status, detail := errorStatus(err)
		logger.Error("rebuild: %v", err)
		writeError(w, status, detail)
		return
	}

	meta, _ := s.ports.Index.Metadata()
	writeJSON(w, http.StatusOK, RebuildResponse{
		Status:     statusSuccess,
		ChunkCount: meta.ChunkCount,
	})
}

// errorStatus maps a domain error to a status code and a fixed message.
// Upstream detail stays in the log.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusUnprocessableEntity, msgEmptyQuestion
	case errors.Is(err, domain.ErrNotReady):
		return http.StatusServiceUnavailable, msgNotReady
	case errors.Is(err, domain.ErrRebuildInProgress):
		return http.StatusConflict, msgRebuildInProgress
	case errors.Is(err, domain.ErrGeneration):
		return http.StatusInternalServerError, msgGeneration
	case errors.Is(err, domain.ErrEmptyCorpus):
		return http.StatusInternalServerError, msgEmptyCorpus
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// decodeJSON reads a JSON body. An empty body decodes to the zero value.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}
