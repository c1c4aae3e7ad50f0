package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kapu/workout-planner-go/internal/constants"
	"github.com/kapu/workout-planner-go/internal/domain"
	apperrors "github.com/kapu/workout-planner-go/pkg/errors"
)

const healthCheckTimeout = 2 * time.Second

type generateRequest struct {
	Prompt    string                 `json:"prompt"`
	Equipment []string               `json:"equipment"`
	Options   *domain.WorkoutOptions `json:"options,omitempty"`
}

// handleHealth answers 503 when any backing service check fails.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok"}
	for k, v := range s.info {
		body[k] = v
	}

	status := http.StatusOK
	if len(s.checks) > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		results := make(map[string]string, len(s.checks))
		for name, check := range s.checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}
		body["checks"] = results
	}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	writeJSON(w, status, body)
}

// handleYouTubeSearch is the scrape proxy used as the second video tier.
func (s *Server) handleYouTubeSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing query parameter"})
		return
	}

	result, err := s.scraper.SearchShorts(r.Context(), query)
	if apperrors.IsNotFound(err) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "No video found"})
		return
	}
	if err != nil {
		s.logger.Error("YouTube search proxy failed", zap.String("query", query), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Internal server error",
			"details": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleResolveVideo(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, apperrors.NewValidationError("name parameter required", "name", apperrors.NoIndex))
		return
	}
	writeJSON(w, http.StatusOK, s.videos.Resolve(r.Context(), name))
}

func (s *Server) handleGenerateWorkouts(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, apperrors.NewValidationError("prompt is required", "prompt", apperrors.NoIndex))
		return
	}
	if err := req.Options.Validate(); err != nil {
		writeError(w, apperrors.NewValidationError(err.Error(), "options", apperrors.NoIndex))
		return
	}

	plan, err := s.generator.GenerateWorkouts(r.Context(), req.Prompt, req.Equipment, req.Options)
	if err != nil {
		s.instr.CounterGenerations.WithLabelValues(outcome(err)).Inc()
		s.logger.Warn("Workout generation failed", zap.Error(err))
		writeError(w, err)
		return
	}

	s.instr.CounterGenerations.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleSavePlan(w http.ResponseWriter, r *http.Request) {
	var plan domain.WorkoutResponse
	if err := decodeBody(w, r, &plan); err != nil {
		writeError(w, err)
		return
	}

	saved, err := s.plans.Save(r.Context(), plan)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.plans.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	saved, err := s.plans.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, constants.ServerConfig.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("invalid JSON: %v", err), "body", apperrors.NoIndex)
	}
	return nil
}

func outcome(err error) string {
	switch {
	case apperrors.IsConfiguration(err):
		return "configuration_error"
	case apperrors.IsUpstream(err):
		return "upstream_error"
	case apperrors.IsValidation(err):
		return "validation_error"
	default:
		return "error"
	}
}

// writeError renders typed errors as {"error", "code", ...context}; anything else is a 500.
func writeError(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Internal server error",
			"details": err.Error(),
		})
		return
	}

	status := appErr.StatusCode
	if appErr.Code == apperrors.CodeUpstream && status != http.StatusServiceUnavailable {
		status = http.StatusBadGateway
	}
	if status == 0 {
		status = http.StatusInternalServerError
	}

	body := make(map[string]any, len(appErr.Context)+2)
	for k, v := range appErr.Context {
		body[k] = v
	}
	body["error"] = appErr.Message
	body["code"] = appErr.Code

	var valErr *apperrors.ValidationError
	if errors.As(err, &valErr) && valErr.Raw != "" {
		body["raw"] = valErr.Raw
	}

	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
