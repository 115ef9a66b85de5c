package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/finsightapp/finsight/internal/common"
	"github.com/finsightapp/finsight/internal/models"
)

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"service": "finsight-server",
		"uptime":  time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleProfile handles POST /api/profile. The validated profile is echoed
// back and kept in memory as the default for analyze requests that omit one.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.ProfileRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid profile: %v", err))
		return
	}

	profile := req.ToProfile()

	s.mu.Lock()
	s.profile = &profile
	s.mu.Unlock()

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"profile": profile,
	})
}

// handleRecommendations handles POST /api/recommendations.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.ProfileRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid profile: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, s.app.RecommendService.Recommend(req.ToProfile()))
}

// handleAnalyze handles POST /api/analyze by running the research workflow.
// Missing profile fields are accepted here; the workflow's intake guard
// reports them in the result rather than the transport rejecting them.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.AnalyzeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	profile := req.Profile.ToProfile()
	if req.Profile == (models.ProfileRequest{}) {
		s.mu.RLock()
		if s.profile != nil {
			profile = *s.profile
		}
		s.mu.RUnlock()
	}

	state, err := s.app.AnalystService.Analyze(r.Context(), req.Question, profile)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Analysis error: %v", err))
		return
	}

	if state.Route == models.RouteIntake {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status":         "incomplete",
			"missing_fields": state.MissingFields,
			"message":        "Provide the missing profile fields and retry.",
		})
		return
	}

	WriteJSON(w, http.StatusOK, s.app.AnalystService.BuildResponse(state))
}
