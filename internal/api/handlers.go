package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/wildquiz/internal/errors"
	"github.com/vytor/wildquiz/internal/observers"
	"github.com/vytor/wildquiz/internal/services"
)

// handleHealth returns a liveness probe - always returns 200 OK.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleAnimals(w http.ResponseWriter, r *http.Request) {
	out, err := s.Animals.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"animals": out})
}

func (s *Server) handleHabitats(w http.ResponseWriter, r *http.Request) {
	out, err := s.Animals.Habitats(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"habitats": out})
}

func (s *Server) handleCreateChallenge(w http.ResponseWriter, r *http.Request) {
	var req services.CreateChallengeRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	record, err := s.Quiz.CreateChallenge(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, record)
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req services.SubmitAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.Quiz.SubmitAnswer(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSkipChallenge(w http.ResponseWriter, r *http.Request) {
	var req services.SkipRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Quiz.SkipChallenge(r.Context(), req); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"skipped": true})
}

func (s *Server) handleAccuracy(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if challengeType := r.URL.Query().Get("type"); challengeType != "" {
		stats, err := s.Quiz.AccuracyForType(userID, challengeType)
		if err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"user_id": userID,
			"type":    challengeType,
			"stats":   stats,
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"user_id":  userID,
		"accuracy": s.Quiz.Accuracy(userID),
	})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	respondJSON(w, http.StatusOK, s.Quiz.Progress(userID))
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	recommended := s.Quiz.RecommendedTypes(userID)
	if recommended == nil {
		recommended = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"user_id":           userID,
		"recommended_types": recommended,
	})
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	respondJSON(w, http.StatusOK, s.Quiz.Achievements(userID))
}

func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	respondJSON(w, http.StatusOK, s.Quiz.LevelProgress(userID))
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			handleError(w, r, errors.NewValidationError("limit", "must be a positive integer"))
			return
		}
		limit = parsed
	}
	entries := s.Quiz.Leaderboard(limit)
	if entries == nil {
		entries = []observers.LeaderboardEntry{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"leaderboard": entries})
}

// handleAnalyticsExport formats a user's metrics for the external platform
// and queues them for delivery.
func (s *Server) handleAnalyticsExport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.UserID == "" {
		handleError(w, r, errors.NewMissingFieldError("user_id"))
		return
	}
	respondJSON(w, http.StatusOK, s.Quiz.ExportForPlatform(req.UserID, true))
}
