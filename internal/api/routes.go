package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/animals", s.handleAnimals)
		r.Get("/habitats", s.handleHabitats)
		r.Post("/analytics", s.handleAnalyticsExport)

		r.Route("/cognitive", func(r chi.Router) {
			r.Post("/challenge", s.handleCreateChallenge)
			r.Post("/submit-answer", s.handleSubmitAnswer)
			r.Post("/skip", s.handleSkipChallenge)
			r.Get("/accuracy/{userID}", s.handleAccuracy)
			r.Get("/progress/{userID}", s.handleProgress)
			r.Get("/recommendations/{userID}", s.handleRecommendations)
			r.Get("/achievements/{userID}", s.handleAchievements)
			r.Get("/level/{userID}", s.handleLevel)
			r.Get("/leaderboard", s.handleLeaderboard)
		})
	})

	return r
}
