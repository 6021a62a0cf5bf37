package api

import (
	"github.com/vytor/wildquiz/internal/animals"
	"github.com/vytor/wildquiz/internal/services"
)

// Server holds the handler dependencies.
type Server struct {
	Quiz    services.QuizService
	Animals *animals.Store
}

// NewServer creates the HTTP server facade.
func NewServer(quiz services.QuizService, store *animals.Store) *Server {
	return &Server{
		Quiz:    quiz,
		Animals: store,
	}
}
