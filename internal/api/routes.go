package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/justinas/alice"
	"github.com/rs/cors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Get("/profiles", s.handleProfiles)
	r.Post("/profiles", s.handleCreateProfile)
	r.Post("/profiles/{id}/select", s.handleSelectProfile)

	r.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		r.Delete("/profiles/current", s.handleDeleteCurrentProfile)

		r.Get("/decks", s.handleDecks)
		r.Post("/decks", s.handleCreateDeck)
		r.Post("/decks/import", s.handleImportDeck)
		r.Get("/decks/{id}", s.handleDeck)
		r.Patch("/decks/{id}", s.handleRenameDeck)
		r.Delete("/decks/{id}", s.handleDeleteDeck)

		r.Get("/decks/{id}/cards", s.handleCards)
		r.Post("/decks/{id}/cards", s.handleAddCard)
		r.Patch("/decks/{id}/cards/{cardID}", s.handleUpdateCard)
		r.Delete("/decks/{id}/cards/{cardID}", s.handleDeleteCard)

		r.Get("/decks/{id}/review", s.handleReview)
		r.Post("/decks/{id}/review", s.handleGrade)
		r.Post("/decks/{id}/review/restart", s.handleRestartReview)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error": map[string]any{"code": "NOT_FOUND", "message": "no such route"},
		})
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   s.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})

	return alice.New(
		loggingMiddleware,
		recoveryMiddleware,
		securityHeadersMiddleware,
		corsHandler.Handler,
		timeoutMiddleware(s.RequestTimeout),
	).Then(r)
}
