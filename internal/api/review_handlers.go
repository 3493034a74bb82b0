package api

import (
	"net/http"

	"github.com/vytor/flashdeck/internal/logger"
)

type gradeRequest struct {
	CardID   int64  `json:"card_id" validate:"required,gt=0"`
	Response string `json:"response" validate:"max=32"`
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())
	deckID, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.ReviewService.Current(r.Context(), id.SessionID, id.ProfileID, deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	id, _ := identityFromContext(r.Context())
	deckID, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req gradeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("grade submitted: deck_id=%d, card_id=%d, response=%s", deckID, req.CardID, req.Response)

	result, err := s.ReviewService.Grade(r.Context(), id.SessionID, id.ProfileID, deckID, req.CardID, req.Response)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRestartReview(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())
	deckID, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.ReviewService.Restart(r.Context(), id.SessionID, id.ProfileID, deckID); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
