package api

import (
	"net/http"

	"github.com/vytor/flashdeck/internal/models"
)

type deckRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type cardRequest struct {
	Front string `json:"front" validate:"required,max=500"`
	Back  string `json:"back" validate:"required,max=500"`
}

type importRequest struct {
	Article string `json:"article" validate:"required,max=2048"`
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())

	decks, err := s.DeckService.ListDecks(r.Context(), id.ProfileID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"decks": decks})
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())

	var req deckRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	deck, err := s.DeckService.CreateDeck(r.Context(), id.ProfileID, req.Name)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"deck": deck})
}

// handleImportDeck accepts a wiki article and fills a new deck in the
// background.
func (s *Server) handleImportDeck(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())

	var req importRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	deck, err := s.ImportService.ImportArticle(r.Context(), id.ProfileID, req.Article)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"deck": deck})
}

func (s *Server) handleDeck(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())
	deckID, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	summary, err := s.DeckService.GetDeck(r.Context(), id.ProfileID, deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deck": summary})
}

func (s *Server) handleRenameDeck(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())
	deckID, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req deckRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.DeckService.RenameDeck(r.Context(), id.ProfileID, deckID, req.Name); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())
	deckID, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.DeckService.DeleteDeck(r.Context(), id.ProfileID, deckID); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())
	deckID, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.DeckService.ListCards(r.Context(), id.ProfileID, deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if cards == nil {
		cards = []models.Card{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"cards": cards})
}

func (s *Server) handleAddCard(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())
	deckID, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req cardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	card, err := s.DeckService.AddCard(r.Context(), id.ProfileID, deckID, req.Front, req.Back)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"card": card})
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())
	deckID, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	cardID, err := idParam(r, "cardID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req cardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.DeckService.UpdateCard(r.Context(), id.ProfileID, deckID, cardID, req.Front, req.Back); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())
	deckID, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	cardID, err := idParam(r, "cardID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.DeckService.DeleteCard(r.Context(), id.ProfileID, deckID, cardID); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
