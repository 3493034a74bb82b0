package api

import (
	"net/http"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/session"
)

type createProfileRequest struct {
	Username string `json:"username" validate:"required,max=64"`
}

type profileResponse struct {
	Profile *models.Profile `json:"profile"`
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("listing profiles")

	profiles, err := s.ProfileService.ListProfiles(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}

	resp := map[string]any{"profiles": profiles}
	if id, err := s.currentIdentity(r); err == nil {
		resp["current_profile_id"] = id.ProfileID
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCreateProfile creates (or reuses) a profile and selects it.
func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	profile, err := s.ProfileService.CreateProfile(r.Context(), req.Username)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.selectProfile(w, r, profile.ID); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, profileResponse{Profile: profile})
}

func (s *Server) handleSelectProfile(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	profile, err := s.ProfileService.GetProfile(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.selectProfile(w, r, profile.ID); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Profile: profile})
}

// selectProfile signs a cookie for profileID, keeping the browser session id
// of a still-valid cookie.
func (s *Server) selectProfile(w http.ResponseWriter, r *http.Request, profileID int64) error {
	log := logger.FromContext(r.Context())

	identity := session.Identity{ProfileID: profileID}
	if current, err := s.currentIdentity(r); err == nil {
		identity.SessionID = current.SessionID
	}
	token, identity, err := s.Tokens.Sign(identity)
	if err != nil {
		log.Error("failed to sign session cookie: %v", err)
		return errors.NewInternalError(err)
	}
	s.setSessionCookie(w, token)
	log.Info("profile selected: profile_id=%d", identity.ProfileID)
	return nil
}

// handleDeleteCurrentProfile deletes the signed-in profile and signs out.
func (s *Server) handleDeleteCurrentProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())

	if err := s.ProfileService.DeleteProfile(r.Context(), id.ProfileID); err != nil {
		handleError(w, r, err)
		return
	}
	clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
