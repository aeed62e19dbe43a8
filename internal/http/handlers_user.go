package http

import (
	"errors"
	"net/http"
	"strings"

	applog "fintrack/internal/log"
	"fintrack/internal/user"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID string `json:"id"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	id, err := s.users.Create(r.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil && !errors.Is(err, user.ErrSeedFailed) {
		s.respondError(w, r, err)
		return
	}
	if err != nil {
		// Account exists but default categories did not land; the user can
		// still log in and add categories by hand.
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Default categories not seeded",
			applog.FieldUserID, id, applog.FieldError, err)
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "User created", applog.FieldUserID, id)
	respondJSON(w, http.StatusCreated, userResponse{ID: id})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	id, err := s.users.Authenticate(r.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, userResponse{ID: id})
}
