package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/evcraddock/vino-route/internal/auth"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentials, bool) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return credentials{}, false
	}
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return credentials{}, false
	}
	return c, true
}

// handleSignUp registers an account and signs it in.
func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := s.users.SignUp(c.Username, c.Password)
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, auth.ErrUserExists):
		apiError(w, "username already exists", http.StatusConflict)
		return
	case err != nil:
		slog.Error("signing up", "error", err)
		apiError(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := s.sessions.Create(w, user.Username); err != nil {
		slog.Error("creating session", "error", err)
		apiError(w, "internal error", http.StatusInternalServerError)
		return
	}

	apiJSON(w, user, http.StatusCreated)
}

// handleSignIn checks credentials and starts a session.
func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := s.users.SignIn(c.Username, c.Password)
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		apiError(w, "invalid username or password", http.StatusUnauthorized)
		return
	case err != nil:
		slog.Error("signing in", "error", err)
		apiError(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := s.sessions.Create(w, user.Username); err != nil {
		slog.Error("creating session", "error", err)
		apiError(w, "internal error", http.StatusInternalServerError)
		return
	}

	apiJSON(w, user, http.StatusOK)
}

// handleSignOut ends the session and forgets the user's route.
func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if username, err := s.sessions.Validate(r); err == nil {
		s.routes.drop(username)
	}

	if err := s.sessions.Destroy(w, r); err != nil {
		slog.Error("destroying session", "error", err)
	}

	apiJSON(w, map[string]bool{"signed_out": true}, http.StatusOK)
}
