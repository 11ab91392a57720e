package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/nortonjulian/messagely/internal/auth"
	"github.com/nortonjulian/messagely/internal/core"
	"github.com/nortonjulian/messagely/internal/metrics"
)

type registerRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	err = s.Store.CreateUser(r.Context(), core.NewUser{
		Username:     req.Username,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		JoinAt:       time.Now().UTC(),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	token, err := s.Tokens.Mint(req.Username)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.InfoContext(r.Context(), "user registered", "username", req.Username)
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username and password are required"})
		return
	}

	hash, err := s.Store.PasswordHash(r.Context(), req.Username)
	if err != nil {
		// Unknown user reads the same as a wrong password.
		if errors.Is(err, core.ErrNotFound) {
			metrics.Logins.WithLabelValues("invalid").Inc()
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_credentials"})
			return
		}
		metrics.Logins.WithLabelValues("error").Inc()
		s.writeError(w, r, err)
		return
	}
	if err := auth.CheckPassword(hash, req.Password); err != nil {
		metrics.Logins.WithLabelValues("invalid").Inc()
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_credentials"})
		return
	}

	if err := s.Store.TouchLastLogin(r.Context(), req.Username, time.Now().UTC()); err != nil {
		metrics.Logins.WithLabelValues("error").Inc()
		s.writeError(w, r, err)
		return
	}

	token, err := s.Tokens.Mint(req.Username)
	if err != nil {
		metrics.Logins.WithLabelValues("error").Inc()
		s.writeError(w, r, err)
		return
	}
	metrics.Logins.WithLabelValues("ok").Inc()
	s.logger.InfoContext(r.Context(), "user logged in", "username", req.Username)
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}
