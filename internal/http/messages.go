package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nortonjulian/messagely/internal/auth"
	"github.com/nortonjulian/messagely/internal/core"
	"github.com/nortonjulian/messagely/internal/metrics"
)

type sendMessageRequest struct {
	ToUsername string `json:"to_username" validate:"required"`
	Body       string `json:"body" validate:"required"`
}

type sentMessage struct {
	ID           int64     `json:"id"`
	FromUsername string    `json:"from_username"`
	ToUsername   string    `json:"to_username"`
	Body         string    `json:"body"`
	SentAt       time.Time `json:"sent_at"`
}

type readReceipt struct {
	ID     int64     `json:"id"`
	ReadAt time.Time `json:"read_at"`
}

// messageID treats an unparsable path id the same as an absent row.
func messageID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, core.ErrNotFound
	}
	return id, nil
}

func (s *Server) getMessage(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.Username(r.Context())
	id, err := messageID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	msg, err := s.Store.GetMessage(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if caller != msg.From.Username && caller != msg.To.Username {
		s.writeError(w, r, errUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, map[string]core.Message{"message": msg})
}

func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.Username(r.Context())

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "to_username and body are required"})
		return
	}

	// sent_at is stamped here, not store-assigned.
	sentAt := time.Now().UTC()
	id, err := s.Store.InsertMessage(r.Context(), core.SendRequest{
		From:   caller,
		To:     req.ToUsername,
		Body:   req.Body,
		SentAt: sentAt,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	metrics.MessagesSent.Inc()

	writeJSON(w, http.StatusCreated, map[string]sentMessage{"message": {
		ID:           id,
		FromUsername: caller,
		ToUsername:   req.ToUsername,
		Body:         req.Body,
		SentAt:       sentAt,
	}})
}

func (s *Server) markRead(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.Username(r.Context())
	id, err := messageID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	to, err := s.Store.MessageRecipient(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if caller != to {
		s.writeError(w, r, errUnauthorized)
		return
	}

	readAt := time.Now().UTC()
	if err := s.Store.MarkRead(r.Context(), id, readAt); err != nil {
		s.writeError(w, r, err)
		return
	}
	metrics.MessagesRead.Inc()

	writeJSON(w, http.StatusOK, map[string]readReceipt{"message": {ID: id, ReadAt: readAt}})
}
