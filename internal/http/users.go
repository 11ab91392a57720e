package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nortonjulian/messagely/internal/core"
)

type inboxMessage struct {
	ID       int64      `json:"id"`
	Body     string     `json:"body"`
	SentAt   time.Time  `json:"sent_at"`
	ReadAt   *time.Time `json:"read_at,omitempty"`
	FromUser core.User  `json:"from_user"`
}

type outboxMessage struct {
	ID     int64      `json:"id"`
	Body   string     `json:"body"`
	SentAt time.Time  `json:"sent_at"`
	ReadAt *time.Time `json:"read_at,omitempty"`
	ToUser core.User  `json:"to_user"`
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.Store.AllUsers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if users == nil {
		users = []core.User{}
	}
	writeJSON(w, http.StatusOK, map[string][]core.User{"users": users})
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.Store.GetUser(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]core.User{"user": user})
}

func (s *Server) messagesTo(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.Store.MessagesTo(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	items := make([]inboxMessage, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, inboxMessage{ID: m.ID, Body: m.Body, SentAt: m.SentAt, ReadAt: m.ReadAt, FromUser: m.From})
	}
	writeJSON(w, http.StatusOK, map[string][]inboxMessage{"messages": items})
}

func (s *Server) messagesFrom(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.Store.MessagesFrom(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	items := make([]outboxMessage, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, outboxMessage{ID: m.ID, Body: m.Body, SentAt: m.SentAt, ReadAt: m.ReadAt, ToUser: m.To})
	}
	writeJSON(w, http.StatusOK, map[string][]outboxMessage{"messages": items})
}
