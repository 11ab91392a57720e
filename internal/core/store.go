package core

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct{ DB *pgxpool.Pool }

var (
	ErrNotFound      = errors.New("not_found")
	ErrDuplicateUser = errors.New("username_taken")
)

type SendRequest struct {
	From   string
	To     string
	Body   string
	SentAt time.Time
}

// GetMessage loads a message joined with both participants.
func (s *Store) GetMessage(ctx context.Context, id int64) (Message, error) {
	var m Message
	err := s.DB.QueryRow(ctx, `
		SELECT m.id, m.body, m.sent_at, m.read_at,
		       f.username, f.first_name, f.last_name, f.phone,
		       t.username, t.first_name, t.last_name, t.phone
		FROM messages m
		JOIN users f ON m.from_username = f.username
		JOIN users t ON m.to_username = t.username
		WHERE m.id = $1
	`, id).Scan(&m.ID, &m.Body, &m.SentAt, &m.ReadAt,
		&m.From.Username, &m.From.FirstName, &m.From.LastName, &m.From.Phone,
		&m.To.Username, &m.To.FirstName, &m.To.LastName, &m.To.Phone)
	if errors.Is(err, pgx.ErrNoRows) {
		return Message{}, ErrNotFound
	}
	return m, err
}

// InsertMessage appends a message row. sent_at is caller-supplied, not
// store-assigned. An unknown recipient trips the FK constraint and comes
// back as a plain store error.
func (s *Store) InsertMessage(ctx context.Context, r SendRequest) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
		INSERT INTO messages(from_username, to_username, body, sent_at)
		VALUES($1,$2,$3,$4)
		RETURNING id
	`, r.From, r.To, r.Body, r.SentAt).Scan(&id)
	return id, err
}

func (s *Store) MessageRecipient(ctx context.Context, id int64) (string, error) {
	var to string
	err := s.DB.QueryRow(ctx, `SELECT to_username FROM messages WHERE id=$1`, id).Scan(&to)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return to, err
}

// MarkRead stamps read_at unconditionally: a second call on the same id
// overwrites the earlier stamp, last write wins.
func (s *Store) MarkRead(ctx context.Context, id int64, readAt time.Time) error {
	tag, err := s.DB.Exec(ctx, `UPDATE messages SET read_at=$2 WHERE id=$1`, id, readAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MessagesTo lists messages addressed to username, sender populated.
func (s *Store) MessagesTo(ctx context.Context, username string) ([]Message, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT m.id, m.body, m.sent_at, m.read_at,
		       f.username, f.first_name, f.last_name, f.phone
		FROM messages m
		JOIN users f ON m.from_username = f.username
		WHERE m.to_username = $1
		ORDER BY m.sent_at DESC
	`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Body, &m.SentAt, &m.ReadAt,
			&m.From.Username, &m.From.FirstName, &m.From.LastName, &m.From.Phone); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MessagesFrom lists messages sent by username, recipient populated.
func (s *Store) MessagesFrom(ctx context.Context, username string) ([]Message, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT m.id, m.body, m.sent_at, m.read_at,
		       t.username, t.first_name, t.last_name, t.phone
		FROM messages m
		JOIN users t ON m.to_username = t.username
		WHERE m.from_username = $1
		ORDER BY m.sent_at DESC
	`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Body, &m.SentAt, &m.ReadAt,
			&m.To.Username, &m.To.FirstName, &m.To.LastName, &m.To.Phone); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
