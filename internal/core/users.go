package core

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type NewUser struct {
	Username     string
	PasswordHash []byte
	FirstName    string
	LastName     string
	Phone        string
	JoinAt       time.Time
}

func (s *Store) CreateUser(ctx context.Context, u NewUser) error {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO users(username, password, first_name, last_name, phone, join_at, last_login_at)
		VALUES($1,$2,$3,$4,$5,$6,$6)
	`, u.Username, string(u.PasswordHash), u.FirstName, u.LastName, u.Phone, u.JoinAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateUser
	}
	return err
}

func (s *Store) PasswordHash(ctx context.Context, username string) ([]byte, error) {
	var hash string
	err := s.DB.QueryRow(ctx, `SELECT password FROM users WHERE username=$1`, username).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return []byte(hash), err
}

func (s *Store) TouchLastLogin(ctx context.Context, username string, at time.Time) error {
	_, err := s.DB.Exec(ctx, `UPDATE users SET last_login_at=$2 WHERE username=$1`, username, at)
	return err
}

func (s *Store) GetUser(ctx context.Context, username string) (User, error) {
	var u User
	err := s.DB.QueryRow(ctx, `
		SELECT username, first_name, last_name, phone FROM users WHERE username=$1
	`, username).Scan(&u.Username, &u.FirstName, &u.LastName, &u.Phone)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *Store) AllUsers(ctx context.Context) ([]User, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT username, first_name, last_name, phone FROM users ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.Username, &u.FirstName, &u.LastName, &u.Phone); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
