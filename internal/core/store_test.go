package core_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nortonjulian/messagely/internal/core"
	database "github.com/nortonjulian/messagely/internal/db"
)

func newStore(t *testing.T) *core.Store {
	pool := database.StartTestPostgres(t)
	return &core.Store{DB: pool}
}

func createUser(t *testing.T, s *core.Store, username string) {
	t.Helper()
	err := s.CreateUser(context.Background(), core.NewUser{
		Username:     username,
		PasswordHash: []byte("$2a$10$fakefakefakefakefakefa"),
		FirstName:    "First-" + username,
		LastName:     "Last-" + username,
		Phone:        "+15550000000",
		JoinAt:       time.Now().UTC(),
	})
	require.NoError(t, err)
}

func sendMessage(t *testing.T, s *core.Store, from, to, body string) int64 {
	t.Helper()
	id, err := s.InsertMessage(context.Background(), core.SendRequest{
		From: from, To: to, Body: body, SentAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return id
}

func TestGetMessage_NotFound(t *testing.T) {
	s := newStore(t)
	_, err := s.GetMessage(context.Background(), 424242)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestMessageRecipient_NotFound(t *testing.T) {
	s := newStore(t)
	_, err := s.MessageRecipient(context.Background(), 424242)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestMarkRead_NotFound(t *testing.T) {
	s := newStore(t)
	err := s.MarkRead(context.Background(), 424242, time.Now().UTC())
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestInsertAndGetMessage_RoundTrip(t *testing.T) {
	s := newStore(t)
	createUser(t, s, "alice")
	createUser(t, s, "bob")

	before := time.Now().UTC()
	id := sendMessage(t, s, "alice", "bob", "hi bob")

	m, err := s.GetMessage(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, id, m.ID)
	require.Equal(t, "hi bob", m.Body)
	require.Nil(t, m.ReadAt)
	require.WithinDuration(t, before, m.SentAt, 5*time.Second)
	require.Equal(t, "alice", m.From.Username)
	require.Equal(t, "First-alice", m.From.FirstName)
	require.Equal(t, "bob", m.To.Username)
	require.Equal(t, "Last-bob", m.To.LastName)
}

func TestInsertMessage_UnknownRecipient(t *testing.T) {
	s := newStore(t)
	createUser(t, s, "alice")

	// FK violation surfaces as a plain store error, not ErrNotFound.
	_, err := s.InsertMessage(context.Background(), core.SendRequest{
		From: "alice", To: "nobody", Body: "x", SentAt: time.Now().UTC(),
	})
	require.Error(t, err)
	require.NotErrorIs(t, err, core.ErrNotFound)
}

func TestMarkRead_StampsAndRestamps(t *testing.T) {
	s := newStore(t)
	createUser(t, s, "alice")
	createUser(t, s, "bob")
	id := sendMessage(t, s, "alice", "bob", "hello")

	first := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, s.MarkRead(context.Background(), id, first))

	m, err := s.GetMessage(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, m.ReadAt)
	require.True(t, m.ReadAt.Equal(first))

	// Second call overwrites, last write wins.
	second := first.Add(time.Minute)
	require.NoError(t, s.MarkRead(context.Background(), id, second))

	m, err = s.GetMessage(context.Background(), id)
	require.NoError(t, err)
	require.True(t, m.ReadAt.Equal(second))
}

func TestMessagesToAndFrom(t *testing.T) {
	s := newStore(t)
	createUser(t, s, "alice")
	createUser(t, s, "bob")
	createUser(t, s, "carol")
	sendMessage(t, s, "alice", "bob", "one")
	sendMessage(t, s, "carol", "bob", "two")
	sendMessage(t, s, "bob", "alice", "three")

	inbox, err := s.MessagesTo(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	senders := []string{inbox[0].From.Username, inbox[1].From.Username}
	require.ElementsMatch(t, []string{"alice", "carol"}, senders)

	outbox, err := s.MessagesFrom(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, outbox, 1)
	require.Equal(t, "three", outbox[0].Body)
	require.Equal(t, "alice", outbox[0].To.Username)
}

func TestCreateUser_Duplicate(t *testing.T) {
	s := newStore(t)
	createUser(t, s, "alice")

	err := s.CreateUser(context.Background(), core.NewUser{
		Username:     "alice",
		PasswordHash: []byte("x"),
		FirstName:    "A", LastName: "B", Phone: "+1",
		JoinAt: time.Now().UTC(),
	})
	require.ErrorIs(t, err, core.ErrDuplicateUser)
}

func TestUsersListingAndLookup(t *testing.T) {
	s := newStore(t)
	createUser(t, s, "alice")
	createUser(t, s, "bob")

	users, err := s.AllUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "alice", users[0].Username) // ordered by username

	u, err := s.GetUser(context.Background(), "bob")
	require.NoError(t, err)
	require.Equal(t, "First-bob", u.FirstName)

	_, err = s.GetUser(context.Background(), "nobody")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestPasswordHashStorage(t *testing.T) {
	s := newStore(t)
	createUser(t, s, "alice")

	hash, err := s.PasswordHash(context.Background(), "alice")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	_, err = s.PasswordHash(context.Background(), "nobody")
	require.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, s.TouchLastLogin(context.Background(), "alice", time.Now().UTC()))
}
