package auth

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servihogar/entity"
)

func newTestService() *Service {
	return NewAuthService("test-secret", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestTokenRoundTrip(t *testing.T) {
	s := newTestService()
	identity := &entity.Identity{ID: "u1", Name: "Ana", Email: "ana@test.es", Phone: "+34600000000"}

	token, err := s.IssueToken(identity)
	require.NoError(t, err)

	got, err := s.GetCurrentUser(token)
	require.NoError(t, err)
	assert.Equal(t, identity, got)
}

func TestGetCurrentUserStripsBearerPrefix(t *testing.T) {
	s := newTestService()
	token, err := s.IssueToken(&entity.Identity{ID: "u1"})
	require.NoError(t, err)

	got, err := s.GetCurrentUser("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
}

func TestGetCurrentUserRejectsForged(t *testing.T) {
	s := newTestService()
	other := NewAuthService("other-secret", slog.New(slog.NewTextHandler(io.Discard, nil)))

	token, err := other.IssueToken(&entity.Identity{ID: "u1"})
	require.NoError(t, err)

	_, err = s.GetCurrentUser(token)
	assert.Error(t, err)
}

func TestGetCurrentUserRejectsEmpty(t *testing.T) {
	s := newTestService()

	_, err := s.GetCurrentUser("")
	assert.Error(t, err)

	_, err = s.GetCurrentUser("not.a.token")
	assert.Error(t, err)
}

func TestGetCurrentUserRequiresSubject(t *testing.T) {
	s := newTestService()
	token, err := s.IssueToken(&entity.Identity{Name: "sin id"})
	require.NoError(t, err)

	_, err = s.GetCurrentUser(token)
	assert.Error(t, err)
}
