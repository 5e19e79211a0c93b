package server

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonathan/distro-catalog/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestSessionService(t *testing.T, ttl time.Duration) *SessionService {
	t.Helper()
	s, err := NewSessionService(config.SessionConfig{
		Secret: "test-secret-key-for-session-signing-32b",
		TTL:    ttl,
	})
	require.NoError(t, err)
	return s
}

func TestSessionService_IssueAndValidate(t *testing.T) {
	service := setupTestSessionService(t, time.Hour)
	sessionID := uuid.New()

	token, err := service.IssueToken(sessionID)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3, "JWT should have 3 parts separated by dots")

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.SessionID)
	assert.Equal(t, sessionID, claims.GetSessionID())
}

func TestSessionService_Expired(t *testing.T) {
	service := setupTestSessionService(t, time.Hour)
	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return issued }

	token, err := service.IssueToken(uuid.New())
	require.NoError(t, err)

	service.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = service.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token expired")
}

func TestSessionService_WrongSecret(t *testing.T) {
	a := setupTestSessionService(t, time.Hour)
	b, err := NewSessionService(config.SessionConfig{Secret: "another-secret-entirely", TTL: time.Hour})
	require.NoError(t, err)

	token, err := a.IssueToken(uuid.New())
	require.NoError(t, err)

	_, err = b.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token signature")
}

func TestSessionService_Malformed(t *testing.T) {
	service := setupTestSessionService(t, time.Hour)

	_, err := service.ValidateToken("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")

	_, err = service.ValidateToken("not.a.jwt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed token")
}

func TestSessionService_RejectsOtherAlgorithms(t *testing.T) {
	service := setupTestSessionService(t, time.Hour)
	claims := &Claims{SessionID: uuid.New()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	require.Error(t, err)
}

func TestSessionService_RandomSecretWhenUnset(t *testing.T) {
	a, err := NewSessionService(config.SessionConfig{TTL: time.Hour})
	require.NoError(t, err)
	b, err := NewSessionService(config.SessionConfig{TTL: time.Hour})
	require.NoError(t, err)

	token, err := a.IssueToken(uuid.New())
	require.NoError(t, err)
	_, err = a.ValidateToken(token)
	require.NoError(t, err)
	_, err = b.ValidateToken(token)
	assert.Error(t, err)
}

func TestSessionService_AsTokenService(t *testing.T) {
	service := setupTestSessionService(t, time.Hour)
	adapter := service.AsTokenService()
	sessionID := uuid.New()

	token, err := adapter.IssueToken(sessionID)
	require.NoError(t, err)

	claims, err := adapter.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.GetSessionID())

	_, err = adapter.ValidateToken("garbage")
	assert.Error(t, err)
}
