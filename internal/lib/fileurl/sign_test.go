package fileurl

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func parseSigned(t *testing.T, signed string) (fileID, expires, sig string) {
	t.Helper()
	u, err := url.Parse(signed)
	require.NoError(t, err)
	return strings.TrimPrefix(u.Path, "/files/"), u.Query().Get("expires"), u.Query().Get("sig")
}

func TestSignAndVerify(t *testing.T) {
	signed := SignURL("users/u1/photo.jpg", secret, time.Hour)
	fileID, expires, sig := parseSigned(t, signed)

	assert.Equal(t, "users/u1/photo.jpg", fileID)
	assert.True(t, Verify(fileID, expires, sig, secret))
}

func TestVerifyRejectsTamperedPath(t *testing.T) {
	signed := SignURL("users/u1/photo.jpg", secret, time.Hour)
	_, expires, sig := parseSigned(t, signed)

	assert.False(t, Verify("users/u2/photo.jpg", expires, sig, secret))
}

func TestVerifyRejectsTamperedExpiry(t *testing.T) {
	signed := SignURL("users/u1/photo.jpg", secret, time.Hour)
	fileID, _, sig := parseSigned(t, signed)

	assert.False(t, Verify(fileID, "9999999999", sig, secret))
}

func TestVerifyRejectsExpired(t *testing.T) {
	signed := SignURL("users/u1/photo.jpg", secret, -time.Minute)
	fileID, expires, sig := parseSigned(t, signed)

	assert.False(t, Verify(fileID, expires, sig, secret))
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signed := SignURL("users/u1/photo.jpg", secret, time.Hour)
	fileID, expires, sig := parseSigned(t, signed)

	assert.False(t, Verify(fileID, expires, sig, "other-secret"))
}

func TestVerifyRejectsGarbageExpiry(t *testing.T) {
	assert.False(t, Verify("users/u1/photo.jpg", "not-a-number", "sig", secret))
}
