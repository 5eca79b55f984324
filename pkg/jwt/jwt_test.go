package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	m := NewManager("test-secret", 900, 86400)

	token, err := m.GenerateAccessToken("user-1", "editor", []string{"editor"})
	require.NoError(t, err)

	claims, err := m.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "editor", claims.Nickname)
	assert.Equal(t, []string{"editor"}, claims.Roles)
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := NewManager("a", 900, 86400).GenerateAccessToken("user-1", "", nil)
	require.NoError(t, err)

	_, err = NewManager("b", 900, 86400).VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	m := NewManager("secret", 60, 120)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := m.GenerateAccessToken("user-1", "", nil)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerify_Garbage(t *testing.T) {
	_, err := NewManager("secret", 60, 120).VerifyToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
