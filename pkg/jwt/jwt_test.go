package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/catalog/pkg/errors"
)

func newTestManager() *Manager {
	return NewManager("test-secret", time.Hour, 24*time.Hour)
}

func TestGenerateAndParse(t *testing.T) {
	m := newTestManager()

	pair, err := m.GenerateToken(7, "alex@gmail.com", []string{"ROLE_ADMIN", "ROLE_CLIENT"})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	claims, err := m.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alex@gmail.com", claims.Email)
	assert.Equal(t, []string{"ROLE_ADMIN", "ROLE_CLIENT"}, claims.Roles)
	assert.Equal(t, "7", claims.Subject)
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	m := newTestManager()
	pair, err := m.GenerateToken(7, "alex@gmail.com", nil)
	require.NoError(t, err)

	_, err = m.ParseAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = m.SubjectOf(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	id, err := m.SubjectOf(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)

	access, err := m.IssueAccessToken(id, "alex@gmail.com", []string{"ROLE_CLIENT"})
	require.NoError(t, err)
	claims, err := m.ParseAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, []string{"ROLE_CLIENT"}, claims.Roles)
}

func TestExpiredToken(t *testing.T) {
	m := newTestManager()
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	pair, err := m.GenerateToken(1, "maria@gmail.com", nil)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ParseAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestRejectsForeignSignature(t *testing.T) {
	other := NewManager("another-secret", time.Hour, time.Hour)
	pair, err := other.GenerateToken(1, "maria@gmail.com", nil)
	require.NoError(t, err)

	_, err = newTestManager().ParseToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestRejectsNoneAlgorithm(t *testing.T) {
	token := gojwt.NewWithClaims(gojwt.SigningMethodNone, Claims{UserID: 1, TokenType: TokenTypeAccess})
	s, err := token.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestManager().ParseToken(s)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
