package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestJWT_Roundtrip(t *testing.T) {
	j := NewJWT("secret", time.Hour)

	tok, err := j.Issue("42", "ana@liga.com")
	require.NoError(t, err)

	claims, err := j.Parse(tok)
	require.NoError(t, err)
	require.Equal(t, "42", claims.UserID)
	require.Equal(t, "ana@liga.com", claims.Email)
	require.NotEmpty(t, claims.ID)
}

func TestJWT_WrongSecret(t *testing.T) {
	tok, err := NewJWT("secret", time.Hour).Issue("42", "ana@liga.com")
	require.NoError(t, err)

	_, err = NewJWT("other", time.Hour).Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_ExpiryValidation(t *testing.T) {
	j := NewJWT("secret", time.Minute)
	issued := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return issued }

	tok, err := j.Issue("42", "ana@liga.com")
	require.NoError(t, err)
	_, err = j.Parse(tok)
	require.NoError(t, err)

	j.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = j.Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_TokenType_Mismatch(t *testing.T) {
	other := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "42",
		TokenType:        "refresh",
	})
	tok, err := other.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWT("secret", time.Hour).Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_Garbage(t *testing.T) {
	_, err := NewJWT("secret", time.Hour).Parse("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
