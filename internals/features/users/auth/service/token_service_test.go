package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenServiceIssue(t *testing.T) {
	fixed := time.Date(2024, 8, 1, 9, 0, 0, 0, time.UTC)
	s := NewTokenService("test-secret", 2*time.Hour)
	s.now = func() time.Time { return fixed }

	id := uuid.New()
	raw, exp, err := s.Issue(id, []string{"teacher"})
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(2*time.Hour), exp)

	claims := jwt.MapClaims{}
	_, err = jwt.NewParser(jwt.WithoutClaimsValidation()).ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, id.String(), claims["user_id"])
	assert.Equal(t, []any{"teacher"}, claims["roles"])
	assert.Equal(t, float64(exp.Unix()), claims["exp"])
}

func TestTokenServiceDefaults(t *testing.T) {
	assert.Equal(t, 24*time.Hour, NewTokenService("x", 0).TTL)

	_, _, err := NewTokenService("", time.Hour).Issue(uuid.New(), nil)
	assert.Error(t, err)

	raw, _, err := NewTokenService("x", time.Hour).Issue(uuid.New(), nil)
	require.NoError(t, err)
	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return []byte("x"), nil })
	require.NoError(t, err)
	assert.Equal(t, []any{}, claims["roles"])
}
