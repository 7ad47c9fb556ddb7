package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, secret string, method jwt.SigningMethod, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(method, jwt.RegisteredClaims{
		Subject:   "robot",
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestValidateToken_StaticSet(t *testing.T) {
	req := require.New(t)
	v := NewValidator([]string{"abc123", " xyz789 ", ""}, "")

	req.True(v.ValidateToken("abc123"))
	req.True(v.ValidateToken("xyz789"))
	req.False(v.ValidateToken(""))
	req.False(v.ValidateToken("nope"))
}

func TestValidateToken_JWT(t *testing.T) {
	req := require.New(t)
	v := NewValidator(nil, "s3cret")

	req.True(v.ValidateToken(signed(t, "s3cret", jwt.SigningMethodHS256, time.Now().Add(time.Hour))))
	req.False(v.ValidateToken(signed(t, "other", jwt.SigningMethodHS256, time.Now().Add(time.Hour))))
	req.False(v.ValidateToken(signed(t, "s3cret", jwt.SigningMethodHS256, time.Now().Add(-time.Hour))))
	req.False(v.ValidateToken(signed(t, "s3cret", jwt.SigningMethodHS512, time.Now().Add(time.Hour))))
	req.False(v.ValidateToken("a.b.c"))
}

func TestValidateToken_JWTDisabledWithoutSecret(t *testing.T) {
	v := NewValidator([]string{"dev_token"}, "")
	require.False(t, v.ValidateToken(signed(t, "x", jwt.SigningMethodHS256, time.Now().Add(time.Hour))))
}

func TestValidateClientID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "simple", id: "alice", want: true},
		{name: "empty", id: "", want: false},
		{name: "blank", id: "   ", want: false},
		{name: "max length", id: strings.Repeat("x", MaxClientIDLength), want: true},
		{name: "too long", id: strings.Repeat("x", MaxClientIDLength+1), want: false},
	}

	v := NewValidator(nil, "")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, v.ValidateClientID(tt.id))
		})
	}
	require.ErrorIs(t, CheckClientID(" "), ErrBlankClientID)
}
