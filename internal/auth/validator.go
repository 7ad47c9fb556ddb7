// Package auth validates the credentials presented when a client joins a room.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
)

// MaxClientIDLength bounds the length of a client id.
const MaxClientIDLength = 50

var validate = validator.New()

// Validator accepts tokens from a static set and, when a secret is
// configured, HS256-signed JWTs.
type Validator struct {
	tokens    map[string]struct{}
	jwtSecret []byte
}

// NewValidator creates a Validator for the given static tokens. An empty
// jwtSecret disables JWT tokens.
func NewValidator(tokens []string, jwtSecret string) *Validator {
	v := &Validator{tokens: make(map[string]struct{}, len(tokens))}
	for _, tok := range tokens {
		if tok = strings.TrimSpace(tok); tok != "" {
			v.tokens[tok] = struct{}{}
		}
	}
	if jwtSecret != "" {
		v.jwtSecret = []byte(jwtSecret)
	}
	return v
}

// ValidateToken reports whether token grants access.
func (v *Validator) ValidateToken(token string) bool {
	if token == "" {
		return false
	}
	if _, ok := v.tokens[token]; ok {
		return true
	}
	return v.validJWT(token)
}

func (v *Validator) validJWT(token string) bool {
	if v.jwtSecret == nil || strings.Count(token, ".") != 2 {
		return false
	}
	_, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return v.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return err == nil
}

// ValidateClientID reports whether id is a usable client id: non-blank and
// at most MaxClientIDLength characters.
func (v *Validator) ValidateClientID(id string) bool {
	return CheckClientID(id) == nil
}

// ErrBlankClientID is returned for an id made only of whitespace.
var ErrBlankClientID = errors.New("client id is blank")

// CheckClientID explains why id is not a usable client id.
func CheckClientID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrBlankClientID
	}
	return validate.Var(id, fmt.Sprintf("required,max=%d", MaxClientIDLength))
}
