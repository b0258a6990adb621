package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrUnauthorized = errors.New("unauthorized access")

// Gate guards admin operations with one shared secret. There are no
// sessions or identities: a request either carries the secret or it does not.
type Gate struct {
	secret []byte
	hash   []byte
}

// NewGate compares tokens against secret in constant time.
func NewGate(secret string) *Gate {
	return &Gate{secret: []byte(secret)}
}

// NewHashedGate compares tokens against a bcrypt hash of the secret, so the
// plain secret need not be present in the environment.
func NewHashedGate(hash string) (*Gate, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, err
	}
	return &Gate{hash: []byte(hash)}, nil
}

// HashToken produces a value suitable for NewHashedGate.
func HashToken(token string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	return string(b), err
}

func (g *Gate) Allow(token string) bool {
	if token == "" {
		return false
	}
	if g.hash != nil {
		return bcrypt.CompareHashAndPassword(g.hash, []byte(token)) == nil
	}
	if len(g.secret) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), g.secret) == 1
}

// Check returns ErrUnauthorized unless the request carries the secret.
func (g *Gate) Check(r *http.Request) error {
	if !g.Allow(TokenFromRequest(r)) {
		return ErrUnauthorized
	}
	return nil
}

// TokenFromRequest reads "Authorization: Bearer <token>", falling back to
// the "token" query parameter.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		if t := strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")); t != "" {
			return t
		}
	}
	return r.URL.Query().Get("token")
}
