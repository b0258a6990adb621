package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_Allow(t *testing.T) {
	g := NewGate("s3cret")

	assert.True(t, g.Allow("s3cret"))
	assert.False(t, g.Allow("s3cre"))
	assert.False(t, g.Allow("s3cret "))
	assert.False(t, g.Allow(""))
}

func TestGate_EmptySecretDeniesEverything(t *testing.T) {
	g := NewGate("")
	assert.False(t, g.Allow(""))
	assert.False(t, g.Allow("anything"))
}

func TestHashedGate(t *testing.T) {
	hash, err := HashToken("s3cret")
	require.NoError(t, err)

	g, err := NewHashedGate(hash)
	require.NoError(t, err)

	assert.True(t, g.Allow("s3cret"))
	assert.False(t, g.Allow("wrong"))

	_, err = NewHashedGate("not-a-bcrypt-hash")
	assert.Error(t, err)
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/dreams?token=q", nil)
	assert.Equal(t, "q", TokenFromRequest(r))

	r.Header.Set("Authorization", "Bearer h")
	assert.Equal(t, "h", TokenFromRequest(r))

	r.Header.Set("Authorization", "Basic h")
	assert.Equal(t, "q", TokenFromRequest(r))

	r = httptest.NewRequest(http.MethodGet, "/dreams", nil)
	assert.Equal(t, "", TokenFromRequest(r))
}

func TestRequireAdmin(t *testing.T) {
	g := NewGate("s3cret")
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	deny := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}
	h := RequireAdmin(g, deny)(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats?token=nope", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}
