package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testJWTKey    = "test-signing-key"
	testAccessKey = "polar-access"
)

func newTestEnv(t *testing.T) *Authenv {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testAccessKey), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthenv(testJWTKey, string(hash), time.Hour, nil)
}

func requestToken(t *testing.T, env *Authenv, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	env.TokenHandler(rec, httptest.NewRequest(http.MethodPost, "/api/token", bytes.NewBufferString(body)))
	return rec
}

var echoSubject = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	sub, _ := Subject(r.Context())
	w.Write([]byte(sub))
})

func TestTokenHandler_IssuesUsableToken(t *testing.T) {
	env := newTestEnv(t)

	rec := requestToken(t, env, `{"client":"bridge","access_key":"polar-access"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var tok TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	require.NotEmpty(t, tok.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, time.Minute)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/tools", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	out := httptest.NewRecorder()
	env.AuthMiddleware(echoSubject).ServeHTTP(out, req)
	assert.Equal(t, http.StatusOK, out.Code)
	assert.Equal(t, "bridge", out.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/tools", nil)
	req.AddCookie(cookies[0])
	out = httptest.NewRecorder()
	env.AuthMiddleware(echoSubject).ServeHTTP(out, req)
	assert.Equal(t, http.StatusOK, out.Code)
}

func TestTokenHandler_Rejects(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusUnauthorized, requestToken(t, env, `{"client":"bridge","access_key":"wrong"}`).Code)
	assert.Equal(t, http.StatusBadRequest, requestToken(t, env, `{"client":" ","access_key":"polar-access"}`).Code)
	assert.Equal(t, http.StatusBadRequest, requestToken(t, env, `not json`).Code)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	env := newTestEnv(t)

	other := NewAuthenv("another-key", "", time.Hour, nil)
	foreign, err := other.issue("bridge")
	require.NoError(t, err)

	past := newTestEnv(t)
	past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := past.issue("bridge")
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing": "",
		"garbage": "Bearer not-a-jwt",
		"foreign": "Bearer " + foreign.Token,
		"expired": "Bearer " + expired.Token,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			env.AuthMiddleware(echoSubject).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "Unauthorized")
		})
	}
}

func TestLimitMiddleware(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 2)
	h := limiter.LimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1000"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1002"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2:1000"))
}

func TestLimiterEvictsIdleIPs(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := newIPRateLimiter(0.001, 1, clock)

	first := limiter.getLimiter("10.0.0.1")
	limiter.getLimiter("10.0.0.2")
	require.Equal(t, 2, limiter.Len())

	clock.Advance(limiterIdle / 2)
	assert.Same(t, first, limiter.getLimiter("10.0.0.1"))

	clock.Advance(limiterIdle * 3 / 4)
	limiter.getLimiter("10.0.0.3")
	assert.Equal(t, 2, limiter.Len())
	assert.Same(t, first, limiter.getLimiter("10.0.0.1"))

	clock.Advance(2 * limiterIdle)
	limiter.getLimiter("10.0.0.4")
	assert.Equal(t, 1, limiter.Len())
}

func TestHashKey(t *testing.T) {
	hash, err := HashKey("secret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret")))
}
