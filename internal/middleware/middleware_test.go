package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoSession() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetSessionID(r.Context())))
	})
}

func TestSessionAuth_RoundTrip(t *testing.T) {
	auth := NewSessionAuth("test-secret")
	id := uuid.NewString()
	token, err := auth.IssueToken(id)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	auth.Middleware(echoSession()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, id, rr.Body.String())
}

func TestSessionAuth_Rejects(t *testing.T) {
	auth := NewSessionAuth("test-secret")
	other, _ := NewSessionAuth("other-secret").IssueToken(uuid.NewString())
	notUUID, _ := auth.IssueToken("not-a-uuid")

	expired := &SessionAuth{Secret: []byte("test-secret"), TTL: -time.Minute}
	old, _ := expired.IssueToken(uuid.NewString())

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing", "", "UNAUTHORIZED"},
		{"not bearer", "Token abc", "UNAUTHORIZED"},
		{"garbage", "Bearer abc", "UNAUTHORIZED"},
		{"wrong secret", "Bearer " + other, "UNAUTHORIZED"},
		{"bad session id", "Bearer " + notUUID, "UNAUTHORIZED"},
		{"expired", "Bearer " + old, "TOKEN_EXPIRED"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			auth.Middleware(echoSession()).ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.code)
		})
	}
}

func TestSessionAuth_RejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"session_id": uuid.NewString()})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewSessionAuth("test-secret").ParseToken(signed)
	assert.Error(t, err)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(RequestIDHeader)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-id")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "client-id", rr.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	h := CORS("http://localhost:5173/")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	preflight := httptest.NewRequest(http.MethodOptions, "/api/v1/decks", nil)
	preflight.Header.Set("Origin", "http://localhost:5173")
	preflight.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, preflight)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))

	foreign := httptest.NewRequest(http.MethodGet, "/api/v1/decks", nil)
	foreign.Header.Set("Origin", "http://evil.test")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, foreign)
	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(WithSessionID(req.Context(), "s1"))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// other sessions have their own budget
	assert.True(t, rl.Allow("s2"))
}

func TestRateLimiter_RetriesDoNotExtendWindow(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()

	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.mu.Lock()
	rl.now = func() time.Time { return clock }
	rl.mu.Unlock()

	assert.True(t, rl.Allow("s1"))

	// keep retrying while limited
	for i := 0; i < 3; i++ {
		clock = clock.Add(20 * time.Second)
		assert.False(t, rl.Allow("s1"), "retry %d should be limited", i)
	}

	clock = clock.Add(5 * time.Second)
	assert.True(t, rl.Allow("s1"), "a new window opens once the first one expires")
}
