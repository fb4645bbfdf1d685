package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehdishayek-png/ai-job-bot/internal/db"
	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

const testPassword = "open-sesame"

type fakeStore struct {
	matches   []db.MatchRecord
	pinErr    error
	pinned    map[string]bool
	knownKeys map[string]bool
}

func (f *fakeStore) ListMatches(ctx context.Context, limit int) ([]db.MatchRecord, error) {
	return f.matches, nil
}

func (f *fakeStore) SetPinned(ctx context.Context, key string, pinned bool) (bool, error) {
	if f.pinErr != nil {
		return false, f.pinErr
	}
	if !f.knownKeys[key] {
		return false, nil
	}
	if f.pinned == nil {
		f.pinned = make(map[string]bool)
	}
	f.pinned[key] = pinned
	return true, nil
}

type fakeQuota struct{}

func (fakeQuota) Status() map[string]types.QuotaStatus {
	return map[string]types.QuotaStatus{
		"serper": {Limit: 2500, Used: 40, Remaining: 2460},
	}
}

type fakeRunner struct {
	jobs    int
	matches int
	err     error
	ran     bool
}

func (f *fakeRunner) Run(ctx context.Context) (int, int, error) {
	f.ran = true
	return f.jobs, f.matches, f.err
}

func newTestServer(t *testing.T, store *fakeStore, runner *fakeRunner) *Server {
	t.Helper()
	if store == nil {
		store = &fakeStore{}
	}
	if runner == nil {
		runner = &fakeRunner{}
	}
	hash, err := HashPassword(testPassword)
	require.NoError(t, err)
	srv, err := New(Config{
		Port:         0,
		PasswordHash: hash,
		JWTSecret:    "test-secret",
	}, store, fakeQuota{}, runner)
	require.NoError(t, err)
	return srv
}

func login(t *testing.T, handler http.Handler) string {
	t.Helper()
	body := bytes.NewBufferString(`{"password": "` + testPassword + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func authedRequest(method, target, token string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestLogin_Success(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	token := login(t, srv.Handler())
	assert.NotEmpty(t, token)
}

func TestLogin_WrongPassword(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	body := bytes.NewBufferString(`{"password": "wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_MalformedBody(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	for _, target := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/matches"},
		{http.MethodPost, "/matches/somekey/pin"},
		{http.MethodGet, "/quota"},
		{http.MethodPost, "/search"},
	} {
		req := httptest.NewRequest(target.method, target.path, nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", target.method, target.path)
	}
}

func TestProtectedRoutes_RejectGarbageToken(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, authedRequest(http.MethodGet, "/matches", "garbage"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListMatches(t *testing.T) {
	store := &fakeStore{matches: []db.MatchRecord{
		{DedupeKey: "acme:accountant", Score: 70},
	}}
	srv := newTestServer(t, store, nil)
	token := login(t, srv.Handler())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, authedRequest(http.MethodGet, "/matches", token))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Matches []db.MatchRecord `json:"matches"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, "acme:accountant", resp.Matches[0].DedupeKey)
}

func TestListMatches_BadLimit(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	token := login(t, srv.Handler())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, authedRequest(http.MethodGet, "/matches?limit=zero", token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPinUnpin(t *testing.T) {
	store := &fakeStore{knownKeys: map[string]bool{"acme:accountant": true}}
	srv := newTestServer(t, store, nil)
	token := login(t, srv.Handler())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, authedRequest(http.MethodPost, "/matches/acme:accountant/pin", token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, store.pinned["acme:accountant"])

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, authedRequest(http.MethodPost, "/matches/acme:accountant/unpin", token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, store.pinned["acme:accountant"])
}

func TestPin_UnknownKey(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, nil)
	token := login(t, srv.Handler())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, authedRequest(http.MethodPost, "/matches/nope/pin", token))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuota(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	token := login(t, srv.Handler())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, authedRequest(http.MethodGet, "/quota", token))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Providers map[string]types.QuotaStatus `json:"providers"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2460, resp.Providers["serper"].Remaining)
}

func TestSearch_TriggersRun(t *testing.T) {
	runner := &fakeRunner{jobs: 12, matches: 3}
	srv := newTestServer(t, nil, runner)
	token := login(t, srv.Handler())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, authedRequest(http.MethodPost, "/search", token))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, runner.ran)

	var resp map[string]int
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 12, resp["jobs_found"])
	assert.Equal(t, 3, resp["matches_saved"])
}

func TestSearch_RunFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("providers down")}
	srv := newTestServer(t, nil, runner)
	token := login(t, srv.Handler())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, authedRequest(http.MethodPost, "/search", token))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealth_NoAuthRequired(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	auth := NewAuthHandler(hash, nil)
	assert.NotEmpty(t, auth.passwordHash)

	srv, err := New(Config{Port: 0, PasswordHash: hash, JWTSecret: "k"}, &fakeStore{}, fakeQuota{}, &fakeRunner{})
	require.NoError(t, err)

	body := bytes.NewBufferString(`{"password": "s3cret"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
