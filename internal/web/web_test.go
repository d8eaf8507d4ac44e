package web

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kiwimenu123/TACAC/internal/account"
	"github.com/kiwimenu123/TACAC/internal/storage"
)

// testEnv wires a full stack over an in-memory database for handler tests.
type testEnv struct {
	srv    *httptest.Server
	client *http.Client
	svc    *account.Service
	store  *storage.SQLiteStorage
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	key := make([]byte, 32)
	_, _ = rand.Read(key)
	store, err := storage.New(":memory:", key)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := account.NewService(store, account.NewSessionStore(time.Hour), nil, logger)
	handler := NewHandler(svc, store, new(slog.LevelVar), logger)

	srv := httptest.NewServer(handler.NewRouter())
	t.Cleanup(srv.Close)

	// Cookie jar so logins persist across requests within a test
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{
		srv:    srv,
		client: &http.Client{Jar: jar},
		svc:    svc,
		store:  store,
	}
}

func (e *testEnv) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := e.client.Post(e.srv.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func (e *testEnv) putJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPut, e.srv.URL+path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.client.Do(req)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := e.client.Get(e.srv.URL + path)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) delete(t *testing.T, path string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodDelete, e.srv.URL+path, nil)
	require.NoError(t, err)
	resp, err := e.client.Do(req)
	require.NoError(t, err)
	return resp
}

// register creates an account against the seeded "123" key and returns the
// issued server token.
func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()
	resp := e.postJSON(t, "/auth/register", RegisterRequest{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		ServerName:      "Test Server",
		LicenseKey:      "123",
	})
	defer resp.Body.Close() //nolint:errcheck
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out RegisterResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.ServerToken)
	return out.ServerToken
}

// login authenticates; the client's jar keeps the session cookie.
func (e *testEnv) login(t *testing.T, username string) {
	t.Helper()
	resp := e.postJSON(t, "/auth/login", LoginRequest{
		Username: username,
		Password: "secret123",
	})
	defer resp.Body.Close() //nolint:errcheck
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
