package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) postIngest(t *testing.T, path, token string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("AccessKey", token)
	}
	resp, err := e.client.Do(req)
	require.NoError(t, err)
	return resp
}

func TestIngestRequiresToken(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	resp := env.postIngest(t, "/ingest/detections", "", IngestDetectionRequest{
		PlayerName: "C", Type: "godmode",
	})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.postIngest(t, "/ingest/detections", "tac_bogus", IngestDetectionRequest{
		PlayerName: "C", Type: "godmode",
	})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestIngestDetection(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice")
	env.login(t, "alice")

	resp := env.postIngest(t, "/ingest/detections", token, IngestDetectionRequest{
		PlayerName: "Cheater",
		Type:       "speedhack",
		Details:    "45 m/s on foot",
		Action:     "kick",
	})
	out := decodeJSON[map[string]string](t, resp)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, out["id"])

	// Detection lands in the dashboard
	resp = env.get(t, "/api/detections")
	detections := decodeJSON[[]DetectionResponse](t, resp)
	require.Len(t, detections, 1)
	assert.Equal(t, "speedhack", detections[0].Type)
	assert.Equal(t, "Cheater", detections[0].PlayerName)

	// Missing type rejected
	resp = env.postIngest(t, "/ingest/detections", token, IngestDetectionRequest{PlayerName: "X"})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIngestKick(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice")
	env.login(t, "alice")

	resp := env.postIngest(t, "/ingest/kicks", token, IngestKickRequest{
		PlayerName: "Speedy",
		Reason:     "speedhack",
	})
	_ = resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.get(t, "/api/kicks")
	kicks := decodeJSON[[]KickResponse](t, resp)
	require.Len(t, kicks, 1)
	// KickedBy defaults to the system when the reporter leaves it empty
	assert.Equal(t, "TAC", kicks[0].KickedBy)
}

func TestIngestPlayerUpsert(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice")
	env.login(t, "alice")

	resp := env.postIngest(t, "/ingest/players", token, IngestPlayerRequest{
		Name: "P1", Identifier: "steam:1",
	})
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Same identifier again does not duplicate
	resp = env.postIngest(t, "/ingest/players", token, IngestPlayerRequest{
		Name: "P1-renamed", Identifier: "steam:1",
	})
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.get(t, "/api/players")
	players := decodeJSON[[]PlayerResponse](t, resp)
	require.Len(t, players, 1)
	assert.Equal(t, "P1-renamed", players[0].Name)
}

func TestIngestScopedToTokenOwner(t *testing.T) {
	env := newTestEnv(t)
	aliceToken := env.register(t, "alice")

	// Second account on its own key
	require.NoError(t, env.store.CreateLicenseKey(context.Background(), "key-bob"))
	resp := env.postJSON(t, "/auth/register", RegisterRequest{
		Username:        "bob",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		LicenseKey:      "key-bob",
	})
	_ = resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Alice's token reports a detection
	resp = env.postIngest(t, "/ingest/detections", aliceToken, IngestDetectionRequest{
		PlayerName: "C", Type: "godmode",
	})
	_ = resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Bob's dashboard stays empty
	env.login(t, "bob")
	resp = env.get(t, "/api/detections")
	detections := decodeJSON[[]DetectionResponse](t, resp)
	assert.Len(t, detections, 0)
}
