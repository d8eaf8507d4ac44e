package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	token := env.register(t, "alice")
	assert.True(t, strings.HasPrefix(token, "tac_"))

	env.login(t, "alice")

	// Session cookie grants API access
	resp := env.get(t, "/api/profile")
	profile := decodeJSON[ProfileResponse](t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "Test Server", profile.ServerName)
	assert.Equal(t, "123", profile.LicenseKey)
	assert.Equal(t, "kick", profile.Settings.PunishmentAction)
	assert.Equal(t, 7, profile.Settings.BanDuration)
}

func TestRegisterValidationResponses(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	tests := []struct {
		name        string
		req         RegisterRequest
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name: "password mismatch",
			req: RegisterRequest{
				Username: "bob", Password: "abc", ConfirmPassword: "def", LicenseKey: "123",
			},
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrCodePasswordMismatch,
			wantMessage: "Passwords do not match!",
		},
		{
			name: "password too short",
			req: RegisterRequest{
				Username: "bob", Password: "abc", ConfirmPassword: "abc", LicenseKey: "123",
			},
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrCodePasswordTooShort,
			wantMessage: "Password must be at least 6 characters!",
		},
		{
			name: "username taken",
			req: RegisterRequest{
				Username: "alice", Password: "secret123", ConfirmPassword: "secret123", LicenseKey: "123",
			},
			wantStatus:  http.StatusConflict,
			wantCode:    ErrCodeUsernameTaken,
			wantMessage: "Username already exists!",
		},
		{
			name: "invalid license",
			req: RegisterRequest{
				Username: "bob", Password: "secret123", ConfirmPassword: "secret123", LicenseKey: "bogus",
			},
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrCodeInvalidLicense,
			wantMessage: "Invalid license key!",
		},
		{
			name: "license already redeemed",
			req: RegisterRequest{
				Username: "bob", Password: "secret123", ConfirmPassword: "secret123", LicenseKey: "123",
			},
			wantStatus:  http.StatusConflict,
			wantCode:    ErrCodeLicenseRedeemed,
			wantMessage: "This license key has already been redeemed!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.postJSON(t, "/auth/register", tt.req)
			apiErr := decodeJSON[APIError](t, resp)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.Error)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
		})
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	resp := env.postJSON(t, "/auth/login", LoginRequest{Username: "alice", Password: "wrong"})
	apiErr := decodeJSON[APIError](t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid username or password!", apiErr.Message)

	// Unknown user gets the identical response
	resp = env.postJSON(t, "/auth/login", LoginRequest{Username: "ghost", Password: "secret123"})
	apiErr2 := decodeJSON[APIError](t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apiErr.Message, apiErr2.Message)
}

func TestLoginResponseBody(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	resp := env.postJSON(t, "/auth/login", LoginRequest{Username: "alice", Password: "secret123"})
	defer resp.Body.Close() //nolint:errcheck
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "alice", out["username"])
	assert.NotEmpty(t, out["loginTime"])
}

func TestAPIRequiresSession(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	// No login yet
	resp := env.get(t, "/api/profile")
	apiErr := decodeJSON[APIError](t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, ErrCodeUnauthorized, apiErr.Error)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")
	env.login(t, "alice")

	resp := env.postJSON(t, "/auth/logout", struct{}{})
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Logged out", string(body))

	// Session cookie is dead
	resp = env.get(t, "/api/profile")
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealthAndReady(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/health")
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.get(t, "/ready")
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
