package zoom

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proofmeet-backend/internal/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.App{
		ZoomAccountID:    "acct-1",
		ZoomClientID:     "client-1",
		ZoomClientSecret: "secret-1",
		ZoomAuthMode:     "oauth",
		ZoomAPIBaseURL:   srv.URL,
		ZoomOAuthURL:     srv.URL + "/oauth/token",
	})
}

func TestGetAccessTokenOAuth(t *testing.T) {
	var sawGrant, sawAccount string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/oauth/token", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "client-1", user)
		assert.Equal(t, "secret-1", pass)

		require.NoError(t, r.ParseForm())
		sawGrant = r.PostForm.Get("grant_type")
		sawAccount = r.PostForm.Get("account_id")

		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "at-123", "token_type": "bearer", "expires_in": 3600,
		})
	})

	token, err := c.GetAccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "at-123", token)
	assert.Equal(t, "account_credentials", sawGrant)
	assert.Equal(t, "acct-1", sawAccount)
}

func TestGetAccessTokenOAuthFailure(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"reason":"invalid client"}`, http.StatusUnauthorized)
	})

	_, err := c.GetAccessToken(context.Background())
	assert.ErrorIs(t, err, ErrAuth)
}

func TestGetAccessTokenJWTMode(t *testing.T) {
	c := NewClient(config.App{
		ZoomAuthMode:  "jwt",
		ZoomAPIKey:    "api-key",
		ZoomAPISecret: "api-secret",
	})

	signed, err := c.GetAccessToken(context.Background())
	require.NoError(t, err)

	parsed, err := jwt.ParseWithClaims(signed, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte("api-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(*jwt.RegisteredClaims)
	assert.Equal(t, "api-key", claims.Issuer)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestCreateMeeting(t *testing.T) {
	var gotReq map[string]any
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/token":
			_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "at-123"})
		case "/users/me/meetings":
			assert.Equal(t, "Bearer at-123", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":         83900001,
				"topic":      gotReq["topic"],
				"start_time": gotReq["start_time"],
				"duration":   gotReq["duration"],
				"join_url":   "https://zoom.us/j/83900001",
				"start_url":  "https://zoom.us/s/83900001",
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	when := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	meeting, err := c.CreateMeeting(context.Background(), "Weekly Check-in", when, 30)
	require.NoError(t, err)

	assert.Equal(t, "83900001", meeting.ID.String())
	assert.Equal(t, "https://zoom.us/j/83900001", meeting.JoinURL)
	assert.Equal(t, "https://zoom.us/s/83900001", meeting.StartURL)

	assert.Equal(t, float64(2), gotReq["type"], "scheduled meeting type")
	assert.Equal(t, "2024-06-01T12:00:00Z", gotReq["start_time"])
	settings := gotReq["settings"].(map[string]any)
	assert.Equal(t, true, settings["waiting_room"])
	assert.Equal(t, true, settings["mute_upon_entry"])
	assert.Equal(t, "none", settings["auto_recording"])
}

func TestCreateMeetingUpstreamFailure(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/token":
			_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "at-123"})
		default:
			http.Error(w, `{"code":3000,"message":"error"}`, http.StatusBadRequest)
		}
	})

	_, err := c.CreateMeeting(context.Background(), "x", time.Now(), 30)
	assert.ErrorIs(t, err, ErrUpstream)
}
