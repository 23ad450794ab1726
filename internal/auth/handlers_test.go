package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proofmeet-backend/internal/config"
	"proofmeet-backend/internal/models"
	"proofmeet-backend/internal/storage"
)

func newTestHandler() (*Handler, *storage.Memory) {
	store := storage.NewMemory()
	h := NewHandler(store, permissiveVerifier{}, 24*time.Hour)
	return h, store
}

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, _ := newTestHandler()

	req := map[string]any{
		"email":           "host1@example.com",
		"courtId":         "CA-HOST-001",
		"state":           "CA",
		"courtCaseNumber": "HOST-2024-001",
		"isHost":          true,
	}

	w := postJSON(t, h.Register, req)
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "host1@example.com", data["email"])
	assert.NotEmpty(t, data["userId"])

	w = postJSON(t, h.Register, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "User already exists", body["error"])
}

func TestLoginRequiresVerification(t *testing.T) {
	h, _ := newTestHandler()

	w := postJSON(t, h.Register, map[string]any{"email": "p1@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)

	// not yet verified
	w = postJSON(t, h.Login, map[string]any{"email": "p1@example.com"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Account not verified by court system", decodeBody(t, w)["error"])

	w = postJSON(t, h.Verify, map[string]any{"email": "p1@example.com", "verified": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, h.Login, map[string]any{"email": "p1@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.NotEmpty(t, data["token"])
	user := data["user"].(map[string]any)
	assert.Equal(t, "p1@example.com", user["email"])
	assert.Equal(t, true, user["isVerified"])
}

func TestLoginUnknownEmail(t *testing.T) {
	h, _ := newTestHandler()

	w := postJSON(t, h.Login, map[string]any{"email": "ghost@example.com"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decodeBody(t, w)["error"])
}

func TestLoginPasswordVerifier(t *testing.T) {
	store := storage.NewMemory()
	verifier := NewVerifier(config.App{LoginPassword: "password123"})
	h := NewHandler(store, verifier, 24*time.Hour)

	postJSON(t, h.Register, map[string]any{"email": "p1@example.com"})
	postJSON(t, h.Verify, map[string]any{"email": "p1@example.com", "verified": true})

	w := postJSON(t, h.Login, map[string]any{"email": "p1@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(t, h.Login, map[string]any{"email": "p1@example.com", "password": "password123"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVerifyUnknownUser(t *testing.T) {
	h, _ := newTestHandler()

	w := postJSON(t, h.Verify, map[string]any{"email": "nobody@example.com", "verified": true})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decodeBody(t, w)["error"])
}

func TestMiddlewareResolvesToken(t *testing.T) {
	h, store := newTestHandler()

	postJSON(t, h.Register, map[string]any{"email": "p1@example.com"})
	postJSON(t, h.Verify, map[string]any{"email": "p1@example.com", "verified": true})
	w := postJSON(t, h.Login, map[string]any{"email": "p1@example.com"})
	token := decodeBody(t, w)["data"].(map[string]any)["token"].(string)

	protected := Middleware(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "p1@example.com", user.Email)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// missing header
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// unknown token
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareRejectsExpiredToken(t *testing.T) {
	h, store := newTestHandler()

	postJSON(t, h.Register, map[string]any{"email": "p1@example.com"})
	postJSON(t, h.Verify, map[string]any{"email": "p1@example.com", "verified": true})

	user, err := store.GetUserByEmail(context.Background(), "p1@example.com")
	require.NoError(t, err)

	expired := &models.AuthToken{
		Token:     "expired-token",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, store.CreateToken(context.Background(), expired))

	protected := Middleware(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
