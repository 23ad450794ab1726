package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"proofmeet-backend/internal/api"
	"proofmeet-backend/internal/models"
	"proofmeet-backend/internal/storage"
)

type Handler struct {
	store    storage.Store
	verifier CredentialVerifier
	tokenTTL time.Duration
}

func NewHandler(store storage.Store, verifier CredentialVerifier, tokenTTL time.Duration) *Handler {
	return &Handler{store: store, verifier: verifier, tokenTTL: tokenTTL}
}

type registerRequest struct {
	Email           string `json:"email"`
	CourtID         string `json:"courtId"`
	State           string `json:"state"`
	CourtCaseNumber string `json:"courtCaseNumber"`
	IsHost          bool   `json:"isHost"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	PhoneNumber     string `json:"phoneNumber"`
	DateOfBirth     string `json:"dateOfBirth"`
}

// Register creates a user pending court verification. Host status is an
// explicit request field, not inferred from the email address.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" {
		api.Error(w, http.StatusBadRequest, "Email is required")
		return
	}

	user := &models.User{
		ID:              uuid.New().String(),
		Email:           req.Email,
		CourtID:         req.CourtID,
		State:           req.State,
		CourtCaseNumber: req.CourtCaseNumber,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		PhoneNumber:     req.PhoneNumber,
		DateOfBirth:     req.DateOfBirth,
		IsHost:          req.IsHost,
		IsVerified:      false,
	}

	if err := h.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			api.Error(w, http.StatusBadRequest, "User already exists")
			return
		}
		log.Printf("registration error: %v", err)
		api.Error(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	role := "Participant"
	if user.IsHost {
		role = "Host"
	}
	log.Printf("user registered: %s (%s)", user.Email, role)

	api.DataMessage(w, http.StatusCreated, "User registered successfully", map[string]any{
		"userId":  user.ID,
		"email":   user.Email,
		"courtId": user.CourtID,
		"state":   user.State,
	})
}

type verifyRequest struct {
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

// Verify toggles court verification on a user. This is the only mutation
// path for isVerified.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.store.SetUserVerified(r.Context(), req.Email, req.Verified); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("verification error: %v", err)
		api.Error(w, http.StatusInternalServerError, "Verification failed")
		return
	}

	msg := "User verified successfully"
	if !req.Verified {
		msg = "User unverified successfully"
	}
	api.Message(w, http.StatusOK, msg)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks credentials and verification status, then mints an opaque
// bearer token bound to the user.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			api.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Printf("login error: %v", err)
		api.Error(w, http.StatusInternalServerError, "Login failed")
		return
	}

	if err := h.verifier.Verify(req.Password); err != nil {
		api.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !user.IsVerified {
		api.Error(w, http.StatusUnauthorized, "Account not verified by court system")
		return
	}

	token := &models.AuthToken{
		Token:     uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(h.tokenTTL),
	}
	if err := h.store.CreateToken(r.Context(), token); err != nil {
		log.Printf("login error: %v", err)
		api.Error(w, http.StatusInternalServerError, "Login failed")
		return
	}

	api.Data(w, http.StatusOK, map[string]any{
		"token": token.Token,
		"user": map[string]any{
			"id":         user.ID,
			"email":      user.Email,
			"courtId":    user.CourtID,
			"state":      user.State,
			"isHost":     user.IsHost,
			"isVerified": user.IsVerified,
		},
	})
}

// Me returns the user behind the presented bearer token.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		api.Error(w, http.StatusUnauthorized, "Invalid authentication token")
		return
	}
	api.Data(w, http.StatusOK, map[string]any{"user": user})
}
