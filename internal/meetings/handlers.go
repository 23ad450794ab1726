package meetings

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"proofmeet-backend/internal/api"
	"proofmeet-backend/internal/auth"
	"proofmeet-backend/internal/models"
	"proofmeet-backend/internal/storage"
	"proofmeet-backend/internal/zoom"
)

// Gateway is the conferencing provider boundary; satisfied by *zoom.Client.
type Gateway interface {
	GetAccessToken(ctx context.Context) (string, error)
	CreateMeeting(ctx context.Context, title string, scheduledFor time.Time, duration int) (*zoom.Meeting, error)
}

type Handler struct {
	store   storage.Store
	gateway Gateway
}

func New(store storage.Store, gateway Gateway) *Handler {
	return &Handler{store: store, gateway: gateway}
}

type meetingRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ScheduledFor string `json:"scheduledFor"`
	Duration     int    `json:"duration"`
}

// Create schedules the Zoom meeting first, then persists the record. A
// gateway failure leaves no partial meeting behind.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		api.Error(w, http.StatusUnauthorized, "Invalid authentication token")
		return
	}
	if !user.IsHost {
		api.Error(w, http.StatusForbidden, "Only hosts can create meetings")
		return
	}

	var req meetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	scheduledFor, err := time.Parse(time.RFC3339, req.ScheduledFor)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "scheduledFor must be an RFC3339 timestamp")
		return
	}

	zm, err := h.gateway.CreateMeeting(r.Context(), req.Title, scheduledFor, req.Duration)
	if err != nil {
		log.Printf("error creating zoom meeting: %v", err)
		api.Error(w, http.StatusInternalServerError, "Failed to create meeting")
		return
	}

	meeting := &models.Meeting{
		ID:            uuid.New().String(),
		Title:         req.Title,
		Description:   req.Description,
		ScheduledFor:  scheduledFor,
		Duration:      req.Duration,
		HostID:        user.ID,
		ZoomMeetingID: zm.ID.String(),
		ZoomJoinURL:   zm.JoinURL,
		IsActive:      true,
	}
	if err := h.store.CreateMeeting(r.Context(), meeting); err != nil {
		log.Printf("error persisting meeting: %v", err)
		api.Error(w, http.StatusInternalServerError, "Failed to create meeting")
		return
	}

	api.Data(w, http.StatusCreated, map[string]any{
		"meetingId":     meeting.ID,
		"zoomMeetingId": meeting.ZoomMeetingID,
		"joinUrl":       meeting.ZoomJoinURL,
		"title":         meeting.Title,
		"scheduledFor":  meeting.ScheduledFor,
		"duration":      meeting.Duration,
	})
}

// ListByHost returns a host's meetings, newest scheduled first.
func (h *Handler) ListByHost(w http.ResponseWriter, r *http.Request) {
	hostID := chi.URLParam(r, "hostId")
	page, limit, active := listParams(r, 10)

	meetings, err := h.store.ListMeetings(r.Context(), storage.ListFilter{
		HostID: hostID,
		Active: active,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		log.Printf("error fetching meetings: %v", err)
		api.Error(w, http.StatusInternalServerError, "Failed to fetch meetings")
		return
	}
	api.List(w, http.StatusOK, meetings, page, limit, len(meetings))
}

// ListAll returns meetings across all hosts, for participants browsing.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	page, limit, active := listParams(r, 20)

	meetings, err := h.store.ListMeetings(r.Context(), storage.ListFilter{
		Active: active,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		log.Printf("error fetching all meetings: %v", err)
		api.Error(w, http.StatusInternalServerError, "Failed to fetch all meetings")
		return
	}
	api.List(w, http.StatusOK, meetings, page, limit, len(meetings))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req meetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	scheduledFor, err := time.Parse(time.RFC3339, req.ScheduledFor)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "scheduledFor must be an RFC3339 timestamp")
		return
	}

	meeting, err := h.store.UpdateMeeting(r.Context(), id, storage.MeetingUpdate{
		Title:        req.Title,
		Description:  req.Description,
		ScheduledFor: scheduledFor,
		Duration:     req.Duration,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "Meeting not found")
			return
		}
		log.Printf("error updating meeting: %v", err)
		api.Error(w, http.StatusInternalServerError, "Failed to update meeting")
		return
	}
	api.Data(w, http.StatusOK, meeting)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteMeeting(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "Meeting not found")
			return
		}
		log.Printf("error deleting meeting: %v", err)
		api.Error(w, http.StatusInternalServerError, "Failed to delete meeting")
		return
	}
	api.Message(w, http.StatusOK, "Meeting deleted successfully")
}

// ZoomTest proves the credential exchange works without creating anything.
func (h *Handler) ZoomTest(w http.ResponseWriter, r *http.Request) {
	if _, err := h.gateway.GetAccessToken(r.Context()); err != nil {
		log.Printf("zoom api test failed: %v", err)
		api.Error(w, http.StatusInternalServerError, "Zoom API connection failed")
		return
	}
	api.DataMessage(w, http.StatusOK, "Zoom API connection successful", map[string]any{
		"status":        "Connected",
		"tokenValid":    true,
		"tokenObtained": time.Now().UTC().Format(time.RFC3339),
	})
}

// ZoomTestMeeting creates a real throwaway meeting an hour out.
func (h *Handler) ZoomTestMeeting(w http.ResponseWriter, r *http.Request) {
	zm, err := h.gateway.CreateMeeting(r.Context(), "ProofMeet Test Meeting", time.Now().Add(time.Hour), 30)
	if err != nil {
		log.Printf("zoom test meeting failed: %v", err)
		api.Error(w, http.StatusInternalServerError, "Failed to create test meeting")
		return
	}
	api.DataMessage(w, http.StatusOK, "Test Zoom meeting created successfully", map[string]any{
		"meetingId":    zm.ID.String(),
		"joinUrl":      zm.JoinURL,
		"startUrl":     zm.StartURL,
		"title":        zm.Topic,
		"scheduledFor": zm.StartTime,
		"duration":     zm.Duration,
	})
}

func listParams(r *http.Request, defaultLimit int) (page, limit int, active *bool) {
	page = 1
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	limit = defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}

	status := r.URL.Query().Get("status")
	if status == "" {
		status = "active"
	}
	switch status {
	case "active":
		t := true
		active = &t
	case "inactive":
		f := false
		active = &f
	default:
		// "all" or anything else: no filter
	}
	return page, limit, active
}
