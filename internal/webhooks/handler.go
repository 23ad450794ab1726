package webhooks

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"proofmeet-backend/internal/models"
)

// Publisher forwards classified lifecycle events to the bus. May be nil when
// no bus is configured.
type Publisher interface {
	PublishMeetingEvent(event models.MeetingEvent) error
}

type Handler struct {
	publisher Publisher
}

func New(publisher Publisher) *Handler {
	return &Handler{publisher: publisher}
}

// Responses on this endpoint follow Zoom's expected shapes, not the API
// envelope used elsewhere.
func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Validate answers Zoom's GET verification probe.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	challenge := r.URL.Query().Get("challenge")
	if challenge != "" {
		log.Printf("zoom webhook verification request, challenge=%s", challenge)
		writeJSON(w, http.StatusOK, map[string]any{"challenge": challenge})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "Webhook endpoint is active",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Receive classifies and acknowledges a Zoom event delivery. Events are
// logged and optionally published; nothing is written to the meeting store.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	var event models.WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}

	switch event.Event {
	case "endpoint.url_validation":
		if event.Payload.PlainToken != "" {
			log.Printf("zoom endpoint validation, echoing plainToken")
			writeJSON(w, http.StatusOK, map[string]any{"plainToken": event.Payload.PlainToken})
			return
		}

	case "meeting.started", "meeting.ended":
		log.Printf("%s: meeting=%s", event.Event, objectID(event))
		h.publish(event)

	case "meeting.participant_joined", "meeting.participant_left":
		name, email := participant(event)
		log.Printf("%s: meeting=%s participant=%s <%s>", event.Event, objectID(event), name, email)
		h.publish(event)

	default:
		log.Printf("unhandled zoom event type: %s", event.Event)
	}

	writeJSON(w, http.StatusOK, map[string]any{"received": true})
}

func (h *Handler) publish(event models.WebhookEvent) {
	if h.publisher == nil {
		return
	}
	name, email := participant(event)
	me := models.MeetingEvent{
		Event:            event.Event,
		TS:               time.Now().UnixMilli(),
		ZoomMeetingID:    objectID(event),
		ParticipantName:  name,
		ParticipantEmail: email,
	}
	if event.Payload.Object != nil {
		me.Topic = event.Payload.Object.Topic
	}
	if err := h.publisher.PublishMeetingEvent(me); err != nil {
		log.Printf("publish %s: %v", event.Event, err)
	}
}

func objectID(event models.WebhookEvent) string {
	if event.Payload.Object == nil {
		return ""
	}
	return event.Payload.Object.ID.String()
}

func participant(event models.WebhookEvent) (name, email string) {
	if event.Payload.Object == nil || event.Payload.Object.Participant == nil {
		return "", ""
	}
	return event.Payload.Object.Participant.UserName, event.Payload.Object.Participant.Email
}
