package webhooks

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proofmeet-backend/internal/models"
)

type capturePublisher struct {
	events []models.MeetingEvent
}

func (p *capturePublisher) PublishMeetingEvent(event models.MeetingEvent) error {
	p.events = append(p.events, event)
	return nil
}

func post(t *testing.T, h *Handler, payload string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/zoom", strings.NewReader(payload))
	w := httptest.NewRecorder()
	h.Receive(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestURLValidationEchoesPlainToken(t *testing.T) {
	h := New(nil)

	w, body := post(t, h, `{"event":"endpoint.url_validation","payload":{"plainToken":"abc123"}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc123", body["plainToken"])
}

func TestGetChallenge(t *testing.T) {
	h := New(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/webhooks/zoom?challenge=tok42", nil)
	w := httptest.NewRecorder()
	h.Validate(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "tok42", body["challenge"])

	// without challenge: endpoint-active status
	req = httptest.NewRequest(http.MethodGet, "/api/webhooks/zoom", nil)
	w = httptest.NewRecorder()
	h.Validate(w, req)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Webhook endpoint is active", body["status"])
}

func TestLifecycleEventsArePublished(t *testing.T) {
	pub := &capturePublisher{}
	h := New(pub)

	w, body := post(t, h, `{
		"event": "meeting.participant_joined",
		"payload": {"object": {"id": 83900001, "topic": "Weekly Check-in",
			"participant": {"user_name": "Jane Doe", "email": "jane@example.com"}}}
	}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["received"])

	require.Len(t, pub.events, 1)
	event := pub.events[0]
	assert.Equal(t, "meeting.participant_joined", event.Event)
	assert.Equal(t, "83900001", event.ZoomMeetingID)
	assert.Equal(t, "Jane Doe", event.ParticipantName)
	assert.Equal(t, "jane@example.com", event.ParticipantEmail)

	w, body = post(t, h, `{"event":"meeting.ended","payload":{"object":{"id":83900001}}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["received"])
	assert.Len(t, pub.events, 2)
}

func TestUnknownEventIsAcknowledged(t *testing.T) {
	pub := &capturePublisher{}
	h := New(pub)

	w, body := post(t, h, `{"event":"recording.completed","payload":{}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["received"])
	assert.Empty(t, pub.events)
}

func TestMalformedBody(t *testing.T) {
	h := New(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/zoom", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.Receive(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
