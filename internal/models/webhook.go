package models

import "encoding/json"

// Zoom webhook event envelope. Payload fields are populated per event type;
// unused ones stay zero.
type WebhookEvent struct {
	Event   string         `json:"event"`
	EventTS int64          `json:"event_ts,omitempty"`
	Payload WebhookPayload `json:"payload"`
}

type WebhookPayload struct {
	PlainToken string         `json:"plainToken,omitempty"`
	AccountID  string         `json:"account_id,omitempty"`
	Object     *WebhookObject `json:"object,omitempty"`
}

type WebhookObject struct {
	ID          json.Number         `json:"id,omitempty"`
	UUID        string              `json:"uuid,omitempty"`
	Topic       string              `json:"topic,omitempty"`
	Participant *WebhookParticipant `json:"participant,omitempty"`
}

type WebhookParticipant struct {
	UserName string `json:"user_name,omitempty"`
	Email    string `json:"email,omitempty"`
	UserID   string `json:"user_id,omitempty"`
}

// MeetingEvent is the bus representation of a classified webhook event,
// published on meetings.events.* subjects.
type MeetingEvent struct {
	Event            string `msgpack:"event"`
	TS               int64  `msgpack:"ts"`
	ZoomMeetingID    string `msgpack:"zoom_meeting_id"`
	Topic            string `msgpack:"topic,omitempty"`
	ParticipantName  string `msgpack:"participant_name,omitempty"`
	ParticipantEmail string `msgpack:"participant_email,omitempty"`
}
