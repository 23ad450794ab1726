package models

import "time"

type User struct {
	ID              string    `json:"id" db:"id"`
	Email           string    `json:"email" db:"email"`
	CourtID         string    `json:"courtId" db:"court_id"`
	State           string    `json:"state" db:"state"`
	CourtCaseNumber string    `json:"courtCaseNumber" db:"court_case_number"`
	FirstName       string    `json:"firstName,omitempty" db:"first_name"`
	LastName        string    `json:"lastName,omitempty" db:"last_name"`
	PhoneNumber     string    `json:"phoneNumber,omitempty" db:"phone_number"`
	DateOfBirth     string    `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	IsHost          bool      `json:"isHost" db:"is_host"`
	IsVerified      bool      `json:"isVerified" db:"is_verified"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

type AuthToken struct {
	Token     string    `json:"token" db:"token"`
	UserID    string    `json:"userId" db:"user_id"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
}

type Meeting struct {
	ID            string    `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Description   string    `json:"description" db:"description"`
	ScheduledFor  time.Time `json:"scheduledFor" db:"scheduled_for"`
	Duration      int       `json:"duration" db:"duration"`
	HostID        string    `json:"hostId" db:"host_id"`
	ZoomMeetingID string    `json:"zoomMeetingId" db:"zoom_meeting_id"`
	ZoomJoinURL   string    `json:"zoomJoinUrl" db:"zoom_join_url"`
	IsActive      bool      `json:"isActive" db:"is_active"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
