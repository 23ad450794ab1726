package storage

import (
	"context"
	"errors"
	"time"

	"proofmeet-backend/internal/models"
)

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
)

// ListFilter narrows and pages meeting queries. Active==nil means no
// is_active filtering. Page is 1-based.
type ListFilter struct {
	HostID string
	Active *bool
	Page   int
	Limit  int
}

func (f ListFilter) normalized() (offset, limit int) {
	page := f.Page
	if page < 1 {
		page = 1
	}
	limit = f.Limit
	if limit < 1 {
		limit = 10
	}
	return (page - 1) * limit, limit
}

// MeetingUpdate carries the mutable meeting fields for Update.
type MeetingUpdate struct {
	Title        string
	Description  string
	ScheduledFor time.Time
	Duration     int
}

// Store is the persistence boundary shared by the in-memory and Postgres
// backends. Uniqueness of users.email is the store's responsibility.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	SetUserVerified(ctx context.Context, email string, verified bool) error

	CreateToken(ctx context.Context, token *models.AuthToken) error
	GetToken(ctx context.Context, token string) (*models.AuthToken, error)
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int, error)

	CreateMeeting(ctx context.Context, meeting *models.Meeting) error
	GetMeeting(ctx context.Context, id string) (*models.Meeting, error)
	ListMeetings(ctx context.Context, f ListFilter) ([]models.Meeting, error)
	UpdateMeeting(ctx context.Context, id string, upd MeetingUpdate) (*models.Meeting, error)
	DeleteMeeting(ctx context.Context, id string) error

	Ping(ctx context.Context) error
	Close() error
}
