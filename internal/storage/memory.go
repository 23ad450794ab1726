package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"proofmeet-backend/internal/models"
)

// Memory keeps everything in process. It exists so the server can run
// without Postgres (demos, tests); the mutex makes concurrent handlers safe.
type Memory struct {
	mu       sync.RWMutex
	users    map[string]*models.User // keyed by email
	tokens   map[string]*models.AuthToken
	meetings map[string]*models.Meeting
}

func NewMemory() *Memory {
	return &Memory{
		users:    make(map[string]*models.User),
		tokens:   make(map[string]*models.AuthToken),
		meetings: make(map[string]*models.Meeting),
	}
}

func (s *Memory) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Email]; ok {
		return ErrAlreadyExists
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	u := *user
	s.users[user.Email] = &u
	return nil
}

func (s *Memory) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	u := *user
	return &u, nil
}

func (s *Memory) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.ID == id {
			u := *user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Memory) SetUserVerified(_ context.Context, email string, verified bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[email]
	if !ok {
		return ErrNotFound
	}
	user.IsVerified = verified
	return nil
}

func (s *Memory) CreateToken(_ context.Context, token *models.AuthToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := *token
	s.tokens[token.Token] = &t
	return nil
}

func (s *Memory) GetToken(_ context.Context, token string) (*models.AuthToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tokens[token]
	if !ok {
		return nil, ErrNotFound
	}
	out := *t
	return &out, nil
}

func (s *Memory) DeleteExpiredTokens(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, t := range s.tokens {
		if now.After(t.ExpiresAt) {
			delete(s.tokens, key)
			removed++
		}
	}
	return removed, nil
}

func (s *Memory) CreateMeeting(_ context.Context, meeting *models.Meeting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if meeting.CreatedAt.IsZero() {
		meeting.CreatedAt = time.Now().UTC()
	}
	m := *meeting
	s.meetings[meeting.ID] = &m
	return nil
}

func (s *Memory) GetMeeting(_ context.Context, id string) (*models.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.meetings[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *m
	return &out, nil
}

func (s *Memory) ListMeetings(_ context.Context, f ListFilter) ([]models.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.Meeting, 0)
	for _, m := range s.meetings {
		if f.HostID != "" && m.HostID != f.HostID {
			continue
		}
		if f.Active != nil && m.IsActive != *f.Active {
			continue
		}
		matched = append(matched, *m)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ScheduledFor.After(matched[j].ScheduledFor)
	})

	offset, limit := f.normalized()
	if offset >= len(matched) {
		return []models.Meeting{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (s *Memory) UpdateMeeting(_ context.Context, id string, upd MeetingUpdate) (*models.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.meetings[id]
	if !ok {
		return nil, ErrNotFound
	}
	m.Title = upd.Title
	m.Description = upd.Description
	m.ScheduledFor = upd.ScheduledFor
	m.Duration = upd.Duration
	out := *m
	return &out, nil
}

func (s *Memory) DeleteMeeting(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meetings[id]; !ok {
		return ErrNotFound
	}
	delete(s.meetings, id)
	return nil
}

func (s *Memory) Ping(_ context.Context) error { return nil }

func (s *Memory) Close() error { return nil }
