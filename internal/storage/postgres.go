package storage

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"proofmeet-backend/internal/models"
)

type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, court_id, state, court_case_number,
			first_name, last_name, phone_number, date_of_birth, is_host, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`
	err := s.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.CourtID, user.State, user.CourtCaseNumber,
		user.FirstName, user.LastName, user.PhoneNumber, user.DateOfBirth,
		user.IsHost, user.IsVerified).Scan(&user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *Postgres) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := userSelect + ` WHERE email = $1`
	if err := s.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Postgres) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	query := userSelect + ` WHERE id = $1`
	if err := s.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

const userSelect = `
	SELECT id, email, court_id, state, court_case_number,
		first_name, last_name, phone_number, date_of_birth,
		is_host, is_verified, created_at
	FROM users`

func (s *Postgres) SetUserVerified(ctx context.Context, email string, verified bool) error {
	query := `UPDATE users SET is_verified = $1 WHERE email = $2`
	res, err := s.db.ExecContext(ctx, query, verified, email)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) CreateToken(ctx context.Context, token *models.AuthToken) error {
	query := `INSERT INTO auth_tokens (token, user_id, expires_at) VALUES ($1, $2, $3)`
	_, err := s.db.ExecContext(ctx, query, token.Token, token.UserID, token.ExpiresAt)
	return err
}

func (s *Postgres) GetToken(ctx context.Context, token string) (*models.AuthToken, error) {
	var t models.AuthToken
	query := `SELECT token, user_id, expires_at FROM auth_tokens WHERE token = $1`
	if err := s.db.GetContext(ctx, &t, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Postgres) DeleteExpiredTokens(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *Postgres) CreateMeeting(ctx context.Context, meeting *models.Meeting) error {
	query := `
		INSERT INTO meetings (id, title, description, scheduled_for, duration,
			host_id, zoom_meeting_id, zoom_join_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	return s.db.QueryRowContext(ctx, query,
		meeting.ID, meeting.Title, meeting.Description, meeting.ScheduledFor,
		meeting.Duration, meeting.HostID, meeting.ZoomMeetingID,
		meeting.ZoomJoinURL, meeting.IsActive).Scan(&meeting.CreatedAt)
}

func (s *Postgres) GetMeeting(ctx context.Context, id string) (*models.Meeting, error) {
	var m models.Meeting
	query := meetingSelect + ` WHERE id = $1`
	if err := s.db.GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

const meetingSelect = `
	SELECT id, title, description, scheduled_for, duration,
		host_id, zoom_meeting_id, zoom_join_url, is_active, created_at
	FROM meetings`

func (s *Postgres) ListMeetings(ctx context.Context, f ListFilter) ([]models.Meeting, error) {
	offset, limit := f.normalized()

	query := meetingSelect + ` WHERE 1=1`
	args := []interface{}{}
	if f.HostID != "" {
		args = append(args, f.HostID)
		query += ` AND host_id = $` + strconv.Itoa(len(args))
	}
	if f.Active != nil {
		args = append(args, *f.Active)
		query += ` AND is_active = $` + strconv.Itoa(len(args))
	}
	args = append(args, limit)
	query += ` ORDER BY scheduled_for DESC LIMIT $` + strconv.Itoa(len(args))
	args = append(args, offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	meetings := []models.Meeting{}
	if err := s.db.SelectContext(ctx, &meetings, query, args...); err != nil {
		return nil, err
	}
	return meetings, nil
}

func (s *Postgres) UpdateMeeting(ctx context.Context, id string, upd MeetingUpdate) (*models.Meeting, error) {
	query := `
		UPDATE meetings
		SET title = $1, description = $2, scheduled_for = $3, duration = $4
		WHERE id = $5
	`
	res, err := s.db.ExecContext(ctx, query, upd.Title, upd.Description, upd.ScheduledFor, upd.Duration, id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetMeeting(ctx, id)
}

func (s *Postgres) DeleteMeeting(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM meetings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Postgres) Close() error {
	return s.db.Close()
}
