package zoom

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"proofmeet-backend/internal/config"
)

var (
	ErrAuth     = errors.New("zoom auth failed")
	ErrUpstream = errors.New("zoom request failed")
)

// Client talks to the Zoom REST API. Auth is either Server-to-Server OAuth
// (account_credentials grant) or the legacy JWT app flow, selected by
// ZOOM_AUTH_MODE. Tokens are not cached; every API call re-authenticates.
type Client struct {
	accountID    string
	clientID     string
	clientSecret string
	apiKey       string
	apiSecret    string
	authMode     string
	baseURL      string
	oauthURL     string
	client       *http.Client
}

func NewClient(cfg config.App) *Client {
	return &Client{
		accountID:    cfg.ZoomAccountID,
		clientID:     cfg.ZoomClientID,
		clientSecret: cfg.ZoomClientSecret,
		apiKey:       cfg.ZoomAPIKey,
		apiSecret:    cfg.ZoomAPISecret,
		authMode:     cfg.ZoomAuthMode,
		baseURL:      cfg.ZoomAPIBaseURL,
		oauthURL:     cfg.ZoomOAuthURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Meeting is the subset of Zoom's meeting resource the backend cares about.
type Meeting struct {
	ID        json.Number `json:"id"`
	Topic     string      `json:"topic"`
	StartTime string      `json:"start_time"`
	Duration  int         `json:"duration"`
	JoinURL   string      `json:"join_url"`
	StartURL  string      `json:"start_url"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// GetAccessToken exchanges the configured credentials for a bearer token.
func (c *Client) GetAccessToken(ctx context.Context) (string, error) {
	if c.authMode == "jwt" {
		return c.signJWT()
	}
	return c.oauthToken(ctx)
}

func (c *Client) oauthToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "account_credentials")
	form.Set("account_id", c.accountID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.oauthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("zoom token exchange failed: status=%d body=%s", resp.StatusCode, string(body))
		return "", fmt.Errorf("%w: status %d", ErrAuth, resp.StatusCode)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("%w: decode token: %v", ErrAuth, err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrAuth)
	}
	return tok.AccessToken, nil
}

// signJWT mints a short-lived token the way legacy Zoom JWT apps did.
func (c *Client) signJWT() (string, error) {
	if c.apiKey == "" || c.apiSecret == "" {
		return "", fmt.Errorf("%w: ZOOM_API_KEY/ZOOM_API_SECRET not set", ErrAuth)
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    c.apiKey,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(30 * time.Minute)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(c.apiSecret))
	if err != nil {
		return "", fmt.Errorf("%w: sign: %v", ErrAuth, err)
	}
	return signed, nil
}

type createMeetingRequest struct {
	Topic     string          `json:"topic"`
	Type      int             `json:"type"`
	StartTime string          `json:"start_time"`
	Duration  int             `json:"duration"`
	Timezone  string          `json:"timezone"`
	Settings  meetingSettings `json:"settings"`
}

type meetingSettings struct {
	HostVideo        bool   `json:"host_video"`
	ParticipantVideo bool   `json:"participant_video"`
	JoinBeforeHost   bool   `json:"join_before_host"`
	MuteUponEntry    bool   `json:"mute_upon_entry"`
	WaitingRoom      bool   `json:"waiting_room"`
	Audio            string `json:"audio"`
	AutoRecording    string `json:"auto_recording"`
}

// CreateMeeting schedules a meeting under the API account's user. The access
// token is fetched per call; a failure anywhere surfaces before anything is
// persisted by the caller.
func (c *Client) CreateMeeting(ctx context.Context, title string, scheduledFor time.Time, duration int) (*Meeting, error) {
	accessToken, err := c.GetAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	body := createMeetingRequest{
		Topic:     title,
		Type:      2, // scheduled meeting
		StartTime: scheduledFor.UTC().Format(time.RFC3339),
		Duration:  duration,
		Timezone:  "UTC",
		Settings: meetingSettings{
			HostVideo:        true,
			ParticipantVideo: true,
			JoinBeforeHost:   false,
			MuteUponEntry:    true,
			WaitingRoom:      true,
			Audio:            "both",
			AutoRecording:    "none",
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal meeting request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users/me/meetings", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create meeting request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		log.Printf("zoom create meeting failed: status=%d body=%s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var meeting Meeting
	if err := json.NewDecoder(resp.Body).Decode(&meeting); err != nil {
		return nil, fmt.Errorf("%w: decode meeting: %v", ErrUpstream, err)
	}
	return &meeting, nil
}
