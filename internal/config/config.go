package config

import (
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	Port string `envconfig:"PORT" default:"8080"`

	// Storage: "memory" keeps everything in-process, "postgres" uses the DB_* settings.
	StoreBackend string `envconfig:"STORE_BACKEND" default:"memory"`
	DBHost       string `envconfig:"DB_HOST" default:"localhost"`
	DBUser       string `envconfig:"DB_USER" default:"proofmeet"`
	DBPassword   string `envconfig:"DB_PASSWORD" default:"proofmeet"`
	DBName       string `envconfig:"DB_NAME" default:"proofmeet"`

	// Login credential check. When the bcrypt hash is set it wins; otherwise
	// the plain literal is compared; with neither set any password passes.
	LoginPassword       string `envconfig:"LOGIN_PASSWORD"`
	LoginPasswordBcrypt string `envconfig:"LOGIN_PASSWORD_BCRYPT"`
	TokenTTLHours       int    `envconfig:"TOKEN_TTL_HOURS" default:"24"`

	// Zoom Server-to-Server OAuth credentials (AuthMode "oauth"), or the
	// legacy JWT app key/secret pair (AuthMode "jwt").
	ZoomAccountID    string `envconfig:"ZOOM_ACCOUNT_ID"`
	ZoomClientID     string `envconfig:"ZOOM_CLIENT_ID"`
	ZoomClientSecret string `envconfig:"ZOOM_CLIENT_SECRET"`
	ZoomAPIKey       string `envconfig:"ZOOM_API_KEY"`
	ZoomAPISecret    string `envconfig:"ZOOM_API_SECRET"`
	ZoomAuthMode     string `envconfig:"ZOOM_AUTH_MODE" default:"oauth"`
	ZoomAPIBaseURL   string `envconfig:"ZOOM_API_BASE_URL" default:"https://api.zoom.us/v2"`
	ZoomOAuthURL     string `envconfig:"ZOOM_OAUTH_URL" default:"https://zoom.us/oauth/token"`

	// Optional infrastructure. Features are skipped when unset.
	RedisURL string `envconfig:"REDIS_URL"`
	NATSURL  string `envconfig:"NATS_URL"`

	SeedTestUsers bool `envconfig:"SEED_TEST_USERS"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
