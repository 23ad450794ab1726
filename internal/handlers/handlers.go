package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"proofmeet-backend/internal/auth"
	"proofmeet-backend/internal/meetings"
	"proofmeet-backend/internal/storage"
	"proofmeet-backend/internal/webhooks"
)

const version = "2.0.0"

type Handler struct {
	store      storage.Store
	auth       *auth.Handler
	meetings   *meetings.Handler
	webhooks   *webhooks.Handler
	loginLimit func(http.Handler) http.Handler
	dbBacked   bool
}

func New(store storage.Store, authH *auth.Handler, meetingsH *meetings.Handler, webhooksH *webhooks.Handler, loginLimit func(http.Handler) http.Handler, dbBacked bool) *Handler {
	return &Handler{
		store:      store,
		auth:       authH,
		meetings:   meetingsH,
		webhooks:   webhooksH,
		loginLimit: loginLimit,
		dbBacked:   dbBacked,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	authMW := auth.Middleware(h.store)

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.auth.Register)
			r.Post("/verify", h.auth.Verify)
			if h.loginLimit != nil {
				r.With(h.loginLimit).Post("/login", h.auth.Login)
			} else {
				r.Post("/login", h.auth.Login)
			}
			r.With(authMW).Get("/me", h.auth.Me)
		})

		r.Route("/meetings", func(r chi.Router) {
			r.With(authMW).Post("/create", h.meetings.Create)
			r.Get("/host/{hostId}", h.meetings.ListByHost)
			r.Get("/all", h.meetings.ListAll)
			r.Put("/{id}", h.meetings.Update)
			r.Delete("/{id}", h.meetings.Delete)
		})

		r.Route("/zoom", func(r chi.Router) {
			r.Get("/test", h.meetings.ZoomTest)
			r.Get("/test-meeting", h.meetings.ZoomTestMeeting)
		})

		r.Route("/webhooks", func(r chi.Router) {
			r.Get("/zoom", h.webhooks.Validate)
			r.Post("/zoom", h.webhooks.Receive)
		})
	})
}

// Health reports liveness; with a database backend it also pings the store.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   version,
	}

	status := http.StatusOK
	if h.dbBacked {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			status = http.StatusInternalServerError
			body["status"] = "ERROR"
			body["database"] = "Disconnected"
			body["error"] = err.Error()
		} else {
			body["database"] = "Connected"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
