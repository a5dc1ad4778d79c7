package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vitanest/vitanest-platform/internal/appointments"
	"github.com/vitanest/vitanest-platform/internal/assistant"
	"github.com/vitanest/vitanest-platform/internal/billing"
	httpmiddleware "github.com/vitanest/vitanest-platform/internal/http/middleware"
	"github.com/vitanest/vitanest-platform/internal/medications"
	"github.com/vitanest/vitanest-platform/internal/profile"
	"github.com/vitanest/vitanest-platform/internal/speech"
	"github.com/vitanest/vitanest-platform/internal/video"
	"github.com/vitanest/vitanest-platform/internal/webchat"
	"github.com/vitanest/vitanest-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	ChatHandler         *assistant.Handler
	WebChatHandler      *webchat.Handler
	ProfileHandler      *profile.Handler
	MedicationsHandler  *medications.Handler
	AppointmentsHandler *appointments.Handler
	BillingHandler      *billing.Handler
	SpeechHandler       *speech.Handler
	VideoHandler        *video.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
	RateLimiter         *httpmiddleware.RateLimiter

	// Auth. When empty, requests identify themselves with X-User-Id
	// (development only).
	JWTSecret string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		// The websocket endpoint carries its identity in the query string
		// because browsers cannot set headers on upgrades.
		if cfg.WebChatHandler != nil {
			public.Get("/ws/chat", cfg.WebChatHandler.HandleWebSocket)
		}
	})

	// Authenticated API
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(httpmiddleware.UserAuth(cfg.JWTSecret))

		if cfg.ChatHandler != nil {
			api.Route("/chat", func(r chi.Router) {
				r.Post("/message", cfg.ChatHandler.SendMessage)
				r.Get("/history", cfg.ChatHandler.History)
				r.Delete("/history", cfg.ChatHandler.ClearHistory)
			})
		}

		if cfg.ProfileHandler != nil {
			api.Route("/profile", func(r chi.Router) {
				r.Get("/", cfg.ProfileHandler.Get)
				r.Put("/", cfg.ProfileHandler.Put)
			})
		}

		if cfg.MedicationsHandler != nil {
			api.Route("/medications", func(r chi.Router) {
				r.Get("/", cfg.MedicationsHandler.List)
				r.Post("/", cfg.MedicationsHandler.Create)
				r.Put("/{id}", cfg.MedicationsHandler.Update)
				r.Delete("/{id}", cfg.MedicationsHandler.Delete)
			})
		}

		if cfg.AppointmentsHandler != nil {
			api.Route("/appointments", func(r chi.Router) {
				r.Get("/", cfg.AppointmentsHandler.List)
				r.Post("/", cfg.AppointmentsHandler.Create)
				r.Patch("/{id}/status", cfg.AppointmentsHandler.UpdateStatus)
				r.Delete("/{id}", cfg.AppointmentsHandler.Delete)
			})
		}

		if cfg.BillingHandler != nil {
			api.Get("/billing/subscription", cfg.BillingHandler.Subscription)
		}

		if cfg.SpeechHandler != nil {
			api.Post("/speech/synthesize", cfg.SpeechHandler.Synthesize)
		}

		if cfg.VideoHandler != nil {
			api.Route("/video", func(r chi.Router) {
				r.Post("/generate", cfg.VideoHandler.Generate)
				r.Get("/personas", cfg.VideoHandler.Personas)
				r.Get("/{id}", cfg.VideoHandler.Status)
			})
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
