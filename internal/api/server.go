package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Behrad-Mahdavi/NexusOs/internal/auth"
	"github.com/Behrad-Mahdavi/NexusOs/internal/config"
	"github.com/Behrad-Mahdavi/NexusOs/internal/events"
	"github.com/Behrad-Mahdavi/NexusOs/internal/services"
	"github.com/Behrad-Mahdavi/NexusOs/internal/timer"
	"github.com/Behrad-Mahdavi/NexusOs/internal/tracker"
)

// Server represents the HTTP API server
type Server struct {
	config         config.ServerConfig
	router         *chi.Mux
	auth           *auth.Service
	tracker        *tracker.Service
	timer          *timer.Service
	hub            *events.Hub
	registry       *services.Registry
	authMiddleware *AuthMiddleware
}

// NewServer creates a new API server
func NewServer(
	cfg config.ServerConfig,
	authService *auth.Service,
	trackerService *tracker.Service,
	timerService *timer.Service,
	hub *events.Hub,
	registry *services.Registry,
) *Server {
	s := &Server{
		config:         cfg,
		auth:           authService,
		tracker:        trackerService,
		timer:          timerService,
		hub:            hub,
		registry:       registry,
		authMiddleware: NewAuthMiddleware(authService),
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (outside versioned API - public)
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.With(middleware.Timeout(60*time.Second)).Route("/auth", func(r chi.Router) {
			r.Post("/signup", s.handleSignUp)
			r.Post("/signin", s.handleSignIn)

			r.Group(func(r chi.Router) {
				r.Use(s.authMiddleware.Authenticate)
				r.Post("/signout", s.handleSignOut)
				r.Get("/session", s.handleSession)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware.Authenticate)

			// Long-lived stream, no request timeout
			r.Get("/events", s.handleEventsWS)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Timeout(60 * time.Second))

				r.Route("/tasks", func(r chi.Router) {
					r.Get("/", s.handleListTasks)
					r.Put("/", s.handleSaveTask)

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", s.handleGetTask)
						r.Put("/", s.handleSaveTask)
						r.Delete("/", s.handleDeleteTask)
						r.Post("/status", s.handleSetTaskStatus)
						r.Post("/progress", s.handleSaveProgress)
						r.Get("/reading", s.handleReadingProgress)
					})
				})

				r.Route("/courses", func(r chi.Router) {
					r.Get("/", s.handleListCourses)
					r.Put("/", s.handleSaveCourse)
					r.Delete("/{id}", s.handleDeleteCourse)
				})

				r.Route("/assignments", func(r chi.Router) {
					r.Get("/", s.handleListAssignments)
					r.Put("/", s.handleSaveAssignment)
					r.Delete("/{id}", s.handleDeleteAssignment)
					r.Post("/{id}/toggle", s.handleToggleAssignment)
				})

				r.Route("/graph", func(r chi.Router) {
					r.Get("/", s.handleGetGraph)
					r.Get("/layout", s.handleGraphLayout)
					r.Put("/nodes", s.handleSaveNode)
					r.Delete("/nodes/{id}", s.handleDeleteNode)
				})

				r.Route("/focus", func(r chi.Router) {
					r.Get("/sessions", s.handleListFocusSessions)
					r.Post("/sessions", s.handleRecordFocusSession)
				})
				r.Get("/reading/today", s.handleReadingToday)

				r.Route("/timer", func(r chi.Router) {
					r.Get("/", s.handleGetTimer)
					r.Post("/start", s.handleStartTimer)
					r.Post("/pause", s.handlePauseTimer)
					r.Post("/resume", s.handleResumeTimer)
					r.Post("/reset", s.handleResetTimer)
					r.Post("/complete", s.handleCompleteTimer)
				})

				r.Route("/dashboard", func(r chi.Router) {
					r.Get("/", s.handleOverview)
					r.Get("/finance", s.handleFinance)
					r.Get("/university", s.handleUniversity)
					r.Get("/focus", s.handleFocusStats)
				})
			})
		})
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
