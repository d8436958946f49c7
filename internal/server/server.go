package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/claude/fitlife/internal/auth"
	"github.com/claude/fitlife/internal/live"
	fitmcp "github.com/claude/fitlife/internal/mcp"
	"github.com/claude/fitlife/internal/plans"
	"github.com/claude/fitlife/internal/storage"
	"github.com/claude/fitlife/internal/workout"
)

// Deps are the services the HTTP layer is built over.
type Deps struct {
	Store     storage.Store
	Auth      *auth.Service
	Plans     *plans.Service
	Generator *workout.Generator
	Live      *live.Registry
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store  storage.Store
	auth   *auth.Service
	plans  *plans.Service
	gen    *workout.Generator
	live   *live.Registry
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(deps Deps, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:  deps.Store,
		auth:   deps.Auth,
		plans:  deps.Plans,
		gen:    deps.Generator,
		live:   deps.Live,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)

	// Auth endpoints are open; they hand out the bearer tokens.
	s.router.Post("/api/v1/auth/login", s.handleLogin)
	s.router.Post("/api/v1/auth/register", s.handleRegister)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		// X-User-ID is trusted; the API key is the only gate on these routes.
		r.Use(Identity(s.auth))

		r.Get("/workouts/generate", s.handleGenerate)
		r.Get("/workouts/top-picks", s.handleTopPicks)
		r.Post("/workouts/estimate", s.handleEstimate)

		r.Get("/catalog/exercises", s.handleExercises)
		r.Get("/plans", s.handleListPlans)
		r.Post("/plans", s.handleCreatePlan)
		r.Get("/plans/{id}", s.handleGetPlan)
		r.Delete("/plans/{id}", s.handleDeletePlan)

		r.Get("/favourites/workouts", s.handleListFavoriteWorkouts)
		r.Post("/favourites/workouts", s.handleAddFavoriteWorkout)
		r.Delete("/favourites/workouts/{id}", s.handleRemoveFavoriteWorkout)
		r.Get("/favourites/exercises", s.handleListFavoriteExercises)
		r.Post("/favourites/exercises", s.handleAddFavoriteExercise)
		r.Delete("/favourites/exercises/{id}", s.handleRemoveFavoriteExercise)

		r.Post("/sessions", s.handleStartSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Delete("/sessions/{id}", s.handleDiscardSession)
		r.Post("/sessions/{id}/{cmd}", s.handleSessionCommand)

		r.Post("/cardio", s.handleStartTrack)
		r.Get("/cardio/{id}", s.handleGetTrack)
		r.Post("/cardio/{id}/samples", s.handleAddSamples)
		r.Post("/cardio/{id}/stop", s.handleStopTrack)
		r.Post("/cardio/{id}/{cmd}", s.handleTrackCommand)
		r.Put("/cardio/{id}/status", s.handleTrackStatus)
		r.Put("/cardio/{id}/speed", s.handleTrackSpeed)

		r.Get("/history/sessions", s.handleSessionHistory)
		r.Get("/history/cardio", s.handleCardioHistory)
		r.Get("/history/stats", s.handleActivityStats)
		r.Get("/history/cardio/{id}.{format}", s.handleCardioExport)
		r.Get("/imports", s.handleImportLogs)
	})
}

// MountMCP serves m over streamable HTTP at /mcp behind the same API key
// and identity checks as the REST API.
func (s *Server) MountMCP(m *mcpserver.MCPServer) {
	h := mcpserver.NewStreamableHTTPServer(m,
		mcpserver.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			return fitmcp.WithUserID(ctx, userIDFromContext(r))
		}),
	)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Use(Identity(s.auth))
		r.Handle("/mcp", h)
	})
}
