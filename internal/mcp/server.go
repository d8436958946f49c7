// Package mcp exposes workout generation, cardio metrics and activity
// history as Model Context Protocol tools and resources.
package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/fitlife/internal/workout"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, gen *workout.Generator, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("FitLife", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("FitLife workout server. Generate workout sets, estimate durations, compute cardio metrics and read workout and cardio history. History is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, gen: gen, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGenerateWorkoutSets, Handler: h.generateWorkoutSets},
		server.ServerTool{Tool: toolGetTopPicks, Handler: h.getTopPicks},
		server.ServerTool{Tool: toolEstimateDuration, Handler: h.estimateDuration},
		server.ServerTool{Tool: toolCardioMetrics, Handler: h.cardioMetrics},
		server.ServerTool{Tool: toolGetWorkoutHistory, Handler: h.getWorkoutHistory},
		server.ServerTool{Tool: toolGetCardioHistory, Handler: h.getCardioHistory},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
		server.ServerResource{Resource: resPredefinedPlans, Handler: h.predefinedPlans},
		server.ServerResource{Resource: resRecentActivity, Handler: h.recentActivity},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	gen *workout.Generator
	log *slog.Logger
}

// --- Resource definitions ---

var resExerciseCatalog = mcp.NewResource(
	"fitlife://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("Every exercise in the built-in catalog with muscle group, equipment and difficulty"),
	mcp.WithMIMEType("application/json"),
)

var resPredefinedPlans = mcp.NewResource(
	"fitlife://predefined_plans",
	"Predefined Plans",
	mcp.WithResourceDescription("The built-in workout plans offered to every user"),
	mcp.WithMIMEType("application/json"),
)

var resRecentActivity = mcp.NewResource(
	"fitlife://recent_activity",
	"Recent Activity",
	mcp.WithResourceDescription("The latest completed workout sessions and cardio activities, without GPS routes"),
	mcp.WithMIMEType("application/json"),
)
