package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/fitlife/internal/cardio"
	"github.com/claude/fitlife/internal/catalog"
	"github.com/claude/fitlife/internal/models"
	"github.com/claude/fitlife/internal/workout"
)

// defaultHistoryLimit is the number of history entries returned when the
// caller gives no limit.
const defaultHistoryLimit = 20

// --- Tool definitions ---

var toolGenerateWorkoutSets = mcp.NewTool("generate_workout_sets",
	mcp.WithDescription("Generate up to three workout sets for a muscle group. Each set lists its exercises with sets, reps, rest and an estimated duration in minutes."),
	mcp.WithString("muscle", mcp.Required(), mcp.Description("Target muscle (e.g. chest, back, legs, shoulders, arms, core, full, upper)")),
	mcp.WithString("difficulty", mcp.Description("Difficulty level. Defaults to beginner."), mcp.Enum("beginner", "intermediate", "advanced")),
	mcp.WithString("equipment", mcp.Description("'without' for bodyweight sets, 'with' for equipment sets. Defaults to without."), mcp.Enum("with", "without")),
)

var toolGetTopPicks = mcp.NewTool("get_top_picks",
	mcp.WithDescription("Return the curated top-pick workout sets (Full Body Starter, HIIT Blast, Core Crusher)."),
)

var toolEstimateDuration = mcp.NewTool("estimate_duration",
	mcp.WithDescription("Estimate the minutes needed to complete a list of workout exercises, with the calories a session of that length burns."),
	mcp.WithArray("exercises", mcp.Required(), mcp.Description("Workout exercises as returned by generate_workout_sets"), mcp.Items(map[string]any{"type": "object"})),
	mcp.WithString("difficulty", mcp.Description("Difficulty level used for missing values. Defaults to beginner."), mcp.Enum("beginner", "intermediate", "advanced")),
	mcp.WithBoolean("is_bodyweight", mcp.Description("Whether sets are timed bodyweight sets. Defaults to false.")),
)

var toolCardioMetrics = mcp.NewTool("cardio_metrics",
	mcp.WithDescription("Compute calories and pace for a cardio activity from its duration and distance."),
	mcp.WithString("activity", mcp.Required(), mcp.Description("Activity kind"), mcp.Enum(models.ActivityRunning, models.ActivityWalking, models.ActivityCycling, models.ActivityIndoorRunning)),
	mcp.WithNumber("duration_seconds", mcp.Required(), mcp.Description("Active duration in seconds")),
	mcp.WithNumber("distance_km", mcp.Description("Distance in kilometres. Pace is 0:00 without it.")),
	mcp.WithNumber("weight_kg", mcp.Description("Body weight in kilograms. Defaults to 70.")),
)

var toolGetWorkoutHistory = mcp.NewTool("get_workout_history",
	mcp.WithDescription("List completed guided workout sessions, newest first."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of sessions. Defaults to 20.")),
)

var toolGetCardioHistory = mcp.NewTool("get_cardio_history",
	mcp.WithDescription("List stopped cardio activities, newest first, with distance, duration, pace and calories."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of activities. Defaults to 20.")),
	mcp.WithBoolean("include_routes", mcp.Description("Include the full GPS route of each activity. Defaults to false.")),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List catalog exercises, optionally filtered by muscle group and equipment type."),
	mcp.WithString("muscle", mcp.Description("Muscle group or label (e.g. chest, abs, biceps)")),
	mcp.WithString("equipment", mcp.Description("'without' for bodyweight, 'with' for equipment"), mcp.Enum("with", "without")),
)

// --- Tool handlers ---

func (h *handlers) generateWorkoutSets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	muscle, err := req.RequireString("muscle")
	if err != nil || muscle == "" {
		return mcp.NewToolResultError("muscle parameter is required"), nil
	}
	difficulty := req.GetString("difficulty", models.DifficultyBeginner)
	equipment := req.GetString("equipment", models.EquipmentWithout)

	return jsonResult(h.gen.Generate(ctx, muscle, difficulty, equipment))
}

func (h *handlers) getTopPicks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(h.gen.TopPicks(ctx))
}

func (h *handlers) estimateDuration(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, ok := req.GetArguments()["exercises"]
	if !ok {
		return mcp.NewToolResultError("exercises parameter is required"), nil
	}
	// Arguments arrive as generic JSON; round-trip them into the model.
	data, err := json.Marshal(raw)
	if err != nil {
		return mcp.NewToolResultError("invalid exercises: " + err.Error()), nil
	}
	var exercises []models.WorkoutExercise
	if err := json.Unmarshal(data, &exercises); err != nil {
		return mcp.NewToolResultError("invalid exercises: " + err.Error()), nil
	}

	difficulty := req.GetString("difficulty", models.DifficultyBeginner)
	minutes := workout.EstimateDuration(exercises, req.GetBool("is_bodyweight", false), workout.ConfigFor(difficulty))

	return jsonResult(map[string]any{
		"estimated_minutes": minutes,
		"calories":          workout.WorkoutCalories(minutes, difficulty),
		"formatted":         workout.FormatDetailedTime(minutes * 60),
	})
}

func (h *handlers) cardioMetrics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	activity, err := req.RequireString("activity")
	if err != nil {
		return mcp.NewToolResultError("activity parameter is required"), nil
	}
	seconds, err := req.RequireFloat("duration_seconds")
	if err != nil || seconds < 0 {
		return mcp.NewToolResultError("duration_seconds must be a non-negative number"), nil
	}
	distance := req.GetFloat("distance_km", 0)
	if distance < 0 {
		return mcp.NewToolResultError("distance_km must not be negative"), nil
	}
	weight := req.GetFloat("weight_kg", cardio.DefaultWeightKg)

	secs := int(seconds)
	return jsonResult(map[string]any{
		"activity": activity,
		"met":      cardio.MET(activity),
		"calories": cardio.Calories(activity, secs, weight, distance),
		"pace":     cardio.Pace(distance, secs),
	})
}

func (h *handlers) getWorkoutHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	sessions, err := h.ds.ListSessions(ctx, uid, req.GetInt("limit", defaultHistoryLimit))
	if err != nil {
		h.log.Error("mcp get_workout_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if sessions == nil {
		sessions = []models.SessionRecord{}
	}
	return jsonResult(sessions)
}

func (h *handlers) getCardioHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	records, err := h.ds.ListCardio(ctx, uid, req.GetInt("limit", defaultHistoryLimit))
	if err != nil {
		h.log.Error("mcp get_cardio_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if !req.GetBool("include_routes", false) {
		records = withoutRoutes(records)
	}
	if records == nil {
		records = []models.CardioRecord{}
	}
	return jsonResult(records)
}

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(catalog.Search(catalog.All(), req.GetString("muscle", ""), req.GetString("equipment", "")))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// withoutRoutes returns copies of records with the GPS routes dropped. The
// start and end points are kept.
func withoutRoutes(records []models.CardioRecord) []models.CardioRecord {
	out := make([]models.CardioRecord, len(records))
	for i, r := range records {
		r.Summary.Route = nil
		out[i] = r
	}
	return out
}
