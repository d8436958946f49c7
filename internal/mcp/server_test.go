package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/fitlife/internal/models"
	"github.com/claude/fitlife/internal/workout"
)

type fakeSource struct {
	sessions []models.SessionRecord
	cardio   []models.CardioRecord
	lastUser int
}

func (f *fakeSource) ListSessions(_ context.Context, userID, limit int) ([]models.SessionRecord, error) {
	f.lastUser = userID
	return f.sessions[:min(limit, len(f.sessions))], nil
}

func (f *fakeSource) ListCardio(_ context.Context, userID, limit int) ([]models.CardioRecord, error) {
	f.lastUser = userID
	return f.cardio[:min(limit, len(f.cardio))], nil
}

func newHandlers() (*handlers, *fakeSource) {
	route := []models.Coordinate{{Latitude: 52.5, Longitude: 13.4}, {Latitude: 52.501, Longitude: 13.4}}
	ds := &fakeSource{
		sessions: []models.SessionRecord{{ID: uuid.New(), UserID: 7, Summary: models.SessionSummary{SetID: "s1"}}},
		cardio: []models.CardioRecord{{ID: uuid.New(), UserID: 7, Summary: models.CardioSummary{
			Activity: models.ActivityRunning, Route: route, StartPoint: &route[0], EndPoint: &route[1],
		}}},
	}
	return &handlers{ds: ds, gen: workout.NewGenerator(), log: slog.New(slog.DiscardHandler)}, ds
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

// resultJSON decodes the text content of a successful tool result.
func resultJSON[T any](t *testing.T, res *mcp.CallToolResult, err error) T {
	t.Helper()
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %+v", res.Content)
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	var v T
	if err := json.Unmarshal([]byte(text.Text), &v); err != nil {
		t.Fatalf("decode %q: %v", text.Text, err)
	}
	return v
}

// TestUserIDFromContextDefault verifies the default user ID (1) when no value
// is set in the context.
func TestUserIDFromContextDefault(t *testing.T) {
	ctx := context.Background()
	if id := UserIDFromContext(ctx); id != 1 {
		t.Errorf("UserIDFromContext(empty) = %d, want 1", id)
	}
}

// TestUserIDFromContextSet verifies the user ID is extracted from context
// after being set by WithUserID.
func TestUserIDFromContextSet(t *testing.T) {
	ctx := WithUserID(context.Background(), 42)
	if id := UserIDFromContext(ctx); id != 42 {
		t.Errorf("UserIDFromContext = %d, want 42", id)
	}
}

// TestCardioMetrics verifies calories and pace for a one hour 12 km run.
func TestCardioMetrics(t *testing.T) {
	h, _ := newHandlers()
	res, err := h.cardioMetrics(context.Background(), call(map[string]any{
		"activity":         models.ActivityRunning,
		"duration_seconds": 3600.0,
		"distance_km":      12.0,
	}))
	got := resultJSON[map[string]any](t, res, err)
	if got["calories"] != 560.0 || got["pace"] != "5:00 min/km" {
		t.Errorf("metrics = %v", got)
	}

	res, err = h.cardioMetrics(context.Background(), call(map[string]any{"duration_seconds": 60.0}))
	if err != nil || !res.IsError {
		t.Error("missing activity accepted")
	}
}

// TestEstimateDurationTool verifies exercises arrive through generic JSON.
func TestEstimateDurationTool(t *testing.T) {
	h, _ := newHandlers()
	res, err := h.estimateDuration(context.Background(), call(map[string]any{"exercises": []any{}}))
	got := resultJSON[map[string]any](t, res, err)
	if got["estimated_minutes"] != 20.0 {
		t.Errorf("estimate = %v", got)
	}

	res, err = h.estimateDuration(context.Background(), call(map[string]any{}))
	if err != nil || !res.IsError {
		t.Error("missing exercises accepted")
	}
}

// TestGenerateWorkoutSetsTool verifies generation and the muscle check.
func TestGenerateWorkoutSetsTool(t *testing.T) {
	h, _ := newHandlers()
	res, err := h.generateWorkoutSets(context.Background(), call(map[string]any{"muscle": "legs"}))
	sets := resultJSON[[]models.WorkoutSet](t, res, err)
	if len(sets) == 0 {
		t.Fatal("no sets")
	}
	for _, s := range sets {
		if s.EquipmentType != models.EquipmentWithout || len(s.Exercises) == 0 {
			t.Errorf("set %q: equipment %q, %d exercises", s.SetName, s.EquipmentType, len(s.Exercises))
		}
	}

	res, err = h.generateWorkoutSets(context.Background(), call(map[string]any{}))
	if err != nil || !res.IsError {
		t.Error("missing muscle accepted")
	}
}

// TestCardioHistoryRoutes verifies routes are dropped unless requested and
// the caller's user is queried.
func TestCardioHistoryRoutes(t *testing.T) {
	h, ds := newHandlers()
	ctx := WithUserID(context.Background(), 7)

	res, err := h.getCardioHistory(ctx, call(map[string]any{}))
	records := resultJSON[[]models.CardioRecord](t, res, err)
	if len(records) != 1 || len(records[0].Summary.Route) != 0 || records[0].Summary.StartPoint == nil {
		t.Errorf("records = %+v", records)
	}
	if ds.lastUser != 7 {
		t.Errorf("queried user %d, want 7", ds.lastUser)
	}
	if len(ds.cardio[0].Summary.Route) != 2 {
		t.Error("source records were modified")
	}

	res, err = h.getCardioHistory(ctx, call(map[string]any{"include_routes": true}))
	records = resultJSON[[]models.CardioRecord](t, res, err)
	if len(records[0].Summary.Route) != 2 {
		t.Errorf("route has %d points, want 2", len(records[0].Summary.Route))
	}
}

// TestListExercisesTool verifies the muscle filter maps labels.
func TestListExercisesTool(t *testing.T) {
	h, _ := newHandlers()
	res, err := h.listExercises(context.Background(), call(map[string]any{"muscle": "abs"}))
	list := resultJSON[[]models.Exercise](t, res, err)
	if len(list) == 0 {
		t.Fatal("no exercises")
	}
	for _, e := range list {
		if e.Muscle != models.MuscleCore {
			t.Errorf("%s has muscle %s", e.Name, e.Muscle)
		}
	}
}

// TestRecentActivityResource verifies the resource bundles both histories.
func TestRecentActivityResource(t *testing.T) {
	h, _ := newHandlers()
	var req mcp.ReadResourceRequest
	req.Params.URI = "fitlife://recent_activity"

	contents, err := h.recentActivity(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	text := contents[0].(mcp.TextResourceContents)
	var got struct {
		Sessions []models.SessionRecord `json:"sessions"`
		Cardio   []models.CardioRecord  `json:"cardio"`
	}
	if err := json.Unmarshal([]byte(text.Text), &got); err != nil {
		t.Fatal(err)
	}
	if text.URI != req.Params.URI || len(got.Sessions) != 1 || len(got.Cardio) != 1 {
		t.Errorf("recent activity = %+v", got)
	}
}
