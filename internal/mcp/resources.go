package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/fitlife/internal/catalog"
)

// recentActivityLimit caps each list in the recent_activity resource.
const recentActivityLimit = 10

func (h *handlers) exerciseCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(req.Params.URI, catalog.All())
}

func (h *handlers) predefinedPlans(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(req.Params.URI, catalog.PredefinedPlans())
}

func (h *handlers) recentActivity(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	sessions, err := h.ds.ListSessions(ctx, uid, recentActivityLimit)
	if err != nil {
		return nil, err
	}
	cardio, err := h.ds.ListCardio(ctx, uid, recentActivityLimit)
	if err != nil {
		h.log.Warn("recent_activity: cardio query failed", "error", err)
	}

	return jsonContents(req.Params.URI, map[string]any{
		"sessions": sessions,
		"cardio":   withoutRoutes(cardio),
	})
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
