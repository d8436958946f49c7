package mcp

import (
	"context"

	"github.com/claude/fitlife/internal/models"
	"github.com/claude/fitlife/internal/storage"
)

// DataSource abstracts the history store for MCP tools. Both storage.Store
// (local) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListSessions(ctx context.Context, userID, limit int) ([]models.SessionRecord, error)
	ListCardio(ctx context.Context, userID, limit int) ([]models.CardioRecord, error)
}

// Compile-time check: storage.Store satisfies DataSource.
var _ DataSource = storage.Store(nil)
