package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/storage"
)

func (h *handlers) activeSession(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	session, err := h.ds.GetActiveSession(ctx, uid)
	if errors.Is(err, storage.ErrNotFound) {
		return jsonResource(req.Params.URI, map[string]any{"active": false})
	}
	if err != nil {
		return nil, err
	}

	sets, err := h.ds.ListSessionSets(ctx, session.ID)
	if err != nil {
		h.log.Warn("active_session: sets query failed", "error", err)
	}

	return jsonResource(req.Params.URI, map[string]any{
		"active":  true,
		"session": session,
		"sets":    sets,
	})
}

func (h *handlers) routineCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	routines, err := h.ds.ListRoutines(ctx, UserIDFromContext(ctx))
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, routines)
}

func (h *handlers) dataSummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	summary, err := h.ds.GetDataStats(ctx, UserIDFromContext(ctx))
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, summary)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
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
