package mcp

import (
	"context"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/stats"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/storage"
)

// --- Tool definitions ---

var toolGetMeasurements = mcp.NewTool("get_measurements",
	mcp.WithDescription("Retrieve body measurement entries, newest first. Each entry has a value, unit, and recorded date."),
	mcp.WithString("kind", mcp.Description("Measurement kind (e.g. weight, waist, chest). Defaults to weight.")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of entries. Defaults to 100.")),
)

var toolGetMeasurementStats = mcp.NewTool("get_measurement_stats",
	mcp.WithDescription("Summary statistics for a measurement kind: current, min, max, change since the oldest entry, and the recent trend direction (increasing/decreasing/stable)."),
	mcp.WithString("kind", mcp.Description("Measurement kind. Defaults to weight.")),
	mcp.WithNumber("window", mcp.Description("Trend window size in entries. Defaults to 7.")),
)

var toolGetSessions = mcp.NewTool("get_sessions",
	mcp.WithDescription("List workout sessions, newest first, with status and timing."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of sessions. Defaults to 50.")),
)

var toolGetSessionSets = mcp.NewTool("get_session_sets",
	mcp.WithDescription("All sets logged in one workout session, in performance order."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session UUID")),
)

var toolListRoutines = mcp.NewTool("list_routines",
	mcp.WithDescription("List all routines with names, goals, and creation dates."),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List the exercise catalog with measurement types and muscle groups."),
)

var toolGetLastSets = mcp.NewTool("get_last_sets",
	mcp.WithDescription("The sets logged for an exercise in its most recent finished session. Useful for progression analysis."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise UUID")),
)

var toolGetTrainingSummary = mcp.NewTool("get_training_summary",
	mcp.WithDescription("Totals across routines, sessions, sets, and measurements, plus per-exercise set counts and first/last session dates."),
)

// --- Tool handlers ---

func (h *handlers) getMeasurements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := req.GetString("kind", "weight")
	limit := req.GetInt("limit", 0)
	uid := UserIDFromContext(ctx)

	records, err := h.ds.ListMeasurements(ctx, uid, kind, limit)
	if err != nil {
		h.log.Error("mcp get_measurements", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(records)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getMeasurementStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := req.GetString("kind", "weight")
	window := req.GetInt("window", stats.DefaultTrendWindow)
	uid := UserIDFromContext(ctx)

	records, err := h.ds.ListMeasurements(ctx, uid, kind, 0)
	if err != nil {
		h.log.Error("mcp get_measurement_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	values := storage.ToStatsRecords(records)
	result, err := mcp.NewToolResultJSON(map[string]any{
		"kind":    kind,
		"summary": stats.Calculate(values),
		"trend":   stats.Trend(values, window),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 0)
	uid := UserIDFromContext(ctx)

	sessions, err := h.ds.ListSessions(ctx, uid, limit)
	if err != nil {
		h.log.Error("mcp get_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSessionSets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}
	sessionID, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid session_id: " + err.Error()), nil
	}

	sets, err := h.ds.ListSessionSets(ctx, sessionID)
	if err != nil {
		h.log.Error("mcp get_session_sets", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sets)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listRoutines(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	routines, err := h.ds.ListRoutines(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp list_routines", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(routines)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listExercises(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercises, err := h.ds.ListExercises(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getLastSets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}
	exerciseID, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid exercise_id: " + err.Error()), nil
	}

	sets, err := h.ds.LastExerciseSets(ctx, UserIDFromContext(ctx), exerciseID)
	if err != nil {
		h.log.Error("mcp get_last_sets", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sets)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingSummary(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := h.ds.GetDataStats(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_training_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(summary)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
