package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
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
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("GymRoutine", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Workout tracking server. Query body measurements, workout sessions, logged sets, and routines. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetMeasurements, Handler: h.getMeasurements},
		server.ServerTool{Tool: toolGetMeasurementStats, Handler: h.getMeasurementStats},
		server.ServerTool{Tool: toolGetSessions, Handler: h.getSessions},
		server.ServerTool{Tool: toolGetSessionSets, Handler: h.getSessionSets},
		server.ServerTool{Tool: toolListRoutines, Handler: h.listRoutines},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetLastSets, Handler: h.getLastSets},
		server.ServerTool{Tool: toolGetTrainingSummary, Handler: h.getTrainingSummary},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resActiveSession, Handler: h.activeSession},
		server.ServerResource{Resource: resRoutineCatalog, Handler: h.routineCatalog},
		server.ServerResource{Resource: resDataSummary, Handler: h.dataSummary},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resActiveSession = mcp.NewResource(
	"gymroutine://active_session",
	"Active Session",
	mcp.WithResourceDescription("The in-progress workout session with its logged sets, or an empty marker when nothing is active"),
	mcp.WithMIMEType("application/json"),
)

var resRoutineCatalog = mcp.NewResource(
	"gymroutine://routine_catalog",
	"Routine Catalog",
	mcp.WithResourceDescription("All routines with their names, goals, and creation dates"),
	mcp.WithMIMEType("application/json"),
)

var resDataSummary = mcp.NewResource(
	"gymroutine://data_summary",
	"Data Summary",
	mcp.WithResourceDescription("Totals across routines, sessions, sets, and measurements, plus per-exercise set counts"),
	mcp.WithMIMEType("application/json"),
)
