package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/models"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/routineio"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/storage"
)

func (s *Server) handleImportRoutine(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reading body: " + err.Error()})
		return
	}

	doc, err := routineio.Parse(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := s.importer.Import(r.Context(), doc, uid)
	if err != nil {
		s.log.Error("routine import failed", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleListRoutines(w http.ResponseWriter, r *http.Request) {
	routines, err := s.db.ListRoutines(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, routines)
}

func (s *Server) handleGetRoutine(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	routineID, ok := parseID(w, r)
	if !ok {
		return
	}

	routine, err := s.db.GetRoutine(r.Context(), uid, routineID)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "routine not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	// Full nested graph for the routine detail view.
	days, err := s.db.ListRoutineDays(r.Context(), routineID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	type blockView struct {
		models.RoutineBlock
		Exercises []models.RoutineExercise `json:"exercises"`
	}
	type dayView struct {
		models.RoutineDay
		Blocks []blockView `json:"blocks"`
	}

	dayViews := make([]dayView, 0, len(days))
	for _, day := range days {
		blocks, err := s.db.ListRoutineBlocks(r.Context(), day.ID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		blockViews := make([]blockView, 0, len(blocks))
		for _, block := range blocks {
			entries, err := s.db.ListRoutineExercises(r.Context(), block.ID)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			blockViews = append(blockViews, blockView{RoutineBlock: block, Exercises: entries})
		}
		dayViews = append(dayViews, dayView{RoutineDay: day, Blocks: blockViews})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"routine": routine,
		"days":    dayViews,
	})
}

func (s *Server) handleExportRoutine(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	routineID, ok := parseID(w, r)
	if !ok {
		return
	}

	doc, err := s.exporter.Export(r.Context(), uid, routineID)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "routine not found"})
		return
	}
	if err != nil {
		s.log.Error("routine export failed", "routine_id", routineID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename()))
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleReorderDays(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	routineID, ok := parseID(w, r)
	if !ok {
		return
	}

	// Ownership check before touching child rows.
	if _, err := s.db.GetRoutine(r.Context(), uid, routineID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "routine not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	updates, ok := decodeReorder(w, r)
	if !ok {
		return
	}

	if err := s.db.ReorderRoutineDays(r.Context(), routineID, updates); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": len(updates)})
}

func (s *Server) handleReorderBlockExercises(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	blockID, ok := parseID(w, r)
	if !ok {
		return
	}

	// Ownership check before touching child rows.
	if _, err := s.db.GetRoutineBlock(r.Context(), uid, blockID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "block not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	updates, ok := decodeReorder(w, r)
	if !ok {
		return
	}

	if err := s.db.ReorderBlockExercises(r.Context(), blockID, updates); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": len(updates)})
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := s.db.ListExercises(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleLastSets(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	exerciseID, ok := parseID(w, r)
	if !ok {
		return
	}

	sets, err := s.db.LastExerciseSets(r.Context(), uid, exerciseID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sets)
}

// decodeReorder reads a list of {id, sort_order} pairs from the request body.
func decodeReorder(w http.ResponseWriter, r *http.Request) ([]models.SortOrderUpdate, bool) {
	var updates []models.SortOrderUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return nil, false
	}
	if len(updates) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "empty reorder request"})
		return nil, false
	}
	return updates, true
}

// parseID extracts and parses the {id} URL parameter.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid ID"})
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
