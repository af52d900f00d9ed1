package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/bis-arena/internal/domain"
	"github.com/msomdec/bis-arena/internal/metrics"
	"github.com/msomdec/bis-arena/internal/service"
)

// TaskHandler handles mission listing and completion.
type TaskHandler struct {
	scores *service.ScoreService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(scores *service.ScoreService) *TaskHandler {
	return &TaskHandler{scores: scores}
}

// HandleList returns the mission catalog and the caller's completed task ids.
// GET /api/tasks
// Response: 200 {"missions":[...],"completedTasks":[...]}
func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	claims := IdentityFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	completed, err := h.scores.CompletedTasks(r.Context(), claims.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		slog.Error("list completed tasks", "error", err)
		writeError(w, http.StatusInternalServerError, "Error fetching tasks")
		return
	}
	if completed == nil {
		completed = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"missions":       toMissionDTOs(h.scores.Missions()),
		"completedTasks": completed,
	})
}

// HandleComplete records a task completion for the authenticated user and
// returns the new point total with the refreshed leaderboard.
// POST /api/tasks/complete
// Request:  {"taskId":"...","taskTitle":"...","points":100}
// Response: 200 {"message":"...","points":N,"leaderboard":[...]}
func (h *TaskHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	claims := IdentityFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req struct {
		TaskID    string `json:"taskId"`
		TaskTitle string `json:"taskTitle"`
		Points    int    `json:"points"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	total, leaderboard, err := h.scores.CompleteTask(r.Context(), claims.Email, req.TaskID, req.TaskTitle, req.Points)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTaskCompleted):
			writeError(w, http.StatusBadRequest, "Task already completed")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "Task id is required")
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		default:
			slog.Error("complete task", "error", err)
			writeError(w, http.StatusInternalServerError, "Error completing task")
		}
		return
	}

	metrics.RecordTaskCompleted(req.Points)

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Task completed successfully",
		"points":      total,
		"leaderboard": toLeaderboardDTOs(leaderboard),
	})
}
