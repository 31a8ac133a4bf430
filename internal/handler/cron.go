package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shagtracker/shagbot/internal/sweep"
)

type CronHandler struct {
	sweeper *sweep.Sweeper
}

func NewCronHandler(sweeper *sweep.Sweeper) *CronHandler {
	return &CronHandler{
		sweeper: sweeper,
	}
}

// CheckGoals runs one expiry pass on demand, for platform cron triggers.
// The background sweeper does the same work on a timer; the conditional
// status writes keep a concurrent pass from double-processing a goal.
func (h *CronHandler) CheckGoals(w http.ResponseWriter, r *http.Request) {
	processed, err := h.sweeper.ExpireGoals(r.Context())
	if err != nil {
		slog.Error("cron expiry pass failed", "error", err)
		http.Error(w, "Failed to check goals", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(map[string]any{
		"success":   true,
		"processed": processed,
	})
	if err != nil {
		slog.Error("failed to encode cron response", "error", err)
	}
}
