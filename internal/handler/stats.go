package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shagtracker/shagbot/internal/repository"
)

type StatsHandler struct {
	stats repository.StatsRepository
}

func NewStatsHandler(stats repository.StatsRepository) *StatsHandler {
	return &StatsHandler{
		stats: stats,
	}
}

func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	totals, err := h.stats.Totals()
	if err != nil {
		slog.Error("failed to load stats", "error", err)
		http.Error(w, "Failed to load stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(totals)
	if err != nil {
		slog.Error("failed to encode stats", "error", err)
	}
}
