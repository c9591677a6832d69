package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/face-counter/internal/database"
)

// StatsResponse represents the stats response
type StatsResponse struct {
	People int `json:"people"`
}

// StatsHandler handles statistics endpoints
type StatsHandler struct {
	store database.PersonReader
	log   logrus.FieldLogger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(store database.PersonReader, log logrus.FieldLogger) *StatsHandler {
	return &StatsHandler{store: store, log: log}
}

// Get returns the number of distinct people seen.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.Count(r.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to count people")
		respondError(w, http.StatusInternalServerError, errStore)
		return
	}
	respondJSON(w, http.StatusOK, StatsResponse{People: count})
}
