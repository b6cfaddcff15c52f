package handler

import (
	"context"
	"net/http"

	"go-movie-api/pkg/apierror"
)

// Pinger is the liveness surface of the backing store.
type Pinger interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

// NewHealthHandler accepts a nil pinger, in which case the endpoint reports
// process liveness only.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.Health(r.Context()); err != nil {
			writeError(w, apierror.New("SERVICE_UNAVAILABLE",
				"Service temporarily unavailable", http.StatusServiceUnavailable))
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
