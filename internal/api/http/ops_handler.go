package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"liblend-backend/internal/logger"
	"liblend-backend/internal/service"
)

// SchedulerStatus reports whether the cron scheduler has jobs registered.
type SchedulerStatus interface {
	IsRunning() bool
}

// OpsHandler serves the sweeper daemon's operational endpoints.
type OpsHandler struct {
	catalog   service.CatalogService
	scheduler SchedulerStatus
}

// NewOpsHandler creates a new operational endpoint handler
func NewOpsHandler(catalog service.CatalogService, scheduler SchedulerStatus) *OpsHandler {
	return &OpsHandler{
		catalog:   catalog,
		scheduler: scheduler,
	}
}

type statusResponse struct {
	Status           string    `json:"status"`
	SchedulerRunning bool      `json:"scheduler_running"`
	Books            int       `json:"books"`
	AvailableBooks   int       `json:"available_books"`
	ActiveBorrows    int       `json:"active_borrows"`
	OverdueBorrows   int       `json:"overdue_borrows"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// HandleHealthz reports liveness
func (h *OpsHandler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// HandleStatus reports catalog and ledger counts plus scheduler state.
// Overdue means an ACTIVE borrow whose deadline has passed but which the
// sweep has not converted yet.
func (h *OpsHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := time.Now().UTC()

	listings, err := h.catalog.ListBooks(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to build status response", "error", err)
		http.Error(w, "status unavailable", http.StatusInternalServerError)
		return
	}

	resp := statusResponse{
		Status:           "ok",
		SchedulerRunning: h.scheduler.IsRunning(),
		Books:            len(listings),
		GeneratedAt:      now,
	}
	for _, listing := range listings {
		if listing.Available {
			resp.AvailableBooks++
			continue
		}
		resp.ActiveBorrows++
		if listing.ReturnBy != nil && listing.ReturnBy.Before(now) {
			resp.OverdueBorrows++
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// RegisterOpsRoutes registers the operational HTTP endpoints
func RegisterOpsRoutes(router *mux.Router, catalog service.CatalogService, scheduler SchedulerStatus) {
	handler := NewOpsHandler(catalog, scheduler)
	router.HandleFunc("/healthz", handler.HandleHealthz).Methods("GET")
	router.HandleFunc("/status", handler.HandleStatus).Methods("GET")
}
