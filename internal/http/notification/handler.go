package notification

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/redixstudio/atelier/internal/notify"
)

const defaultLimit = 50

// Lister is the read side of the notification store.
type Lister interface {
	ListNotifications(ctx context.Context, limit int) ([]*notify.Notification, error)
}

type Handler struct {
	store Lister
}

func NewHandler(store Lister) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
}

type notificationResponse struct {
	ID          uuid.UUID       `json:"id"`
	RecipientID uuid.UUID       `json:"recipient_id"`
	Message     string          `json:"message"`
	Severity    notify.Severity `json:"severity"`
	RelatedID   *uuid.UUID      `json:"related_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}

	items, err := h.store.ListNotifications(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]notificationResponse, len(items))
	for i, n := range items {
		resp[i] = notificationResponse{
			ID:          n.ID,
			RecipientID: n.RecipientID,
			Message:     n.Message,
			Severity:    n.Severity,
			RelatedID:   n.RelatedID,
			CreatedAt:   n.CreatedAt,
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
