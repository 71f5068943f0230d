package tool

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/redixstudio/atelier/internal/tool"
)

type Handler struct {
	svc *tool.Service
}

func NewHandler(svc *tool.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
}

type toolResponse struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	PurchasePrice  float64    `json:"purchase_price"`
	RevenueCounter float64    `json:"revenue_counter"`
	PayoffPercent  float64    `json:"payoff_percent"`
	UsageCount     int        `json:"usage_count"`
	LastUsedAt     *time.Time `json:"last_used_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

func toResponse(t *tool.Tool) toolResponse {
	return toolResponse{
		ID:             t.ID,
		Name:           t.Name,
		PurchasePrice:  t.PurchasePrice,
		RevenueCounter: t.RevenueCounter,
		PayoffPercent:  t.PayoffPercent,
		UsageCount:     t.UsageCount,
		LastUsedAt:     t.LastUsedAt,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

type createToolRequest struct {
	Name          string  `json:"name"`
	PurchasePrice float64 `json:"purchase_price"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	if req.PurchasePrice < 0 {
		http.Error(w, "purchase price cannot be negative", http.StatusBadRequest)
		return
	}

	t, err := h.svc.Create(r.Context(), tool.CreateParams{Name: req.Name, PurchasePrice: req.PurchasePrice})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(t)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	tools, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]toolResponse, len(tools))
	for i, t := range tools {
		resp[i] = toResponse(t)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, tool.ErrNotFound) {
			http.Error(w, "tool not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(t)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
