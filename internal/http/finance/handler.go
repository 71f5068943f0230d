package finance

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/redixstudio/atelier/internal/finance"
)

type Handler struct {
	svc *finance.Service
}

func NewHandler(svc *finance.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.summary)
}

type summaryResponse struct {
	ToolsReserve      float64   `json:"tools_reserve"`
	TeamShare         float64   `json:"team_share"`
	InvestmentReserve float64   `json:"investment_reserve"`
	RedixCaisse       float64   `json:"redix_caisse"`
	TotalRevenue      float64   `json:"total_revenue"`
	TotalExpenses     float64   `json:"total_expenses"`
	NetProfit         float64   `json:"net_profit"`
	LastUpdated       time.Time `json:"last_updated"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Summary(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := summaryResponse{
		ToolsReserve:      m.ToolsReserve,
		TeamShare:         m.TeamShare,
		InvestmentReserve: m.InvestmentReserve,
		RedixCaisse:       m.RedixCaisse,
		TotalRevenue:      m.TotalRevenue,
		TotalExpenses:     m.TotalExpenses,
		NetProfit:         m.NetProfit,
		LastUpdated:       m.LastUpdated,
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
