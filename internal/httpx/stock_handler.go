package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ariefcatur/go-resto-pos.git/internal/orders"
	"github.com/go-chi/chi/v5"
)

type StockHandler struct {
	Ledger *orders.LedgerRepo
	Daily  *orders.DailyStockRepo
}

type AdjustStockReq struct {
	Quantity int    `json:"quantity"` // signed delta
	Reason   string `json:"reason,omitempty"`
	Actor    string `json:"created_by,omitempty"`
}

type CloseStockReq struct {
	Date string `json:"date,omitempty"` // YYYY-MM-DD, default today
}

func (h *StockHandler) Register(r *chi.Mux) {
	r.Post("/products/{id}/stock/adjust", h.adjust)
	r.Get("/stock/daily", h.listDaily)
	r.Post("/stock/close", h.closeDaily)
}

func (h *StockHandler) adjust(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errBody{Code: "VALIDATION", Message: "invalid product id"})
		return
	}
	var req AdjustStockReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody{Code: "VALIDATION", Message: "invalid json"})
		return
	}
	if req.Quantity == 0 {
		writeJSON(w, http.StatusBadRequest, errBody{Code: "VALIDATION", Message: "quantity must be non-zero"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Ledger.Adjust(ctx, productID, req.Quantity, req.Reason, req.Actor)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *StockHandler) listDaily(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Daily.List(ctx, 200)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *StockHandler) closeDaily(w http.ResponseWriter, r *http.Request) {
	var req CloseStockReq
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	day := time.Now().UTC().Truncate(24 * time.Hour)
	if req.Date != "" {
		d, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errBody{Code: "VALIDATION", Message: "invalid date, want YYYY-MM-DD"})
			return
		}
		day = d
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	n, err := h.Daily.CloseDay(ctx, day)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": day.Format("2006-01-02"), "closed": n})
}
