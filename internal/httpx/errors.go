package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-resto-pos.git/internal/orders"
)

type errBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps the domain taxonomy to distinct responses so the UI can tell
// "out of stock" apart from "bad promo" from "try again".
func writeErr(w http.ResponseWriter, err error) {
	var (
		valErr   *orders.ValidationError
		nfErr    *orders.NotFoundError
		stockErr *orders.InsufficientStockError
		promoErr *orders.PromoError
		transErr *orders.StatusTransitionError
		confErr  *orders.ConflictError
	)
	switch {
	case errors.As(err, &stockErr):
		writeJSON(w, http.StatusConflict, errBody{
			Code:    "INSUFFICIENT_STOCK",
			Message: stockErr.Error(),
			Details: map[string]any{
				"product_id": stockErr.ProductID,
				"requested":  stockErr.Requested,
				"available":  stockErr.Available,
			},
		})
	case errors.As(err, &promoErr):
		writeJSON(w, http.StatusUnprocessableEntity, errBody{
			Code:    "PROMO_" + string(promoErr.Reason),
			Message: promoErr.Error(),
		})
	case errors.As(err, &transErr):
		writeJSON(w, http.StatusUnprocessableEntity, errBody{
			Code:    "INVALID_TRANSITION",
			Message: transErr.Error(),
		})
	case errors.As(err, &valErr):
		writeJSON(w, http.StatusBadRequest, errBody{Code: "VALIDATION", Message: valErr.Error()})
	case errors.As(err, &nfErr):
		writeJSON(w, http.StatusNotFound, errBody{Code: "NOT_FOUND", Message: nfErr.Error()})
	case errors.As(err, &confErr):
		// seluruh operasi aman di-retry oleh client
		writeJSON(w, http.StatusConflict, errBody{Code: "CONFLICT", Message: "please retry"})
	default:
		writeJSON(w, http.StatusInternalServerError, errBody{Code: "INTERNAL", Message: "internal error"})
	}
}
