package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/tolmol/bidbazaar/internal/ws"
)

// PlaceBid submits a bid against an auction. Validation and the floor
// update happen atomically in the store; the notifier is informed
// exactly once, only after the transaction committed.
func (h *Handler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	auctionID, err := urlParamInt(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid auction ID")
		return
	}

	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	bid, err := h.DB.PlaceBid(r.Context(), auctionID, ident.UserID, req.Amount, time.Now())
	if err != nil {
		if status, ok := bidStatus(err); ok {
			respondError(w, status, err.Error())
			return
		}
		log.WithError(err).Error("failed to place bid")
		respondError(w, http.StatusInternalServerError, "Failed to place bid")
		return
	}

	h.Notifier.Publish(auctionID, ws.Event{
		Event:     "new_bid",
		AuctionID: auctionID,
		Amount:    bid.Amount.String(),
		Bidder:    "Anonymous",
		Timestamp: bid.CreatedAt.Format("15:04:05"),
	})

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Bid placed successfully",
		"bid": map[string]any{
			"id":         bid.ID,
			"amount":     bid.Amount,
			"created_at": bid.CreatedAt,
		},
	})
}

// WithdrawBid marks one of the caller's bids withdrawn and lets the
// store recompute the auction's floor.
func (h *Handler) WithdrawBid(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bidID, err := urlParamInt(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid bid ID")
		return
	}

	if err := h.DB.WithdrawBid(r.Context(), bidID, ident.UserID); err != nil {
		if status, ok := bidStatus(err); ok {
			respondError(w, status, err.Error())
			return
		}
		log.WithError(err).Error("failed to withdraw bid")
		respondError(w, http.StatusInternalServerError, "Failed to withdraw bid")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Bid withdrawn successfully"})
}
