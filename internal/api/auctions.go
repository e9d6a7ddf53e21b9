package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/tolmol/bidbazaar/internal/auction"
	"github.com/tolmol/bidbazaar/internal/db"
	"github.com/tolmol/bidbazaar/internal/models"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

type createAuctionRequest struct {
	Title         string          `json:"title" validate:"required,max=200"`
	Description   string          `json:"description" validate:"required"`
	Category      string          `json:"category" validate:"required,max=100"`
	Location      string          `json:"location" validate:"required,max=200"`
	State         string          `json:"state" validate:"omitempty,max=100"`
	StartingPrice decimal.Decimal `json:"starting_price" validate:"-"`
	EndTime       time.Time       `json:"end_time" validate:"required"`
}

// auctionView is an auction plus its derived read-side fields.
type auctionView struct {
	models.Auction
	TimeRemaining float64         `json:"time_remaining"`
	LowestBid     decimal.Decimal `json:"lowest_bid"`
}

func newAuctionView(a models.Auction, now time.Time) auctionView {
	return auctionView{
		Auction:       a,
		TimeRemaining: auction.TimeRemaining(&a, now).Seconds(),
		LowestBid:     auction.FloorPrice(&a),
	}
}

// ListAuctions returns biddable auctions with search/category/location
// filters and pagination.
func (h *Handler) ListAuctions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	now := time.Now()
	auctions, total, err := h.DB.ListAuctions(r.Context(), db.AuctionFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Location: q.Get("location"),
		Limit:    perPage,
		Offset:   (page - 1) * perPage,
	}, now)
	if err != nil {
		log.WithError(err).Error("failed to list auctions")
		respondError(w, http.StatusInternalServerError, "Failed to fetch auctions")
		return
	}

	views := make([]auctionView, 0, len(auctions))
	for _, a := range auctions {
		views = append(views, newAuctionView(a, now))
	}

	pages := (total + perPage - 1) / perPage
	respondJSON(w, http.StatusOK, map[string]any{
		"auctions": views,
		"pagination": map[string]any{
			"page":     page,
			"pages":    pages,
			"per_page": perPage,
			"total":    total,
			"has_next": page < pages,
			"has_prev": page > 1,
		},
	})
}

// CreateAuction creates a new listing. Only service providers may
// create auctions, and the deadline must be in the future.
func (h *Handler) CreateAuction(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if !ident.IsServiceProvider {
		respondError(w, http.StatusForbidden, "Only service providers can create auctions")
		return
	}

	var req createAuctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.StartingPrice.Sign() <= 0 {
		respondError(w, http.StatusBadRequest, "Starting price must be positive")
		return
	}
	if !req.EndTime.After(time.Now()) {
		respondError(w, http.StatusBadRequest, "End time must be in the future")
		return
	}

	created, err := h.DB.CreateAuction(r.Context(), &models.Auction{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Location:      req.Location,
		State:         req.State,
		StartingPrice: req.StartingPrice,
		EndTime:       req.EndTime,
		CreatorID:     ident.UserID,
	})
	if err != nil {
		log.WithError(err).Error("failed to create auction")
		respondError(w, http.StatusInternalServerError, "Failed to create auction")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Auction created successfully",
		"auction": newAuctionView(*created, time.Now()),
	})
}

// GetAuction returns one auction with its anonymized bid history.
func (h *Handler) GetAuction(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid auction ID")
		return
	}

	a, err := h.DB.GetAuction(r.Context(), id)
	if err != nil {
		if errors.Is(err, auction.ErrAuctionNotFound) {
			respondError(w, http.StatusNotFound, "Auction not found")
			return
		}
		log.WithError(err).Error("failed to get auction")
		respondError(w, http.StatusInternalServerError, "Failed to fetch auction")
		return
	}

	bids, err := h.DB.ListBidsForAuction(r.Context(), id)
	if err != nil {
		log.WithError(err).Error("failed to list bids")
		respondError(w, http.StatusInternalServerError, "Failed to fetch auction")
		return
	}

	bidViews := make([]map[string]any, 0, len(bids))
	for _, b := range bids {
		bidViews = append(bidViews, map[string]any{
			"id":         b.ID,
			"amount":     b.Amount,
			"status":     b.Status,
			"created_at": b.CreatedAt,
			"bidder":     "Anonymous",
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"auction": newAuctionView(*a, time.Now()),
		"bids":    bidViews,
	})
}

// CancelAuction deactivates one of the caller's listings.
func (h *Handler) CancelAuction(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := urlParamInt(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid auction ID")
		return
	}

	if err := h.DB.CancelAuction(r.Context(), id, ident.UserID); err != nil {
		if errors.Is(err, auction.ErrAuctionNotFound) {
			respondError(w, http.StatusNotFound, "Auction not found or not owned by user")
			return
		}
		log.WithError(err).Error("failed to cancel auction")
		respondError(w, http.StatusInternalServerError, "Failed to cancel auction")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Auction canceled"})
}

// Dashboard aggregates the caller's auctions and bids.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	now := time.Now()
	myAuctions := []auctionView{}
	if ident.IsServiceProvider {
		auctions, err := h.DB.ListAuctionsByCreator(r.Context(), ident.UserID)
		if err != nil {
			log.WithError(err).Error("failed to list own auctions")
			respondError(w, http.StatusInternalServerError, "Failed to fetch dashboard data")
			return
		}
		for _, a := range auctions {
			myAuctions = append(myAuctions, newAuctionView(a, now))
		}
	}

	bids, err := h.DB.ListBidsByBidder(r.Context(), ident.UserID)
	if err != nil {
		log.WithError(err).Error("failed to list own bids")
		respondError(w, http.StatusInternalServerError, "Failed to fetch dashboard data")
		return
	}

	myBids := make([]map[string]any, 0, len(bids))
	for _, b := range bids {
		myBids = append(myBids, map[string]any{
			"id":         b.Bid.ID,
			"amount":     b.Bid.Amount,
			"status":     b.Bid.Status,
			"created_at": b.Bid.CreatedAt,
			"auction":    newAuctionView(b.Auction, now),
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"my_auctions": myAuctions,
		"my_bids":     myBids,
	})
}
