package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tolmol/bidbazaar/internal/auction"
	"github.com/tolmol/bidbazaar/internal/auth"
	"github.com/tolmol/bidbazaar/internal/db"
	"github.com/tolmol/bidbazaar/internal/ws"
)

// Publisher is the notification sink accepted bids are announced to.
// Implemented by ws.Hub; handlers never depend on the hub directly.
type Publisher interface {
	Publish(auctionID int, ev ws.Event)
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	DB       *db.DB
	Auth     *auth.AuthService
	Notifier Publisher
	validate *validator.Validate
}

// NewHandler creates a new handler
func NewHandler(database *db.DB, authService *auth.AuthService, notifier Publisher) *Handler {
	return &Handler{
		DB:       database,
		Auth:     authService,
		Notifier: notifier,
		validate: validator.New(),
	}
}

// Routes assembles the full HTTP surface.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	// Public endpoints
	r.Post("/api/auth/register", h.Register)
	r.Post("/api/auth/login", h.Login)
	r.Get("/api/auctions", h.ListAuctions)
	r.Get("/api/auctions/{id}", h.GetAuction)
	r.Get("/api/categories", h.GetCategories)
	r.Get("/api/states", h.GetStates)

	// Protected endpoints (require JWT)
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Post("/api/auth/logout", h.Logout)
		r.Get("/api/auth/me", h.Me)
		r.Post("/api/auctions", h.CreateAuction)
		r.Delete("/api/auctions/{id}", h.CancelAuction)
		r.Post("/api/auctions/{id}/bid", h.PlaceBid)
		r.Delete("/api/bids/{id}", h.WithdrawBid)
		r.Get("/api/dashboard", h.Dashboard)
	})

	return r
}

type contextKey int

const identityKey contextKey = iota

// RequireAuth verifies the bearer token and stores the caller identity
// in the request context.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.Header.Get("Authorization")
		if tokenString == "" {
			respondError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		ident, err := h.Auth.ParseToken(tokenString)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, ident)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func identityFrom(r *http.Request) (*auth.Identity, bool) {
	ident, ok := r.Context().Value(identityKey).(*auth.Identity)
	return ident, ok
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// bidStatus maps the bidding error taxonomy to HTTP statuses. The
// second return is false for anything that is not a caller error, so
// infrastructure failures surface as 500 and stay retryable.
func bidStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, auction.ErrAuctionNotFound), errors.Is(err, auction.ErrBidNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, auction.ErrSelfBid), errors.Is(err, auction.ErrNotBidOwner):
		return http.StatusForbidden, true
	case errors.Is(err, auction.ErrConcurrentUpdate):
		return http.StatusConflict, true
	case errors.Is(err, auction.ErrAuctionClosed),
		errors.Is(err, auction.ErrInvalidAmount),
		errors.Is(err, auction.ErrBidTooHigh),
		errors.Is(err, auction.ErrDuplicateBid),
		errors.Is(err, auction.ErrBidWithdrawn):
		return http.StatusBadRequest, true
	}
	return 0, false
}

func urlParamInt(r *http.Request, name string) (int, error) {
	return strconv.Atoi(chi.URLParam(r, name))
}
