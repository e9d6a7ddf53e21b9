package api

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/tolmol/bidbazaar/internal/auth"
	"github.com/tolmol/bidbazaar/internal/models"
)

type registerRequest struct {
	Username          string `json:"username" validate:"required,max=80"`
	Email             string `json:"email" validate:"required,email,max=120"`
	Phone             string `json:"phone" validate:"omitempty,max=20"`
	Password          string `json:"password" validate:"required,min=6,max=100"`
	IsServiceProvider bool   `json:"is_service_provider"`
}

func userPayload(u *models.User) map[string]any {
	return map[string]any{
		"id":                  u.ID,
		"username":            u.Username,
		"email":               u.Email,
		"is_service_provider": u.IsServiceProvider,
	}
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.Auth.Register(r.Context(), auth.RegisterParams{
		Username:          req.Username,
		Email:             req.Email,
		Phone:             req.Phone,
		Password:          req.Password,
		IsServiceProvider: req.IsServiceProvider,
	})
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.WithError(err).Error("registration failed")
		respondError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    userPayload(user),
	})
}

// Login handles user login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	token, user, err := h.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    userPayload(user),
	})
}

// Logout acknowledges logout. Tokens are stateless, so the client
// discards its copy; nothing is revoked server-side.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Me returns the authenticated user's account
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.DB.GetUserByID(r.Context(), ident.UserID)
	if err != nil {
		log.WithError(err).Error("failed to load user")
		respondError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"user": userPayload(user)})
}
