package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/motoreast/rebate-portal/internal/auth"
	"github.com/motoreast/rebate-portal/internal/gateway"
	"github.com/motoreast/rebate-portal/internal/http/respond"
	"github.com/motoreast/rebate-portal/internal/models/dto"
)

// AuthHandler owns the sign-up/sign-in/session endpoints.
type AuthHandler struct {
	gw  *gateway.Gateway
	log *zap.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(gw *gateway.Gateway, log *zap.Logger) *AuthHandler {
	return &AuthHandler{gw: gw, log: log}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/auth/register", h.handleRegister)
	mux.HandleFunc("/auth/login", h.handleLogin)
	mux.HandleFunc("/auth/logout", h.handleLogout)
	mux.HandleFunc("/auth/refresh", h.handleRefresh)
	mux.HandleFunc("/auth/me", h.handleMe)
	mux.HandleFunc("/auth/profile", h.handleProfile)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	created, err := h.gw.SignUp(r.Context(), gateway.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Vehicle:  req.Vehicle,
	})
	if err != nil {
		writeGatewayError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, "user created", created)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	session, err := h.gw.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeGatewayError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, "login successful", dto.SessionResponse{
		Token: session.Token,
		User:  session.User,
	})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	token := bearerToken(r)
	if token == "" {
		respond.Error(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	if err := h.gw.SignOut(r.Context(), token); err != nil {
		writeGatewayError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, "signed out", nil)
}

func (h *AuthHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	token := bearerToken(r)
	if token == "" {
		respond.Error(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	session, err := h.gw.Refresh(r.Context(), token)
	if err != nil {
		writeGatewayError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, "token refreshed", dto.SessionResponse{
		Token: session.Token,
		User:  session.User,
	})
}

// handleMe reports the current principal, or null when unauthenticated.
func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	principal, err := h.gw.CurrentUser(r.Context())
	if err != nil {
		writeGatewayError(w, h.log, err)
		return
	}
	if principal == nil {
		respond.JSON(w, http.StatusOK, "no session", nil)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", map[string]any{
		"id":      principal.UserID,
		"email":   principal.Email,
		"name":    principal.Name,
		"vehicle": principal.Vehicle,
		"role":    principal.Role,
	})
}

// handleProfile fetches the caller's profile, or any profile by user_id for
// admins.
func (h *AuthHandler) handleProfile(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	userID := principal.UserID
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid user_id")
			return
		}
		if parsed != principal.UserID && !principal.IsAdmin() {
			respond.Error(w, http.StatusForbidden, "forbidden")
			return
		}
		userID = parsed
	}

	profile, err := h.gw.UserProfile(r.Context(), userID)
	if err != nil {
		writeGatewayError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", profile)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
