package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/motoreast/rebate-portal/internal/gateway"
	"github.com/motoreast/rebate-portal/internal/http/respond"
	"github.com/motoreast/rebate-portal/internal/models"
	"github.com/motoreast/rebate-portal/internal/models/dto"
	"github.com/motoreast/rebate-portal/internal/storage"
)

// AdminHandler owns the review and reporting endpoints. Authorization is
// enforced by the gateway, which requires an admin principal on every call.
type AdminHandler struct {
	gw  *gateway.Gateway
	log *zap.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(gw *gateway.Gateway, log *zap.Logger) *AdminHandler {
	return &AdminHandler{gw: gw, log: log}
}

// Register attaches admin routes to the mux.
func (h *AdminHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/admin/claims", h.handleClaims)
	mux.HandleFunc("/admin/claims/status", h.handleClaimStatus)
	mux.HandleFunc("/admin/claims/export", h.handleExport)
	mux.HandleFunc("/admin/dashboard", h.handleDashboard)
	mux.HandleFunc("/admin/registrations", h.handleRegistrations)
	mux.HandleFunc("/admin/registrations/approve", h.handleApprove)
}

func claimFilters(r *http.Request) storage.ClaimFilters {
	return storage.ClaimFilters{
		Status: r.URL.Query().Get("status"),
		Condo:  r.URL.Query().Get("condo"),
	}
}

func (h *AdminHandler) handleClaims(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	claims, err := h.gw.AllClaims(r.Context(), claimFilters(r))
	if err != nil {
		writeGatewayError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", claims)
}

func (h *AdminHandler) handleClaimStatus(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req dto.UpdateClaimStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	claimID, err := uuid.Parse(req.ClaimID)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid claim_id")
		return
	}

	updated, err := h.gw.UpdateClaimStatus(r.Context(), claimID, models.ClaimStatus(req.Status), req.Reason)
	if err != nil {
		writeGatewayError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, "claim updated", updated)
}

func (h *AdminHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	csv, err := h.gw.ExportClaimsCSV(r.Context(), claimFilters(r))
	if err != nil {
		writeGatewayError(w, h.log, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="claims.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(csv)); err != nil {
		h.log.Warn("write csv response", zap.Error(err))
	}
}

func (h *AdminHandler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	stats, err := h.gw.DashboardStats(r.Context())
	if err != nil {
		writeGatewayError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", stats)
}

func (h *AdminHandler) handleRegistrations(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	pending, err := h.gw.PendingRegistrations(r.Context())
	if err != nil {
		writeGatewayError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", pending)
}

func (h *AdminHandler) handleApprove(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req dto.ApproveRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	id, err := uuid.Parse(req.RegistrationID)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid registration_id")
		return
	}

	approved, err := h.gw.ApproveRegistration(r.Context(), id)
	if err != nil {
		writeGatewayError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, "registration approved", approved)
}
