package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/motoreast/rebate-portal/internal/gateway"
	"github.com/motoreast/rebate-portal/internal/http/respond"
)

// CondosHandler serves the condo directory and its aggregate stats.
type CondosHandler struct {
	gw  *gateway.Gateway
	log *zap.Logger
}

// NewCondosHandler constructs the handler.
func NewCondosHandler(gw *gateway.Gateway, log *zap.Logger) *CondosHandler {
	return &CondosHandler{gw: gw, log: log}
}

// Register attaches condo routes to the mux.
func (h *CondosHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/condos", h.handleList)
	mux.HandleFunc("/condos/stats", h.handleStats)
}

func (h *CondosHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	condos, err := h.gw.Condos(r.Context())
	if err != nil {
		writeGatewayError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", condos)
}

func (h *CondosHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	stats, err := h.gw.CondoStats(r.Context())
	if err != nil {
		writeGatewayError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", stats)
}
