package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/motoreast/rebate-portal/internal/gateway"
	"github.com/motoreast/rebate-portal/internal/http/respond"
)

// ReceiptsHandler resolves stored receipt paths to their public URLs.
type ReceiptsHandler struct {
	gw  *gateway.Gateway
	log *zap.Logger
}

// NewReceiptsHandler constructs the handler.
func NewReceiptsHandler(gw *gateway.Gateway, log *zap.Logger) *ReceiptsHandler {
	return &ReceiptsHandler{gw: gw, log: log}
}

// Register attaches the receipt route to the mux.
func (h *ReceiptsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/receipts/url", h.handleURL)
}

// handleURL maps a stored path to its public URL. An empty path yields a
// null URL rather than an error.
func (h *ReceiptsHandler) handleURL(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	path := r.URL.Query().Get("path")
	url := h.gw.ReceiptURL(path)
	if url == "" {
		respond.JSON(w, http.StatusOK, "ok", nil)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", map[string]string{"url": url})
}
