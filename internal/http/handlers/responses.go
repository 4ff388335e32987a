package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/motoreast/rebate-portal/internal/blob"
	"github.com/motoreast/rebate-portal/internal/gateway"
	"github.com/motoreast/rebate-portal/internal/http/respond"
	"github.com/motoreast/rebate-portal/internal/storage"
)

// writeGatewayError maps gateway/storage sentinels onto HTTP statuses.
func writeGatewayError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, gateway.ErrNotAuthenticated), errors.Is(err, gateway.ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, gateway.ErrForbidden):
		respond.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrAlreadyExists):
		respond.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, gateway.ErrValidation):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, blob.ErrUpload):
		log.Error("receipt storage failure", zap.Error(err))
		respond.Error(w, http.StatusBadGateway, "receipt upload failed")
	default:
		log.Error("unhandled gateway error", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}
