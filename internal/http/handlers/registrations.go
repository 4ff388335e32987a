package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/motoreast/rebate-portal/internal/gateway"
	"github.com/motoreast/rebate-portal/internal/http/respond"
	"github.com/motoreast/rebate-portal/internal/models/dto"
)

// RegistrationsHandler accepts condo pre-approval requests from prospective
// participants. No authentication required: applicants have no account yet.
type RegistrationsHandler struct {
	gw  *gateway.Gateway
	log *zap.Logger
}

// NewRegistrationsHandler constructs the handler.
func NewRegistrationsHandler(gw *gateway.Gateway, log *zap.Logger) *RegistrationsHandler {
	return &RegistrationsHandler{gw: gw, log: log}
}

// Register attaches the registration route to the mux.
func (h *RegistrationsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/registrations", h.handleSubmit)
}

func (h *RegistrationsHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req dto.SubmitRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	condoID, err := uuid.Parse(req.CondoID)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid condo_id")
		return
	}

	created, err := h.gw.SubmitRegistration(r.Context(), gateway.RegistrationInput{
		Name:    req.Name,
		Email:   req.Email,
		Vehicle: req.Vehicle,
		CondoID: condoID,
	})
	if err != nil {
		writeGatewayError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, "registration submitted", created)
}
