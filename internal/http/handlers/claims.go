package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/motoreast/rebate-portal/internal/auth"
	"github.com/motoreast/rebate-portal/internal/gateway"
	"github.com/motoreast/rebate-portal/internal/http/respond"
	"github.com/motoreast/rebate-portal/internal/models/dto"
)

// maxReceiptBytes caps in-memory parsing of multipart submissions.
const maxReceiptBytes = 10 << 20

// ClaimsHandler owns the resident-facing claim endpoints.
type ClaimsHandler struct {
	gw  *gateway.Gateway
	log *zap.Logger
}

// NewClaimsHandler constructs the handler.
func NewClaimsHandler(gw *gateway.Gateway, log *zap.Logger) *ClaimsHandler {
	return &ClaimsHandler{gw: gw, log: log}
}

// Register attaches claim routes to the mux.
func (h *ClaimsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/claims", h.handleClaims)
	mux.HandleFunc("/claims/summary", h.handleSummary)
	mux.HandleFunc("/claims/ytd", h.handleYTD)
}

func (h *ClaimsHandler) handleClaims(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleSubmit(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleSubmit accepts a JSON body, or multipart/form-data when a receipt
// image accompanies the claim.
func (h *ClaimsHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var (
		input   gateway.ClaimInput
		receipt *gateway.ReceiptUpload
	)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxReceiptBytes); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid multipart payload")
			return
		}
		parsed, err := parseClaimFields(dto.SubmitClaimRequest{
			ChargeDate: r.FormValue("charge_date"),
			Operator:   r.FormValue("operator"),
			Amount:     r.FormValue("amount"),
		})
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		input = parsed

		file, header, err := r.FormFile("receipt")
		switch err {
		case nil:
			defer file.Close()
			receipt = &gateway.ReceiptUpload{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Body:        file,
			}
		case http.ErrMissingFile:
			// receipt is optional
		default:
			respond.Error(w, http.StatusBadRequest, "invalid receipt upload")
			return
		}
	} else {
		var req dto.SubmitClaimRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		parsed, err := parseClaimFields(req)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		input = parsed
	}

	created, err := h.gw.SubmitClaim(r.Context(), input, receipt)
	if err != nil {
		writeGatewayError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, "claim submitted", created)
}

func (h *ClaimsHandler) handleList(w http.ResponseWriter, r *http.Request) {
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

	claims, err := h.gw.UserClaims(r.Context(), userID)
	if err != nil {
		writeGatewayError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", claims)
}

func (h *ClaimsHandler) handleSummary(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	summary, err := h.gw.MonthlySummary(r.Context(), principal.UserID)
	if err != nil {
		writeGatewayError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", summary)
}

func (h *ClaimsHandler) handleYTD(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	total, err := h.gw.YTDRebate(r.Context(), principal.UserID)
	if err != nil {
		writeGatewayError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", dto.YTDRebateResponse{
		UserID: principal.UserID.String(),
		Year:   time.Now().Year(),
		Total:  total.String(),
	})
}

func parseClaimFields(req dto.SubmitClaimRequest) (gateway.ClaimInput, error) {
	chargeDate, err := time.Parse("2006-01-02", strings.TrimSpace(req.ChargeDate))
	if err != nil {
		return gateway.ClaimInput{}, errInvalidField("charge_date must be YYYY-MM-DD")
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		return gateway.ClaimInput{}, errInvalidField("amount must be a decimal number")
	}
	return gateway.ClaimInput{
		ChargeDate: chargeDate,
		Operator:   strings.TrimSpace(req.Operator),
		Amount:     amount,
	}, nil
}

type errInvalidField string

func (e errInvalidField) Error() string { return string(e) }
