package dto

type SubmitClaimRequest struct {
	ChargeDate string `json:"charge_date"`
	Operator   string `json:"operator"`
	Amount     string `json:"amount"`
}

type UpdateClaimStatusRequest struct {
	ClaimID string `json:"claim_id"`
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
}

type YTDRebateResponse struct {
	UserID string `json:"user_id"`
	Year   int    `json:"year"`
	Total  string `json:"total"`
}
