package dto

type SubmitRegistrationRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Vehicle string `json:"vehicle"`
	CondoID string `json:"condo_id"`
}

type ApproveRegistrationRequest struct {
	RegistrationID string `json:"registration_id"`
}
