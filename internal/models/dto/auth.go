package dto

import "github.com/motoreast/rebate-portal/internal/models"

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Vehicle  string `json:"vehicle"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}
