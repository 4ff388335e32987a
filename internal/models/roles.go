package models

const (
	RoleResident = "resident"
	RoleAdmin    = "admin"
)
