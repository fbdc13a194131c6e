package dto

import "time"

// OpsLoginRequest payload.
type OpsLoginRequest struct {
	Password string `json:"password"`
}

// OpsLoginResponse payload.
type OpsLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
