package response

import "github.com/kidmood/kidmood-api/internal/domain"

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type PinResponse struct {
	Pin       string `json:"pin"`
	ExpiresAt string `json:"expires_at"`
}

type LinkResponse struct {
	Message string `json:"message"`
	ChildID string `json:"child_id"`
}
