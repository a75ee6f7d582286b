package authapi

import (
	"time"

	"roster/internal/identity"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type signupResponse struct {
	User identity.Summary `json:"user"`
}

type loginResponse struct {
	User    identity.Summary `json:"user"`
	Session sessionResponse  `json:"session"`
}

type meResponse struct {
	User identity.Summary `json:"user"`
}

type registeredResponse struct {
	Users []identity.Summary `json:"users"`
}
