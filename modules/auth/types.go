package auth

import (
	"github.com/example/task-tracker/domain/apperror"
)

// CredentialsRequest carries a username and password to the signup and signin services.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse is the reply of the signup and signin services.
// Classified failures travel in Error so callers can rebuild the taxonomy.
type SessionResponse struct {
	AccessToken string            `json:"access_token,omitempty"`
	Error       *apperror.Payload `json:"error,omitempty"`
}
