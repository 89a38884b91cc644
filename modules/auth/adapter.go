package auth

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/task-tracker/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort defines the interface for authentication operations.
// This is the port that other modules use to access auth functionality.
type AuthPort interface {
	SignUp(ctx context.Context, username, password string) (*domain.Session, error)
	SignIn(ctx context.Context, username, password string) (*domain.Session, error)
}

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{
		container: container,
	}
}

// SignUp registers a user via the signup service.
func (a *AuthAdapter) SignUp(ctx context.Context, username, password string) (*domain.Session, error) {
	return a.call(ctx, "signup", username, password)
}

// SignIn authenticates a user via the signin service.
func (a *AuthAdapter) SignIn(ctx context.Context, username, password string) (*domain.Session, error) {
	return a.call(ctx, "signin", username, password)
}

func (a *AuthAdapter) call(ctx context.Context, service, username, password string) (*domain.Session, error) {
	req := CredentialsRequest{Username: username, Password: password}
	var resp SessionResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		service,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s request failed: %w", service, err)
	}

	if err := resp.Error.Err(); err != nil {
		return nil, err
	}

	return &domain.Session{AccessToken: resp.AccessToken}, nil
}
