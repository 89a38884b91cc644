package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/task-tracker/database"
	"github.com/example/task-tracker/domain/apperror"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/gorm"
)

// AuthModule provides the signup and signin services and owns the token manager.
type AuthModule struct {
	db         *gorm.DB
	jwtConfig  JWTConfig
	bcryptCost int
	logger     types.Logger

	jwt     *JWTManager
	service *AuthService
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule over a shared database connection.
// The token manager is built eagerly so the API guard can decode tokens locally.
func NewModule(db *gorm.DB, jwtConfig JWTConfig, bcryptCost int, logger types.Logger) *AuthModule {
	return &AuthModule{
		db:         db,
		jwtConfig:  jwtConfig,
		bcryptCost: bcryptCost,
		logger:     logger.WithModule("auth"),
		jwt:        NewJWTManager(jwtConfig),
	}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// Start wires the user store and auth service.
func (m *AuthModule) Start(_ context.Context) error {
	if m.db == nil {
		return fmt.Errorf("database not configured")
	}

	hasher := NewPasswordHasher(m.bcryptCost)
	repo := NewUserRepository(m.db, hasher, m.logger)
	m.service = NewAuthService(repo, hasher, m.jwt)

	m.logger.Info("Module started", "issuer", m.jwtConfig.Issuer, "tokenTTL", m.jwtConfig.TokenTTL.String())
	return nil
}

// Stop shuts down the module. The database is owned by main.
func (m *AuthModule) Stop(_ context.Context) error {
	m.logger.Info("Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	if err := database.Ping(ctx, m.db); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"issuer": m.jwtConfig.Issuer,
		},
	}
}

// Tokens returns the token manager used to sign sessions.
func (m *AuthModule) Tokens() *JWTManager {
	return m.jwt
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		"signup",
		json.Unmarshal,
		json.Marshal,
		m.handleSignUp,
	); err != nil {
		return fmt.Errorf("failed to register signup service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"signin",
		json.Unmarshal,
		json.Marshal,
		m.handleSignIn,
	); err != nil {
		return fmt.Errorf("failed to register signin service: %w", err)
	}

	m.logger.Info("Registered services", "services", "signup, signin")
	return nil
}

// handleSignUp handles user registration. Classified failures are returned in the envelope.
func (m *AuthModule) handleSignUp(ctx context.Context, req CredentialsRequest, _ *mono.Msg) (SessionResponse, error) {
	session, err := m.service.SignUp(ctx, req.Username, req.Password)
	if err != nil {
		return errorResponse(err), nil
	}
	m.logger.Debug("User signed up", "username", req.Username)
	return SessionResponse{AccessToken: session.AccessToken}, nil
}

// handleSignIn handles the local credential strategy.
func (m *AuthModule) handleSignIn(ctx context.Context, req CredentialsRequest, _ *mono.Msg) (SessionResponse, error) {
	session, err := m.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		return errorResponse(err), nil
	}
	m.logger.Debug("User signed in", "username", req.Username)
	return SessionResponse{AccessToken: session.AccessToken}, nil
}

func errorResponse(err error) SessionResponse {
	return SessionResponse{Error: apperror.ToPayload(err)}
}
