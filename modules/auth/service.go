package auth

import (
	"context"

	"github.com/example/task-tracker/domain/apperror"
	domain "github.com/example/task-tracker/domain/user"
)

// UserStore is the persistence the auth service depends on.
type UserStore interface {
	Create(ctx context.Context, username, password string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(identity domain.Identity) (string, error)
}

// passwordChecker is the part of PasswordHasher the service needs.
type passwordChecker interface {
	Verify(password, hash string) bool
	dummyHash() string
}

// AuthService handles signup and signin.
type AuthService struct {
	users  UserStore
	hasher passwordChecker
	tokens TokenIssuer
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, hasher *PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// SignUp creates the user and signs them in.
// Store errors (conflict, internal) are returned unchanged.
func (s *AuthService) SignUp(ctx context.Context, username, password string) (*domain.Session, error) {
	user, err := s.users.Create(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.SignIn(ctx, user.Identity())
}

// SignIn issues a session token for an already authenticated identity.
func (s *AuthService) SignIn(_ context.Context, identity domain.Identity) (*domain.Session, error) {
	token, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.Session{AccessToken: token}, nil
}

// ValidateCredentials returns the user only if the password matches.
// Unknown users and wrong passwords yield the same Unauthorized error, and
// both pay for one bcrypt comparison.
func (s *AuthService) ValidateCredentials(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.hasher.Verify(password, s.hasher.dummyHash())
		return nil, apperror.Unauthorized()
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, apperror.Unauthorized()
	}
	return user, nil
}

// Login validates credentials and signs the user in.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	if username == "" || password == "" {
		return nil, apperror.Unauthorized()
	}

	user, err := s.ValidateCredentials(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.SignIn(ctx, user.Identity())
}
