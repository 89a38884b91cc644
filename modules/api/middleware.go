package api

import (
	"context"
	"strings"

	domain "github.com/example/task-tracker/domain/user"
	"github.com/gofiber/fiber/v2"
)

const (
	// UserContextKey is the key used to store the caller identity in the Fiber context.
	UserContextKey = "user"
)

// TokenDecoder decodes a session token into the caller identity without I/O.
type TokenDecoder interface {
	Decode(token string) (*domain.Identity, error)
}

// AuthConfig configures AuthMiddleware.
type AuthConfig struct {
	Tokens TokenDecoder

	// Next marks a route public. When it returns true the token is not inspected.
	Next func(c *fiber.Ctx) bool
}

// AuthMiddleware rejects requests without a valid bearer token and stores the
// decoded identity under UserContextKey.
func AuthMiddleware(cfg AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		identity, ok := decodeBearer(cfg.Tokens, c.Get(fiber.HeaderAuthorization))
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Unauthorized",
			})
		}

		c.Locals(UserContextKey, identity)
		return c.Next()
	}
}

// OptionalIdentity stores the identity when a valid bearer token is present
// and otherwise lets the request through anonymously.
func OptionalIdentity(tokens TokenDecoder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if identity, ok := decodeBearer(tokens, c.Get(fiber.HeaderAuthorization)); ok {
			c.Locals(UserContextKey, identity)
		}
		return c.Next()
	}
}

// IdentityFrom returns the identity stored by the middleware.
func IdentityFrom(c *fiber.Ctx) (*domain.Identity, bool) {
	identity, ok := c.Locals(UserContextKey).(*domain.Identity)
	return identity, ok && identity != nil
}

func decodeBearer(tokens TokenDecoder, header string) (*domain.Identity, bool) {
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		return nil, false
	}

	identity, err := tokens.Decode(strings.TrimSpace(token))
	if err != nil {
		return nil, false
	}
	return identity, true
}

type identityKey struct{}

// withIdentity attaches identity to ctx for GraphQL resolvers.
func withIdentity(ctx context.Context, identity *domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

func identityFromContext(ctx context.Context) (*domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(*domain.Identity)
	return identity, ok && identity != nil
}
