package middleware

import (
	"context"
	"strings"

	"hr_records/models"
	"hr_records/policy"
	"hr_records/types"
	"hr_records/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const identityKey = "identity"

// SessionCookie carries the login token for pages a browser navigates to.
const SessionCookie = "hr_session"

// Resolver turns a bearer token into the caller's identity.
type Resolver interface {
	Resolve(ctx context.Context, token string) (policy.Identity, error)
}

func extractToken(c *fiber.Ctx) (string, error) {
	auth := c.Get("Authorization")
	if auth == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "No token provided")
	}

	parts := strings.Split(auth, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token format")
	}

	return parts[1], nil
}

// RequireAuth resolves the bearer token and stores the identity for handlers.
func RequireAuth(resolver Resolver) fiber.Handler {
	return authenticate(resolver, extractToken)
}

// RequireSession is RequireAuth for browser pages: without an Authorization
// header it falls back to the session cookie set at login.
func RequireSession(resolver Resolver) fiber.Handler {
	return authenticate(resolver, func(c *fiber.Ctx) (string, error) {
		if c.Get("Authorization") == "" {
			if token := c.Cookies(SessionCookie); token != "" {
				return token, nil
			}
		}
		return extractToken(c)
	})
}

func authenticate(resolver Resolver, extract func(*fiber.Ctx) (string, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := extract(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(types.APIResponse{
				Success: false,
				Error:   err.Error(),
			})
		}

		identity, err := resolver.Resolve(c.UserContext(), token)
		if err != nil {
			if types.KindOf(err) == types.KindInvalidCredentials {
				return c.Status(fiber.StatusUnauthorized).JSON(types.APIResponse{
					Success: false,
					Error:   "Invalid or expired token",
				})
			}
			utils.Logger.Error("Failed to resolve session", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(types.APIResponse{
				Success: false,
				Error:   types.ErrInternalError,
			})
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// RequireRole lets through only the listed roles. It must run after RequireAuth.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := Identity(c)
		if ok {
			for _, role := range roles {
				if identity.Role == role {
					return c.Next()
				}
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(types.APIResponse{
			Success: false,
			Error:   types.Forbidden().Message,
		})
	}
}

// Identity returns the identity RequireAuth stored on the request.
func Identity(c *fiber.Ctx) (policy.Identity, bool) {
	identity, ok := c.Locals(identityKey).(policy.Identity)
	return identity, ok
}
