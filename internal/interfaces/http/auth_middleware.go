package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/balagrajendran/purchase-management-sub000/internal/domain"
	"github.com/balagrajendran/purchase-management-sub000/pkg/jwt"
)

// Locals keys set by AuthMiddleware.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
	LocalRole   = "role"
)

// AuthMiddleware validates the Bearer token and stores the identity in c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return fmt.Errorf("%w: authorization header required", domain.ErrUnauthorized)
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fmt.Errorf("%w: expected Bearer <token>", domain.ErrUnauthorized)
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return fmt.Errorf("%w: empty token", domain.ErrUnauthorized)
		}
		id, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return fmt.Errorf("%w: invalid or expired token", domain.ErrUnauthorized)
		}
		c.Locals(LocalUserID, id.UserID)
		c.Locals(LocalEmail, id.Email)
		c.Locals(LocalRole, id.Role)
		return c.Next()
	}
}

// RequireRole lets the request through only when the token role is one of roles.
// Must run after AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		if GetUserID(c) == "" {
			return fmt.Errorf("%w: missing identity", domain.ErrUnauthorized)
		}
		if _, ok := allowed[GetRole(c)]; !ok {
			return fmt.Errorf("%w: role %q may not access this resource", domain.ErrForbidden, GetRole(c))
		}
		return c.Next()
	}
}

// GetUserID returns the user id set by AuthMiddleware, or "".
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetRole returns the role set by AuthMiddleware, or "".
func GetRole(c *fiber.Ctx) string {
	return localString(c, LocalRole)
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}
