package middleware

import (
	"strings"

	"josenian-borrowease/internal/config"
	"josenian-borrowease/internal/core/domain"
	"josenian-borrowease/internal/pkg/jwt"
	"josenian-borrowease/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set user info in context
		c.Locals("userID", claims.UserID)
		c.Locals("email", claims.Email)
		c.Locals("displayName", claims.DisplayName)
		c.Locals("department", claims.Department)

		return c.Next()
	}
}

// IdentityFromCtx rebuilds the acting identity from the auth locals.
// Returns false when the request was not authenticated.
func IdentityFromCtx(c *fiber.Ctx) (domain.Identity, bool) {
	userID, ok := c.Locals("userID").(string)
	if !ok || userID == "" {
		return domain.Identity{}, false
	}
	email, _ := c.Locals("email").(string)
	displayName, _ := c.Locals("displayName").(string)
	department, _ := c.Locals("department").(string)
	return domain.Identity{
		UserID:      userID,
		Email:       email,
		DisplayName: displayName,
		Department:  department,
	}, true
}
