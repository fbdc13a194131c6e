package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/support-pipeline/pkg/util"
)

// OpsMiddleware validates bearer tokens for back-office routes.
type OpsMiddleware struct {
	tokens *TokenManager
}

// NewOpsMiddleware constructs middleware.
func NewOpsMiddleware(tokens *TokenManager) *OpsMiddleware {
	return &OpsMiddleware{tokens: tokens}
}

// Handle enforces operator authentication for protected routes.
func (m *OpsMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	if claims.Role != RoleOperator {
		return apperrors.NewForbidden("operator role required")
	}

	return c.Next()
}
