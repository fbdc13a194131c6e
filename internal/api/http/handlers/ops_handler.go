package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-pipeline/internal/api/dto"
	"github.com/spec-kit/support-pipeline/internal/auth"
	"github.com/spec-kit/support-pipeline/internal/config"
	apperrors "github.com/spec-kit/support-pipeline/pkg/util"
)

// OpsHandler authenticates back-office operators.
type OpsHandler struct {
	tokens       *auth.TokenManager
	passwordHash string
}

// NewOpsHandler constructs handler. When no password hash is configured one
// is derived from the plaintext OPS_PASSWORD; with neither set, login is
// disabled.
func NewOpsHandler(cfg config.OpsConfig, tokens *auth.TokenManager) (*OpsHandler, error) {
	hash := cfg.PasswordHash
	if hash == "" && cfg.Password != "" {
		derived, err := auth.HashPassword(cfg.Password, cfg.BcryptCost)
		if err != nil {
			return nil, err
		}
		hash = derived
	}
	return &OpsHandler{tokens: tokens, passwordHash: hash}, nil
}

// Login POST /ops/login.
func (h *OpsHandler) Login(c *fiber.Ctx) error {
	if h.passwordHash == "" {
		return apperrors.NewUnauthorized("ops login not configured")
	}

	var req dto.OpsLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := auth.ComparePassword(h.passwordHash, req.Password); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := h.tokens.GenerateToken()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{"data": dto.OpsLoginResponse{Token: token, ExpiresAt: expiresAt}})
}
