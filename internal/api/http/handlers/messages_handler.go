package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-pipeline/internal/api/dto"
	"github.com/spec-kit/support-pipeline/internal/service"
	apperrors "github.com/spec-kit/support-pipeline/pkg/util"
)

// MessagesHandler exposes the classification pipeline.
type MessagesHandler struct {
	pipeline *service.PipelineService
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(pipeline *service.PipelineService) *MessagesHandler {
	return &MessagesHandler{pipeline: pipeline}
}

// Process POST /messages.
func (h *MessagesHandler) Process(c *fiber.Ctx) error {
	var req dto.ProcessMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Message == nil {
		return apperrors.NewValidationError("message required", nil)
	}

	result, err := h.pipeline.Process(c.UserContext(), *req.Message, req.CustomerName)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProcessMessageResponse(result)})
}
