package dto

import (
	"time"

	"github.com/spec-kit/support-pipeline/internal/domain"
)

// ProcessMessageRequest payload. Message is a pointer so a missing field can
// be rejected while a present-but-blank message still flows through the
// pipeline (blank input classifies as QUERY).
type ProcessMessageRequest struct {
	Message      *string `json:"message"`
	CustomerName *string `json:"customer_name"`
}

// ProcessMessageResponse mirrors a pipeline result.
type ProcessMessageResponse struct {
	Reply          string    `json:"reply"`
	TicketID       *string   `json:"ticket_id"`
	Classification string    `json:"classification"`
	HandledBy      string    `json:"handled_by"`
	CorrelationID  string    `json:"correlation_id"`
	ProcessedAt    time.Time `json:"processed_at"`
}

// NewProcessMessageResponse maps a pipeline result to its response shape.
func NewProcessMessageResponse(result *domain.PipelineResult) ProcessMessageResponse {
	return ProcessMessageResponse{
		Reply:          result.Reply,
		TicketID:       result.TicketID,
		Classification: string(result.Classification),
		HandledBy:      string(result.HandledBy),
		CorrelationID:  result.CorrelationID,
		ProcessedAt:    result.ProcessedAt,
	}
}
