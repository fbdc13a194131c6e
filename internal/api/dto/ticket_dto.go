package dto

import (
	"time"

	"github.com/spec-kit/support-pipeline/internal/domain"
)

// TicketResponse payload.
type TicketResponse struct {
	TicketID      string    `json:"ticket_id"`
	CustomerName  *string   `json:"customer_name"`
	Message       string    `json:"message"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	CorrelationID *string   `json:"correlation_id"`
}

// NewTicketResponse maps a ticket to its response shape.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		TicketID:      ticket.TicketID,
		CustomerName:  ticket.CustomerName,
		Message:       ticket.Message,
		Status:        ticket.Status,
		CreatedAt:     ticket.CreatedAt,
		UpdatedAt:     ticket.UpdatedAt,
		CorrelationID: ticket.CorrelationID,
	}
}

// UpdateTicketStatusRequest payload.
type UpdateTicketStatusRequest struct {
	Status string `json:"status"`
}
