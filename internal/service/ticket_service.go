package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-pipeline/internal/domain"
	"github.com/spec-kit/support-pipeline/internal/events"
	"github.com/spec-kit/support-pipeline/internal/repository"
)

// TicketService exposes the ticket store to the read and back-office
// surfaces. The pipeline itself never changes a ticket's status; that is the
// back-office's job.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, dispatcher events.Dispatcher, logger *zap.Logger) *TicketService {
	return &TicketService{tickets: tickets, dispatcher: dispatcher, logger: logger}
}

// GetTicket fetches a ticket by id.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, ticketID)
}

// UpdateStatus sets a new status on an existing ticket.
func (s *TicketService) UpdateStatus(ctx context.Context, ticketID, status string) (*domain.Ticket, error) {
	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	updated, err := s.tickets.UpdateStatus(ctx, ticketID, status)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket status updated",
		zap.String("ticket_id", ticketID),
		zap.String("old_status", current.Status),
		zap.String("new_status", updated.Status))
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTicketStatusChanged,
			Timestamp: timeNowUTC(),
			Payload: events.TicketStatusChangedPayload{
				TicketID:  ticketID,
				OldStatus: current.Status,
				NewStatus: updated.Status,
			},
		})
	}
	return updated, nil
}

// ListRecent returns recently created tickets for the back-office table.
func (s *TicketService) ListRecent(ctx context.Context, limit, offset int) ([]domain.Ticket, error) {
	return s.tickets.ListRecent(ctx, limit, offset)
}
