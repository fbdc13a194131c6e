package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/spec-kit/support-pipeline/internal/domain"
	"github.com/spec-kit/support-pipeline/internal/observability"
	"github.com/spec-kit/support-pipeline/internal/repository"
)

// Exactly six consecutive digits bounded by non-digits; longer runs do not
// match, and only the leftmost occurrence is used.
var ticketIDPattern = regexp.MustCompile(`\b\d{6}\b`)

// QueryResult is the query handler's contribution to a pipeline result.
type QueryResult struct {
	Reply    string
	TicketID *string
	Found    bool
}

// QueryService answers ticket status questions.
type QueryService struct {
	tickets repository.TicketRepository
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewQueryService constructs the service.
func NewQueryService(tickets repository.TicketRepository, logger *zap.Logger, metrics *observability.Metrics) *QueryService {
	return &QueryService{tickets: tickets, logger: logger, metrics: metrics}
}

// Handle extracts a ticket id from the message and reports its status.
// Lookup misses are expected and surface as a structured result, not an error.
func (s *QueryService) Handle(ctx context.Context, msg domain.InboundMessage) (*QueryResult, error) {
	s.logger.Info("query handler started",
		zap.String("correlation_id", msg.CorrelationID))

	ticketID := ticketIDPattern.FindString(msg.Text)
	if ticketID == "" {
		return &QueryResult{
			Reply: "I couldn't find a ticket number in your message. " +
				"Please share your 6-digit ticket ID so I can check the status for you.",
		}, nil
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	s.logger.Info("ticket lookup completed",
		zap.String("correlation_id", msg.CorrelationID),
		zap.String("ticket_id", ticketID),
		zap.Bool("found", err == nil))

	if errors.Is(err, repository.ErrTicketNotFound) {
		s.metrics.RecordLookup(false)
		return &QueryResult{
			Reply: fmt.Sprintf("I couldn't find any ticket with ID #%s. Please verify the number and try again.",
				ticketID),
			TicketID: &ticketID,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	s.metrics.RecordLookup(true)
	return &QueryResult{
		Reply:    fmt.Sprintf("Your ticket #%s is currently marked as: %s.", ticketID, ticket.Status),
		TicketID: &ticketID,
		Found:    true,
	}, nil
}
