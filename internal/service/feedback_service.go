package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-pipeline/internal/domain"
	"github.com/spec-kit/support-pipeline/internal/events"
	"github.com/spec-kit/support-pipeline/internal/observability"
	"github.com/spec-kit/support-pipeline/internal/repository"
)

// ErrUnknownSentiment signals a broken routing invariant: the feedback
// handler received a classification it does not own. It is never reachable
// when routing is correct, so it fails loudly instead of producing a reply.
var ErrUnknownSentiment = errors.New("feedback handler received unknown sentiment")

const (
	defaultCustomerName = "Valued Customer"

	// The id space is 6 decimal digits. The draw loop gives up after a fixed
	// budget so near-exhaustion surfaces as an error instead of a spin.
	ticketIDSpace      = 1000000
	maxTicketIDRetries = 64
)

// FeedbackResult is the feedback handler's contribution to a pipeline result.
type FeedbackResult struct {
	Reply    string
	TicketID *string
}

// FeedbackService acknowledges positive feedback and turns negative feedback
// into a support ticket.
type FeedbackService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewFeedbackService constructs the service.
func NewFeedbackService(tickets repository.TicketRepository, dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *FeedbackService {
	return &FeedbackService{tickets: tickets, dispatcher: dispatcher, logger: logger, metrics: metrics}
}

// Handle produces a reply for a classified feedback message, creating a
// ticket when the sentiment is negative.
func (s *FeedbackService) Handle(ctx context.Context, msg domain.InboundMessage, sentiment domain.Classification) (*FeedbackResult, error) {
	s.logger.Info("feedback handler started",
		zap.String("correlation_id", msg.CorrelationID),
		zap.String("sentiment", string(sentiment)))

	display := defaultCustomerName
	if msg.CustomerName != nil && *msg.CustomerName != "" {
		display = *msg.CustomerName
	}

	switch sentiment {
	case domain.ClassificationPositiveFeedback:
		reply := fmt.Sprintf(
			"Thank you for your kind feedback, %s! We really appreciate you taking the time to share this with us.",
			display)
		return &FeedbackResult{Reply: reply}, nil

	case domain.ClassificationNegativeFeedback:
		ticket, err := s.createTicket(ctx, msg)
		if err != nil {
			return nil, err
		}
		reply := fmt.Sprintf(
			"We're really sorry to hear about your experience, %s. I've created a support ticket for you: #%s. "+
				"Our team will review this and get back to you as soon as possible.",
			display, ticket.TicketID)
		return &FeedbackResult{Reply: reply, TicketID: &ticket.TicketID}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSentiment, sentiment)
	}
}

// createTicket draws candidate ids until one inserts cleanly. The pre-check
// via GetByID keeps collisions rare; the store's uniqueness constraint closes
// the check-then-act race, and a duplicate insert just triggers a fresh draw.
func (s *FeedbackService) createTicket(ctx context.Context, msg domain.InboundMessage) (*domain.Ticket, error) {
	for attempt := 0; attempt < maxTicketIDRetries; attempt++ {
		candidate := fmt.Sprintf("%06d", rand.IntN(ticketIDSpace))

		if _, err := s.tickets.GetByID(ctx, candidate); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrTicketNotFound) {
			return nil, err
		}

		ticket := &domain.Ticket{
			TicketID:      candidate,
			CustomerName:  msg.CustomerName,
			Message:       msg.Text,
			CorrelationID: &msg.CorrelationID,
		}
		err := s.tickets.Create(ctx, ticket)
		if errors.Is(err, repository.ErrDuplicateTicket) {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.metrics.RecordTicketCreated()
		s.logger.Info("ticket created",
			zap.String("correlation_id", msg.CorrelationID),
			zap.String("ticket_id", ticket.TicketID))
		s.publishEvent(ctx, events.Event{
			Type:          events.EventTicketCreated,
			CorrelationID: msg.CorrelationID,
			Payload: events.TicketCreatedPayload{
				TicketID:     ticket.TicketID,
				CustomerName: ticket.CustomerName,
			},
		})
		return ticket, nil
	}
	return nil, errors.New("exhausted ticket id attempts")
}

func (s *FeedbackService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	if event.Timestamp.IsZero() {
		event.Timestamp = timeNowUTC()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
