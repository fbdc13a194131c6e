package service

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/support-pipeline/internal/classifier"
	"github.com/spec-kit/support-pipeline/internal/config"
	"github.com/spec-kit/support-pipeline/internal/domain"
	"github.com/spec-kit/support-pipeline/internal/events"
	"github.com/spec-kit/support-pipeline/internal/observability"
	"github.com/spec-kit/support-pipeline/internal/repository"
)

// Pipeline fixture running heuristic-only classification against the
// in-memory ticket store.
func newPipelineFixture(t *testing.T) (*PipelineService, repository.TicketRepository, events.Dispatcher) {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	repo := repository.NewMemoryTicketRepository()
	dispatcher := events.NewInMemoryDispatcher(logger)

	cls := classifier.New(config.ClassifierConfig{RemoteEnabled: false}, nil, logger, metrics)
	pipeline := NewPipelineService(PipelineDependencies{
		Classifier: cls,
		Feedback:   NewFeedbackService(repo, dispatcher, logger, metrics),
		Query:      NewQueryService(repo, logger, metrics),
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	return pipeline, repo, dispatcher
}

func TestProcessPositiveFeedback(t *testing.T) {
	pipeline, _, _ := newPipelineFixture(t)

	result, err := pipeline.Process(context.Background(), "Thank you, the app is really good!", nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.Classification != domain.ClassificationPositiveFeedback {
		t.Errorf("classification = %q, want POSITIVE_FEEDBACK", result.Classification)
	}
	if result.HandledBy != domain.HandlerFeedback {
		t.Errorf("handled_by = %q, want FeedbackHandler", result.HandledBy)
	}
	if result.TicketID != nil {
		t.Errorf("ticket_id = %v, want nil", *result.TicketID)
	}
	if !strings.Contains(result.Reply, "Thank you") {
		t.Errorf("reply = %q, want a thank-you", result.Reply)
	}
	if result.CorrelationID == "" {
		t.Error("correlation id missing")
	}
	if result.ProcessedAt.IsZero() {
		t.Error("processed_at not stamped")
	}
}

func TestProcessNegativeFeedbackCreatesTicket(t *testing.T) {
	pipeline, repo, _ := newPipelineFixture(t)
	ctx := context.Background()

	name := "Test User"
	result, err := pipeline.Process(ctx, "Money was debited but ATM did not dispense cash.", &name)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.Classification != domain.ClassificationNegativeFeedback {
		t.Errorf("classification = %q, want NEGATIVE_FEEDBACK", result.Classification)
	}
	if result.TicketID == nil {
		t.Fatal("no ticket created")
	}
	if !regexp.MustCompile(`^\d{6}$`).MatchString(*result.TicketID) {
		t.Errorf("ticket id %q is not 6 digits", *result.TicketID)
	}

	ticket, err := repo.GetByID(ctx, *result.TicketID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if ticket.Status != domain.TicketStatusOpen {
		t.Errorf("status = %q, want Open", ticket.Status)
	}
	if ticket.CorrelationID == nil || *ticket.CorrelationID != result.CorrelationID {
		t.Errorf("ticket correlation_id = %v, want %s", ticket.CorrelationID, result.CorrelationID)
	}
}

func TestProcessQueryUnknownTicket(t *testing.T) {
	pipeline, _, _ := newPipelineFixture(t)

	result, err := pipeline.Process(context.Background(), "What is the status of my ticket 123456?", nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.Classification != domain.ClassificationQuery {
		t.Errorf("classification = %q, want QUERY", result.Classification)
	}
	if result.HandledBy != domain.HandlerQuery {
		t.Errorf("handled_by = %q, want QueryHandler", result.HandledBy)
	}
	if !strings.Contains(result.Reply, "couldn't find") {
		t.Errorf("reply = %q, want couldn't-find message", result.Reply)
	}
}

func TestProcessQueryNoDigits(t *testing.T) {
	pipeline, _, _ := newPipelineFixture(t)

	result, err := pipeline.Process(context.Background(), "Can you help me?", nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.Classification != domain.ClassificationQuery {
		t.Errorf("classification = %q, want QUERY", result.Classification)
	}
	if result.TicketID != nil {
		t.Errorf("ticket_id = %v, want nil", *result.TicketID)
	}
	if !strings.Contains(result.Reply, "6-digit") {
		t.Errorf("reply = %q, want request for 6-digit id", result.Reply)
	}
}

func TestProcessQueryFindsCreatedTicket(t *testing.T) {
	pipeline, _, _ := newPipelineFixture(t)
	ctx := context.Background()

	created, err := pipeline.Process(ctx, "I am very unhappy, money deducted twice.", nil)
	if err != nil {
		t.Fatalf("Process complaint: %v", err)
	}
	if created.TicketID == nil {
		t.Fatal("complaint did not create a ticket")
	}

	lookup, err := pipeline.Process(ctx, "What is the status of my ticket "+*created.TicketID+"?", nil)
	if err != nil {
		t.Fatalf("Process lookup: %v", err)
	}
	if !strings.Contains(lookup.Reply, domain.TicketStatusOpen) {
		t.Errorf("reply = %q, want status Open reported", lookup.Reply)
	}
	if lookup.CorrelationID == created.CorrelationID {
		t.Error("correlation ids reused across requests")
	}
}

func TestProcessEmptyMessage(t *testing.T) {
	pipeline, _, _ := newPipelineFixture(t)

	result, err := pipeline.Process(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.Classification != domain.ClassificationQuery {
		t.Errorf("classification = %q, want QUERY for empty input", result.Classification)
	}
	if result.HandledBy != domain.HandlerQuery {
		t.Errorf("handled_by = %q, want QueryHandler", result.HandledBy)
	}
}

// The fixture runs without a remote provider, so every non-empty message is
// classified by the heuristic and must announce the fallback on the bus.
func TestProcessPublishesClassifierFallback(t *testing.T) {
	pipeline, _, dispatcher := newPipelineFixture(t)

	var fallbacks []events.Event
	dispatcher.Subscribe(events.EventClassifierFallback, func(ctx context.Context, event events.Event) error {
		fallbacks = append(fallbacks, event)
		return nil
	})

	result, err := pipeline.Process(context.Background(), "The app keeps crashing and I am furious.", nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(fallbacks) != 1 {
		t.Fatalf("got %d classifier_fallback events, want 1", len(fallbacks))
	}

	event := fallbacks[0]
	if event.CorrelationID != result.CorrelationID {
		t.Errorf("event correlation_id = %q, want %q", event.CorrelationID, result.CorrelationID)
	}
	payload, ok := event.Payload.(events.ClassifierFallbackPayload)
	if !ok {
		t.Fatalf("payload is %T, want ClassifierFallbackPayload", event.Payload)
	}
	if payload.Classification != domain.ClassificationNegativeFeedback {
		t.Errorf("payload classification = %q, want NEGATIVE_FEEDBACK", payload.Classification)
	}
}
