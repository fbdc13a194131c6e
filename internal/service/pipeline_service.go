package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-pipeline/internal/classifier"
	"github.com/spec-kit/support-pipeline/internal/domain"
	"github.com/spec-kit/support-pipeline/internal/events"
	"github.com/spec-kit/support-pipeline/internal/observability"
)

const messagePreviewLen = 80

// PipelineService orchestrates classify -> route -> handle for one inbound
// message. The flow is a fixed graph: every classification maps to exactly
// one handler and there are no cycles or retries at this level.
type PipelineService struct {
	classifier *classifier.Classifier
	feedback   *FeedbackService
	query      *QueryService
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// PipelineDependencies bundles collaborators for the pipeline.
type PipelineDependencies struct {
	Classifier *classifier.Classifier
	Feedback   *FeedbackService
	Query      *QueryService
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewPipelineService constructs the service.
func NewPipelineService(deps PipelineDependencies) *PipelineService {
	return &PipelineService{
		classifier: deps.Classifier,
		feedback:   deps.Feedback,
		query:      deps.Query,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Process runs one customer message through the pipeline and assembles the
// result. Each request gets a fresh correlation id that travels through
// every step and into any ticket created along the way.
func (s *PipelineService) Process(ctx context.Context, message string, customerName *string) (*domain.PipelineResult, error) {
	msg := domain.InboundMessage{
		Text:          message,
		CustomerName:  customerName,
		CorrelationID: uuid.NewString(),
	}
	logger := s.logger.With(zap.String("correlation_id", msg.CorrelationID))

	logger.Info("classification started", zap.String("message", preview(message)))
	classification, source := s.classifier.Classify(ctx, message)
	logger.Info("classification completed",
		zap.String("classification", string(classification)),
		zap.String("source", source))

	s.publishEvent(ctx, events.Event{
		Type:          events.EventMessageClassified,
		CorrelationID: msg.CorrelationID,
		Payload: events.MessageClassifiedPayload{
			Classification: classification,
			Source:         source,
			MessagePreview: preview(message),
		},
	})
	if source == observability.SourceHeuristic {
		s.publishEvent(ctx, events.Event{
			Type:          events.EventClassifierFallback,
			CorrelationID: msg.CorrelationID,
			Payload: events.ClassifierFallbackPayload{
				Classification: classification,
				MessagePreview: preview(message),
			},
		})
	}

	result := &domain.PipelineResult{
		Classification: classification,
		CorrelationID:  msg.CorrelationID,
	}

	switch classification {
	case domain.ClassificationPositiveFeedback, domain.ClassificationNegativeFeedback:
		logger.Info("routing decision", zap.String("handler", string(domain.HandlerFeedback)))
		out, err := s.feedback.Handle(ctx, msg, classification)
		if err != nil {
			return nil, err
		}
		result.Reply = out.Reply
		result.TicketID = out.TicketID
		result.HandledBy = domain.HandlerFeedback

	case domain.ClassificationQuery:
		logger.Info("routing decision", zap.String("handler", string(domain.HandlerQuery)))
		out, err := s.query.Handle(ctx, msg)
		if err != nil {
			return nil, err
		}
		result.Reply = out.Reply
		result.TicketID = out.TicketID
		result.HandledBy = domain.HandlerQuery

	default:
		// Unreachable: Classify is total over the three labels.
		return nil, fmt.Errorf("unroutable classification %q", classification)
	}

	result.ProcessedAt = timeNowUTC()
	return result, nil
}

func (s *PipelineService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	if event.Timestamp.IsZero() {
		event.Timestamp = timeNowUTC()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func preview(message string) string {
	if len(message) > messagePreviewLen {
		return message[:messagePreviewLen]
	}
	return message
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}
