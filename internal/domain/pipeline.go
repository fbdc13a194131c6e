package domain

import "time"

// HandlerName identifies which downstream handler produced a reply.
type HandlerName string

const (
	HandlerFeedback HandlerName = "FeedbackHandler"
	HandlerQuery    HandlerName = "QueryHandler"
)

// InboundMessage is the per-request unit of work entering the pipeline.
// It is owned by the current request and discarded once a result exists.
type InboundMessage struct {
	Text          string
	CustomerName  *string
	CorrelationID string
}

// PipelineResult is the immutable outcome of processing one message.
type PipelineResult struct {
	Reply          string
	TicketID       *string
	Classification Classification
	HandledBy      HandlerName
	CorrelationID  string
	ProcessedAt    time.Time
}
