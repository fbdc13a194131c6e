package events

import (
	"time"

	"github.com/spec-kit/support-pipeline/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventMessageClassified   EventType = "message_classified"
	EventClassifierFallback  EventType = "classifier_fallback"
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
)

// Event represents a domain event emitted by pipeline services.
type Event struct {
	ID            string      `json:"id"`
	Type          EventType   `json:"type"`
	CorrelationID string      `json:"correlation_id"`
	Timestamp     time.Time   `json:"timestamp"`
	Payload       interface{} `json:"payload"`
}

// MessageClassifiedPayload payload.
type MessageClassifiedPayload struct {
	Classification domain.Classification `json:"classification"`
	Source         string                `json:"source"`
	MessagePreview string                `json:"message_preview"`
}

// ClassifierFallbackPayload payload.
type ClassifierFallbackPayload struct {
	Classification domain.Classification `json:"classification"`
	MessagePreview string                `json:"message_preview"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID     string  `json:"ticket_id"`
	CustomerName *string `json:"customer_name,omitempty"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	TicketID  string `json:"ticket_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}
