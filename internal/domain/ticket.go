package domain

import "time"

// TicketStatusOpen is the initial status assigned to every new ticket.
// Status is free text after creation; the back-office decides the vocabulary.
const TicketStatusOpen = "Open"

// Ticket is the persisted record for a customer complaint.
type Ticket struct {
	TicketID      string
	CustomerName  *string
	Message       string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CorrelationID *string
}
