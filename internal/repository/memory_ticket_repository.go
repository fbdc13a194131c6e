package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/support-pipeline/internal/domain"
)

// memoryTicketRepository is a mutex-guarded map implementing the same
// contract as the Postgres repository. It backs DSN-less runs and tests.
type memoryTicketRepository struct {
	mu      sync.RWMutex
	tickets map[string]domain.Ticket
}

// NewMemoryTicketRepository creates an empty in-memory ticket store.
func NewMemoryTicketRepository() TicketRepository {
	return &memoryTicketRepository{tickets: make(map[string]domain.Ticket)}
}

func (r *memoryTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tickets[ticket.TicketID]; exists {
		return ErrDuplicateTicket
	}

	now := time.Now().UTC()
	ticket.Status = domain.TicketStatusOpen
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	r.tickets[ticket.TicketID] = *ticket
	return nil
}

func (r *memoryTicketRepository) GetByID(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ticket, exists := r.tickets[ticketID]
	if !exists {
		return nil, ErrTicketNotFound
	}
	return &ticket, nil
}

func (r *memoryTicketRepository) UpdateStatus(ctx context.Context, ticketID, status string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ticket, exists := r.tickets[ticketID]
	if !exists {
		return nil, ErrTicketNotFound
	}
	ticket.Status = status
	ticket.UpdatedAt = time.Now().UTC()
	r.tickets[ticketID] = ticket
	return &ticket, nil
}

func (r *memoryTicketRepository) ListRecent(ctx context.Context, limit, offset int) ([]domain.Ticket, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	all := make([]domain.Ticket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		all = append(all, ticket)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].TicketID > all[j].TicketID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
