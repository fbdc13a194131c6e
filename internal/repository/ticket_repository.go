package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-pipeline/internal/domain"
)

// Sentinel errors for the ticket store contract.
var (
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrDuplicateTicket = errors.New("ticket id already exists")
)

const uniqueViolationCode = "23505"

// Timestamps are stored as ISO-8601 UTC text per the support_tickets schema.
const timestampLayout = time.RFC3339Nano

// TicketRepository encapsulates ticket persistence. Create must be atomic per
// record: two concurrent creates with the same id can never both succeed.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, ticketID string) (*domain.Ticket, error)
	UpdateStatus(ctx context.Context, ticketID, status string) (*domain.Ticket, error)
	ListRecent(ctx context.Context, limit, offset int) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the Postgres-backed repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO support_tickets (ticket_id, customer_name, message, status, created_at, updated_at, correlation_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`

	now := time.Now().UTC()
	ticket.Status = domain.TicketStatusOpen
	ticket.CreatedAt = now
	ticket.UpdatedAt = now

	_, err := r.pool.Exec(ctx, query,
		ticket.TicketID,
		ticket.CustomerName,
		ticket.Message,
		ticket.Status,
		now.Format(timestampLayout),
		now.Format(timestampLayout),
		ticket.CorrelationID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrDuplicateTicket
		}
		return err
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	const query = `
        SELECT ticket_id, customer_name, message, status, created_at, updated_at, correlation_id
        FROM support_tickets WHERE ticket_id=$1`

	row := r.pool.QueryRow(ctx, query, ticketID)
	ticket, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, ticketID, status string) (*domain.Ticket, error) {
	const query = `
        UPDATE support_tickets SET status=$1, updated_at=$2
        WHERE ticket_id=$3
        RETURNING ticket_id, customer_name, message, status, created_at, updated_at, correlation_id`

	now := time.Now().UTC()
	row := r.pool.QueryRow(ctx, query, status, now.Format(timestampLayout), ticketID)
	ticket, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) ListRecent(ctx context.Context, limit, offset int) ([]domain.Ticket, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT ticket_id, customer_name, message, status, created_at, updated_at, correlation_id
        FROM support_tickets ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var (
		ticket    domain.Ticket
		createdAt string
		updatedAt string
	)
	if err := row.Scan(
		&ticket.TicketID,
		&ticket.CustomerName,
		&ticket.Message,
		&ticket.Status,
		&createdAt,
		&updatedAt,
		&ticket.CorrelationID,
	); err != nil {
		return nil, err
	}

	var err error
	if ticket.CreatedAt, err = time.Parse(timestampLayout, createdAt); err != nil {
		return nil, err
	}
	if ticket.UpdatedAt, err = time.Parse(timestampLayout, updatedAt); err != nil {
		return nil, err
	}
	return &ticket, nil
}
