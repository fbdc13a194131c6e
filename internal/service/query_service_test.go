package service

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/support-pipeline/internal/domain"
	"github.com/spec-kit/support-pipeline/internal/observability"
	"github.com/spec-kit/support-pipeline/internal/repository"
)

func newQueryFixture(t *testing.T) (*QueryService, repository.TicketRepository) {
	t.Helper()
	repo := repository.NewMemoryTicketRepository()
	svc := NewQueryService(repo, zap.NewNop(), observability.NewMetrics())
	return svc, repo
}

func TestQueryNoTicketID(t *testing.T) {
	svc, _ := newQueryFixture(t)

	tests := []struct {
		name    string
		message string
	}{
		{"no digits", "Can you help me?"},
		{"too few digits", "my ticket is 12345"},
		{"too many digits", "my ticket is 1234567"},
		{"digits embedded in word", "ref abc123456def is not a ticket id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := svc.Handle(context.Background(), domain.InboundMessage{Text: tt.message, CorrelationID: "c"})
			if err != nil {
				t.Fatalf("Handle: %v", err)
			}
			if out.TicketID != nil || out.Found {
				t.Errorf("expected no extraction, got %+v", out)
			}
			if !strings.Contains(out.Reply, "6-digit") {
				t.Errorf("reply should ask for a 6-digit id, got %q", out.Reply)
			}
		})
	}
}

func TestQueryTicketNotFound(t *testing.T) {
	svc, _ := newQueryFixture(t)

	out, err := svc.Handle(context.Background(), domain.InboundMessage{
		Text:          "What is the status of my ticket 123456?",
		CorrelationID: "c",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if out.Found {
		t.Error("found = true for missing ticket")
	}
	if out.TicketID == nil || *out.TicketID != "123456" {
		t.Errorf("ticket_id = %v, want 123456", out.TicketID)
	}
	if !strings.Contains(out.Reply, "couldn't find") {
		t.Errorf("reply = %q, want a couldn't-find message", out.Reply)
	}
}

func TestQueryTicketFound(t *testing.T) {
	svc, repo := newQueryFixture(t)
	ctx := context.Background()

	if err := repo.Create(ctx, &domain.Ticket{TicketID: "654321", Message: "card issue"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	out, err := svc.Handle(ctx, domain.InboundMessage{
		Text:          "please check ticket 654321 status",
		CorrelationID: "c",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !out.Found {
		t.Error("found = false for existing ticket")
	}
	if !strings.Contains(out.Reply, domain.TicketStatusOpen) {
		t.Errorf("reply = %q, want status %q mentioned", out.Reply, domain.TicketStatusOpen)
	}
}

func TestQueryUsesLeftmostID(t *testing.T) {
	svc, repo := newQueryFixture(t)
	ctx := context.Background()

	if err := repo.Create(ctx, &domain.Ticket{TicketID: "111111", Message: "first"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	out, err := svc.Handle(ctx, domain.InboundMessage{
		Text:          "is it 111111 or 222222?",
		CorrelationID: "c",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if out.TicketID == nil || *out.TicketID != "111111" {
		t.Errorf("ticket_id = %v, want leftmost 111111", out.TicketID)
	}
	if !out.Found {
		t.Error("found = false, want true")
	}
}
