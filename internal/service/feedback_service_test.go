package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/support-pipeline/internal/domain"
	"github.com/spec-kit/support-pipeline/internal/observability"
	"github.com/spec-kit/support-pipeline/internal/repository"
)

var sixDigits = regexp.MustCompile(`^\d{6}$`)

func newFeedbackFixture(t *testing.T) (*FeedbackService, repository.TicketRepository) {
	t.Helper()
	repo := repository.NewMemoryTicketRepository()
	svc := NewFeedbackService(repo, nil, zap.NewNop(), observability.NewMetrics())
	return svc, repo
}

func TestFeedbackPositive(t *testing.T) {
	svc, _ := newFeedbackFixture(t)

	name := "Asha"
	out, err := svc.Handle(context.Background(), domain.InboundMessage{
		Text:          "Thank you, great service!",
		CustomerName:  &name,
		CorrelationID: "c1",
	}, domain.ClassificationPositiveFeedback)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if out.TicketID != nil {
		t.Errorf("positive feedback created ticket %v", *out.TicketID)
	}
	if !strings.Contains(out.Reply, "Thank you") || !strings.Contains(out.Reply, "Asha") {
		t.Errorf("reply = %q, want thank-you addressed to Asha", out.Reply)
	}
}

func TestFeedbackPositiveDefaultAddressee(t *testing.T) {
	svc, _ := newFeedbackFixture(t)

	out, err := svc.Handle(context.Background(), domain.InboundMessage{
		Text:          "well done",
		CorrelationID: "c1",
	}, domain.ClassificationPositiveFeedback)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(out.Reply, "Valued Customer") {
		t.Errorf("reply = %q, want default addressee", out.Reply)
	}
}

func TestFeedbackNegativeCreatesTicket(t *testing.T) {
	svc, repo := newFeedbackFixture(t)
	ctx := context.Background()

	out, err := svc.Handle(ctx, domain.InboundMessage{
		Text:          "Money was debited but ATM did not dispense cash.",
		CorrelationID: "c2",
	}, domain.ClassificationNegativeFeedback)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if out.TicketID == nil {
		t.Fatal("negative feedback did not create a ticket")
	}
	if !sixDigits.MatchString(*out.TicketID) {
		t.Errorf("ticket id %q is not 6 digits", *out.TicketID)
	}
	if !strings.Contains(out.Reply, *out.TicketID) {
		t.Errorf("reply %q does not embed ticket id %s", out.Reply, *out.TicketID)
	}

	ticket, err := repo.GetByID(ctx, *out.TicketID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if ticket.Status != domain.TicketStatusOpen {
		t.Errorf("status = %q, want Open", ticket.Status)
	}
	if ticket.Message != "Money was debited but ATM did not dispense cash." {
		t.Errorf("message = %q, original complaint not stored", ticket.Message)
	}
	if ticket.CorrelationID == nil || *ticket.CorrelationID != "c2" {
		t.Errorf("correlation_id = %v, want c2", ticket.CorrelationID)
	}
}

func TestFeedbackTicketIDsDistinct(t *testing.T) {
	svc, _ := newFeedbackFixture(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		out, err := svc.Handle(ctx, domain.InboundMessage{
			Text:          "this is a complaint",
			CorrelationID: "c",
		}, domain.ClassificationNegativeFeedback)
		if err != nil {
			t.Fatalf("Handle #%d: %v", i, err)
		}
		if out.TicketID == nil {
			t.Fatalf("Handle #%d: no ticket", i)
		}
		if seen[*out.TicketID] {
			t.Fatalf("duplicate ticket id %s issued", *out.TicketID)
		}
		seen[*out.TicketID] = true
	}
}

// duplicateOnceRepo reports a duplicate on the first insert regardless of id,
// simulating a concurrent create racing past the pre-check.
type duplicateOnceRepo struct {
	repository.TicketRepository
	rejected bool
}

func (r *duplicateOnceRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	if !r.rejected {
		r.rejected = true
		return repository.ErrDuplicateTicket
	}
	return r.TicketRepository.Create(ctx, ticket)
}

func TestFeedbackRetriesOnDuplicate(t *testing.T) {
	repo := &duplicateOnceRepo{TicketRepository: repository.NewMemoryTicketRepository()}
	svc := NewFeedbackService(repo, nil, zap.NewNop(), observability.NewMetrics())

	out, err := svc.Handle(context.Background(), domain.InboundMessage{
		Text:          "very unhappy with this",
		CorrelationID: "c",
	}, domain.ClassificationNegativeFeedback)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if out.TicketID == nil {
		t.Fatal("no ticket created after duplicate retry")
	}
	if !repo.rejected {
		t.Fatal("test repo never rejected a create")
	}
}

func TestFeedbackUnknownSentiment(t *testing.T) {
	svc, _ := newFeedbackFixture(t)

	_, err := svc.Handle(context.Background(), domain.InboundMessage{
		Text:          "anything",
		CorrelationID: "c",
	}, domain.ClassificationQuery)
	if !errors.Is(err, ErrUnknownSentiment) {
		t.Fatalf("err = %v, want ErrUnknownSentiment", err)
	}
}
