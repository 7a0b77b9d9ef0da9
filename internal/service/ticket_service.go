package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/atendesk/helpdesk/internal/domain"
	"github.com/atendesk/helpdesk/internal/events"
	"github.com/atendesk/helpdesk/internal/repository"
	apperrors "github.com/atendesk/helpdesk/pkg/util"
)

// TicketService coordinates the ticket lifecycle: creation, assignment,
// status changes and the message thread. All operations take an explicit
// principal; access decisions delegate to the domain predicates.
type TicketService struct {
	tickets    repository.TicketRepository
	messages   repository.TicketMessageRepository
	statuses   repository.StatusRepository
	sectors    repository.SectorRepository
	subjects   repository.SubjectRepository
	priorities repository.PriorityRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	MessageRepo  repository.TicketMessageRepository
	StatusRepo   repository.StatusRepository
	SectorRepo   repository.SectorRepository
	SubjectRepo  repository.SubjectRepository
	PriorityRepo repository.PriorityRepository
	UserRepo     repository.UserRepository
	Dispatcher   events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		messages:   deps.MessageRepo,
		statuses:   deps.StatusRepo,
		sectors:    deps.SectorRepo,
		subjects:   deps.SubjectRepo,
		priorities: deps.PriorityRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	SectorID    int64
	SubjectID   int64
	PriorityID  int64
}

// AssignResult reports the outcome of an assignment attempt. An attempt
// on an already-assigned ticket is not an error: the ticket is returned
// untouched with AlreadyAssigned set so the caller can warn.
type AssignResult struct {
	Ticket          *domain.Ticket
	AlreadyAssigned bool
}

// CreateTicket opens a new ticket for the principal. The ticket starts
// in the open status with no assignee.
func (s *TicketService) CreateTicket(ctx context.Context, p domain.Principal, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description are required", nil)
	}

	if _, err := s.sectors.GetByID(ctx, input.SectorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("sector", map[string]any{"sector_id": input.SectorID})
		}
		return nil, apperrors.MapError(err)
	}
	belongs, err := s.subjects.BelongsToSector(ctx, input.SubjectID, input.SectorID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !belongs {
		return nil, apperrors.NewValidationError("subject does not belong to the selected sector", map[string]any{
			"subject_id": input.SubjectID,
			"sector_id":  input.SectorID,
		})
	}
	if _, err := s.priorities.GetByID(ctx, input.PriorityID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("priority", map[string]any{"priority_id": input.PriorityID})
		}
		return nil, apperrors.MapError(err)
	}

	openStatus, err := s.statuses.GetByKind(ctx, domain.StatusKindOpen)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: description,
		CreatorID:   p.ID,
		SectorID:    input.SectorID,
		SubjectID:   input.SubjectID,
		StatusID:    openStatus.ID,
		PriorityID:  input.PriorityID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventTicketCreated, ticket.ID, p.ID, events.TicketCreatedPayload{
		SectorID:   ticket.SectorID,
		SubjectID:  ticket.SubjectID,
		PriorityID: ticket.PriorityID,
		Title:      ticket.Title,
	})
	return ticket, nil
}

// GetTicket fetches a ticket with its message thread, enforcing the
// visibility rules.
func (s *TicketService) GetTicket(ctx context.Context, p domain.Principal, ticketID int64) (*domain.Ticket, []domain.TicketMessage, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	if !domain.CanViewTicket(p, ticket) {
		return nil, nil, apperrors.NewForbidden("access denied")
	}
	msgs, err := s.messages.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return ticket, msgs, nil
}

// Assign claims the ticket for the principal. The update is conditional
// on the row still being unassigned, so two concurrent attempts cannot
// both win; the loser gets AlreadyAssigned without any write.
func (s *TicketService) Assign(ctx context.Context, p domain.Principal, ticketID int64) (*AssignResult, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !domain.CanViewTicket(p, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	if ticket.Assigned() {
		return &AssignResult{Ticket: ticket, AlreadyAssigned: true}, nil
	}

	inProgress, err := s.statuses.GetByKind(ctx, domain.StatusKindInProgress)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	claimed, err := s.tickets.AssignIfUnassigned(ctx, ticket.ID, p.ID, inProgress.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket, err = s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// lost the race to another assignee
		return &AssignResult{Ticket: ticket, AlreadyAssigned: true}, nil
	}

	payload := events.TicketAssignedPayload{
		AssigneeID: p.ID,
		StatusID:   ticket.StatusID,
	}
	if ticket.AssignedAt != nil {
		payload.AssignedAt = *ticket.AssignedAt
	}
	s.publish(ctx, events.EventTicketAssigned, ticket.ID, p.ID, payload)
	return &AssignResult{Ticket: ticket}, nil
}

// PostMessage appends a message to the ticket's thread. The body must be
// non-empty after trimming; the ticket status is not altered.
func (s *TicketService) PostMessage(ctx context.Context, p domain.Principal, ticketID int64, body string) (*domain.TicketMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("message must not be empty", nil)
	}
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !domain.CanMessageTicket(p, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}

	msg := &domain.TicketMessage{
		TicketID: ticket.ID,
		AuthorID: p.ID,
		Body:     body,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}

	authorName := ""
	if author, err := s.users.GetByID(ctx, p.ID); err == nil {
		authorName = author.FullName()
	}
	s.publish(ctx, events.EventTicketMessageAdded, ticket.ID, p.ID, events.TicketMessageAddedPayload{
		MessageID:  msg.ID,
		AuthorName: authorName,
		Body:       msg.Body,
		CreatedAt:  msg.CreatedAt,
	})
	return msg, nil
}

// ChangeStatus moves the ticket to an arbitrary status row. Reaching the
// waiting/edited side states is a manual action; only participants and
// admins may do it. Entering the closed kind stamps closed_at, leaving
// it clears the stamp.
func (s *TicketService) ChangeStatus(ctx context.Context, p domain.Principal, ticketID, statusID int64) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !domain.CanViewTicket(p, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	status, err := s.statuses.GetByID(ctx, statusID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("status", map[string]any{"status_id": statusID})
		}
		return nil, apperrors.MapError(err)
	}

	var closedAt *time.Time
	if status.Kind == domain.StatusKindClosed {
		now := time.Now()
		closedAt = &now
	}
	oldStatusID := ticket.StatusID
	if err := s.tickets.SetStatus(ctx, ticket.ID, status.ID, closedAt); err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket, err = s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTicketStatusChanged, ticket.ID, p.ID, events.TicketStatusChangedPayload{
		OldStatusID: oldStatusID,
		NewStatusID: ticket.StatusID,
	})
	return ticket, nil
}

// Resolve moves the ticket to the resolved status.
func (s *TicketService) Resolve(ctx context.Context, p domain.Principal, ticketID int64) (*domain.Ticket, error) {
	return s.changeStatusByKind(ctx, p, ticketID, domain.StatusKindResolved)
}

// Close moves the ticket to the closed status, stamping closed_at.
func (s *TicketService) Close(ctx context.Context, p domain.Principal, ticketID int64) (*domain.Ticket, error) {
	return s.changeStatusByKind(ctx, p, ticketID, domain.StatusKindClosed)
}

func (s *TicketService) changeStatusByKind(ctx context.Context, p domain.Principal, ticketID int64, kind domain.StatusKind) (*domain.Ticket, error) {
	status, err := s.statuses.GetByKind(ctx, kind)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.ChangeStatus(ctx, p, ticketID, status.ID)
}

func (s *TicketService) loadTicket(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) publish(ctx context.Context, eventType events.EventType, ticketID, actorID int64, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
