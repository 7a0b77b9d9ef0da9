package dto

import (
	"time"

	"github.com/atendesk/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	SectorID    int64  `json:"sector_id"`
	SubjectID   int64  `json:"subject_id"`
	PriorityID  int64  `json:"priority_id"`
}

// CreateMessageRequest payload.
type CreateMessageRequest struct {
	Body string `json:"body"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	StatusID int64 `json:"status_id"`
}

// TicketSummary response.
type TicketSummary struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	CreatorID  int64      `json:"creator_id"`
	AssigneeID *int64     `json:"assignee_id"`
	SectorID   int64      `json:"sector_id"`
	SubjectID  int64      `json:"subject_id"`
	StatusID   int64      `json:"status_id"`
	PriorityID int64      `json:"priority_id"`
	CreatedAt  time.Time  `json:"created_at"`
	AssignedAt *time.Time `json:"assigned_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ClosedAt   *time.Time `json:"closed_at"`
}

// TicketDetailResponse provides full ticket info with the thread.
type TicketDetailResponse struct {
	TicketSummary
	Description string                  `json:"description"`
	Messages    []TicketMessageResponse `json:"messages"`
}

// TicketMessageResponse represents a thread message.
type TicketMessageResponse struct {
	ID        int64     `json:"id"`
	TicketID  int64     `json:"ticket_id"`
	AuthorID  int64     `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// AssignResponse reports an assignment outcome. Warning is set when the
// ticket already had an assignee and nothing changed.
type AssignResponse struct {
	Ticket  TicketSummary `json:"ticket"`
	Warning string        `json:"warning,omitempty"`
}

// DashboardResponse carries the dashboard listings and counters.
type DashboardResponse struct {
	MyTickets          []TicketSummary `json:"my_tickets"`
	SectorQueue        []TicketSummary `json:"sector_queue"`
	OpenCreatedCount   int64           `json:"open_created_count"`
	AssignedActiveCount int64          `json:"assigned_active_count"`
	SectorOpenCount    int64           `json:"sector_open_count"`
}

// NewTicketSummary maps a domain ticket.
func NewTicketSummary(t *domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:         t.ID,
		Title:      t.Title,
		CreatorID:  t.CreatorID,
		AssigneeID: t.AssigneeID,
		SectorID:   t.SectorID,
		SubjectID:  t.SubjectID,
		StatusID:   t.StatusID,
		PriorityID: t.PriorityID,
		CreatedAt:  t.CreatedAt,
		AssignedAt: t.AssignedAt,
		UpdatedAt:  t.UpdatedAt,
		ClosedAt:   t.ClosedAt,
	}
}

// NewTicketSummaries maps a slice of domain tickets.
func NewTicketSummaries(tickets []domain.Ticket) []TicketSummary {
	items := make([]TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, NewTicketSummary(&tickets[i]))
	}
	return items
}

// NewTicketMessageResponse maps a domain message.
func NewTicketMessageResponse(m *domain.TicketMessage) TicketMessageResponse {
	return TicketMessageResponse{
		ID:        m.ID,
		TicketID:  m.TicketID,
		AuthorID:  m.AuthorID,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
	}
}

// NewTicketDetail maps a ticket with its thread.
func NewTicketDetail(t *domain.Ticket, msgs []domain.TicketMessage) TicketDetailResponse {
	detail := TicketDetailResponse{
		TicketSummary: NewTicketSummary(t),
		Description:   t.Description,
		Messages:      make([]TicketMessageResponse, 0, len(msgs)),
	}
	for i := range msgs {
		detail.Messages = append(detail.Messages, NewTicketMessageResponse(&msgs[i]))
	}
	return detail
}
