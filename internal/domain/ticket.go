package domain

import "time"

// Ticket is the case record. CreatorID is always set; AssigneeID and
// AssignedAt are set together on first assignment and never overwritten
// by a later assignment attempt.
type Ticket struct {
	ID          int64
	Title       string
	Description string
	CreatorID   int64
	AssigneeID  *int64
	SectorID    int64
	SubjectID   int64
	StatusID    int64
	PriorityID  int64
	CreatedAt   time.Time
	AssignedAt  *time.Time
	UpdatedAt   time.Time
	ClosedAt    *time.Time
}

// Assigned reports whether the ticket already has an assignee.
func (t *Ticket) Assigned() bool {
	return t.AssigneeID != nil
}
