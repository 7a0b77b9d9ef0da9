package domain

import "time"

// TicketMessage is one entry in a ticket's append-only thread, ordered
// by CreatedAt ascending. A message belongs to exactly one ticket and
// one author and is never reassigned.
type TicketMessage struct {
	ID        int64
	TicketID  int64
	AuthorID  int64
	Body      string
	CreatedAt time.Time
}
