package domain

// Sector is an organizational department. It scopes ticket visibility
// and user membership.
type Sector struct {
	ID    int64
	Name  string
	Color string
}

// Subject categorizes a ticket's topic. A subject is offered only for
// the sectors it is associated with.
type Subject struct {
	ID   int64
	Name string
}
