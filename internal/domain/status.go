package domain

// StatusKind is the lifecycle meaning of a status row. Lifecycle
// decisions bind to the kind, never to the display name, so renaming a
// status cannot silently change behavior.
type StatusKind string

const (
	StatusKindOpen       StatusKind = "open"
	StatusKindWaiting    StatusKind = "waiting"
	StatusKindInProgress StatusKind = "in_progress"
	StatusKindEdited     StatusKind = "edited"
	StatusKindResolved   StatusKind = "resolved"
	StatusKindClosed     StatusKind = "closed"
)

// Valid reports whether the kind is one of the known lifecycle kinds.
func (k StatusKind) Valid() bool {
	switch k {
	case StatusKindOpen, StatusKindWaiting, StatusKindInProgress,
		StatusKindEdited, StatusKindResolved, StatusKindClosed:
		return true
	}
	return false
}

// Terminal reports whether tickets in this kind are finished.
func (k StatusKind) Terminal() bool {
	return k == StatusKindResolved || k == StatusKindClosed
}

// Status is a lifecycle label for tickets. Name and symbol are
// display-only; Kind carries the semantics.
type Status struct {
	ID     int64
	Name   string
	Symbol string
	Kind   StatusKind
}

// Priority is an urgency label with no automated effect beyond
// display and sorting.
type Priority struct {
	ID    int64
	Name  string
	Color string
}
