package domain

// Principal is the request-scoped identity resolved by the auth layer.
// It carries everything the access predicates need so that no handler
// or service reaches back into ambient session state.
type Principal struct {
	ID        int64
	Admin     bool
	SectorIDs []int64
}

// PrincipalFromUser builds a Principal from a loaded user record.
func PrincipalFromUser(u *User) Principal {
	return Principal{ID: u.ID, Admin: u.Admin, SectorIDs: u.SectorIDs}
}

// InSector reports whether the principal belongs to the given sector.
func (p Principal) InSector(sectorID int64) bool {
	for _, id := range p.SectorIDs {
		if id == sectorID {
			return true
		}
	}
	return false
}

// CanViewTicket decides whether the principal may open the ticket:
// creator, assignee, admin, or member of the ticket's sector.
func CanViewTicket(p Principal, t *Ticket) bool {
	if t == nil {
		return false
	}
	if p.Admin {
		return true
	}
	if p.ID == t.CreatorID {
		return true
	}
	if t.AssigneeID != nil && p.ID == *t.AssigneeID {
		return true
	}
	return p.InSector(t.SectorID)
}

// CanMessageTicket decides whether the principal may post to the
// ticket's thread. The predicate set is identical to viewing.
func CanMessageTicket(p Principal, t *Ticket) bool {
	return CanViewTicket(p, t)
}
