package domain

// User is the account record for everyone who files or works tickets.
// Admin grants access to the back-office panel and to every ticket.
type User struct {
	ID           int64
	Username     string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Admin        bool
	SectorIDs    []int64
}

// FullName joins first and last name for display payloads.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// MemberOfSector reports whether the user belongs to the given sector.
func (u *User) MemberOfSector(sectorID int64) bool {
	for _, id := range u.SectorIDs {
		if id == sectorID {
			return true
		}
	}
	return false
}
