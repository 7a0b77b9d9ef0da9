package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderClauseFallsBackToID(t *testing.T) {
	valid := OrderClause(ticketSortColumns, "id", "asc", "t.id")

	tests := []struct {
		name   string
		sortBy string
	}{
		{"empty key", ""},
		{"unknown key", "nonexistent"},
		{"injection attempt", "DROP TABLE tickets;--"},
		{"raw column not in allow-list", "t.description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause := OrderClause(ticketSortColumns, tt.sortBy, "asc", "t.id")
			assert.Equal(t, valid, clause)
			assert.NotContains(t, clause, tt.sortBy)
		})
	}
}

func TestOrderClauseDirection(t *testing.T) {
	assert.Equal(t, "ORDER BY t.title ASC, t.id ASC",
		OrderClause(ticketSortColumns, "title", "asc", "t.id"))
	assert.Equal(t, "ORDER BY t.title DESC, t.id ASC",
		OrderClause(ticketSortColumns, "title", "desc", "t.id"))

	// invalid directions fall back to ascending
	for _, dir := range []string{"", "DESC", "sideways", "desc; DROP TABLE"} {
		clause := OrderClause(ticketSortColumns, "title", dir, "t.id")
		assert.Equal(t, "ORDER BY t.title ASC, t.id ASC", clause, "direction %q", dir)
	}
}

func TestOrderClauseManyToManyNullsLast(t *testing.T) {
	// sorting users by their sectors aggregates over an outer join;
	// rows without sectors must land last in both directions
	asc := OrderClause(userSortColumns, "sectors", "asc", "u.id")
	desc := OrderClause(userSortColumns, "sectors", "desc", "u.id")

	assert.Equal(t, "ORDER BY MIN(s.name) ASC NULLS LAST, u.id ASC", asc)
	assert.Equal(t, "ORDER BY MIN(s.name) DESC NULLS LAST, u.id ASC", desc)
}

func TestOrderClauseRelatedNameSorts(t *testing.T) {
	tests := map[string]string{
		"sector":  "sec.name",
		"subject": "sub.name",
		"creator": "cu.username",
		"status":  "st.name",
	}
	for key, expr := range tests {
		clause := OrderClause(ticketSortColumns, key, "asc", "t.id")
		assert.True(t, strings.HasPrefix(clause, "ORDER BY "+expr), "key %q got %q", key, clause)
	}
}

func TestOrderClauseNoTieBreakDuplication(t *testing.T) {
	clause := OrderClause(userSortColumns, "id", "desc", "u.id")
	assert.Equal(t, "ORDER BY u.id DESC", clause)
}
