package repository

import "fmt"

// SortColumn maps an allow-listed sort key to the SQL expression used in
// ORDER BY. Sort keys are never resolved through reflection or string
// concatenation of caller input; anything outside the map falls back to
// the entity's id column.
type SortColumn struct {
	// Expression is the column or aggregate to order by.
	Expression string
	// NullsLast forces rows without a related value (outer-join
	// aggregates over many-to-many relations) to sort after all rows
	// that have one, in both directions.
	NullsLast bool
}

// OrderClause builds a deterministic ORDER BY clause from request
// parameters. Unknown sort keys fall back to the "id" entry and unknown
// directions to ascending. idExpression is appended as a tie-break.
func OrderClause(allowed map[string]SortColumn, sortBy, direction, idExpression string) string {
	col, ok := allowed[sortBy]
	if !ok {
		col = allowed["id"]
	}
	dir := "ASC"
	if direction == "desc" {
		dir = "DESC"
	}
	clause := fmt.Sprintf("ORDER BY %s %s", col.Expression, dir)
	if col.NullsLast {
		clause += " NULLS LAST"
	}
	if col.Expression != idExpression {
		clause += fmt.Sprintf(", %s ASC", idExpression)
	}
	return clause
}
