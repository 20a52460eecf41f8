package repository

import (
	"fmt"
	"strings"
)

// condBuilder accumulates WHERE conditions with positional arguments.
type condBuilder struct {
	conds []string
	args  []any
}

// eq appends an equality condition for the column.
func (b *condBuilder) eq(column string, value any) {
	b.args = append(b.args, value)
	b.conds = append(b.conds, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// cmp appends a comparison condition (op is a literal like ">=" or "<=").
func (b *condBuilder) cmp(column, op string, value any) {
	b.args = append(b.args, value)
	b.conds = append(b.conds, fmt.Sprintf("%s %s $%d", column, op, len(b.args)))
}

// where renders the accumulated conditions, or an empty string when there
// are none.
func (b *condBuilder) where() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// next returns the next positional placeholder after appending value.
func (b *condBuilder) next(value any) string {
	b.args = append(b.args, value)
	return fmt.Sprintf("$%d", len(b.args))
}

// orderByClause maps a "field:direction" sort key onto a SQL ORDER BY
// expression using the column whitelist. Unknown fields and directions fall
// back to the given default so a stray query parameter cannot inject SQL or
// fail the request.
func orderByClause(sortBy string, columns map[string]string, fallback string) string {
	if sortBy == "" {
		return fallback
	}
	field, dir := sortBy, "asc"
	if i := strings.IndexByte(sortBy, ':'); i >= 0 {
		field, dir = sortBy[:i], sortBy[i+1:]
	}
	column, ok := columns[field]
	if !ok {
		return fallback
	}
	if dir != "desc" {
		dir = "asc"
	}
	return column + " " + strings.ToUpper(dir)
}
