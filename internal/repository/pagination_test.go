package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCondBuilder(t *testing.T) {
	var b condBuilder
	assert.Empty(t, b.where())

	b.eq("o.status", "pending")
	b.cmp("p.price", ">=", 10)

	assert.Equal(t, " WHERE o.status = $1 AND p.price >= $2", b.where())
	assert.Equal(t, []any{"pending", 10}, b.args)

	// next continues the placeholder numbering after the conditions.
	assert.Equal(t, "$3", b.next(20))
	assert.Equal(t, "$4", b.next(0))
	assert.Equal(t, []any{"pending", 10, 20, 0}, b.args)
}

func TestOrderByClause(t *testing.T) {
	columns := map[string]string{
		"createdAt": "o.created_at",
		"price":     "o.total_price",
	}

	tests := []struct {
		name   string
		sortBy string
		want   string
	}{
		{"empty falls back", "", "o.created_at DESC"},
		{"field only defaults asc", "price", "o.total_price ASC"},
		{"explicit desc", "createdAt:desc", "o.created_at DESC"},
		{"explicit asc", "createdAt:asc", "o.created_at ASC"},
		{"unknown direction defaults asc", "price:sideways", "o.total_price ASC"},
		{"unknown field falls back", "passwordHash:desc", "o.created_at DESC"},
		{"injection attempt falls back", "1;DROP TABLE orders--", "o.created_at DESC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderByClause(tt.sortBy, columns, "o.created_at DESC"))
		})
	}
}
