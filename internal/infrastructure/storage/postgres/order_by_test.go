package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderBy(t *testing.T) {
	allowed := map[string]struct{}{
		"name":       {},
		"created_at": {},
	}

	cases := []struct {
		name    string
		orderBy string
		want    string
	}{
		{"empty uses fallback", "", "name ASC"},
		{"bare field", "name", "name ASC"},
		{"explicit asc", "name ASC", "name ASC"},
		{"explicit desc", "created_at DESC", "created_at DESC"},
		{"lowercase desc", "created_at desc", "created_at DESC"},
		{"dash shorthand", "-created_at", "created_at DESC"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseOrderBy(tc.orderBy, "name ASC", allowed)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseOrderBy_RejectsUnknownColumns(t *testing.T) {
	allowed := map[string]struct{}{"name": {}}

	for _, orderBy := range []string{
		"password_hash",
		"name; DROP TABLE products",
		"-secret",
	} {
		_, err := ParseOrderBy(orderBy, "name ASC", allowed)
		assert.Error(t, err, orderBy)
	}
}
