package postgres

import (
	"strings"

	"quitanda/internal/core/apperror"
)

// ParseOrderBy validates an order clause against a column whitelist.
// Accepts "field", "field ASC", "field DESC" and the "-field" shorthand.
func ParseOrderBy(orderBy, fallback string, allowed map[string]struct{}) (string, error) {
	if orderBy == "" {
		return fallback, nil
	}

	direction := "ASC"
	field := strings.TrimSpace(orderBy)
	switch {
	case strings.HasPrefix(field, "-"):
		direction = "DESC"
		field = strings.TrimPrefix(field, "-")
	case strings.HasSuffix(strings.ToUpper(field), " DESC"):
		direction = "DESC"
		field = strings.TrimSpace(field[:len(field)-5])
	case strings.HasSuffix(strings.ToUpper(field), " ASC"):
		field = strings.TrimSpace(field[:len(field)-4])
	}

	if _, ok := allowed[field]; !ok {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
	}
	return field + " " + direction, nil
}
