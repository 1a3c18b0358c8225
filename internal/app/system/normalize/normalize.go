// Package normalize provides input normalization helpers used by handlers
// before validation and storage. Normalization is deliberately minimal:
// trim everywhere, lowercase only where the value is case-insensitive by
// definition (emails, handles, enum values).
package normalize

import "strings"

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Handle trims and lowercases a login handle.
func Handle(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Enum trims and lowercases an enum form value (role, status, type).
func Enum(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Code trims and lowercases a keyword code.
func Code(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a free-form query or form parameter.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
