// Package timeouts provides centralized timeout values for handler operations.
//
// These are used with context.WithTimeout for database work in HTTP
// handlers. Guidelines:
//   - Ping: health checks and connectivity verification
//   - Short: simple single-document reads or lookups
//   - Medium: list queries, moderate writes
//   - Long: writes that touch storage plus the database (uploads)
package timeouts

import "time"

const (
	ping   = 2 * time.Second
	short  = 5 * time.Second
	medium = 10 * time.Second
	long   = 30 * time.Second
)

// Ping returns the timeout for health checks.
func Ping() time.Duration { return ping }

// Short returns the timeout for single-document reads and lookups.
func Short() time.Duration { return short }

// Medium returns the timeout for list queries and simple writes.
func Medium() time.Duration { return medium }

// Long returns the timeout for uploads and multi-collection operations.
func Long() time.Duration { return long }
