// Package htmlsanitize strips unsafe HTML from user-supplied rich text
// (bios, project descriptions, message bodies) before storage.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var policy = bluemonday.UGCPolicy()

// Sanitize returns s with any markup not allowed for user-generated
// content removed.
func Sanitize(s string) string {
	return policy.Sanitize(s)
}
