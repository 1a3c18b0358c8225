// Package navigation provides helpers for safe URL navigation and redirects.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions configures SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required URL prefix (e.g., "/projects").
	// If empty, any safe URL is allowed.
	AllowedPrefix string

	// ExcludedSubpaths are subpath patterns to reject (e.g., "/create"),
	// preventing redirect loops back to action pages.
	ExcludedSubpaths []string

	// Fallback is the default URL if no valid return URL is found.
	Fallback string
}

// SafeBackURL extracts and validates a return URL from the request's
// "return" query parameter or form value, guarding against open redirects
// and redirect loops.
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if ret == "" {
		ret = urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")
	}

	if ret != "" {
		valid := true
		if opts.AllowedPrefix != "" && !strings.HasPrefix(ret, opts.AllowedPrefix) {
			valid = false
		}
		for _, excluded := range opts.ExcludedSubpaths {
			if strings.Contains(ret, excluded) {
				valid = false
				break
			}
		}
		if valid {
			return ret
		}
	}

	return opts.Fallback
}

// Common back URL configurations.
var (
	// ProjectsBackURL returns options for project pages.
	ProjectsBackURL = BackURLOptions{
		AllowedPrefix:    "/projects",
		ExcludedSubpaths: []string{"/create", "/apply", "/withdraw"},
		Fallback:         "/projects",
	}

	// MessagesBackURL returns options for messaging pages.
	MessagesBackURL = BackURLOptions{
		AllowedPrefix:    "/messages",
		ExcludedSubpaths: []string{"/compose"},
		Fallback:         "/messages/inbox",
	}

	// EventsBackURL returns options for event pages.
	EventsBackURL = BackURLOptions{
		AllowedPrefix:    "/events",
		ExcludedSubpaths: []string{"/register"},
		Fallback:         "/events",
	}

	// DashboardBackURL returns options for dashboard-anchored pages.
	DashboardBackURL = BackURLOptions{
		Fallback: "/dashboard",
	}
)
