// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"html/template"
	"net/http"

	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
	"github.com/sciencebridge/sciencebridge/internal/app/system/authz"
	"github.com/dalemusser/waffle/pantry/httpnav"
)

// BaseVM contains common fields for all view models. Embed it in
// feature-specific view models:
//
//	type projectListData struct {
//	    viewdata.BaseVM
//	    Projects []projectVM
//	}
//
//	data := projectListData{
//	    BaseVM: viewdata.NewBaseVM(r, "Projects", "/projects"),
//	}
type BaseVM struct {
	// User context (from auth middleware)
	IsLoggedIn bool
	Role       string
	UserName   string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// Error is an inline form error, shown above the form on re-render.
	Error template.HTML

	// Flashes are one-shot workflow advisories queued by a previous
	// request (duplicate application, withdrawal confirmation, ...).
	Flashes []auth.Flash
}

// NewBaseVM creates a populated BaseVM for a page.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	role, handle, _, signedIn := authz.UserCtx(r)
	return BaseVM{
		IsLoggedIn:  signedIn,
		Role:        string(role),
		UserName:    handle,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
	}
}

// SetError sets the inline error message.
func (b *BaseVM) SetError(msg string) {
	b.Error = template.HTML(msg)
}
