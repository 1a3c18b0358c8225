// internal/app/features/documents/templates.go
package documents

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "documents",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
