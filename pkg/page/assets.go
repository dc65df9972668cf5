package page

import (
	"embed"
	"io/fs"
)

//go:embed templates
var embeddedTemplates embed.FS

// Assets returns the embedded page templates rooted at the template names,
// so "form.html" resolves directly.
func Assets() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}
