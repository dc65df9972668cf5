package page

import (
	"io"

	"github.com/dnavi/metaform/pkg/grouping"
	"github.com/dnavi/metaform/pkg/submission"
)

// FormTemplate is the name of the embedded metadata entry page.
const FormTemplate = "form.html"

// FormData feeds the metadata entry page template.
type FormData struct {
	Title     string              `json:"title"`
	TableHTML string              `json:"table_html"`
	Grouping  []grouping.Checkbox `json:"grouping"`
	Consent   bool                `json:"consent"`
}

// RenderForm renders the metadata entry page with the shared field names
// wired in.
func RenderForm(r Renderer, data FormData, out ...io.Writer) (string, error) {
	if data.Title == "" {
		data.Title = "Sample metadata"
	}
	ctx := map[string]any{
		"title":         data.Title,
		"table_html":    data.TableHTML,
		"grouping":      data.Grouping,
		"checkbox_name": grouping.CheckboxName,
		"consent_field": submission.ConsentField,
		"consent":       data.Consent,
	}
	return r.RenderTemplate(FormTemplate, ctx, out...)
}
