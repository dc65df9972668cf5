// Package baseline derives the initial metadata columns from the embedded
// submission OpenAPI document, so the form and the submission endpoint agree
// on the fixed sample fields.
package baseline

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/dnavi/metaform/pkg/schema"
)

//go:embed submission.yaml
var submissionDoc []byte

const columnTypeExtension = "x-column-type"

// Document returns the raw embedded submission OpenAPI document.
func Document() []byte {
	out := make([]byte, len(submissionDoc))
	copy(out, submissionDoc)
	return out
}

// Columns parses the embedded document and returns the baseline column specs
// in declaration order.
func Columns(ctx context.Context) ([]schema.ColumnSpec, error) {
	return ColumnsFromData(ctx, submissionDoc)
}

// ColumnsFromData parses an arbitrary submission document. The multipart
// request schema of the first POST operation defines the columns; the
// schema's required list fixes their order.
func ColumnsFromData(ctx context.Context, data []byte) ([]schema.ColumnSpec, error) {
	if len(data) == 0 {
		return nil, errors.New("baseline: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("baseline: load document: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("baseline: document does not contain any paths")
	}

	form := findFormSchema(spec)
	if form == nil {
		return nil, errors.New("baseline: no multipart POST operation found")
	}

	columns := make([]schema.ColumnSpec, 0, len(form.Required))
	seen := make(map[string]struct{}, len(form.Required))
	for _, field := range form.Required {
		ref, ok := form.Properties[field]
		if !ok || ref == nil || ref.Value == nil {
			continue
		}
		if _, dup := seen[field]; dup {
			continue
		}
		seen[field] = struct{}{}
		columns = append(columns, schema.ColumnSpec{
			Name: displayName(field, ref.Value),
			Type: columnType(ref.Value),
		})
	}
	if len(columns) == 0 {
		return nil, errors.New("baseline: no columns extracted")
	}
	return columns, nil
}

func findFormSchema(spec *openapi3.T) *openapi3.Schema {
	for _, item := range spec.Paths.Map() {
		if item == nil || item.Post == nil {
			continue
		}
		body := item.Post.RequestBody
		if body == nil || body.Value == nil {
			continue
		}
		mt, ok := body.Value.Content["multipart/form-data"]
		if !ok || mt.Schema == nil || mt.Schema.Value == nil {
			continue
		}
		return mt.Schema.Value
	}
	return nil
}

func displayName(field string, prop *openapi3.Schema) string {
	if title := strings.TrimSpace(prop.Title); title != "" {
		return title
	}
	return field
}

func columnType(prop *openapi3.Schema) schema.ColumnType {
	raw, ok := prop.Extensions[columnTypeExtension]
	if !ok {
		return schema.TypeText
	}
	text, ok := raw.(string)
	if !ok {
		return schema.TypeText
	}
	return schema.ParseType(text)
}
