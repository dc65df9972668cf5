// Package submission assembles the multipart request the submission server
// parses: the uploaded files, the column-derived metadata fields, the
// grouping selection and the consent flag.
package submission

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"sort"

	"github.com/google/uuid"

	"github.com/dnavi/metaform/pkg/grouping"
	"github.com/dnavi/metaform/pkg/schema"
	"github.com/dnavi/metaform/pkg/tablerender"
)

// ConsentField is the hidden field carrying the user's answer to the save
// prompt. Its value is exactly "yes" or "no"; the server does nothing with
// the data unless it reads "yes".
const ConsentField = "save_to_db"

// File is one uploaded file part.
type File struct {
	// Field is the part's field name, e.g. "data_file".
	Field string
	// Name is the client-side filename.
	Name string
	// Content is the file body.
	Content []byte
}

// Builder accumulates the parts of one submission.
type Builder struct {
	id       string
	columns  []schema.ColumnSpec
	rows     []tablerender.Row
	files    []File
	grouping []string
	consent  bool
}

// NewBuilder starts a submission. Every submission carries a fresh UUID so
// the server can key its processing directory on it.
func NewBuilder() *Builder {
	return &Builder{id: uuid.NewString()}
}

// ID returns the submission's identifier.
func (b *Builder) ID() string { return b.id }

// WithColumns records the schema the metadata rows follow.
func (b *Builder) WithColumns(columns []schema.ColumnSpec) *Builder {
	b.columns = append([]schema.ColumnSpec(nil), columns...)
	return b
}

// WithRows records the metadata row values.
func (b *Builder) WithRows(rows []tablerender.Row) *Builder {
	b.rows = append([]tablerender.Row(nil), rows...)
	return b
}

// AddFile attaches an uploaded file part.
func (b *Builder) AddFile(field, name string, content []byte) *Builder {
	b.files = append(b.files, File{Field: field, Name: name, Content: content})
	return b
}

// WithGrouping records the columns selected for aggregation.
func (b *Builder) WithGrouping(selected []string) *Builder {
	b.grouping = append([]string(nil), selected...)
	return b
}

// WithConsent records the user's answer to the save prompt.
func (b *Builder) WithConsent(consent bool) *Builder {
	b.consent = consent
	return b
}

// Build writes the multipart body and returns it with its content type. The
// metadata fields use the deterministic column-derived names; a column with
// several rows repeats its field once per row so the server can reassemble
// the table column-wise.
func (b *Builder) Build() ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("submission_id", b.id); err != nil {
		return nil, "", fmt.Errorf("submission: write id: %w", err)
	}

	for _, spec := range b.columns {
		field := tablerender.FieldName(spec.Name)
		if field == "" {
			continue
		}
		for _, row := range b.rows {
			if err := writer.WriteField(field, row[spec.Name]); err != nil {
				return nil, "", fmt.Errorf("submission: write field %s: %w", field, err)
			}
		}
	}

	for _, value := range b.grouping {
		if err := writer.WriteField(grouping.CheckboxName, value); err != nil {
			return nil, "", fmt.Errorf("submission: write grouping: %w", err)
		}
	}

	consent := "no"
	if b.consent {
		consent = "yes"
	}
	if err := writer.WriteField(ConsentField, consent); err != nil {
		return nil, "", fmt.Errorf("submission: write consent: %w", err)
	}

	for _, file := range b.files {
		part, err := writer.CreateFormFile(file.Field, file.Name)
		if err != nil {
			return nil, "", fmt.Errorf("submission: create file part %s: %w", file.Field, err)
		}
		if _, err := io.Copy(part, bytes.NewReader(file.Content)); err != nil {
			return nil, "", fmt.Errorf("submission: write file %s: %w", file.Field, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("submission: finish body: %w", err)
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

// FieldNames returns the derived metadata field names the body will carry,
// sorted, for callers that document or validate the server contract.
func (b *Builder) FieldNames() []string {
	out := make([]string, 0, len(b.columns))
	for _, spec := range b.columns {
		if field := tablerender.FieldName(spec.Name); field != "" {
			out = append(out, field)
		}
	}
	sort.Strings(out)
	return out
}
