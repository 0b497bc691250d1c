// Package schemas defines the rendering templates a resume record can be
// normalized into, the example structures used to prompt extraction, and
// JSON Schema validation of normalized records.
package schemas

import (
	"embed"
	"fmt"
	"slices"
)

// Template identifiers accepted as templateId.
const (
	Template1 = "template1"
	Template2 = "template2"
	Template3 = "template3"
	Template4 = "template4"
)

// Canonical is the template whose shape is the canonical record.
const Canonical = Template1

var templateIDs = []string{Template1, Template2, Template3, Template4}

//go:embed examples/*.json definitions/*.json
var files embed.FS

// IDs returns the known template identifiers in display order.
func IDs() []string {
	return slices.Clone(templateIDs)
}

// Known reports whether id names a template.
func Known(id string) bool {
	return slices.Contains(templateIDs, id)
}

// UnknownTemplateError is returned for a template identifier with no definition.
type UnknownTemplateError struct {
	ID string
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("unknown template %q", e.ID)
}

// Example returns the declarative example structure for a template, used as
// the extraction target shown to the generative model.
func Example(id string) (string, error) {
	if !Known(id) {
		return "", &UnknownTemplateError{ID: id}
	}
	data, err := files.ReadFile("examples/" + id + ".json")
	if err != nil {
		return "", &SchemaLoadError{Path: "examples/" + id + ".json", Message: "read example", Cause: err}
	}
	return string(data), nil
}

// Definition returns the JSON Schema a normalized record for id must satisfy.
func Definition(id string) (string, error) {
	if !Known(id) {
		return "", &UnknownTemplateError{ID: id}
	}
	path := "definitions/" + id + ".schema.json"
	data, err := files.ReadFile(path)
	if err != nil {
		return "", &SchemaLoadError{Path: path, Message: "read definition", Cause: err}
	}
	return string(data), nil
}
