package rendering

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/jonathan/resume-optimizer/internal/resume"
	"github.com/jonathan/resume-optimizer/internal/schemas"
)

//go:embed templates/*.tex
var templateFS embed.FS

// Template actions use << >> so LaTeX braces never collide with them.
const (
	leftDelim  = "<<"
	rightDelim = ">>"
)

// RenderLaTeX renders a record normalized for templateID with the built-in
// LaTeX layout for that template.
func RenderLaTeX(templateID string, record *resume.Map) (string, error) {
	if !schemas.Known(templateID) {
		return "", &schemas.UnknownTemplateError{ID: templateID}
	}
	content, err := templateFS.ReadFile("templates/" + templateID + ".tex")
	if err != nil {
		return "", &TemplateError{
			Message: fmt.Sprintf("no layout for %s", templateID),
			Cause:   err,
		}
	}
	tmpl, err := newTemplate(templateID, string(content))
	if err != nil {
		return "", err
	}
	return execute(tmpl, templateID, record)
}

// RenderLaTeXFile renders with a layout read from templatePath instead of the
// built-in one. The layout receives the same View.
func RenderLaTeXFile(templatePath, templateID string, record *resume.Map) (string, error) {
	tmpl, err := parseTemplate(templatePath)
	if err == nil {
		var out string
		if out, err = execute(tmpl, templateID, record); err == nil {
			return out, nil
		}
	}
	return "", &RenderError{
		Message: fmt.Sprintf("failed to render %s with %s", templateID, templatePath),
		Cause:   err,
	}
}

func execute(tmpl *template.Template, templateID string, record *resume.Map) (string, error) {
	view, err := BuildView(templateID, record)
	if err != nil {
		return "", err
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, view); err != nil {
		return "", &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}
	return result.String(), nil
}

// parseTemplate reads and parses a LaTeX template file
func parseTemplate(templatePath string) (*template.Template, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateError{
				Message: fmt.Sprintf("template file not found: %s", templatePath),
				Cause:   err,
			}
		}
		return nil, &TemplateError{
			Message: fmt.Sprintf("failed to read template file: %s", templatePath),
			Cause:   err,
		}
	}
	return newTemplate("resume", string(content))
}

func newTemplate(name, content string) (*template.Template, error) {
	tmpl, err := template.New(name).
		Delims(leftDelim, rightDelim).
		Option("missingkey=error").
		Funcs(template.FuncMap{
			"escape": EscapeLaTeX,
			"lines":  EscapeLines,
		}).
		Parse(content)
	if err != nil {
		return nil, &TemplateError{
			Message: "failed to parse template",
			Cause:   err,
		}
	}
	return tmpl, nil
}
