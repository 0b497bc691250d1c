// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/ingestion"
	"github.com/jonathan/resume-optimizer/internal/pipeline"
	"github.com/jonathan/resume-optimizer/internal/resume"
	"github.com/jonathan/resume-optimizer/internal/scoring"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len([]rune(line)) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintScore outputs each stage of a score computation.
func (p *Printer) PrintScore(res *scoring.Result) {
	if res == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Mode:            %s\n", res.Mode)
	fmt.Fprintf(&sb, "Base similarity: %.4f", res.Base)
	if res.Fallback {
		sb.WriteString(" (whole document)")
	}
	sb.WriteString("\n")

	if res.Domain != "" {
		fmt.Fprintf(&sb, "Domain:          %s\n", res.Domain)
		matched := "none"
		if len(res.Matched) > 0 {
			matched = strings.Join(res.Matched, ", ")
		}
		fmt.Fprintf(&sb, "Matched:         %s\n", matched)
	} else {
		sb.WriteString("Domain:          none detected\n")
	}
	fmt.Fprintf(&sb, "Keyword boost:   %.2f\n", res.Boost)
	fmt.Fprintf(&sb, "Combined:        %.2f\n", res.Combined)
	fmt.Fprintf(&sb, "Compressed:      %.2f\n", res.Compressed)
	fmt.Fprintf(&sb, "Score:           %.2f", res.Score)
	if res.Adjusted {
		sb.WriteString(" (display adjusted)")
	}

	p.printBox("MATCH SCORE", sb.String())
}

// PrintSuggestions outputs the improvement suggestions.
func (p *Printer) PrintSuggestions(suggestions string) {
	suggestions = strings.TrimSpace(suggestions)
	if suggestions == "" {
		return
	}
	p.printBox("SUGGESTIONS", suggestions)
}

// PrintRecord outputs a short summary of a resume record: its name, the size
// of each list section and the first skills.
func (p *Printer) PrintRecord(title string, record *resume.Map) {
	if record == nil || record.Len() == 0 {
		return
	}

	var sb strings.Builder
	if name := record.Text("name"); name != "" {
		fmt.Fprintf(&sb, "Name: %s\n\n", name)
	}

	for _, key := range record.Keys() {
		v, _ := record.Get(key)
		switch val := v.(type) {
		case []any:
			fmt.Fprintf(&sb, "%-16s %d entries\n", key+":", len(val))
		case *resume.Map:
			fmt.Fprintf(&sb, "%-16s %d fields\n", key+":", val.Len())
		}
	}

	if skills := skillNames(record); len(skills) > 0 {
		sb.WriteString("\nSkills:\n")
		count := min(len(skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			fmt.Fprintf(&sb, "  • %s\n", skills[i])
		}
		if len(skills) > maxItemsToShow {
			fmt.Fprintf(&sb, "  ... and %d more\n", len(skills)-maxItemsToShow)
		}
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

func skillNames(record *resume.Map) []string {
	v, ok := record.Get("skills")
	if !ok {
		return nil
	}
	var names []string
	var walk func(any)
	walk = func(v any) {
		switch val := v.(type) {
		case *resume.Map:
			for _, k := range val.Keys() {
				inner, _ := val.Get(k)
				walk(inner)
			}
		case []any:
			for _, item := range val {
				walk(item)
			}
		default:
			if s := resume.Text(val); s != "" {
				names = append(names, s)
			}
		}
	}
	walk(v)
	return names
}

// PrintDocument outputs what was read from an input document.
func (p *Printer) PrintDocument(title string, meta *ingestion.Metadata) {
	if meta == nil {
		return
	}
	hash := meta.Hash
	if len(hash) > 16 {
		hash = hash[:16]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "File:       %s (%s)\n", meta.Filename, meta.Format)
	fmt.Fprintf(&sb, "Bytes:      %d\n", meta.Bytes)
	fmt.Fprintf(&sb, "Characters: %d\n", meta.Characters)
	fmt.Fprintf(&sb, "SHA-256:    %s", hash)
	p.printBox(title, sb.String())
}

// PrintEvent outputs one progress line, followed by the document summary for
// ingest events.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintEvent(event pipeline.ProgressEvent) {
	fmt.Fprintf(p.out, "[%s] %s\n", event.Step, event.Message)
	if meta, ok := event.Content.(*ingestion.Metadata); ok {
		p.PrintDocument("DOCUMENT", meta)
	}
}
