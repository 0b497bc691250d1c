package rendering

import "strings"

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`^`, `\textasciicircum{}`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
	`<`, `\textless{}`,
	`>`, `\textgreater{}`,
	`•`, `\textbullet{}`,
)

// EscapeLaTeX escapes characters that are special in LaTeX text mode:
// \ { } $ & % # ^ _ ~ < > and the bullet glyph. Other unicode passes through.
func EscapeLaTeX(text string) string {
	if text == "" {
		return ""
	}
	return latexEscaper.Replace(text)
}

// EscapeLines escapes each line and joins them with forced line breaks.
func EscapeLines(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, EscapeLaTeX(l))
		}
	}
	return strings.Join(out, `\\`+"\n")
}
