package diag

import "strings"

// Render produces a human-readable rendering of d against source, with a
// caret range under the offending span (spec.md §6/§8). It is deliberately
// minimal: the full diagnostic-rendering subsystem (themes, multi-file
// context, IDE integration) is an external collaborator per spec.md §1;
// this is the small in-scope utility the external renderer would build on.
func Render(d Diagnostic, source string) string {
	var b strings.Builder
	b.WriteString(d.Level.String())
	b.WriteString(": ")
	b.WriteString(d.Message)
	b.WriteByte('\n')

	if d.Span == nil {
		return b.String()
	}

	line := lineAt(source, d.Span.StartLine)
	b.WriteString(line)
	b.WriteByte('\n')

	start := d.Span.StartOffset
	if start < 0 {
		start = 0
	}
	if start > len(line) {
		start = len(line)
	}
	width := d.Span.EndOffset - d.Span.StartOffset
	if d.Span.EndLine != d.Span.StartLine || width < 1 {
		width = 1
	}
	if start+width > len(line) {
		width = len(line) - start
		if width < 1 {
			width = 1
		}
	}
	b.WriteString(strings.Repeat(" ", start))
	b.WriteString(strings.Repeat("^", width))
	return b.String()
}

// lineAt returns the 1-based line's text from source, or "" if out of range.
func lineAt(source string, line int) string {
	if line < 1 {
		return ""
	}
	cur := 1
	for i := 0; i < len(source); i++ {
		if cur == line {
			end := strings.IndexByte(source[i:], '\n')
			if end < 0 {
				return source[i:]
			}
			return source[i : i+end]
		}
		if source[i] == '\n' {
			cur++
		}
	}
	return ""
}
