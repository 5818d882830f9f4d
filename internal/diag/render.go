package diag

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Reekin/unityhook/internal/bridge"
	"github.com/charmbracelet/lipgloss"
)

// Render writes one line per diagnostic in path:line:col: severity: message
// form, files sorted lexically, diagnostics within a file in source order.
// Severity labels are colorized when w is a capable terminal.
func Render(w io.Writer, set *bridge.DiagnosticSet) {
	if set == nil {
		return
	}

	// Color-profile detection must follow the stream actually written to,
	// not the process stdout.
	styles := newSeverityStyles(lipgloss.NewRenderer(w))

	paths := make([]string, 0, len(set.Files))
	for path := range set.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		for _, d := range set.Files[path] {
			fmt.Fprintf(w, "%s:%d:%d: %s: %s\n",
				path, d.Line, d.Column, styles.label(d.Severity), d.Message)
		}
	}
}

// Summary formats the aggregate counter line printed after the diagnostics.
func Summary(set *bridge.DiagnosticSet) string {
	if set == nil {
		return "0 error(s), 0 warning(s)"
	}
	return fmt.Sprintf("%d error(s), %d warning(s)",
		set.Summary.TotalErrors, set.Summary.TotalWarnings)
}

type severityStyles struct {
	err  lipgloss.Style
	warn lipgloss.Style
	info lipgloss.Style
}

func newSeverityStyles(r *lipgloss.Renderer) severityStyles {
	return severityStyles{
		err:  r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		warn: r.NewStyle().Foreground(lipgloss.Color("11")),
		info: r.NewStyle().Foreground(lipgloss.Color("14")),
	}
}

// label lowercases the severity and styles the known ones. Unknown
// severities pass through unstyled.
func (s severityStyles) label(severity string) string {
	label := strings.ToLower(severity)
	switch label {
	case "error":
		return s.err.Render(label)
	case "warning":
		return s.warn.Render(label)
	case "info":
		return s.info.Render(label)
	default:
		return label
	}
}
