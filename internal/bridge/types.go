package bridge

import "strings"

// Actions understood by the bridge endpoint.
const (
	ActionRefreshProject = "refresh_project"
	ActionFilesRefresher = "project_files_refresher"
	ActionPing           = "ping"
)

// Request is the body of every bridge call.
type Request struct {
	Action string   `json:"action"`
	Files  []string `json:"files"`
	IsAdd  bool     `json:"is_add"`
}

// Response is the bridge's answer. Diagnostics is nil when the bridge has
// nothing to report for the action.
type Response struct {
	Success     bool           `json:"success"`
	Error       string         `json:"error,omitempty"`
	Diagnostics *DiagnosticSet `json:"diagnostics,omitempty"`
}

// DiagnosticSet groups per-file diagnostics under aggregate counters.
type DiagnosticSet struct {
	Summary Summary                 `json:"summary"`
	Files   map[string][]Diagnostic `json:"diagnostics"`
}

// Summary carries the aggregate counts the exit-code mapping is based on.
type Summary struct {
	TotalErrors   int `json:"totalErrors"`
	TotalWarnings int `json:"totalWarnings"`
}

// Diagnostic is a single compiler message within one file.
type Diagnostic struct {
	Severity string `json:"severity"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Message  string `json:"message"`
}

// IsError reports whether the diagnostic's severity is "error", compared
// case-insensitively.
func (d Diagnostic) IsError() bool {
	return strings.EqualFold(d.Severity, "error")
}

// Clean reports whether the set contains no errors and no warnings.
func (s *DiagnosticSet) Clean() bool {
	return s == nil || (s.Summary.TotalErrors == 0 && s.Summary.TotalWarnings == 0)
}
