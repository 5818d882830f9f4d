package editorlog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Markers the Unity editor writes around a compilation pass. The log is
// append-only, so the most recent pass is found by scanning backwards.
const (
	markerCompilationStarted = "EditorCompilation:InvokeCompilationStarted"
	markerTundra             = "* Tundra"
	markerOutput             = "# Output"
)

// Result describes one parsed compilation pass. The JSON tags match the
// compile command's --output json contract.
type Result struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Logs    []string `json:"compilation_logs"`
}

// ParseFile parses the compilation section of the log file at path.
func ParseFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open editor log: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse scans the log for the most recent compilation pass and extracts the
// compiler output lines between the "# Output" and "* Tundra" markers.
func Parse(r io.Reader) (*Result, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read editor log: %w", err)
	}

	start := lastIndex(lines, markerCompilationStarted, len(lines)-1, -1)
	if start == -1 {
		return &Result{
			Success: false,
			Message: fmt.Sprintf("%s marker not found", markerCompilationStarted),
			Logs:    []string{},
		}, nil
	}

	tundra := lastIndex(lines, markerTundra, len(lines)-1, start)
	if tundra == -1 {
		return &Result{
			Success: false,
			Message: fmt.Sprintf("%s not found after %s", markerTundra, markerCompilationStarted),
			Logs:    []string{},
		}, nil
	}

	output := lastIndex(lines, markerOutput, tundra-1, start)
	if output == -1 {
		// The compiler only emits an output section when it has something
		// to say, so a missing marker means a clean pass.
		return &Result{
			Success: true,
			Message: "No errors found in this compilation.",
			Logs:    []string{},
		}, nil
	}

	logs := []string{}
	for i := output + 1; i < tundra; i++ {
		if line := strings.TrimSpace(lines[i]); line != "" {
			logs = append(logs, line)
		}
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("Read %d compilation log lines.", len(logs)),
		Logs:    logs,
	}, nil
}

// lastIndex returns the highest index in (after, from] whose line contains
// marker, or -1. The scan runs from `from` down to, and excluding, `after`.
func lastIndex(lines []string, marker string, from, after int) int {
	for i := from; i > after; i-- {
		if strings.Contains(lines[i], marker) {
			return i
		}
	}
	return -1
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	// Editor logs can carry very long single lines (full compiler command
	// invocations), far beyond the scanner default.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
