// Package hookinput resolves which files a hook invocation is about, either
// from positional arguments or from a JSON payload piped to stdin by the
// invoking tool.
package hookinput

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Payload is the JSON shape tooling pipes to the hook on stdin. Only the
// path-bearing fields matter here; everything else is ignored.
type Payload struct {
	ToolName   string         `json:"tool_name"`
	ToolInput  map[string]any `json:"tool_input"`
	Paths      []string       `json:"paths"`
	WorkingDir string         `json:"working_dir"`
}

// Resolve returns the file paths this invocation refers to. Positional args
// win; otherwise a piped stdin payload is decoded. An interactive stdin with
// no args yields an empty slice.
func Resolve(r io.Reader, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if !isPiped(r) {
		return nil, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}

	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode hook payload: %w", err)
	}
	return payload.Files(), nil
}

// Files collects every path the payload carries, de-duplicated in order of
// first appearance.
func (p *Payload) Files() []string {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if path != "" && !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	if fp, ok := p.ToolInput["file_path"].(string); ok {
		add(fp)
	}
	for _, path := range p.Paths {
		add(path)
	}
	return files
}

// Filter keeps only paths whose extension matches one of exts, compared
// case-insensitively. An empty exts list keeps everything.
func Filter(files []string, exts []string) []string {
	if len(exts) == 0 {
		return files
	}
	var kept []string
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f))
		for _, want := range exts {
			if ext == strings.ToLower(want) {
				kept = append(kept, f)
				break
			}
		}
	}
	return kept
}

// isPiped reports whether the reader carries piped input. Non-file readers
// (test buffers) always count as piped.
func isPiped(r io.Reader) bool {
	if r == nil {
		return false
	}
	f, ok := r.(*os.File)
	if !ok {
		return true
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
