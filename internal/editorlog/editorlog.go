package editorlog

import (
	"fmt"
	"os"
	"path/filepath"
)

// Locate resolves the Editor.log path. An explicit override wins; otherwise
// the path is derived from LOCALAPPDATA, with a WSL fallback under /mnt/c
// when that variable is unset. The file must exist.
func Locate(override string) (string, error) {
	path := override
	if path == "" {
		base := os.Getenv("LOCALAPPDATA")
		if base == "" {
			// WSL sees the Windows profile through the drvfs mount.
			base = filepath.Join("/mnt/c/Users", os.Getenv("USER"), "AppData", "Local")
		}
		path = filepath.Join(base, "Unity", "Editor", "Editor.log")
	}

	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("Unity Editor.log not found at %s", path)
	}
	return path, nil
}
