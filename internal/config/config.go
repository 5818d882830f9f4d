package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// DefaultFileName is looked up in the working directory when no --config
// flag is given.
const DefaultFileName = "unityhook.hcl"

// Defaults for every setting the file may omit.
const (
	DefaultBridgeURL     = "http://localhost:8790/bridge"
	DefaultBridgeTimeout = 10 * time.Second
	DefaultSettle        = 3 * time.Second
)

// Config is the resolved runtime configuration.
type Config struct {
	Bridge BridgeConfig
	Editor EditorConfig
	Hook   HookConfig
}

// BridgeConfig describes how to reach the local bridge service.
type BridgeConfig struct {
	URL     string
	Timeout time.Duration
}

// EditorConfig describes where the Unity editor writes its log and how long
// to wait after triggering a refresh before reading it.
type EditorConfig struct {
	LogPath string
	Settle  time.Duration
}

// HookConfig controls which edited files are worth a bridge round-trip.
type HookConfig struct {
	Extensions []string
}

// fileRoot mirrors the top-level blocks of the HCL file.
type fileRoot struct {
	Bridge *bridgeBlock `hcl:"bridge,block"`
	Editor *editorBlock `hcl:"editor,block"`
	Hook   *hookBlock   `hcl:"hook,block"`
}

type bridgeBlock struct {
	URL     string `hcl:"url,optional"`
	Timeout string `hcl:"timeout,optional"`
}

type editorBlock struct {
	LogPath string `hcl:"log_path,optional"`
	Settle  string `hcl:"settle,optional"`
}

type hookBlock struct {
	Extensions []string `hcl:"extensions,optional"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Bridge: BridgeConfig{URL: DefaultBridgeURL, Timeout: DefaultBridgeTimeout},
		Editor: EditorConfig{Settle: DefaultSettle},
		Hook:   HookConfig{Extensions: []string{".cs"}},
	}
}

// Load reads the configuration file at path. An empty path falls back to
// DefaultFileName in the working directory; if that does not exist either,
// the defaults are returned without error.
func Load(path string) (*Config, error) {
	if path == "" {
		if _, err := os.Stat(DefaultFileName); err != nil {
			return Default(), nil
		}
		path = DefaultFileName
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, evalContext(), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}

	return root.resolve()
}

// resolve merges the decoded blocks over the defaults.
func (r *fileRoot) resolve() (*Config, error) {
	cfg := Default()

	if r.Bridge != nil {
		if r.Bridge.URL != "" {
			cfg.Bridge.URL = r.Bridge.URL
		}
		if r.Bridge.Timeout != "" {
			d, err := time.ParseDuration(r.Bridge.Timeout)
			if err != nil {
				return nil, fmt.Errorf("invalid bridge timeout %q: %w", r.Bridge.Timeout, err)
			}
			cfg.Bridge.Timeout = d
		}
	}

	if r.Editor != nil {
		if r.Editor.LogPath != "" {
			cfg.Editor.LogPath = r.Editor.LogPath
		}
		if r.Editor.Settle != "" {
			d, err := time.ParseDuration(r.Editor.Settle)
			if err != nil {
				return nil, fmt.Errorf("invalid editor settle %q: %w", r.Editor.Settle, err)
			}
			cfg.Editor.Settle = d
		}
	}

	if r.Hook != nil && len(r.Hook.Extensions) > 0 {
		cfg.Hook.Extensions = r.Hook.Extensions
	}

	return cfg, nil
}

// evalContext exposes the process environment as env.<NAME>, so a config
// can write url = env.UNITY_BRIDGE_URL.
func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}
