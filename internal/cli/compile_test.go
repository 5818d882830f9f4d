package cli_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/Reekin/unityhook/internal/bridge"
	"github.com/Reekin/unityhook/internal/cli"
	"github.com/Reekin/unityhook/internal/editorlog"
	"github.com/Reekin/unityhook/internal/testutil"
	"github.com/stretchr/testify/require"
)

const sampleEditorLog = `Refreshing native plugins compatible for Editor
EditorCompilation:InvokeCompilationStarted
Starting compile Library/Bee/artifacts/1900b0aE.dag
# Output
Assets/Player.cs(10,5): error CS1002: ; expected

Assets/Enemy.cs(3,9): warning CS0168: variable declared but never used
* Tundra build success (1.08 seconds)
`

// writeEditorLog puts an editor log into a temp dir and returns its path.
func writeEditorLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Editor.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// compileConfig renders a config with the editor block pointing at logPath
// and a negligible settle period.
func compileConfig(t *testing.T, bridgeURL, logPath string) string {
	t.Helper()
	extra := fmt.Sprintf("editor {\n  log_path = %q\n  settle = \"1ms\"\n}\n", logPath)
	return testutil.BridgeConfig(t, bridgeURL, extra)
}

func TestCompile_NoTrigger_Text(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	var calls atomic.Int32
	srv := testutil.BridgeServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})
	logPath := writeEditorLog(t, sampleEditorLog)
	cfgPath := compileConfig(t, srv.URL, logPath)

	// --- Act ---
	res := testutil.RunCLI(t, nil, "--config", cfgPath, "compile", "--no-trigger")

	// --- Assert ---
	require.NoError(t, res.Err)
	require.Zero(t, calls.Load(), "--no-trigger must not contact the bridge")
	require.Contains(t, res.Stdout, "Read 2 compilation log lines.")
	require.Contains(t, res.Stdout, "1. Assets/Player.cs(10,5): error CS1002: ; expected")
	require.Contains(t, res.Stdout, "2. Assets/Enemy.cs(3,9): warning CS0168")
}

func TestCompile_NoTrigger_JSON(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	srv := testutil.BridgeServer(t, func(w http.ResponseWriter, r *http.Request) {})
	logPath := writeEditorLog(t, sampleEditorLog)
	cfgPath := compileConfig(t, srv.URL, logPath)

	// --- Act ---
	res := testutil.RunCLI(t, nil, "--config", cfgPath, "compile", "--no-trigger", "--output", "json")

	// --- Assert ---
	require.NoError(t, res.Err)
	var result editorlog.Result
	require.NoError(t, json.Unmarshal([]byte(res.Stdout), &result))
	require.True(t, result.Success)
	require.Len(t, result.Logs, 2)
}

func TestCompile_TriggersBridge(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	captured := make(chan bridge.Request, 1)
	srv := testutil.BridgeServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req bridge.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		captured <- req
		_ = json.NewEncoder(w).Encode(&bridge.Response{Success: true})
	})
	logPath := writeEditorLog(t, sampleEditorLog)
	cfgPath := compileConfig(t, srv.URL, logPath)

	// --- Act ---
	res := testutil.RunCLI(t, nil, "--config", cfgPath, "compile")

	// --- Assert ---
	require.NoError(t, res.Err)
	req := <-captured
	require.Equal(t, bridge.ActionFilesRefresher, req.Action)
}

func TestCompile_TriggerFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	srv := testutil.BridgeServer(t, func(w http.ResponseWriter, r *http.Request) {})
	logPath := writeEditorLog(t, sampleEditorLog)
	cfgPath := compileConfig(t, srv.URL, logPath)
	srv.Close()

	// --- Act ---
	res := testutil.RunCLI(t, nil, "--config", cfgPath, "compile")

	// --- Assert ---
	require.NoError(t, res.Err, "an unreachable bridge must not prevent reading existing logs")
	require.Contains(t, res.Stdout, "Read 2 compilation log lines.")
}

func TestCompile_InterruptedDuringTrigger(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv := testutil.BridgeServer(t, func(w http.ResponseWriter, r *http.Request) {
		// Interrupt the invocation while the trigger POST is in flight,
		// then hold the connection until the client gives up. The body must
		// be drained first: with unread body bytes the server never starts
		// its background read, so it cannot observe the client disconnect
		// and r.Context() would never be canceled.
		_, _ = io.Copy(io.Discard, r.Body)
		cancel()
		<-r.Context().Done()
	})
	logPath := writeEditorLog(t, sampleEditorLog)
	cfgPath := compileConfig(t, srv.URL, logPath)

	// --- Act ---
	res := testutil.RunCLIContext(t, ctx, nil, "--config", cfgPath, "compile")

	// --- Assert ---
	require.Equal(t, cli.ExitInterrupted, res.ExitCode(t),
		"an interrupt during the trigger must not fall through to the log-reading path")
	require.NotContains(t, res.Stdout, "compilation log lines",
		"no compilation result may be reported after an interrupt")
}

func TestCompile_MissingStartMarker(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	srv := testutil.BridgeServer(t, func(w http.ResponseWriter, r *http.Request) {})
	logPath := writeEditorLog(t, "Refreshing native plugins\nnothing else here\n")
	cfgPath := compileConfig(t, srv.URL, logPath)

	// --- Act ---
	res := testutil.RunCLI(t, nil, "--config", cfgPath, "compile", "--no-trigger")

	// --- Assert ---
	require.Equal(t, cli.ExitFailure, res.ExitCode(t))
	require.Contains(t, res.Stdout, "[COMPILATION FAILED]")
	require.Contains(t, res.Stdout, "marker not found")
}

func TestCompile_MissingEditorLog(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	srv := testutil.BridgeServer(t, func(w http.ResponseWriter, r *http.Request) {})
	logPath := filepath.Join(t.TempDir(), "does-not-exist.log")
	cfgPath := compileConfig(t, srv.URL, logPath)

	// --- Act ---
	res := testutil.RunCLI(t, nil, "--config", cfgPath, "compile", "--no-trigger")

	// --- Assert ---
	require.Equal(t, cli.ExitFailure, res.ExitCode(t))
	require.Contains(t, res.Stdout, "Editor.log not found")
}

func TestCompile_InvalidOutputFormat(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	srv := testutil.BridgeServer(t, func(w http.ResponseWriter, r *http.Request) {})
	logPath := writeEditorLog(t, sampleEditorLog)
	cfgPath := compileConfig(t, srv.URL, logPath)

	// --- Act ---
	res := testutil.RunCLI(t, nil, "--config", cfgPath, "compile", "--output", "yaml")

	// --- Assert ---
	require.Equal(t, cli.ExitFailure, res.ExitCode(t))
	require.Contains(t, res.Err.Error(), "invalid output format")
}
