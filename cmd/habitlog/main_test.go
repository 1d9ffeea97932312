package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testServerTimeout = 15 * time.Second

// buildBinary uses HABITLOG_BIN when set and otherwise builds the CLI into a
// temp directory.
func buildBinary(t *testing.T) string {
	t.Helper()
	if bin := os.Getenv("HABITLOG_BIN"); bin != "" {
		return bin
	}
	bin := filepath.Join(t.TempDir(), "habitlog")
	build := exec.Command("go", "build", "-o", bin, ".")
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("failed to build CLI: %v\nOutput: %s", err, out)
	}
	return bin
}

// isolatedEnv points HOME at tempDir and drops every HABITLOG_ variable.
func isolatedEnv(tempDir string) []string {
	var env []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "HOME=") || strings.HasPrefix(e, "XDG_CONFIG_HOME=") || strings.HasPrefix(e, "HABITLOG_") {
			continue
		}
		env = append(env, e)
	}
	return append(env,
		"HOME="+tempDir,
		"XDG_CONFIG_HOME="+tempDir,
		"HABITLOG_CONFIG="+filepath.Join(tempDir, "habitlog", "habitlog.db"),
	)
}

func runCmd(t *testing.T, path string, env []string, stdin string, args ...string) string {
	t.Helper()
	cmd := exec.Command(path, args...)
	cmd.Env = env
	cmd.Stdin = strings.NewReader(stdin)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("command %v failed: %v\nOutput: %s", args, err, out)
	}
	return string(out)
}

func expectOutput(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestEndToEndWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("builds and runs the CLI binary")
	}
	cliPath := buildBinary(t)
	tempDir := t.TempDir()
	env := isolatedEnv(tempDir)

	t.Log("Initializing storage...")
	expectOutput(t, runCmd(t, cliPath, env, "", "init"), "Initialized habitlog storage")

	t.Log("Tracking habits...")
	runCmd(t, cliPath, env, "", "habit", "add", "Read")
	runCmd(t, cliPath, env, "", "habit", "add", "Stretch")
	expectOutput(t, runCmd(t, cliPath, env, "", "habit", "mark", "read"), `Marked habit "Read"`)
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	runCmd(t, cliPath, env, "", "habit", "mark", "Read", "--date", yesterday)
	expectOutput(t, runCmd(t, cliPath, env, "", "habit", "streak", "Read"), "current streak 2 days")
	runCmd(t, cliPath, env, "", "habit", "reorder", "Stretch", "1")
	out := runCmd(t, cliPath, env, "", "habit", "list")
	if strings.Index(out, "Stretch") > strings.Index(out, "Read") {
		t.Errorf("expected Stretch to be listed first:\n%s", out)
	}

	t.Log("Writing notes...")
	expectOutput(t, runCmd(t, cliPath, env, "", "note", "add", "groceries\n[] milk\n[] eggs"), "Added note")
	expectOutput(t, runCmd(t, cliPath, env, "", "note", "list"), "[0/2]")
	expectOutput(t, runCmd(t, cliPath, env, "", "note", "search", "grocer"), "groceries")
	expectOutput(t, runCmd(t, cliPath, env, "**bold** <i>", "note", "render", "-"), "<strong>bold</strong> &lt;i&gt;")

	t.Log("Maintaining the database...")
	expectOutput(t, runCmd(t, cliPath, env, "", "backup", "create"), "Backup created")
	expectOutput(t, runCmd(t, cliPath, env, "", "doctor"), "All diagnostics passed")
	runCmd(t, cliPath, env, "y\n", "habit", "delete", "Stretch")
	if out := runCmd(t, cliPath, env, "", "habit", "list"); strings.Contains(out, "Stretch") {
		t.Errorf("deleted habit still listed:\n%s", out)
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find a free port: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func waitForHealthy(t *testing.T, url string, timeout time.Duration) {
	t.Helper()
	start := time.Now()
	for {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		if time.Since(start) > timeout {
			t.Fatalf("timed out waiting for %s", url)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func TestServeLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("builds and runs the CLI binary")
	}
	cliPath := buildBinary(t)
	tempDir := t.TempDir()
	env := isolatedEnv(tempDir)
	runCmd(t, cliPath, env, "", "init")

	port := freePort(t)
	env = append(env,
		"HABITLOG_SERVER_HOST=127.0.0.1",
		fmt.Sprintf("HABITLOG_SERVER_PORT=%d", port),
		"HABITLOG_AUTH_CLIENT_ID=test-client",
		"HABITLOG_AUTH_CLIENT_SECRET=test-secret",
		fmt.Sprintf("HABITLOG_AUTH_REDIRECT_URL=http://127.0.0.1:%d/auth/callback", port),
		"HABITLOG_TIMEZONE=UTC",
	)

	serve := exec.Command(cliPath, "serve")
	serve.Env = env
	var output strings.Builder
	serve.Stdout = &output
	serve.Stderr = &output
	if err := serve.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}
	t.Cleanup(func() {
		if serve.ProcessState == nil {
			_ = serve.Process.Kill()
		}
	})

	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	waitForHealthy(t, base+"/healthz", testServerTimeout)

	resp, err := http.Get(base + "/api/v1/habits")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated request returned %d, want 401", resp.StatusCode)
	}

	if err := serve.Process.Signal(os.Interrupt); err != nil {
		t.Fatalf("failed to interrupt server: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- serve.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("server exited with error: %v\nOutput: %s", err, output.String())
		}
	case <-time.After(testServerTimeout):
		t.Fatalf("server did not shut down\nOutput: %s", output.String())
	}
}
