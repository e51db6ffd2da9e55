package testutil

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestHeadlessBinaryExitsOnInterrupt(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping binary build in short mode")
	}
	if runtime.GOOS == "windows" {
		t.Skip("skipping: interrupt signals are not deliverable on windows")
	}
	bin := BuildBinary(t)
	logFile := filepath.Join(t.TempDir(), "declui.log")

	cmd := exec.Command(bin, "-platform", "headless", "-clock", "10ms", "-trace", "-log-file", logFile)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	time.Sleep(300 * time.Millisecond)
	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		t.Fatalf("signal: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		if code := ExitCode(err); code != 0 {
			t.Fatalf("expected exit 0, got %d\n%s", code, stderr.String())
		}
	case <-time.After(5 * time.Second):
		_ = cmd.Process.Kill()
		t.Fatalf("binary did not exit after interrupt")
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	for _, want := range []string{"app.start", "app.stop"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("expected %s in the trace log", want)
		}
	}
}

func TestBinaryRejectsUnknownPlatform(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping binary build in short mode")
	}
	bin := BuildBinary(t)
	out, err := exec.Command(bin, "-platform", "wayland").CombinedOutput()
	if code := ExitCode(err); code != 2 {
		t.Fatalf("expected exit 2, got %d\n%s", code, out)
	}
	if !strings.Contains(string(out), "Configuration error") {
		t.Fatalf("expected a configuration error, got %q", out)
	}
}
