package wrapper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	nerrors "github.com/nativecapsule/nativecapsule/internal/errors"
)

// writeFakeTool writes a shell script standing in for launch4jc.
func writeFakeTool(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake wrapper tool is a shell script")
	}
	path := filepath.Join(t.TempDir(), "launch4jc")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func newJob(t *testing.T) *Job {
	t.Helper()
	base := t.TempDir()
	cfg := NewConfig()
	cfg.Jar = filepath.Join(base, "demo.jar")
	cfg.Outfile = filepath.Join(base, "demo.exe")
	return &Job{
		Config:  cfg,
		BaseDir: base,
		BinDir:  filepath.Join(base, "bin"),
		TmpDir:  t.TempDir(),
	}
}

func TestLaunch4j_Wrap(t *testing.T) {
	job := newJob(t)
	tool := writeFakeTool(t, `
grep -q "<outfile>" "$1" || exit 3
echo "$LAUNCH4J_BINDIR" > "$LAUNCH4J_TMPDIR/bindir"
pwd > "$LAUNCH4J_TMPDIR/cwd"
echo exe > "`+job.Config.Outfile+`"`)

	l := &Launch4j{Command: tool, Timeout: 10 * time.Second}
	if err := l.Wrap(context.Background(), job); err != nil {
		t.Fatalf("Wrap: %v", err)
	}

	if _, err := os.Stat(filepath.Join(job.TmpDir, ConfigFileName)); err != nil {
		t.Errorf("config not written to scratch dir: %v", err)
	}
	bindir, err := os.ReadFile(filepath.Join(job.TmpDir, "bindir"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(bindir)) != job.BinDir {
		t.Errorf("%s = %q, want %q", EnvBinDir, bindir, job.BinDir)
	}
	cwd, err := os.ReadFile(filepath.Join(job.TmpDir, "cwd"))
	if err != nil {
		t.Fatal(err)
	}
	wantDir, _ := filepath.EvalSymlinks(job.BaseDir)
	gotDir, _ := filepath.EvalSymlinks(strings.TrimSpace(string(cwd)))
	if gotDir != wantDir {
		t.Errorf("working dir = %q, want %q", gotDir, wantDir)
	}
}

func TestLaunch4j_ToolFailure(t *testing.T) {
	job := newJob(t)
	tool := writeFakeTool(t, `echo "launch4j: Specify runtime path or min version" >&2; exit 1`)

	err := (&Launch4j{Command: tool}).Wrap(context.Background(), job)
	if !errors.Is(err, nerrors.ErrWrapperTool) {
		t.Fatalf("err = %v, want ErrWrapperTool", err)
	}
	if !strings.Contains(err.Error(), "Specify runtime path") {
		t.Errorf("error should carry tool stderr: %v", err)
	}
}

func TestLaunch4j_NoOutput(t *testing.T) {
	job := newJob(t)
	tool := writeFakeTool(t, `exit 0`)

	err := (&Launch4j{Command: tool}).Wrap(context.Background(), job)
	if !errors.Is(err, nerrors.ErrWrapperTool) {
		t.Errorf("err = %v, want ErrWrapperTool", err)
	}
}

func TestLaunch4j_Timeout(t *testing.T) {
	job := newJob(t)
	tool := writeFakeTool(t, `exec sleep 10`)

	start := time.Now()
	err := (&Launch4j{Command: tool, Timeout: 200 * time.Millisecond}).Wrap(context.Background(), job)
	if !errors.Is(err, nerrors.ErrWrapperTool) {
		t.Fatalf("err = %v, want ErrWrapperTool", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Wrap took %v, timeout not enforced", elapsed)
	}
}

func TestLaunch4j_MissingCommand(t *testing.T) {
	job := newJob(t)
	err := (&Launch4j{Command: "definitely-not-a-real-launch4jc"}).Wrap(context.Background(), job)
	if !errors.Is(err, nerrors.ErrWrapperTool) {
		t.Errorf("err = %v, want ErrWrapperTool", err)
	}
}

func TestSetEnv(t *testing.T) {
	env := []string{"A=1", "B=2"}
	env = setEnv(env, "A", "3")
	env = setEnv(env, "C", "4")
	if strings.Join(env, ",") != "A=3,B=2,C=4" {
		t.Errorf("env = %v", env)
	}
}
