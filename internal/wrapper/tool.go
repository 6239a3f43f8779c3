package wrapper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	nerrors "github.com/nativecapsule/nativecapsule/internal/errors"
	"github.com/nativecapsule/nativecapsule/internal/output"
)

// Environment variables read by the launch4j launcher script.
const (
	EnvBinDir = "LAUNCH4J_BINDIR"
	EnvTmpDir = "LAUNCH4J_TMPDIR"
)

// ConfigFileName is the name of the configuration written for each job.
const ConfigFileName = "launch4j.xml"

// Job is one wrapping request. BaseDir holds the w32api and head
// directories; BinDir is empty when the helper binaries are on PATH.
type Job struct {
	Config  *Config
	BaseDir string
	BinDir  string
	TmpDir  string
}

// Tool turns a Job into an executable at Job.Config.Outfile.
type Tool interface {
	Wrap(ctx context.Context, job *Job) error
}

// Launch4j runs the launch4j command line tool.
type Launch4j struct {
	Command string
	Timeout time.Duration

	// Stdout and Stderr can be set for testing; output is also captured for
	// error messages.
	Stdout io.Writer
	Stderr io.Writer
}

// Wrap writes the job configuration to the scratch directory and runs the
// tool against it, failing with ErrWrapperTool if the tool errors, times
// out, or produces no output file.
func (l *Launch4j) Wrap(ctx context.Context, job *Job) error {
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	bin, err := exec.LookPath(l.Command)
	if err != nil {
		return nerrors.Wrap(nerrors.ErrWrapperTool, err, "locating %s", l.Command)
	}

	cfgDir := job.TmpDir
	if cfgDir == "" {
		cfgDir = job.BaseDir
	}
	cfgPath := filepath.Join(cfgDir, ConfigFileName)
	if err := job.Config.WriteFile(cfgPath); err != nil {
		return nerrors.Wrap(nerrors.ErrWrapperTool, err, "preparing %s", l.Command)
	}

	cmd := exec.CommandContext(ctx, bin, cfgPath)
	cmd.Dir = job.BaseDir
	cmd.Env = jobEnv(job)
	cmd.WaitDelay = time.Second

	var stderrBuf bytes.Buffer
	cmd.Stdout = writerOr(l.Stdout, io.Discard)
	cmd.Stderr = io.MultiWriter(writerOr(l.Stderr, io.Discard), &stderrBuf)

	output.Debug("Running wrapper tool", "command", bin, "config", cfgPath, "dir", job.BaseDir)
	err = cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return nerrors.Wrap(nerrors.ErrWrapperTool, ctxErr, "%s timed out after %s", l.Command, l.Timeout)
		}
		return nerrors.Wrap(nerrors.ErrWrapperTool, ctxErr, "%s interrupted", l.Command)
	}
	if err != nil {
		msg := strings.TrimSpace(stderrBuf.String())
		if msg == "" {
			return nerrors.Wrap(nerrors.ErrWrapperTool, err, "running %s", l.Command)
		}
		return nerrors.Wrap(nerrors.ErrWrapperTool, err, "running %s: %s", l.Command, msg)
	}

	if _, err := os.Stat(job.Config.Outfile); err != nil {
		return nerrors.Wrap(nerrors.ErrWrapperTool, err, "%s produced no executable", l.Command)
	}
	return nil
}

func jobEnv(job *Job) []string {
	env := os.Environ()
	if job.BinDir != "" {
		env = setEnv(env, EnvBinDir, job.BinDir)
	}
	if job.TmpDir != "" {
		env = setEnv(env, EnvTmpDir, job.TmpDir)
	}
	return env
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}

// String names the tool for logs.
func (l *Launch4j) String() string {
	return fmt.Sprintf("%s (timeout %s)", l.Command, l.Timeout)
}
