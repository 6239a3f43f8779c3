//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/klauspost/compress/zip"

	"github.com/nativecapsule/nativecapsule/internal/manifest"
	"github.com/nativecapsule/nativecapsule/internal/resources"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir string // NATIVECAPSULE_HOME, holds config.yaml
	WorkDir string // capsules and artifacts
	ToolDir string // fake launch4j
	ResDir  string // resource tree standing in for resources.dir
}

// setupTestEnv creates isolated temp directories and points the config
// home at one of them. The env vars are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir: t.TempDir(),
		WorkDir: t.TempDir(),
		ToolDir: t.TempDir(),
		ResDir:  t.TempDir(),
	}
	t.Setenv("NATIVECAPSULE_HOME", env.HomeDir)
	return env
}

// writeFakeLaunch4j installs a shell script that checks its environment the
// way launch4jc would and writes a stub executable to the configured outfile.
func writeFakeLaunch4j(t *testing.T, env *testEnv) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake launch4j is a shell script")
	}

	script := `#!/bin/sh
set -e
cfg="$1"
test -f "$cfg"
test -d w32api
test -f head/guihead.o
test -d "$LAUNCH4J_TMPDIR"
out=$(sed -n 's:.*<outfile>\(.*\)</outfile>.*:\1:p' "$cfg")
printf 'MZ' > "$out"
`
	path := filepath.Join(env.ToolDir, "launch4jc")
	writeFile(t, path, script)
	if err := os.Chmod(path, 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeResources fills env.ResDir with every file a build copies from the
// resource tree, for the host and the other families.
func writeResources(t *testing.T, env *testEnv) string {
	t.Helper()
	files := []string{
		"bin/linux/ld", "bin/linux/windres",
		"bin/mac/ld", "bin/mac/windres",
		"bin/windows/ld.exe", "bin/windows/windres.exe",
	}
	for _, f := range resources.LinkFiles {
		files = append(files, filepath.Join(resources.LinkDir, f))
	}
	for _, f := range resources.HeadFiles {
		files = append(files, filepath.Join(resources.HeadDir, f))
	}
	files = append(files, resources.CapletClasses...)
	for _, f := range files {
		writeFile(t, filepath.Join(env.ResDir, filepath.FromSlash(f)), "resource "+f)
	}
	return env.ResDir
}

// writeCapsule creates a capsule archive with the given attributes and
// entries.
func writeCapsule(t *testing.T, dir, name string, attrs map[string]string, entries map[string]string) string {
	t.Helper()

	m := manifest.New()
	m.Main.Set(manifest.AttrManifestVersion, "1.0")
	m.Main.Set("Main-Class", "Capsule")
	for k, v := range attrs {
		m.Main.Set(k, v)
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create(manifest.Path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(m.Encode()); err != nil {
		t.Fatal(err)
	}
	for entry, content := range entries {
		w, err := zw.Create(entry)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s", path)
	}
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected path to be removed: %s", path)
	}
}

func assertExecutable(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	if info.Mode().Perm()&0o100 == 0 {
		t.Errorf("%s is not owner-executable (%v)", path, info.Mode())
	}
}
