package native

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nativecapsule/nativecapsule/internal/caplet"
	nerrors "github.com/nativecapsule/nativecapsule/internal/errors"
	"github.com/nativecapsule/nativecapsule/internal/manifest"
	"github.com/nativecapsule/nativecapsule/internal/resources"
	"github.com/nativecapsule/nativecapsule/internal/tempreg"
)

func TestBuildUnix_Shebang(t *testing.T) {
	dir := t.TempDir()
	c := writeCapsule(t, dir, "demo.jar", map[string]string{manifest.AttrCaplets: "MavenCapsule"}, nil)
	base := filepath.Join(dir, "demo")

	_, err := NewPackager(c, base, testOptions(&fakeTool{}, nil)).Run(context.Background(), []string{"unix"})
	require.NoError(t, err)

	f, err := os.Open(base)
	require.NoError(t, err)
	defer f.Close()
	sc := bufio.NewScanner(f)
	var lines []string
	for i := 0; i < 3 && sc.Scan(); i++ {
		lines = append(lines, sc.Text())
	}
	require.Len(t, lines, 3)
	assert.Equal(t, "#!/bin/sh", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, `exec java -jar $0 "$@"`, lines[2])

	info, err := os.Stat(base)
	require.NoError(t, err)
	if runtime.GOOS != "windows" {
		assert.NotZero(t, info.Mode().Perm()&0o100, "artifact must be owner-executable")
	}

	m := readManifest(t, openArtifact(t, base))
	assert.Equal(t, []string{"MavenCapsule"}, m.List(manifest.AttrCaplets), "non-GUI builds keep the chain")
}

// Rebuilding from an already prefixed artifact keeps a single header.
func TestBuildUnix_FromPrefixedSource(t *testing.T) {
	dir := t.TempDir()
	c := writeCapsule(t, dir, "demo.jar", nil, nil)
	first := filepath.Join(dir, "first")
	_, err := NewPackager(c, first, testOptions(&fakeTool{}, nil)).Run(context.Background(), []string{"unix"})
	require.NoError(t, err)

	again := manifest.NewCapsule(first, c.Manifest)
	second := filepath.Join(dir, "second")
	_, err = NewPackager(again, second, testOptions(&fakeTool{}, nil)).Run(context.Background(), []string{"unix"})
	require.NoError(t, err)

	data, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "#!/bin/sh"))
}

func TestBuildUnix_GUIRewritesChain(t *testing.T) {
	dir := t.TempDir()
	c := writeCapsule(t, dir, "demo.jar", map[string]string{
		manifest.AttrGUI:     "true",
		manifest.AttrCaplets: "Shield MavenCapsule",
	}, nil)
	base := filepath.Join(dir, "demo")

	_, err := NewPackager(c, base, testOptions(&fakeTool{}, nil)).Run(context.Background(), []string{"linux"})
	require.NoError(t, err)

	r := openArtifact(t, base)
	m := readManifest(t, r)
	assert.Equal(t, []string{"Shield", caplet.GUICapsule, caplet.GUIMavenCapsule}, m.List(manifest.AttrCaplets))
	mainClass, _ := m.Main.Get("Main-Class")
	assert.Equal(t, "Capsule", mainClass, "other attributes survive")

	names := archiveNames(r)
	assert.Contains(t, names, "GUICapsule.class")
	assert.Contains(t, names, "GUIMavenCapsule.class")
	assert.Contains(t, names, "capsule/GUIDependencyManager.class")
	assert.Contains(t, names, "capsule/GUIListener.class")
	assert.Equal(t, manifest.Path, names[0])
}

func TestBuildUnix_GUIConfiguredDependencyManager(t *testing.T) {
	dir := t.TempDir()
	c := writeCapsule(t, dir, "demo.jar", map[string]string{
		manifest.AttrGUI:     "true",
		manifest.AttrCaplets: "com.acme.Resolver",
	}, nil)
	base := filepath.Join(dir, "demo")

	opts := testOptions(&fakeTool{}, nil)
	opts.Caplets = caplet.NewRegistry("com.acme.Resolver")
	_, err := NewPackager(c, base, opts).Run(context.Background(), []string{"unix"})
	require.NoError(t, err)

	m := readManifest(t, openArtifact(t, base))
	assert.Equal(t, []string{caplet.GUICapsule, caplet.GUIMavenCapsule}, m.List(manifest.AttrCaplets))
}

func TestBuildUnix_CustomJavaCommand(t *testing.T) {
	dir := t.TempDir()
	c := writeCapsule(t, dir, "demo.jar", nil, nil)
	base := filepath.Join(dir, "demo")

	opts := testOptions(&fakeTool{}, nil)
	opts.JavaCommand = "/opt/jdk/bin/java"
	_, err := NewPackager(c, base, opts).Run(context.Background(), []string{"unix"})
	require.NoError(t, err)

	data, err := os.ReadFile(base)
	require.NoError(t, err)
	assert.Contains(t, string(data[:64]), `exec /opt/jdk/bin/java -jar $0 "$@"`)
}

// The embedded resources are stand-ins; GUI and Windows builds must refuse
// them before touching any output rather than ship truncated caplet classes
// or headers.
func TestRun_EmbeddedPlaceholdersFail(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]string
		ids   []string
	}{
		{"gui unix", map[string]string{manifest.AttrGUI: "true"}, []string{"unix"}},
		{"gui macos", map[string]string{manifest.AttrGUI: "true"}, []string{"macos"}},
		{"console windows", nil, []string{"windows"}},
		{"unix before windows", nil, []string{"unix", "windows"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			c := writeCapsule(t, dir, "demo.jar", tt.attrs, nil)
			base := filepath.Join(dir, "demo")

			reg := tempreg.New()
			opts := testOptions(&fakeTool{write: true}, reg)
			opts.Resources = resources.Bundled()

			artifacts, err := NewPackager(c, base, opts).Run(context.Background(), tt.ids)
			require.ErrorIs(t, err, nerrors.ErrResourceExtraction)
			assert.Equal(t, nerrors.ExitResourceError, nerrors.ExitCode(err))
			assert.Contains(t, err.Error(), "placeholders")
			assert.Empty(t, artifacts)
			assert.Empty(t, reg.Paths())

			for _, p := range []string{base, base + ".app", base + ".exe"} {
				_, statErr := os.Stat(p)
				assert.True(t, os.IsNotExist(statErr), "%s must not be written", p)
			}
		})
	}

	// Console Unix and macOS builds copy nothing from the resource tree.
	dir := t.TempDir()
	c := writeCapsule(t, dir, "demo.jar", nil, nil)
	opts := testOptions(&fakeTool{}, nil)
	opts.Resources = resources.Bundled()
	_, err := NewPackager(c, filepath.Join(dir, "demo"), opts).Run(context.Background(), []string{"unix", "macos"})
	require.NoError(t, err)
}
