package native

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"testing"
	"testing/fstest"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"

	"github.com/nativecapsule/nativecapsule/internal/manifest"
	"github.com/nativecapsule/nativecapsule/internal/resources"
	"github.com/nativecapsule/nativecapsule/internal/tempreg"
	"github.com/nativecapsule/nativecapsule/internal/wrapper"
)

// writeCapsule creates dir/name with a manifest holding attrs and the given
// extra entries, and returns its capsule view.
func writeCapsule(t *testing.T, dir, name string, attrs map[string]string, entries map[string][]byte) *manifest.Capsule {
	t.Helper()

	m := manifest.New()
	m.Main.Set(manifest.AttrManifestVersion, "1.0")
	m.Main.Set("Main-Class", "Capsule")
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.Main.Set(k, attrs[k])
	}

	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create(manifest.Path)
	require.NoError(t, err)
	_, err = w.Write(m.Encode())
	require.NoError(t, err)

	w, err = zw.Create("Capsule.class")
	require.NoError(t, err)
	_, err = w.Write([]byte{0xCA, 0xFE, 0xBA, 0xBE})
	require.NoError(t, err)

	for entry, data := range entries {
		w, err := zw.Create(entry)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	return manifest.NewCapsule(p, m)
}

// testResources is a resource tree with every file the builders extract.
func testResources() fstest.MapFS {
	tree := fstest.MapFS{
		"bin/linux/ld":                               {Data: []byte("ld")},
		"bin/linux/windres":                          {Data: []byte("windres")},
		"caplets/GUICapsule.class":                   {Data: []byte{0xCA, 0xFE}},
		"caplets/GUIMavenCapsule.class":              {Data: []byte{0xCA, 0xFE}},
		"caplets/capsule/GUIDependencyManager.class": {Data: []byte{0xCA, 0xFE}},
		"caplets/capsule/GUIListener.class":          {Data: []byte{0xCA, 0xFE}},
	}
	for _, f := range resources.LinkFiles {
		tree[path.Join(resources.LinkDir, f)] = &fstest.MapFile{Data: []byte(f)}
	}
	for _, f := range resources.HeadFiles {
		tree[path.Join(resources.HeadDir, f)] = &fstest.MapFile{Data: []byte(f)}
	}
	return tree
}

func testOptions(tool wrapper.Tool, reg *tempreg.Registry) Options {
	return Options{
		JavaCommand: "java",
		Resources:   testResources(),
		Tool:        tool,
		Registry:    reg,
		HostOS:      "linux",
	}
}

// fakeTool records the job it was given instead of running launch4j.
type fakeTool struct {
	reg      *tempreg.Registry
	job      *wrapper.Job
	seen     []string
	iconData []byte
	jarData  []byte
	write    bool
	err      error
}

func (f *fakeTool) Wrap(_ context.Context, job *wrapper.Job) error {
	f.job = job
	if f.reg != nil {
		f.seen = f.reg.Paths()
	}
	if job.Config.Icon != "" {
		f.iconData, _ = os.ReadFile(job.Config.Icon)
	}
	f.jarData, _ = os.ReadFile(job.Config.Jar)
	if f.err != nil {
		return f.err
	}
	if f.write {
		return os.WriteFile(job.Config.Outfile, []byte("MZ"), 0o644)
	}
	return nil
}

// openArtifact opens a possibly prefixed archive.
func openArtifact(t *testing.T, p string) *zip.ReadCloser {
	t.Helper()
	r, err := zip.OpenReader(p)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func readManifest(t *testing.T, r *zip.ReadCloser) *manifest.Manifest {
	t.Helper()
	for _, f := range r.File {
		if f.Name != manifest.Path {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		m, err := manifest.Parse(data)
		require.NoError(t, err)
		return m
	}
	t.Fatalf("no manifest in archive")
	return nil
}

func archiveNames(r *zip.ReadCloser) []string {
	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names
}
