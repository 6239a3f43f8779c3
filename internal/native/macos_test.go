package native

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nativecapsule/nativecapsule/internal/manifest"
)

func TestBuildMacOS_BundleShape(t *testing.T) {
	dir := t.TempDir()
	c := writeCapsule(t, dir, "Demo.jar", map[string]string{
		manifest.AttrAppName:    "Demo",
		manifest.AttrAppVersion: "2.1",
	}, nil)
	base := filepath.Join(dir, "Demo")

	artifacts, err := NewPackager(c, base, testOptions(&fakeTool{}, nil)).Run(context.Background(), []string{"macos"})
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	app := artifacts[0].Path
	assert.Equal(t, base+".app", app)

	plist, err := os.ReadFile(filepath.Join(app, "Contents", "Info.plist"))
	require.NoError(t, err)
	assert.Contains(t, string(plist), "<key>CFBundleName</key>\n  <string>Demo</string>")
	assert.Contains(t, string(plist), "<key>CFBundleExecutable</key>\n  <string>Demo</string>")
	assert.NotContains(t, string(plist), "CFBundleIconFile")

	exe := filepath.Join(app, "Contents", "MacOS", "Demo")
	info, err := os.Stat(exe)
	require.NoError(t, err)
	if runtime.GOOS != "windows" {
		assert.NotZero(t, info.Mode().Perm()&0o100, "bundle executable must be owner-executable")
	}

	icons, err := filepath.Glob(filepath.Join(app, "Contents", "Resources", "*.icns"))
	require.NoError(t, err)
	assert.Empty(t, icons)
}

func TestBuildMacOS_Icon(t *testing.T) {
	dir := t.TempDir()
	c := writeCapsule(t, dir, "demo.jar", map[string]string{
		manifest.AttrAppName: "Demo",
		manifest.AttrIcon:    "icons/app",
	}, map[string][]byte{"icons/app.icns": []byte("icns-data")})
	base := filepath.Join(dir, "Demo")

	_, err := NewPackager(c, base, testOptions(&fakeTool{}, nil)).Run(context.Background(), []string{"macos"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(base+".app", "Contents", "Resources", "app.icns"))
	require.NoError(t, err)
	assert.Equal(t, "icns-data", string(data))

	plist, err := os.ReadFile(filepath.Join(base+".app", "Contents", "Info.plist"))
	require.NoError(t, err)
	assert.Contains(t, string(plist), "<key>CFBundleIconFile</key>\n  <string>app</string>")
}

func TestBuildMacOS_MissingIconEntry(t *testing.T) {
	dir := t.TempDir()
	c := writeCapsule(t, dir, "demo.jar", map[string]string{manifest.AttrIcon: "app"}, nil)
	base := filepath.Join(dir, "demo")

	_, err := NewPackager(c, base, testOptions(&fakeTool{}, nil)).Run(context.Background(), []string{"macos"})
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(base+".app", "Contents", "Resources"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// A second build replaces the first bundle entirely.
func TestBuildMacOS_Rebuild(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "out", "Demo")

	first := writeCapsule(t, dir, "demo.jar", map[string]string{
		manifest.AttrAppName: "Demo",
		manifest.AttrIcon:    "app",
	}, map[string][]byte{"app.icns": []byte("icns")})
	_, err := NewPackager(first, base, testOptions(&fakeTool{}, nil)).Run(context.Background(), []string{"macos"})
	require.NoError(t, err)

	stray := filepath.Join(base+".app", "Contents", "stray.txt")
	require.NoError(t, os.WriteFile(stray, []byte("x"), 0o644))

	second := writeCapsule(t, dir, "demo.jar", map[string]string{manifest.AttrAppName: "Demo"}, nil)
	_, err = NewPackager(second, base, testOptions(&fakeTool{}, nil)).Run(context.Background(), []string{"macos"})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(base+".app", "Contents", "Resources", "app.icns"))
	assert.True(t, os.IsNotExist(err), "icon from the first build must be gone")
	_, err = os.Stat(stray)
	assert.True(t, os.IsNotExist(err), "stale files must be gone")
	_, err = os.Stat(filepath.Join(base+".app", "Contents", "MacOS", "demo"))
	assert.NoError(t, err)
}

func TestBundleInfo_ShortVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		legacy  bool
		want    []string
	}{
		{"version", "2.1", false, []string{"2.1"}},
		{"no version", "", false, []string{"1.0"}},
		{"legacy version", "2.1", true, []string{"2.1", "1.0"}},
		{"legacy no version", "", true, []string{"1.0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := manifest.New()
			if tt.version != "" {
				m.Main.Set(manifest.AttrAppVersion, tt.version)
			}
			info := NewBundleInfo(manifest.NewCapsule("demo.jar", m), tt.legacy)
			assert.Equal(t, tt.want, info.ShortVersions)

			data, err := info.Render()
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), strings.Count(string(data), "<key>CFBundleShortVersionString</key>"))
		})
	}
}

func TestBundleInfo_Render(t *testing.T) {
	m := manifest.New()
	m.Main.Set(manifest.AttrAppName, "Tom & Jerry <Deluxe>")
	m.Main.Set(manifest.AttrIcon, "app")
	data, err := NewBundleInfo(manifest.NewCapsule("/apps/tj.jar", m), false).Render()
	require.NoError(t, err)

	want := `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple Computer//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
  <key>CFBundleGetInfoString</key>
  <string>tj</string>
  <key>CFBundleExecutable</key>
  <string>tj</string>
  <key>CFBundleIdentifier</key>
  <string>Tom &amp; Jerry &lt;Deluxe&gt;</string>
  <key>CFBundleName</key>
  <string>Tom &amp; Jerry &lt;Deluxe&gt;</string>
  <key>CFBundleIconFile</key>
  <string>app</string>
  <key>CFBundleShortVersionString</key>
  <string>1.0</string>
  <key>CFBundleInfoDictionaryVersion</key>
  <string>6.0</string>
  <key>CFBundlePackageType</key>
  <string>APPL</string>
  <key>CFBundleSignature</key>
  <string>????</string>
</dict>
</plist>
`
	assert.Equal(t, want, string(data))
}
