package native

import (
	"bytes"
	"encoding/xml"
	"os"
	"path"
	"path/filepath"
	"text/template"

	nerrors "github.com/nativecapsule/nativecapsule/internal/errors"
	"github.com/nativecapsule/nativecapsule/internal/jar"
	"github.com/nativecapsule/nativecapsule/internal/manifest"
	"github.com/nativecapsule/nativecapsule/internal/output"
	"github.com/nativecapsule/nativecapsule/internal/platform"
)

// defaultShortVersion is written when the capsule declares no version.
const defaultShortVersion = "1.0"

var plistTemplate = template.Must(template.New("Info.plist").Funcs(template.FuncMap{
	"xml": xmlEscape,
}).Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple Computer//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
  <key>CFBundleGetInfoString</key>
  <string>{{xml .Info}}</string>
  <key>CFBundleExecutable</key>
  <string>{{xml .Executable}}</string>
  <key>CFBundleIdentifier</key>
  <string>{{xml .Identifier}}</string>
  <key>CFBundleName</key>
  <string>{{xml .Name}}</string>
{{- if .IconFile}}
  <key>CFBundleIconFile</key>
  <string>{{xml .IconFile}}</string>
{{- end}}
{{- range .ShortVersions}}
  <key>CFBundleShortVersionString</key>
  <string>{{xml .}}</string>
{{- end}}
  <key>CFBundleInfoDictionaryVersion</key>
  <string>6.0</string>
  <key>CFBundlePackageType</key>
  <string>APPL</string>
  <key>CFBundleSignature</key>
  <string>????</string>
</dict>
</plist>
`))

// BundleInfo is the content of a bundle's Info.plist.
type BundleInfo struct {
	Info          string
	Executable    string
	Identifier    string
	Name          string
	IconFile      string
	ShortVersions []string
}

// NewBundleInfo describes the bundle for c. With legacy set, the app version
// (if any) is followed by a second, literal 1.0 short version.
func NewBundleInfo(c *manifest.Capsule, legacy bool) BundleInfo {
	info := BundleInfo{
		Info:       c.SimpleName(),
		Executable: c.SimpleName(),
		Identifier: c.AppName(),
		Name:       c.AppName(),
	}
	if icon := c.Attr(manifest.AttrIcon); icon != "" {
		info.IconFile = path.Base(icon)
	}

	version := c.AppVersion()
	switch {
	case legacy && version != "":
		info.ShortVersions = []string{version, defaultShortVersion}
	case version != "":
		info.ShortVersions = []string{version}
	default:
		info.ShortVersions = []string{defaultShortVersion}
	}
	return info
}

// Render produces the Info.plist document.
func (i BundleInfo) Render() ([]byte, error) {
	var buf bytes.Buffer
	if err := plistTemplate.Execute(&buf, i); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func xmlEscape(s string) (string, error) {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (b *builder) buildMacOS(base string) (string, error) {
	out := platform.WithSuffix(base, ".app")
	log := output.PlatformLogger("macos")
	log.Debug("Building native Mac OS X app", "path", out)

	if err := os.RemoveAll(out); err != nil {
		return "", nerrors.Wrap(nerrors.ErrArchiveIO, err, "removing previous bundle %s", out)
	}

	contents := filepath.Join(out, "Contents")
	resourcesDir := filepath.Join(contents, "Resources")
	macosDir := filepath.Join(contents, "MacOS")
	for _, dir := range []string{resourcesDir, macosDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", nerrors.Wrap(nerrors.ErrArchiveIO, err, "creating %s", dir)
		}
	}

	plist, err := NewBundleInfo(b.capsule, b.opts.LegacyShortVersion).Render()
	if err != nil {
		return "", nerrors.Wrap(nerrors.ErrArchiveIO, err, "rendering Info.plist")
	}
	if err := os.WriteFile(filepath.Join(contents, "Info.plist"), plist, 0o644); err != nil {
		return "", nerrors.Wrap(nerrors.ErrArchiveIO, err, "writing Info.plist")
	}

	exe := filepath.Join(macosDir, b.capsule.SimpleName())
	copyIcon := func(j *jar.Jar) error {
		name, data, err := readIcon(j, b.capsule, ".icns")
		if err != nil || name == "" {
			return err
		}
		if data == nil {
			log.Info("Icon resource can't be opened, omitting", "icon", name)
			return nil
		}
		iconOut := filepath.Join(resourcesDir, path.Base(name))
		log.Debug("Copying icon resource", "path", iconOut)
		if err := os.WriteFile(iconOut, data, 0o644); err != nil {
			return nerrors.Wrap(nerrors.ErrArchiveIO, err, "writing icon %s", iconOut)
		}
		return nil
	}
	if err := b.writeExecutableJar(exe, copyIcon); err != nil {
		return "", err
	}

	log.Debug("Mac OS X native app build complete")
	return out, nil
}
