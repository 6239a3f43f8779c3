package native

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/nativecapsule/nativecapsule/internal/branding"
	nerrors "github.com/nativecapsule/nativecapsule/internal/errors"
	"github.com/nativecapsule/nativecapsule/internal/jar"
	"github.com/nativecapsule/nativecapsule/internal/manifest"
	"github.com/nativecapsule/nativecapsule/internal/output"
	"github.com/nativecapsule/nativecapsule/internal/platform"
	"github.com/nativecapsule/nativecapsule/internal/wrapper"
)

// PadVersion appends ".0" components until v has four.
func PadVersion(v string) string {
	for n := len(strings.Split(v, ".")); n < 4; n++ {
		v += ".0"
	}
	return v
}

// WindowsConfig builds the wrapper configuration for c producing out from
// the archive at jarPath.
func WindowsConfig(c *manifest.Capsule, out, jarPath string) *wrapper.Config {
	cfg := wrapper.NewConfig()
	if c.IsGUI() {
		cfg.HeaderType = wrapper.HeaderGUI
	}
	cfg.Outfile = out
	cfg.Jar = jarPath

	cfg.JRE.MinVersion = c.Attr(manifest.AttrMinJavaVersion)
	cfg.JRE.MaxVersion = c.Attr(manifest.AttrJavaVersion)
	if c.Bool(manifest.AttrJDKRequired) {
		cfg.JRE.JDKPreference = wrapper.JDKOnly
	}

	if c.Bool(manifest.AttrSingleInstance) {
		cfg.SingleInstance = &wrapper.SingleInstance{
			MutexName:   c.AppID(),
			WindowTitle: c.AppName(),
		}
	}

	if hasVersionMetadata(c) {
		version := c.AppVersion()
		if version == "" {
			version = "0"
		}
		cfg.VersionInfo = &wrapper.VersionInfo{
			CompanyName:       c.Attr(manifest.AttrImplementationVendor),
			ProductName:       c.AppName(),
			FileVersion:       PadVersion(version),
			TxtFileVersion:    version,
			ProductVersion:    PadVersion(version),
			TxtProductVersion: version,
			FileDescription:   c.Attr(manifest.AttrNativeDescription),
			Copyright:         c.Attr(manifest.AttrCopyright),
			InternalName:      c.Attr(manifest.AttrInternalName),
			OriginalFilename:  filepath.Base(out),
		}
	}
	return cfg
}

func hasVersionMetadata(c *manifest.Capsule) bool {
	for _, name := range []string{
		manifest.AttrImplementationVendor,
		manifest.AttrNativeDescription,
		manifest.AttrCopyright,
		manifest.AttrInternalName,
	} {
		if c.Has(name) {
			return true
		}
	}
	return false
}

func (b *builder) buildWindows(ctx context.Context, base string) (string, error) {
	out, err := filepath.Abs(platform.WithSuffix(base, ".exe"))
	if err != nil {
		return "", nerrors.Wrap(nerrors.ErrArchiveIO, err, "resolving %s", base)
	}
	log := output.PlatformLogger("windows")
	log.Debug("Building native Windows app", "path", out)

	ws, err := b.extractor().Launch4J(b.opts.HostOS)
	if err != nil {
		return "", err
	}
	log.Debug("Extracted launch4j resources", "workspace", ws)

	var tmpJar, icon string
	defer func() {
		for _, p := range []string{tmpJar, icon} {
			if p == "" {
				continue
			}
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				log.Warn("Could not remove temporary file", "path", p, "err", err)
			}
		}
	}()

	jarPath := b.capsule.Path
	if b.capsule.IsGUI() {
		tmpJar, err = b.tempFile("*.jar")
		if err != nil {
			return "", err
		}
		log.Debug("Building intermediate GUI archive", "path", tmpJar)
		if err := b.writeGUIJar(tmpJar); err != nil {
			return "", err
		}
		jarPath = tmpJar
	}
	absJar, err := filepath.Abs(jarPath)
	if err != nil {
		return "", nerrors.Wrap(nerrors.ErrArchiveIO, err, "resolving %s", jarPath)
	}

	cfg := WindowsConfig(b.capsule, out, absJar)

	name, data, err := b.readSourceIcon(".ico")
	if err != nil {
		return "", err
	}
	switch {
	case name != "" && data == nil:
		log.Info("Icon resource can't be opened, omitting", "icon", name)
	case data != nil:
		if icon, err = b.tempFile("*.ico"); err != nil {
			return "", err
		}
		if err := os.WriteFile(icon, data, 0o644); err != nil {
			return "", nerrors.Wrap(nerrors.ErrArchiveIO, err, "writing icon %s", icon)
		}
		log.Debug("Using icon resource", "icon", name, "path", icon)
		cfg.Icon = icon
	}

	job := &wrapper.Job{
		Config:  cfg,
		BaseDir: ws.BaseDir,
		BinDir:  ws.BinDir,
		TmpDir:  ws.TmpDir,
	}
	if err := b.opts.Tool.Wrap(ctx, job); err != nil {
		return "", err
	}

	log.Debug("Windows native app build complete")
	return out, nil
}

// writeGUIJar writes a copy of the capsule with the GUI caplet rewrite.
func (b *builder) writeGUIJar(out string) error {
	j, err := jar.Open(b.capsule.Path)
	if err != nil {
		return err
	}
	defer j.Discard()

	j.SetOutput(out)
	if err := b.makeGUI(j); err != nil {
		return err
	}
	return j.Close()
}

func (b *builder) readSourceIcon(suffix string) (string, []byte, error) {
	if b.capsule.Attr(manifest.AttrIcon) == "" {
		return "", nil, nil
	}
	j, err := jar.Open(b.capsule.Path)
	if err != nil {
		return "", nil, err
	}
	defer j.Discard()
	return readIcon(j, b.capsule, suffix)
}

// tempFile creates an empty temporary file recorded in the run registry.
func (b *builder) tempFile(pattern string) (string, error) {
	f, err := os.CreateTemp("", branding.TempPrefix()+pattern)
	if err != nil {
		return "", nerrors.Wrap(nerrors.ErrArchiveIO, err, "creating temporary file")
	}
	name := f.Name()
	f.Close()
	if _, err := b.reg.Add(name); err != nil {
		return "", nerrors.Wrap(nerrors.ErrArchiveIO, err, "registering %s", name)
	}
	return name, nil
}
